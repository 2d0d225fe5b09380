package truist

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statement-extractor/internal/models"
	apperrors "statement-extractor/pkg/errors"
)

func TestRowsRoundTrip(t *testing.T) {
	lp := newLineParser(2025, nil)

	txs := lp.rows("DATE DESCRIPTION AMOUNT\n03/15 ACME CORP PAYMENT  123.45\n", models.CategoryWithdrawal)

	require.Len(t, txs, 1)
	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), txs[0].Date)
	assert.Equal(t, "ACME CORP PAYMENT", txs[0].Description)
	assert.True(t, txs[0].Amount.Equal(decimal.RequireFromString("123.45")))
	assert.Equal(t, models.CategoryWithdrawal, txs[0].Category)
	assert.Nil(t, txs[0].CheckNumber)
}

func TestRowsDropNoise(t *testing.T) {
	errs := apperrors.NewFormatErrorCollector(0)
	lp := newLineParser(2025, errs)

	block := "DATE DESCRIPTION AMOUNT\n" +
		"03/01 PAYROLL DEPOSIT 1,200.00\n" +
		"03/02 ab 5.00\n" +
		"03/03 Deposits (continued) 9.99\n" +
		"Page 2 of 4\n" +
		"03/04 STATEMENT PAGE 2 OF 4 FEE 9.99\n" +
		"DATE CHECK # AMOUNT\n" +
		"02/30 BAD DATE ROW 10.00\n" +
		"03/05 NO AMOUNT HERE\n" +
		"03/06 AMOUNT WITH ONE DECIMAL 10.0\n" +
		"  03/07   PADDED ROW   7.00  \n"

	txs := lp.rows(block, models.CategoryDeposit)

	assert.Equal(t, []string{"PAYROLL DEPOSIT", "PADDED ROW"}, descriptions(txs))
	assert.True(t, txs[0].Amount.Equal(decimal.RequireFromString("1200.00")))
	assert.Equal(t, 1, errs.Count(), "only the invalid calendar date reaches conversion")
}

func TestRowsKeepWordsContainingHeaderTerms(t *testing.T) {
	lp := newLineParser(2025, nil)

	txs := lp.rows("03/09 UPDATED CHECKOUT SYSTEM 19.99\n", models.CategoryWithdrawal)

	assert.Equal(t, []string{"UPDATED CHECKOUT SYSTEM"}, descriptions(txs))
}

func TestRowsMeasureDescriptionInCharacters(t *testing.T) {
	lp := newLineParser(2025, nil)

	assert.Empty(t, lp.rows("03/02 éé 5.00\n", models.CategoryWithdrawal))

	txs := lp.rows("03/02 éé 5.00\n03/03 CAFÉ 6.00\n03/04 ééé 7.00\n", models.CategoryWithdrawal)
	assert.Equal(t, []string{"CAFÉ", "ééé"}, descriptions(txs))
}

func TestRowsAcceptNonBreakingSpaces(t *testing.T) {
	lp := newLineParser(2025, nil)

	txs := lp.rows("03/15\u00a0ACME CORP PAYMENT\u00a0\u00a0123.45\n", models.CategoryWithdrawal)
	require.Len(t, txs, 1)
	assert.Equal(t, "ACME CORP PAYMENT", txs[0].Description)

	checks := lp.checks("Checks\n03/02\u00a0*1042\u00a0250.00\nTotal\u00a0checks\n03/20 1099 5.00\n")
	assert.Equal(t, []string{"Check #1042"}, descriptions(checks))
}

func TestChecks(t *testing.T) {
	lp := newLineParser(2025, nil)

	page := "Checks\nDATE CHECK # AMOUNT\n03/02 *1042  250.00\nTotal checks = $250.00\n"
	txs := lp.checks(page)

	require.Len(t, txs, 1)
	assert.Equal(t, models.CategoryCheck, txs[0].Category)
	assert.Equal(t, "Check #1042", txs[0].Description)
	require.NotNil(t, txs[0].CheckNumber)
	assert.Equal(t, 1042, *txs[0].CheckNumber)
	assert.True(t, txs[0].Amount.Equal(decimal.RequireFromString("250.00")))
	assert.Equal(t, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), txs[0].Date)
}

func TestChecksMultipleColumnsAndTerminators(t *testing.T) {
	lp := newLineParser(2025, nil)

	tests := []struct {
		name string
		page string
		want []string
	}{
		{
			name: "two columns",
			page: "Checks\n03/02 1042 250.00 03/09 *1050 1,075.10\nTotal checks\n03/20 1099 5.00\n",
			want: []string{"Check #1042", "Check #1050"},
		},
		{
			name: "ends at indicates note",
			page: "Checks\n03/02 1042 250.00\n* indicates a skip\n03/20 1099 5.00\n",
			want: []string{"Check #1042"},
		},
		{
			name: "ends at withdrawals header",
			page: "Checks\n03/02 1042 250.00\nOther withdrawals, debits\n03/20 1099 5.00\n",
			want: []string{"Check #1042"},
		},
		{
			name: "bad date skips only that entry",
			page: "Checks\n02/30 1041 10.00 03/02 1042 250.00\nTotal checks\n",
			want: []string{"Check #1042"},
		},
		{
			name: "no checks header",
			page: "Check summary 03/02 1042 250.00\n",
		},
		{
			name: "header without line break",
			page: "Checks - 250.00 03/02 1042 250.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, descriptions(lp.checks(tt.page)))
		})
	}
}
