package truist

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statement-extractor/internal/models"
)

var descriptionWords = []string{
	"ACME", "PAYMENT", "SUPPLY", "ONLINE", "TRANSFER", "PAYROLL", "VENDOR",
	"INVOICE", "FUEL", "OFFICE", "UTILITY", "RENT", "CARD", "PURCHASE",
	"REFUND", "CLIENT", "BRANCH", "SERVICES", "WHOLESALE", "LOGISTICS",
}

// StatementGenerator builds synthetic single-table Truist statements and
// the transactions they should parse into
type StatementGenerator struct {
	Seed        int64
	Year        int
	Month       time.Month
	Checks      int
	Withdrawals int
	Deposits    int
	Account     string

	rng *rand.Rand
}

// Generate returns the page texts and the expected, sorted transactions
func (g *StatementGenerator) Generate(t *testing.T) ([]string, []*models.Transaction) {
	t.Helper()
	g.rng = rand.New(rand.NewSource(g.Seed))

	var want []*models.Transaction
	totals := map[models.Category]decimal.Decimal{}

	var checkEntries []string
	number := 1000 + g.rng.Intn(8000)
	for i := 0; i < g.Checks; i++ {
		date, amount := g.date(), g.amount()
		number += 1 + g.rng.Intn(2)
		digits := fmt.Sprintf("%d", number)

		tx, err := models.NewCheck(date, digits, amount)
		require.NoError(t, err)
		want = append(want, tx)
		totals[models.CategoryCheck] = totals[models.CategoryCheck].Add(amount)

		checkEntries = append(checkEntries, fmt.Sprintf("%s %s %s", date.Format("01/02"), digits, formatAmount(amount)))
	}

	withdrawalRows := g.rows(t, g.Withdrawals, models.CategoryWithdrawal, &want, totals)
	depositRows := g.rows(t, g.Deposits, models.CategoryDeposit, &want, totals)

	var b strings.Builder
	b.WriteString("ACME WIDGETS LLC\n")
	b.WriteString("BUSINESS CHECKING " + g.Account + "\n")
	b.WriteString("Checks\n")
	b.WriteString("DATE CHECK # AMOUNT DATE CHECK # AMOUNT\n")
	for i := 0; i < len(checkEntries); i += 2 {
		b.WriteString(strings.Join(checkEntries[i:min(i+2, len(checkEntries))], " "))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Total checks = $%s\n", formatAmount(totals[models.CategoryCheck]))
	b.WriteString("* indicates a skip in sequential check numbers\n")
	b.WriteString("Other withdrawals, debits and service charges\n")
	b.WriteString("DATE DESCRIPTION AMOUNT\n")
	b.WriteString(withdrawalRows)
	fmt.Fprintf(&b, "Total other withdrawals, debits and service charges = $%s\n", formatAmount(totals[models.CategoryWithdrawal]))
	b.WriteString("Deposits, credits and interest\n")
	b.WriteString("DATE DESCRIPTION AMOUNT\n")
	b.WriteString(depositRows)
	fmt.Fprintf(&b, "Total deposits, credits and interest = $%s\n", formatAmount(totals[models.CategoryDeposit]))
	b.WriteString("Page 2 of 2\n")

	end := time.Date(g.Year, g.Month+1, 0, 0, 0, 0, 0, time.UTC)
	summary := fmt.Sprintf(`Truist Bank
P.O. Box 1842
Charlotte, NC 28201
ACME WIDGETS LLC
BUSINESS CHECKING %s
For %s
Account summary
Checks - %s
Other withdrawals, debits and service charges - %s
Deposits, credits and interest + %s
Page 1 of 2
`, g.Account, end.Format("01/02/2006"),
		formatAmount(totals[models.CategoryCheck]),
		formatAmount(totals[models.CategoryWithdrawal]),
		formatAmount(totals[models.CategoryDeposit]))

	sort.SliceStable(want, func(i, j int) bool { return want[i].Less(want[j]) })
	return []string{summary, b.String()}, want
}

func (g *StatementGenerator) rows(t *testing.T, n int, c models.Category, want *[]*models.Transaction, totals map[models.Category]decimal.Decimal) string {
	t.Helper()
	var b strings.Builder
	for i := 0; i < n; i++ {
		date, amount, desc := g.date(), g.amount(), g.description()

		tx, err := models.NewTransaction(date, desc, amount, c)
		require.NoError(t, err)
		*want = append(*want, tx)
		totals[c] = totals[c].Add(amount)

		fmt.Fprintf(&b, "%s %s %s\n", date.Format("01/02"), desc, formatAmount(amount))
	}
	return b.String()
}

func (g *StatementGenerator) date() time.Time {
	return time.Date(g.Year, g.Month, 1+g.rng.Intn(28), 0, 0, 0, 0, time.UTC)
}

// amount returns 0.01 to 99,999.99 with a bias toward small values
func (g *StatementGenerator) amount() decimal.Decimal {
	limit := []int64{1000, 100000, 10000000}[g.rng.Intn(3)]
	return decimal.New(1+g.rng.Int63n(limit-1), -2)
}

func (g *StatementGenerator) description() string {
	words := make([]string, 2+g.rng.Intn(3))
	for i := range words {
		words[i] = descriptionWords[g.rng.Intn(len(descriptionWords))]
	}
	return strings.Join(words, " ")
}

// formatAmount prints 1234.5 as 1,234.50
func formatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)
	whole, frac := s[:len(s)-3], s[len(s)-3:]

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String() + frac
}

func TestFormatAmount(t *testing.T) {
	tests := map[string]string{
		"0.01":     "0.01",
		"999.99":   "999.99",
		"1000":     "1,000.00",
		"12345.6":  "12,345.60",
		"99999.99": "99,999.99",
	}
	for in, want := range tests {
		assert.Equal(t, want, formatAmount(decimal.RequireFromString(in)), in)
	}
}

func TestParseGeneratedStatements(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			g := &StatementGenerator{
				Seed:        seed,
				Year:        2024 + int(seed%3),
				Month:       time.Month(1 + seed%12),
				Checks:      int(seed % 7),
				Withdrawals: 1 + int(seed%11),
				Deposits:    1 + int(seed%5),
				Account:     fmt.Sprintf("13400%08d", seed),
			}
			pages, want := g.Generate(t)

			statement, err := newTestParser().Parse(pages)
			require.NoError(t, err)

			assert.Equal(t, g.Account, statement.AccountNumber)
			require.Len(t, statement.Transactions, len(want))
			for i, w := range want {
				got := statement.Transactions[i]
				assert.True(t, w.Date.Equal(got.Date), "row %d date: want %s got %s", i, w.Date, got.Date)
				assert.Equal(t, w.Category, got.Category, "row %d", i)
				assert.Equal(t, w.Description, got.Description, "row %d", i)
				assert.True(t, w.Amount.Equal(got.Amount), "row %d amount: want %s got %s", i, w.Amount, got.Amount)
				assert.Equal(t, w.CheckNumber, got.CheckNumber, "row %d", i)
			}

			summary := statement.Summary()
			assert.Equal(t, g.Checks, summary.Checks)
			assert.Equal(t, g.Withdrawals, summary.Withdrawals)
			assert.Equal(t, g.Deposits, summary.Deposits)
		})
	}
}
