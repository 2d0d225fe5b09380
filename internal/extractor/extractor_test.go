package extractor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statement-extractor/internal/models"
	apperrors "statement-extractor/pkg/errors"
	"statement-extractor/pkg/logger"
)

const fixturePDF = "testdata/statement.pdf"

func newTestService(t *testing.T) *Service {
	t.Helper()
	cfg := &Config{
		MaxConcurrency: 2,
		Clock:          func() time.Time { return time.Date(2031, time.June, 1, 0, 0, 0, 0, time.UTC) },
	}
	s, err := NewService(DefaultRegistry(cfg), cfg)
	require.NoError(t, err)
	return s.WithLogger(logger.NewDiscardLogger())
}

func requireCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.AsExtractorError(err)
	require.True(t, ok, "expected ExtractorError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func TestNewServiceValidation(t *testing.T) {
	_, err := NewService(nil, nil)
	requireCode(t, err, apperrors.CodeMissingField)

	_, err = NewService(DefaultRegistry(nil), &Config{MaxConcurrency: 0})
	requireCode(t, err, apperrors.CodeInvalidConfig)

	s, err := NewService(DefaultRegistry(nil), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Truist"}, s.Layouts())
	assert.Equal(t, 4, s.Config().MaxConcurrency)
}

func TestExtractFile(t *testing.T) {
	s := newTestService(t)

	result, err := s.ExtractFile(context.Background(), fixturePDF)
	require.NoError(t, err)

	assert.Equal(t, "Truist", result.Layout)
	assert.Equal(t, 6, result.Pages)
	assert.Equal(t, fixturePDF, result.Source)

	stmt := result.Statement
	assert.Equal(t, "1340006375358", stmt.AccountNumber)
	require.NotNil(t, stmt.PeriodStart)
	require.NotNil(t, stmt.PeriodEnd)
	assert.Equal(t, "2025-09-30", stmt.PeriodStart.Format(models.DateLayout))
	assert.Equal(t, "2025-10-31", stmt.PeriodEnd.Format(models.DateLayout))

	require.Len(t, stmt.Transactions, 11)
	summary := stmt.Summary()
	assert.Equal(t, 2, summary.Checks)
	assert.Equal(t, 4, summary.Withdrawals)
	assert.Equal(t, 5, summary.Deposits)
	assert.True(t, summary.Totals[models.CategoryCheck].Total.Equal(decimal.RequireFromString("325.10")))
	assert.True(t, summary.Totals[models.CategoryWithdrawal].Total.Equal(decimal.RequireFromString("3923.45")))
	assert.True(t, summary.Totals[models.CategoryDeposit].Total.Equal(decimal.RequireFromString("6300.00")))

	first := stmt.Transactions[0]
	assert.Equal(t, models.CategoryCheck, first.Category)
	assert.Equal(t, "Check #1042", first.Description)
}

func TestExtractDocumentMatchesFile(t *testing.T) {
	s := newTestService(t)

	data, err := os.ReadFile(fixturePDF)
	require.NoError(t, err)

	fromBytes, err := s.ExtractDocument(context.Background(), "upload.pdf", data)
	require.NoError(t, err)
	fromFile, err := s.ExtractFile(context.Background(), fixturePDF)
	require.NoError(t, err)

	require.Len(t, fromBytes.Statement.Transactions, len(fromFile.Statement.Transactions))
	for i := range fromFile.Statement.Transactions {
		assert.Equal(t, fromFile.Statement.Transactions[i].String(), fromBytes.Statement.Transactions[i].String())
	}
}

func TestExtractPagesErrors(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.ExtractPages(ctx, "empty", nil)
	requireCode(t, err, apperrors.CodeNoPages)

	_, err = s.ExtractPages(ctx, "blank", []string{"", "  \n\t"})
	requireCode(t, err, apperrors.CodeNoPages)

	_, err = s.ExtractPages(ctx, "other", []string{"First National Bank\nStatement of account"})
	requireCode(t, err, apperrors.CodeUnsupportedLayout)
}

func TestExtractPagesCancelled(t *testing.T) {
	s := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ExtractPages(ctx, "cancelled", []string{"Truist"})
	requireCode(t, err, apperrors.CodeCancelled)
}

func TestExtractPagesWithoutTransactionPages(t *testing.T) {
	s := newTestService(t)

	result, err := s.ExtractPages(context.Background(), "summary-only", []string{"Truist Bank\nFor 10/31/2025"})
	require.NoError(t, err)
	assert.Empty(t, result.Statement.Transactions)
	assert.Equal(t, "Truist", result.Statement.BankName)
}

func TestExtractFileErrors(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.ExtractFile(ctx, filepath.Join(t.TempDir(), "missing.pdf"))
	requireCode(t, err, apperrors.CodeFileNotFound)

	garbage := filepath.Join(t.TempDir(), "garbage.pdf")
	require.NoError(t, os.WriteFile(garbage, []byte("this is not a pdf at all"), 0o644))
	_, err = s.ExtractFile(ctx, garbage)
	requireCode(t, err, apperrors.CodeFileCorrupted)

	_, err = s.ExtractDocument(ctx, "upload.pdf", []byte("%PDF-1.4\nnothing else"))
	requireCode(t, err, apperrors.CodeFileCorrupted)
}

func TestDetectFile(t *testing.T) {
	s := newTestService(t)

	name, ok, err := s.DetectFile(context.Background(), fixturePDF)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Truist", name)

	name, ok = s.DetectText("Some Credit Union")
	assert.False(t, ok)
	assert.Empty(t, name)
}

func TestDocumentPages(t *testing.T) {
	err := WithDocument(fixturePDF, func(doc *Document) error {
		assert.Equal(t, 6, doc.NumPages())
		assert.Equal(t, fixturePDF, doc.Source())

		pages, err := doc.Pages()
		require.NoError(t, err)
		require.Len(t, pages, 6)

		lines := strings.Split(pages[1], "\n")
		assert.Equal(t, "ACME WIDGETS LLC", lines[0])
		assert.Contains(t, lines, "10/03 ACME CORP PAYMENT 123.45")
		assert.Contains(t, pages[2], "BUSINESS CHECKING 1340006375358 (continued)")

		first, err := doc.FirstPage()
		require.NoError(t, err)
		assert.Equal(t, pages[0], first)
		return nil
	})
	require.NoError(t, err)
}

func TestWithDocumentRecoversPanics(t *testing.T) {
	err := WithDocument(fixturePDF, func(doc *Document) error {
		panic("broken content stream")
	})
	requireCode(t, err, apperrors.CodeTextExtraction)
}
