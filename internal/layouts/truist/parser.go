// Package truist parses Truist business checking statements.
package truist

import (
	"strings"
	"time"

	"statement-extractor/internal/models"
	apperrors "statement-extractor/pkg/errors"
	"statement-extractor/pkg/logger"
)

// BankName is the name reported for statements of this layout
const BankName = "Truist"

// maxRetainedFormatErrors bounds the format errors kept for diagnostics
const maxRetainedFormatErrors = 20

// Parser is the layout strategy for Truist statements
type Parser struct {
	logger logger.Logger
	now    func() time.Time
}

// Option configures a Parser
type Option func(*Parser)

// WithClock sets the clock used when a statement carries no year
func WithClock(now func() time.Time) Option {
	return func(p *Parser) {
		p.now = now
	}
}

// WithLogger sets the parser logger
func WithLogger(l logger.Logger) Option {
	return func(p *Parser) {
		p.logger = l
	}
}

// New creates a Truist parser
func New(opts ...Option) *Parser {
	p := &Parser{now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.GetGlobalLogger()
	}
	p.logger = p.logger.WithComponent("truist")
	return p
}

// Name returns the bank name this layout reports on statements
func (p *Parser) Name() string {
	return BankName
}

// Detect reports whether the first page mentions Truist
func (p *Parser) Detect(firstPage string) bool {
	return strings.Contains(strings.ToLower(firstPage), "truist")
}

// Parse classifies every page, extracts checks, withdrawals and deposits
// from the transaction pages, and returns them sorted with the metadata of
// the first page.
func (p *Parser) Parse(pages []string) (*models.Statement, error) {
	if len(pages) == 0 {
		return nil, apperrors.ExtractionError(apperrors.CodeNoPages, BankName+" statement", nil)
	}

	meta := ExtractMetadata(pages[0], p.now())
	errs := apperrors.NewFormatErrorCollector(maxRetainedFormatErrors)
	lp := newLineParser(meta.Year, errs)

	statement := &models.Statement{
		BankName:      BankName,
		AccountNumber: meta.AccountNumber,
		PeriodStart:   meta.PeriodStart,
		PeriodEnd:     meta.PeriodEnd,
		Transactions:  []*models.Transaction{},
	}

	transactionPages := 0
	for i, isTransactionPage := range ClassifyPages(pages) {
		if !isTransactionPage {
			continue
		}
		transactionPages++

		found := p.parsePage(pages[i], lp)
		p.logger.WithFields(logger.Fields{
			"page":         i + 1,
			"transactions": len(found),
		}).Debug("Parsed transaction page")

		statement.Transactions = append(statement.Transactions, found...)
	}

	statement.SortTransactions()

	if errs.HasErrors() {
		p.logger.WithFields(logger.Fields{
			"skipped_tokens": errs.Count(),
		}).Debug("Skipped rows with unparseable dates or amounts")
	}
	if transactionPages == 0 {
		p.logger.WithField("pages", len(pages)).Warn("No transaction pages found")
	}

	p.logger.WithFields(logger.Fields{
		"year":              meta.Year,
		"transaction_pages": transactionPages,
		"transactions":      len(statement.Transactions),
	}).Info("Parsed statement")

	return statement, nil
}

// parsePage extracts checks, then withdrawals, then deposits from one page
func (p *Parser) parsePage(text string, lp *lineParser) []*models.Transaction {
	found := lp.checks(text)

	m := findMarkers(text)
	if s, ok := locateWithdrawals(text, m); ok {
		found = append(found, lp.rows(s.slice(text), models.CategoryWithdrawal)...)
	}
	if s, ok := locateDeposits(text, m); ok {
		found = append(found, lp.rows(s.slice(text), models.CategoryDeposit)...)
	}

	return found
}
