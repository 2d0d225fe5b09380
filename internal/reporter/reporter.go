// Package reporter renders extracted statements for people and programs.
//
// Supported output formats:
//   - CSV: one row per transaction, for spreadsheets and imports
//   - JSON: the statement, its summaries and every transaction
//   - XLSX: a workbook with a Transactions sheet and a Summary sheet
//   - Console: a short human-readable summary for the terminal
//
// Lender columns and the lender summary are included only when the
// statement was tagged with a keywords file.
//
// Example usage:
//
//	generator, err := reporter.NewReportGenerator(reporter.DefaultReportConfig(), nil)
//	if err != nil {
//		return err
//	}
//	err = generator.Generate(tagged, reporter.FormatJSON, os.Stdout)
package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"statement-extractor/internal/lender"
	"statement-extractor/internal/models"
	apperrors "statement-extractor/pkg/errors"
	"statement-extractor/pkg/logger"
)

// OutputFormat represents the supported report output formats
type OutputFormat string

const (
	FormatConsole OutputFormat = "console"
	FormatJSON    OutputFormat = "json"
	FormatCSV     OutputFormat = "csv"
	FormatXLSX    OutputFormat = "xlsx"
)

// LenderMatchSeparator joins several lender names in one CSV cell
const LenderMatchSeparator = "|"

// IsValid checks if the output format is supported
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatConsole, FormatJSON, FormatCSV, FormatXLSX:
		return true
	default:
		return false
	}
}

// Extension returns the file extension for the format, without the dot
func (f OutputFormat) Extension() string {
	if f == FormatConsole {
		return "txt"
	}
	return string(f)
}

// ParseFormats converts names such as "csv,json" into formats. Duplicates
// are dropped and order is kept.
func ParseFormats(names []string) ([]OutputFormat, error) {
	var formats []OutputFormat
	seen := make(map[OutputFormat]bool)
	for _, name := range names {
		for _, part := range strings.Split(name, ",") {
			f := OutputFormat(strings.ToLower(strings.TrimSpace(part)))
			if f == "" {
				continue
			}
			if !f.IsValid() {
				return nil, apperrors.OutputError(apperrors.CodeUnsupportedFormat, string(f), nil)
			}
			if !seen[f] {
				seen[f] = true
				formats = append(formats, f)
			}
		}
	}
	return formats, nil
}

// ReportConfig holds configuration options for report generation
type ReportConfig struct {
	// Formats written by WriteFiles
	Formats []OutputFormat `json:"formats"`

	// Currency is the ISO 4217 code used by the console display
	Currency string `json:"currency"`

	// JSONIndent pretty-prints JSON output
	JSONIndent bool `json:"json_indent"`
}

// DefaultReportConfig returns a default report configuration
func DefaultReportConfig() *ReportConfig {
	return &ReportConfig{
		Formats:    []OutputFormat{FormatCSV, FormatJSON},
		Currency:   "USD",
		JSONIndent: true,
	}
}

// Validate validates the report configuration
func (c *ReportConfig) Validate() error {
	if len(c.Formats) == 0 {
		return fmt.Errorf("at least one output format is required")
	}

	for _, f := range c.Formats {
		if !f.IsValid() {
			return fmt.Errorf("invalid output format: %s", f)
		}
	}

	if len(c.Currency) != 3 {
		return fmt.Errorf("currency must be a three letter ISO code, got %q", c.Currency)
	}

	return nil
}

// ReportGenerator renders tagged statements in the configured formats
type ReportGenerator struct {
	config *ReportConfig
	logger logger.Logger
}

// NewReportGenerator creates a new report generator with the specified configuration
func NewReportGenerator(config *ReportConfig, log logger.Logger) (*ReportGenerator, error) {
	if config == nil {
		config = DefaultReportConfig()
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}

	if err := config.Validate(); err != nil {
		return nil, apperrors.ConfigurationError(
			apperrors.CodeInvalidConfig,
			"report_config",
			config.Formats,
			err,
		).WithSuggestion("Check the output formats and currency settings")
	}

	return &ReportGenerator{
		config: config,
		logger: log.WithComponent("reporter"),
	}, nil
}

// Config returns the generator configuration
func (rg *ReportGenerator) Config() *ReportConfig {
	return rg.config
}

// Generate writes ts in format to writer
func (rg *ReportGenerator) Generate(ts *lender.TaggedStatement, format OutputFormat, writer io.Writer) error {
	if err := validateInputs(ts, writer); err != nil {
		return err
	}

	var err error
	switch format {
	case FormatConsole:
		err = rg.generateConsoleReport(ts, writer)
	case FormatJSON:
		err = rg.generateJSONReport(ts, writer)
	case FormatCSV:
		err = rg.generateCSVReport(ts, writer)
	case FormatXLSX:
		err = rg.generateXLSXReport(ts, writer)
	default:
		return apperrors.OutputError(apperrors.CodeUnsupportedFormat, string(format), nil)
	}

	if err != nil {
		return wrapGenerationError(err, string(format))
	}
	return nil
}

// Period is the statement period in a JSON document
type Period struct {
	Start *string `json:"start"`
	End   *string `json:"end"`
}

// Totals holds per-category sums as fixed two-decimal strings
type Totals struct {
	Checks      string `json:"checks"`
	Withdrawals string `json:"withdrawals"`
	Deposits    string `json:"deposits"`
	NetChange   string `json:"net_change"`
}

// LenderTotal is the count and sum for one lender
type LenderTotal struct {
	Count int    `json:"count"`
	Total string `json:"total"`
}

// LenderDirection summarizes transfers or payments
type LenderDirection struct {
	Count    int                    `json:"count"`
	Total    string                 `json:"total"`
	ByLender map[string]LenderTotal `json:"by_lender"`
}

// LenderSummary is the lender section of a JSON document
type LenderSummary struct {
	Transfers LenderDirection `json:"transfers"`
	Payments  LenderDirection `json:"payments"`
}

// TransactionRecord is one transaction in JSON and CSV output
type TransactionRecord struct {
	Date             string   `json:"date" csv:"date"`
	Description      string   `json:"description" csv:"description"`
	Amount           string   `json:"amount" csv:"amount"`
	TransactionType  string   `json:"transaction_type" csv:"transaction_type"`
	CheckNumber      *int     `json:"check_number" csv:"check_number"`
	LenderMatches    []string `json:"lender_matches,omitempty" csv:"-"`
	IsLenderTransfer *bool    `json:"is_lender_transfer,omitempty" csv:"-"`
	IsLenderPayment  *bool    `json:"is_lender_payment,omitempty" csv:"-"`
}

// taggedRow extends the CSV row with lender columns
type taggedRow struct {
	Date             string `csv:"date"`
	Description      string `csv:"description"`
	Amount           string `csv:"amount"`
	TransactionType  string `csv:"transaction_type"`
	CheckNumber      *int   `csv:"check_number"`
	LenderMatches    string `csv:"lender_matches"`
	IsLenderTransfer bool   `csv:"is_lender_transfer"`
	IsLenderPayment  bool   `csv:"is_lender_payment"`
}

// Document is the JSON representation of an extracted statement
type Document struct {
	BankName        string              `json:"bank_name"`
	AccountNumber   string              `json:"account_number"`
	StatementPeriod Period              `json:"statement_period"`
	Summary         models.Summary      `json:"summary"`
	Totals          Totals              `json:"totals"`
	LenderSummary   *LenderSummary      `json:"lender_summary,omitempty"`
	Transactions    []TransactionRecord `json:"transactions"`
}

// BuildDocument converts a tagged statement into its JSON document
func BuildDocument(ts *lender.TaggedStatement) *Document {
	stmt := ts.Statement
	summary := stmt.Summary()

	doc := &Document{
		BankName:      stmt.BankName,
		AccountNumber: stmt.AccountNumber,
		StatementPeriod: Period{
			Start: formatDate(stmt.PeriodStart),
			End:   formatDate(stmt.PeriodEnd),
		},
		Summary: summary,
		Totals: Totals{
			Checks:      summary.Totals[models.CategoryCheck].Total.StringFixed(2),
			Withdrawals: summary.Totals[models.CategoryWithdrawal].Total.StringFixed(2),
			Deposits:    summary.Totals[models.CategoryDeposit].Total.StringFixed(2),
			NetChange:   summary.NetChange().StringFixed(2),
		},
		Transactions: make([]TransactionRecord, 0, len(ts.Transactions)),
	}

	for _, tt := range ts.Transactions {
		record := newRecord(tt.Transaction)
		if ts.Tagged {
			transfer, payment := tt.IsLenderTransfer(), tt.IsLenderPayment()
			record.LenderMatches = append([]string{}, tt.LenderMatches...)
			record.IsLenderTransfer = &transfer
			record.IsLenderPayment = &payment
		}
		doc.Transactions = append(doc.Transactions, record)
	}

	if ts.Tagged {
		doc.LenderSummary = &LenderSummary{
			Transfers: newLenderDirection(ts.Transfers),
			Payments:  newLenderDirection(ts.Payments),
		}
	}

	return doc
}

func newRecord(t *models.Transaction) TransactionRecord {
	return TransactionRecord{
		Date:            t.Date.Format(models.DateLayout),
		Description:     t.Description,
		Amount:          t.Amount.StringFixed(2),
		TransactionType: t.Category.String(),
		CheckNumber:     t.CheckNumber,
	}
}

func newLenderDirection(ls lender.LenderSummary) LenderDirection {
	dir := LenderDirection{
		Count:    ls.Count,
		Total:    ls.Total.StringFixed(2),
		ByLender: make(map[string]LenderTotal, len(ls.ByLender)),
	}
	for name, lt := range ls.ByLender {
		dir.ByLender[name] = LenderTotal{Count: lt.Count, Total: lt.Total.StringFixed(2)}
	}
	return dir
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(models.DateLayout)
	return &s
}

// generateJSONReport writes the statement document
func (rg *ReportGenerator) generateJSONReport(ts *lender.TaggedStatement, writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	if rg.config.JSONIndent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(BuildDocument(ts))
}

// generateCSVReport writes one row per transaction
func (rg *ReportGenerator) generateCSVReport(ts *lender.TaggedStatement, writer io.Writer) error {
	if !ts.Tagged {
		rows := make([]TransactionRecord, 0, len(ts.Transactions))
		for _, tt := range ts.Transactions {
			rows = append(rows, newRecord(tt.Transaction))
		}
		return gocsv.Marshal(rows, writer)
	}

	rows := make([]taggedRow, 0, len(ts.Transactions))
	for _, tt := range ts.Transactions {
		r := newRecord(tt.Transaction)
		rows = append(rows, taggedRow{
			Date:             r.Date,
			Description:      r.Description,
			Amount:           r.Amount,
			TransactionType:  r.TransactionType,
			CheckNumber:      r.CheckNumber,
			LenderMatches:    strings.Join(tt.LenderMatches, LenderMatchSeparator),
			IsLenderTransfer: tt.IsLenderTransfer(),
			IsLenderPayment:  tt.IsLenderPayment(),
		})
	}
	return gocsv.Marshal(rows, writer)
}

// cents converts a decimal amount to integer minor units
func cents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}
