package reporter

import (
	"fmt"
	"io"
	"sort"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"statement-extractor/internal/lender"
	"statement-extractor/internal/models"
)

// generateConsoleReport generates a human-readable console summary
func (rg *ReportGenerator) generateConsoleReport(ts *lender.TaggedStatement, writer io.Writer) error {
	stmt := ts.Statement
	summary := stmt.Summary()

	fmt.Fprintf(writer, "STATEMENT SUMMARY\n")
	fmt.Fprintf(writer, "Bank:         %s\n", stmt.BankName)
	fmt.Fprintf(writer, "Account:      %s\n", orUnknown(stmt.MaskedAccount()))
	fmt.Fprintf(writer, "Period:       %s\n", rg.periodLabel(stmt))
	fmt.Fprintf(writer, "Transactions: %d\n\n", summary.TotalTransactions)

	fmt.Fprintf(writer, "=== TOTALS ===\n")
	labels := map[models.Category]string{
		models.CategoryCheck:      "Checks:",
		models.CategoryWithdrawal: "Withdrawals:",
		models.CategoryDeposit:    "Deposits:",
	}
	for _, c := range models.Categories {
		ct := summary.Totals[c]
		fmt.Fprintf(writer, "%-13s %4d  %s\n", labels[c], ct.Count, rg.display(ct.Total))
	}
	fmt.Fprintf(writer, "%-13s %4s  %s\n", "Net change:", "", rg.display(summary.NetChange()))

	if ts.Tagged {
		fmt.Fprintf(writer, "\n=== LENDER ACTIVITY ===\n")
		rg.printLenderDirection(writer, "Transfers in:", ts.Transfers)
		rg.printLenderDirection(writer, "Payments out:", ts.Payments)
	}

	return nil
}

func (rg *ReportGenerator) printLenderDirection(writer io.Writer, label string, ls lender.LenderSummary) {
	fmt.Fprintf(writer, "%-13s %4d  %s\n", label, ls.Count, rg.display(ls.Total))

	names := make([]string, 0, len(ls.ByLender))
	for name := range ls.ByLender {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		lt := ls.ByLender[name]
		fmt.Fprintf(writer, "  %-20s %4d  %s\n", name, lt.Count, rg.display(lt.Total))
	}
}

func (rg *ReportGenerator) periodLabel(stmt *models.Statement) string {
	start, end := formatDate(stmt.PeriodStart), formatDate(stmt.PeriodEnd)
	switch {
	case start != nil && end != nil:
		return *start + " to " + *end
	case end != nil:
		return "through " + *end
	case start != nil:
		return "from " + *start
	default:
		return "unknown"
	}
}

// display formats an amount in the configured currency, e.g. $1,234.56
func (rg *ReportGenerator) display(d decimal.Decimal) string {
	return money.New(cents(d), rg.config.Currency).Display()
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
