package reporter

import (
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"statement-extractor/internal/lender"
	"statement-extractor/internal/models"
)

const (
	transactionsSheet = "Transactions"
	summarySheet      = "Summary"
)

// generateXLSXReport writes a workbook with one sheet of transactions and
// one sheet of totals
func (rg *ReportGenerator) generateXLSXReport(ts *lender.TaggedStatement, writer io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", transactionsSheet); err != nil {
		return err
	}
	if err := writeTransactionsSheet(f, ts); err != nil {
		return err
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}
	if err := writeSummarySheet(f, ts); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	return f.Write(writer)
}

func writeTransactionsSheet(f *excelize.File, ts *lender.TaggedStatement) error {
	header := []interface{}{"Date", "Description", "Amount", "Type", "Check Number"}
	if ts.Tagged {
		header = append(header, "Lender Matches", "Lender Transfer", "Lender Payment")
	}
	if err := f.SetSheetRow(transactionsSheet, "A1", &header); err != nil {
		return err
	}

	for i, tt := range ts.Transactions {
		var checkNumber interface{}
		if tt.CheckNumber != nil {
			checkNumber = *tt.CheckNumber
		}

		row := []interface{}{
			tt.Date.Format(models.DateLayout),
			tt.Description,
			tt.Amount.InexactFloat64(),
			tt.Category.String(),
			checkNumber,
		}
		if ts.Tagged {
			row = append(row, strings.Join(tt.LenderMatches, LenderMatchSeparator), tt.IsLenderTransfer(), tt.IsLenderPayment())
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(transactionsSheet, cell, &row); err != nil {
			return err
		}
	}

	return f.SetColWidth(transactionsSheet, "B", "B", 40)
}

func writeSummarySheet(f *excelize.File, ts *lender.TaggedStatement) error {
	stmt := ts.Statement
	summary := stmt.Summary()

	period := func(p *string) interface{} {
		if p == nil {
			return nil
		}
		return *p
	}
	start, end := formatDate(stmt.PeriodStart), formatDate(stmt.PeriodEnd)

	rows := [][]interface{}{
		{"Bank", stmt.BankName},
		{"Account", stmt.MaskedAccount()},
		{"Period Start", period(start)},
		{"Period End", period(end)},
		{"Transactions", summary.TotalTransactions},
		{},
		{"Category", "Count", "Total"},
	}
	for _, c := range models.Categories {
		ct := summary.Totals[c]
		rows = append(rows, []interface{}{c.String(), ct.Count, ct.Total.InexactFloat64()})
	}
	rows = append(rows, []interface{}{"net_change", nil, summary.NetChange().InexactFloat64()})

	if ts.Tagged {
		rows = append(rows,
			[]interface{}{},
			[]interface{}{"Lender Transfers", ts.Transfers.Count, ts.Transfers.Total.InexactFloat64()},
			[]interface{}{"Lender Payments", ts.Payments.Count, ts.Payments.Total.InexactFloat64()},
		)
	}

	for i := range rows {
		if len(rows[i]) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &rows[i]); err != nil {
			return err
		}
	}

	return f.SetColWidth(summarySheet, "A", "A", 18)
}
