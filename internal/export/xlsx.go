package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"gstreport/internal/domain"
)

const (
	summarySheet  = "Summary"
	invoicesSheet = "Invoices"
)

// WriteXLSX writes a workbook with a Summary sheet and an Invoices sheet.
// Amounts are written as numeric cells with a two-decimal format.
func WriteXLSX(out io.Writer, rep *domain.PeriodicReport, invoices []domain.Invoice) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to rename summary sheet: %w", err)
	}
	if _, err := f.NewSheet(invoicesSheet); err != nil {
		return fmt.Errorf("failed to create invoices sheet: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return fmt.Errorf("failed to create number style: %w", err)
	}

	if err := fillSummary(f, rep, money); err != nil {
		return err
	}
	if err := fillInvoices(f, invoices, money); err != nil {
		return err
	}
	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func fillSummary(f *excelize.File, rep *domain.PeriodicReport, money int) error {
	s := rep.Summary
	rows := [][]any{
		{"Return", rep.ReturnName},
		{"Kind", string(rep.Kind)},
		{"Period Start", rep.Period.Start.Format(domain.DateLayout)},
		{"Period End", rep.Period.End.Format(domain.DateLayout)},
		{"Generated At", rep.GeneratedAt.UTC().Format("2006-01-02 15:04:05")},
		{"Status", string(rep.Status)},
		{"Eligible Invoices", rep.EligibleCount},
		{"Not Yet Submitted", rep.PendingCount},
		{"Invoices Counted", s.InvoiceCount},
		{"Total Taxable Value", amount(s.TotalTaxableValue)},
		{"CGST", amount(s.CentralTotal)},
		{"SGST", amount(s.StateTotal)},
		{"IGST", amount(s.IntegratedTotal)},
		{"Total Tax", amount(s.TotalTax)},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to set summary row %d: %w", i+1, err)
		}
	}
	first := len(rows) - 4
	if err := f.SetCellStyle(summarySheet, fmt.Sprintf("B%d", first), fmt.Sprintf("B%d", len(rows)), money); err != nil {
		return fmt.Errorf("failed to style summary amounts: %w", err)
	}
	return f.SetColWidth(summarySheet, "A", "A", 22)
}

func fillInvoices(f *excelize.File, invoices []domain.Invoice, money int) error {
	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(invoicesSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to set invoice header: %w", err)
	}

	for i := range invoices {
		text := invoiceToRow(&invoices[i])
		row := make([]any, len(text))
		for j, v := range text {
			row[j] = v
		}
		tax := invoices[i].Tax
		row[11] = amount(tax.TaxableValue)
		row[13] = amount(tax.CentralTax)
		row[14] = amount(tax.StateTax)
		row[15] = amount(tax.IntegratedTax)
		row[16] = amount(tax.Total())

		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(invoicesSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to set invoice row %d: %w", i+2, err)
		}
	}
	if len(invoices) > 0 {
		last := len(invoices) + 1
		for _, col := range []string{"L", "N", "O", "P", "Q"} {
			if err := f.SetCellStyle(invoicesSheet, col+"2", fmt.Sprintf("%s%d", col, last), money); err != nil {
				return fmt.Errorf("failed to style column %s: %w", col, err)
			}
		}
	}
	return nil
}

// amount converts paise to a float for spreadsheet display only.
func amount(m domain.Money) float64 {
	return m.Decimal().InexactFloat64()
}
