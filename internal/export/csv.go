// Package export renders periodic reports and their invoices as CSV or XLSX files.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"gstreport/internal/domain"
	"gstreport/internal/gstin"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the invoice header row shared by the CSV and XLSX exports.
var columns = []string{
	"Invoice ID",
	"Issue Date",
	"Supplier GSTIN",
	"Supplier Name",
	"Supplier State",
	"Customer GSTIN",
	"Customer Name",
	"Customer State",
	"Category",
	"Status",
	"Supply Type",
	"Taxable Value",
	"Rate (%)",
	"CGST",
	"SGST",
	"IGST",
	"Total Tax",
	"Revision Of",
}

// Columns returns a copy of the invoice header row.
func Columns() []string {
	return append([]string(nil), columns...)
}

// Writer wraps csv.Writer for exporting invoices as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the invoice header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteInvoices converts a batch of invoices to CSV rows and writes them.
func (w *Writer) WriteInvoices(invoices []domain.Invoice) error {
	for i := range invoices {
		if err := w.csv.Write(invoiceToRow(&invoices[i])); err != nil {
			return err
		}
	}
	return nil
}

// WriteTotals writes a trailing row with the report summary in the amount columns.
func (w *Writer) WriteTotals(s domain.ReportSummary) error {
	return w.csv.Write(totalsRow(s))
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// WriteCSV writes a complete report export: BOM, header, invoice rows and a totals row.
func WriteCSV(out io.Writer, rep *domain.PeriodicReport, invoices []domain.Invoice) error {
	if _, err := out.Write(BOM); err != nil {
		return err
	}
	w := NewWriter(out)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.WriteInvoices(invoices); err != nil {
		return err
	}
	if err := w.WriteTotals(rep.Summary); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func invoiceToRow(inv *domain.Invoice) []string {
	row := make([]string, len(columns))
	row[0] = inv.ID
	row[1] = inv.IssueDate.Format(domain.DateLayout)
	row[2] = inv.SupplierGSTIN
	row[3] = inv.SupplierName
	row[4] = stateOf(inv.SupplierGSTIN)
	row[5] = inv.CustomerGSTIN
	row[6] = inv.CustomerName
	row[7] = stateOf(inv.CustomerGSTIN)
	row[8] = inv.Category
	row[9] = string(inv.Status)
	row[10] = string(inv.Tax.Type)
	row[11] = inv.Tax.TaxableValue.String()
	row[12] = inv.Tax.Rate.String()
	row[13] = inv.Tax.CentralTax.String()
	row[14] = inv.Tax.StateTax.String()
	row[15] = inv.Tax.IntegratedTax.String()
	row[16] = inv.Tax.Total().String()
	if inv.RevisionOf != nil {
		row[17] = *inv.RevisionOf
	}
	return row
}

func totalsRow(s domain.ReportSummary) []string {
	row := make([]string, len(columns))
	row[0] = "TOTAL"
	row[1] = strconv.Itoa(s.InvoiceCount) + " invoices"
	row[11] = s.TotalTaxableValue.String()
	row[13] = s.CentralTotal.String()
	row[14] = s.StateTotal.String()
	row[15] = s.IntegratedTotal.String()
	row[16] = s.TotalTax.String()
	return row
}

func stateOf(id string) string {
	code, ok := gstin.StateCodeOf(id)
	if !ok {
		return ""
	}
	return gstin.StateName(code)
}
