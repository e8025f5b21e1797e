package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gstreport/internal/csvimport"
	"gstreport/internal/domain"
	"gstreport/internal/export"
	"gstreport/internal/report"
)

func newReportCmd(log *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build a GSTR-1 or GSTR-2 summary from a CSV of invoices",
		Long: `Build a GSTR-1 (outward) or GSTR-2 (inward) summary from a CSV of invoices.

The CSV needs issue_date, supplier_gstin, customer_gstin, taxable_value and rate
columns. Optional columns are invoice_id, supplier_name, customer_name, category,
status and direction. Rows without a status are treated as submitted. Rows without
a direction are classified against --org.`,
		Example: `  # Print the January GSTR-1 summary
  gstctl report --input invoices.csv --org 27AAPFU0939F1ZV --kind gstr1 --period 2024-01

  # Write the Q1 GSTR-2 workbook
  gstctl report --input invoices.csv --org 27AAPFU0939F1ZV --kind gstr2 --period 2024-Q1 --format xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, log)
		},
	}

	cmd.Flags().StringP("input", "i", "", "CSV file of invoices ('-' for stdin)")
	cmd.Flags().String("org", os.Getenv("GSTREPORT_ORG_GSTIN"), "Organisation GSTIN used to classify rows")
	cmd.Flags().String("kind", "gstr1", "Report kind: gstr1 (outward) or gstr2 (inward)")
	cmd.Flags().String("period", "", "Period: YYYY-MM, YYYY-Qn or YYYY-MM-DD..YYYY-MM-DD (default: last month)")
	cmd.Flags().String("format", "text", "Output format: text, csv or xlsx")
	cmd.Flags().StringP("output", "o", "", "Output file for csv/xlsx (default: derived from the report)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runReport(cmd *cobra.Command, log *zap.Logger) error {
	input, _ := cmd.Flags().GetString("input")
	org, _ := cmd.Flags().GetString("org")
	kindStr, _ := cmd.Flags().GetString("kind")
	periodStr, _ := cmd.Flags().GetString("period")
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	kind, err := domain.ParseReportKind(kindStr)
	if err != nil {
		return err
	}
	period, err := reportPeriod(periodStr, time.Now())
	if err != nil {
		return err
	}

	invoices, err := readInvoices(cmd, input, csvimport.Options{OrgGSTIN: org, Calc: calculatorFor(cmd)})
	if err != nil {
		return err
	}

	rep := report.Build(invoices, kind, period, time.Now().UTC())
	log.Info("report built",
		zap.String("kind", string(kind)),
		zap.String("period", period.Label()),
		zap.Int("rows", len(invoices)),
		zap.Int("counted", rep.Summary.InvoiceCount),
	)

	if format == "text" {
		return printSummary(cmd.OutOrStdout(), &rep)
	}

	ef := domain.ExportFormat(format)
	var render func(io.Writer, *domain.PeriodicReport, []domain.Invoice) error
	switch ef {
	case domain.ExportFormatCSV:
		render = export.WriteCSV
	case domain.ExportFormatXLSX:
		render = export.WriteXLSX
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
	}

	counted := make([]domain.Invoice, 0, rep.Summary.InvoiceCount)
	for _, inv := range report.Select(invoices, kind, period) {
		if report.Counts(&inv) {
			counted = append(counted, inv)
		}
	}

	if output == "" {
		output = export.BuildFilename(&rep, ef)
	}
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating %s: %w", output, err)
	}
	if err := render(f, &rep, counted); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", output, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	cmd.Printf("wrote %s (%d invoices)\n", output, len(counted))
	return nil
}

// reportPeriod defaults to the calendar month before now, the month usually being filed.
func reportPeriod(s string, now time.Time) (domain.Period, error) {
	if s == "" {
		return domain.MonthPeriod(now.Year(), now.Month()).Previous(), nil
	}
	return domain.ParsePeriod(s)
}

func readInvoices(cmd *cobra.Command, input string, opts csvimport.Options) ([]domain.Invoice, error) {
	if input == "-" {
		return csvimport.Read(cmd.InOrStdin(), opts)
	}
	f, err := os.Open(input)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	invoices, err := csvimport.Read(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", input, err)
	}
	return invoices, nil
}

func printSummary(w io.Writer, rep *domain.PeriodicReport) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Return\t%s\n", rep.ReturnName)
	fmt.Fprintf(tw, "Period\t%s\n", rep.Period.Label())
	fmt.Fprintf(tw, "Status\t%s\n", rep.Status)
	fmt.Fprintf(tw, "Invoices\t%d counted, %d pending\n", rep.Summary.InvoiceCount, rep.PendingCount)
	fmt.Fprintf(tw, "Taxable value\t%s\n", rep.Summary.TotalTaxableValue)
	fmt.Fprintf(tw, "CGST\t%s\n", rep.Summary.CentralTotal)
	fmt.Fprintf(tw, "SGST\t%s\n", rep.Summary.StateTotal)
	fmt.Fprintf(tw, "IGST\t%s\n", rep.Summary.IntegratedTotal)
	fmt.Fprintf(tw, "Total tax\t%s\n", rep.Summary.TotalTax)
	return tw.Flush()
}
