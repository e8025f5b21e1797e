package export_test

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gstreport/internal/domain"
	"gstreport/internal/export"
	"gstreport/internal/report"
	"gstreport/internal/taxcalc"
)

func fixture(t *testing.T) (*domain.PeriodicReport, []domain.Invoice) {
	t.Helper()
	intra, err := taxcalc.ComputeSplit("27AABCU9603R1ZX", "27AABCU9603R1ZY", domain.Rupees(25000), domain.NewRate(9, 0))
	require.NoError(t, err)
	inter, err := taxcalc.ComputeSplit("27AABCU9603R1ZX", "07AABCU9603R1ZZ", domain.Paise(1000050), domain.NewRate(18, 0))
	require.NoError(t, err)

	orig := "INV-2024-0001"
	invs := []domain.Invoice{
		{ID: "INV-2024-0002", IssueDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			SupplierGSTIN: "27AABCU9603R1ZX", SupplierName: "Our Co", CustomerGSTIN: "27AABCU9603R1ZY",
			CustomerName: "Tech Solutions, Pvt Ltd", Tax: intra, Status: domain.InvoiceStatusSubmitted,
			Category: "services", Direction: domain.DirectionOutward, RevisionOf: &orig},
		{ID: "INV-2024-0003", IssueDate: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
			SupplierGSTIN: "27AABCU9603R1ZX", SupplierName: "Our Co", CustomerGSTIN: "07AABCU9603R1ZZ",
			CustomerName: "Delhi Traders", Tax: inter, Status: domain.InvoiceStatusSubmitted,
			Category: "goods", Direction: domain.DirectionOutward},
	}
	rep := report.Build(invs, domain.DirectionOutward, domain.MonthPeriod(2024, time.January),
		time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC))
	return &rep, invs
}

func TestWriteCSV(t *testing.T) {
	rep, invs := fixture(t)
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, rep, invs))

	data := buf.Bytes()
	require.True(t, bytes.HasPrefix(data, export.BOM))

	rows, err := csv.NewReader(bytes.NewReader(data[len(export.BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, export.Columns(), rows[0])

	first := rows[1]
	assert.Equal(t, "INV-2024-0002", first[0])
	assert.Equal(t, "2024-01-15", first[1])
	assert.Equal(t, "Maharashtra", first[4])
	assert.Equal(t, "Tech Solutions, Pvt Ltd", first[6])
	assert.Equal(t, "intra_state", first[10])
	assert.Equal(t, "25000.00", first[11])
	assert.Equal(t, "9.00", first[12])
	assert.Equal(t, "1125.00", first[13])
	assert.Equal(t, "1125.00", first[14])
	assert.Equal(t, "0.00", first[15])
	assert.Equal(t, "2250.00", first[16])
	assert.Equal(t, "INV-2024-0001", first[17])

	second := rows[2]
	assert.Equal(t, "Delhi", second[7])
	assert.Equal(t, "1800.09", second[15])
	assert.Empty(t, second[17])

	totals := rows[3]
	assert.Equal(t, "TOTAL", totals[0])
	assert.Equal(t, "2 invoices", totals[1])
	assert.Equal(t, "35000.50", totals[11])
	assert.Equal(t, "4050.09", totals[16])
}

func TestWriter_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	w := export.NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	w.Flush()
	require.NoError(t, w.Error())

	row, err := csv.NewReader(&buf).Read()
	require.NoError(t, err)
	assert.Len(t, row, 18)
	assert.Equal(t, "Invoice ID", row[0])
	assert.Equal(t, "Revision Of", row[17])
}

func TestWriteXLSX(t *testing.T) {
	rep, invs := fixture(t)
	var buf bytes.Buffer
	require.NoError(t, export.WriteXLSX(&buf, rep, invs))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Invoices"}, f.GetSheetList())

	ret, err := f.GetCellValue("Summary", "B1")
	require.NoError(t, err)
	assert.Equal(t, "GSTR-1", ret)

	status, err := f.GetCellValue("Summary", "B6")
	require.NoError(t, err)
	assert.Equal(t, "ready", status)

	total, err := f.GetCellValue("Summary", "B14")
	require.NoError(t, err)
	assert.Equal(t, "4050.09", total)

	rows, err := f.GetRows("Invoices")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Invoice ID", rows[0][0])
	assert.Equal(t, "INV-2024-0003", rows[2][0])
	assert.Equal(t, "1800.09", rows[2][15])
}

func TestBuildFilename(t *testing.T) {
	rep, _ := fixture(t)
	assert.Equal(t, "GSTR-1_2024-01.csv", export.BuildFilename(rep, domain.ExportFormatCSV))
	assert.Equal(t, "GSTR-1_2024-01.xlsx", export.BuildFilename(rep, domain.ExportFormatXLSX))

	p, err := domain.ParsePeriod("2024-01-10..2024-01-20")
	require.NoError(t, err)
	rep.Period = p
	assert.Equal(t, "GSTR-1_2024-01-10_2024-01-20.csv", export.BuildFilename(rep, domain.ExportFormatCSV))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "GSTR-1_Q1_2024", export.SanitizeFilename("GSTR-1 / Q1 2024"))
	assert.Equal(t, "a_b", export.SanitizeFilename("__a!!!b__"))
}
