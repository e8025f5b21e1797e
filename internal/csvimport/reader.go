// Package csvimport reads invoices from CSV so the report engine can run without a store.
//
// The header row is matched loosely: names are case-insensitive, spaces become underscores
// and a trailing "(%)" is dropped, so files written by the export package can be read back.
package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"gstreport/internal/domain"
	"gstreport/internal/export"
	"gstreport/internal/taxcalc"
)

// ErrMissingColumn is returned when a required column is absent from the header.
var ErrMissingColumn = errors.New("missing required column")

var required = []string{"issue_date", "supplier_gstin", "customer_gstin", "taxable_value", "rate"}

var aliases = map[string]string{
	"invoice_id": "id",
	"invoice":    "id",
	"date":       "issue_date",
	"rate_%":     "rate",
	"supply":     "direction",
}

// Options control how rows become invoices.
type Options struct {
	// OrgGSTIN classifies rows without a direction column. Empty means every row needs one.
	OrgGSTIN string
	// DefaultStatus applies to rows without a status. Zero means submitted.
	DefaultStatus domain.InvoiceStatus
	Calc          *taxcalc.Calculator
}

// RowError reports the CSV line a failure came from.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

func (e *RowError) Unwrap() error { return e.Err }

// Read parses every data row of r into an invoice with its tax split computed.
// A row whose first cell is TOTAL (the export footer) and blank rows are skipped.
func Read(r io.Reader, opts Options) ([]domain.Invoice, error) {
	if opts.Calc == nil {
		opts.Calc = &taxcalc.Calculator{}
	}
	if opts.DefaultStatus == "" {
		opts.DefaultStatus = domain.InvoiceStatusSubmitted
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return []domain.Invoice{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	idx, err := indexHeader(header)
	if err != nil {
		return nil, err
	}

	invoices := make([]domain.Invoice, 0)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// csv.ParseError already carries the line.
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		if skip(rec) {
			continue
		}
		inv, err := parseRow(rowReader{idx: idx, rec: rec}, opts)
		if err != nil {
			return nil, &RowError{Line: line, Err: err}
		}
		if inv.ID == "" {
			inv.ID = fmt.Sprintf("ROW-%d", line)
		}
		invoices = append(invoices, inv)
	}
	return invoices, nil
}

func normalizeColumn(name string) string {
	name = strings.TrimPrefix(name, string(export.BOM))
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimSpace(strings.TrimSuffix(name, "(%)"))
	name = strings.ReplaceAll(name, " ", "_")
	if canonical, ok := aliases[name]; ok {
		return canonical
	}
	return name
}

func indexHeader(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		name := normalizeColumn(h)
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}
	var missing []string
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return idx, nil
}

func skip(rec []string) bool {
	if len(rec) > 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "TOTAL") {
		return true
	}
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

type rowReader struct {
	idx map[string]int
	rec []string
}

func (r rowReader) get(col string) string {
	i, ok := r.idx[col]
	if !ok || i >= len(r.rec) {
		return ""
	}
	return strings.TrimSpace(r.rec[i])
}

func parseRow(row rowReader, opts Options) (domain.Invoice, error) {
	issued, err := domain.ParseDate(row.get("issue_date"))
	if err != nil {
		return domain.Invoice{}, err
	}
	taxable, err := domain.ParseMoney(row.get("taxable_value"))
	if err != nil {
		return domain.Invoice{}, err
	}
	rate, err := domain.ParseRate(row.get("rate"))
	if err != nil {
		return domain.Invoice{}, err
	}

	inv := domain.Invoice{
		ID:            row.get("id"),
		IssueDate:     issued,
		SupplierGSTIN: row.get("supplier_gstin"),
		SupplierName:  row.get("supplier_name"),
		CustomerGSTIN: row.get("customer_gstin"),
		CustomerName:  row.get("customer_name"),
		Category:      row.get("category"),
		Status:        opts.DefaultStatus,
	}
	if rev := row.get("revision_of"); rev != "" {
		inv.RevisionOf = &rev
	}
	if s := row.get("status"); s != "" {
		inv.Status = domain.InvoiceStatus(strings.ToLower(s))
		if !inv.Status.Valid() {
			return domain.Invoice{}, fmt.Errorf("unknown status %q", s)
		}
	}

	inv.Tax, err = opts.Calc.ComputeSplit(inv.SupplierGSTIN, inv.CustomerGSTIN, taxable, rate)
	if err != nil {
		return domain.Invoice{}, err
	}

	inv.Direction, err = direction(row.get("direction"), &inv, opts.OrgGSTIN)
	if err != nil {
		return domain.Invoice{}, err
	}
	return inv, nil
}

func direction(explicit string, inv *domain.Invoice, org string) (domain.SupplyDirection, error) {
	if explicit != "" {
		d := domain.SupplyDirection(strings.ToLower(explicit))
		if !d.Valid() {
			return "", fmt.Errorf("%w: direction %q", domain.ErrUnknownSupply, explicit)
		}
		return d, nil
	}
	switch {
	case org == "":
		return "", fmt.Errorf("%w: no direction column and no organisation GSTIN", domain.ErrUnknownSupply)
	case inv.SupplierGSTIN == org:
		return domain.DirectionOutward, nil
	case inv.CustomerGSTIN == org:
		return domain.DirectionInward, nil
	}
	return "", fmt.Errorf("%w: organisation %s is neither supplier nor customer", domain.ErrUnknownSupply, org)
}
