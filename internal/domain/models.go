package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaxBreakdown is the computed GST split for an invoice.
type TaxBreakdown struct {
	TaxableValue  Money   `db:"taxable_value" json:"taxable_value"`
	Rate          Rate    `db:"rate" json:"rate"`
	Type          TaxType `db:"tax_type" json:"tax_type"`
	CentralTax    Money   `db:"central_tax" json:"central_tax"`
	StateTax      Money   `db:"state_tax" json:"state_tax"`
	IntegratedTax Money   `db:"integrated_tax" json:"integrated_tax"`
}

// Total returns CGST + SGST + IGST.
func (t TaxBreakdown) Total() Money {
	return t.CentralTax + t.StateTax + t.IntegratedTax
}

// Invoice is a GST invoice tracked for periodic returns.
type Invoice struct {
	ID            string          `db:"id" json:"id"`
	IssueDate     time.Time       `db:"issue_date" json:"issue_date"`
	SupplierGSTIN string          `db:"supplier_gstin" json:"supplier_gstin"`
	SupplierName  string          `db:"supplier_name" json:"supplier_name"`
	CustomerGSTIN string          `db:"customer_gstin" json:"customer_gstin"`
	CustomerName  string          `db:"customer_name" json:"customer_name"`
	Tax           TaxBreakdown    `db:"-" json:"tax"`
	Status        InvoiceStatus   `db:"status" json:"status"`
	Category      string          `db:"category" json:"category"`
	Direction     SupplyDirection `db:"direction" json:"direction"`
	RevisionOf    *string         `db:"revision_of" json:"revision_of,omitempty"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// SearchText returns the fields matched by free-text search.
func (inv Invoice) SearchText() []string {
	return []string{inv.ID, inv.CustomerName, inv.CustomerGSTIN}
}

// FieldValue returns the value of a categorical filter field.
func (inv Invoice) FieldValue(name string) (string, bool) {
	switch name {
	case "status":
		return string(inv.Status), true
	case "category":
		return inv.Category, true
	case "direction", "supply":
		return string(inv.Direction), true
	case "tax_type":
		return string(inv.Tax.Type), true
	}
	return "", false
}

// Document is an uploaded file tracked in the document bin. The bytes live elsewhere.
type Document struct {
	ID           string         `db:"id" json:"id"`
	Name         string         `db:"name" json:"name"`
	MimeCategory MimeCategory   `db:"mime_category" json:"type"`
	SizeBytes    int64          `db:"size_bytes" json:"size_bytes"`
	UploadDate   time.Time      `db:"upload_date" json:"upload_date"`
	Category     string         `db:"category" json:"category"`
	Status       DocumentStatus `db:"status" json:"status"`
	InvoiceID    *string        `db:"invoice_id" json:"invoice_id,omitempty"`
	StatusNote   string         `db:"status_note" json:"status_note,omitempty"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// SearchText returns the fields matched by free-text search.
func (d Document) SearchText() []string {
	return []string{d.Name, d.Category}
}

// FieldValue returns the value of a categorical filter field.
func (d Document) FieldValue(name string) (string, bool) {
	switch name {
	case "type", "mime_category":
		return string(d.MimeCategory), true
	case "status":
		return string(d.Status), true
	case "category":
		return d.Category, true
	}
	return "", false
}

// DocumentStats summarises the document bin.
type DocumentStats struct {
	Total      int   `json:"total"`
	Processed  int   `json:"processed"`
	Pending    int   `json:"pending"`
	Errored    int   `json:"error"`
	TotalBytes int64 `json:"total_bytes"`
}

// ReportSummary holds the aggregated totals of a periodic return.
type ReportSummary struct {
	InvoiceCount      int   `db:"invoice_count" json:"invoice_count"`
	TotalTaxableValue Money `db:"total_taxable_value" json:"total_taxable_value"`
	TotalTax          Money `db:"total_tax" json:"total_tax"`
	CentralTotal      Money `db:"central_total" json:"cgst"`
	StateTotal        Money `db:"state_total" json:"sgst"`
	IntegratedTotal   Money `db:"integrated_total" json:"igst"`
}

// Add returns the component-wise sum of two summaries.
func (s ReportSummary) Add(o ReportSummary) ReportSummary {
	return ReportSummary{
		InvoiceCount:      s.InvoiceCount + o.InvoiceCount,
		TotalTaxableValue: s.TotalTaxableValue + o.TotalTaxableValue,
		TotalTax:          s.TotalTax + o.TotalTax,
		CentralTotal:      s.CentralTotal + o.CentralTotal,
		StateTotal:        s.StateTotal + o.StateTotal,
		IntegratedTotal:   s.IntegratedTotal + o.IntegratedTotal,
	}
}

// PeriodicReport is a GSTR-1 or GSTR-2 statement derived from the invoice store.
// ID is set only once the report has been materialized.
type PeriodicReport struct {
	ID            *uuid.UUID      `db:"id" json:"id,omitempty"`
	Kind          SupplyDirection `db:"kind" json:"kind"`
	ReturnName    string          `db:"return_name" json:"return_name"`
	Period        Period          `db:"-" json:"period"`
	GeneratedAt   time.Time       `db:"generated_at" json:"generated_at"`
	Summary       ReportSummary   `db:"-" json:"summary"`
	EligibleCount int             `db:"eligible_count" json:"eligible_count"`
	PendingCount  int             `db:"pending_count" json:"pending_count"`
	Status        ReportStatus    `db:"status" json:"status"`
}

// Activity is an entry of the dashboard's recent-activity feed.
type Activity struct {
	ID        uuid.UUID    `db:"id" json:"id"`
	Kind      ActivityKind `db:"kind" json:"kind"`
	Message   string       `db:"message" json:"message"`
	Reference string       `db:"reference" json:"reference,omitempty"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
}

// MonthlyTax is one point of the monthly CGST/SGST/IGST series.
type MonthlyTax struct {
	Month string `json:"month"`
	CGST  Money  `json:"cgst"`
	SGST  Money  `json:"sgst"`
	IGST  Money  `json:"igst"`
}

// DashboardMetrics is the headline summary for a month.
type DashboardMetrics struct {
	Month             string       `json:"month"`
	TotalInvoices     int          `json:"total_invoices"`
	TotalTaxableValue Money        `json:"total_taxable_value"`
	TotalGST          Money        `json:"total_gst"`
	CGST              Money        `json:"cgst"`
	SGST              Money        `json:"sgst"`
	IGST              Money        `json:"igst"`
	PendingInvoices   int          `json:"pending_invoices"`
	MonthlyGrowth     string       `json:"monthly_growth"`
	GrowthAvailable   bool         `json:"growth_available"`
	MonthlyTax        []MonthlyTax `json:"monthly_tax"`
	RecentActivities  []Activity   `json:"recent_activities"`
}
