package domain

import (
	"fmt"
	"strings"
)

// InvoiceStatus represents the filing lifecycle of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusSubmitted InvoiceStatus = "submitted"
)

var invoiceStatusRank = map[InvoiceStatus]int{
	InvoiceStatusDraft:     0,
	InvoiceStatusPending:   1,
	InvoiceStatusSubmitted: 2,
}

// Valid reports whether s is a known invoice status.
func (s InvoiceStatus) Valid() bool {
	_, ok := invoiceStatusRank[s]
	return ok
}

// CanTransitionTo reports whether an invoice may move from s to next.
// Transitions only move forward. Draft -> Submitted is allowed only when allowSkip is set.
func (s InvoiceStatus) CanTransitionTo(next InvoiceStatus, allowSkip bool) bool {
	from, ok := invoiceStatusRank[s]
	if !ok {
		return false
	}
	to, ok := invoiceStatusRank[next]
	if !ok || to <= from {
		return false
	}
	if to-from > 1 && !allowSkip {
		return false
	}
	return true
}

// DocumentStatus represents the processing state of an uploaded document.
type DocumentStatus string

const (
	DocumentStatusPending   DocumentStatus = "pending"
	DocumentStatusProcessed DocumentStatus = "processed"
	DocumentStatusError     DocumentStatus = "error"
)

// Valid reports whether s is a known document status.
func (s DocumentStatus) Valid() bool {
	switch s {
	case DocumentStatusPending, DocumentStatusProcessed, DocumentStatusError:
		return true
	}
	return false
}

// CanTransitionTo reports whether a document may move from s to next.
// Processed and Error are terminal.
func (s DocumentStatus) CanTransitionTo(next DocumentStatus) bool {
	return s == DocumentStatusPending && (next == DocumentStatusProcessed || next == DocumentStatusError)
}

// MimeCategory is the coarse file type of a document.
type MimeCategory string

const (
	MimeCategoryPDF         MimeCategory = "pdf"
	MimeCategorySpreadsheet MimeCategory = "spreadsheet"
	MimeCategoryImage       MimeCategory = "image"
	MimeCategoryOther       MimeCategory = "other"
)

// extensionCategories maps file extensions (without dot) to MimeCategory.
var extensionCategories = map[string]MimeCategory{
	"pdf":  MimeCategoryPDF,
	"xls":  MimeCategorySpreadsheet,
	"xlsx": MimeCategorySpreadsheet,
	"csv":  MimeCategorySpreadsheet,
	"ods":  MimeCategorySpreadsheet,
	"jpg":  MimeCategoryImage,
	"jpeg": MimeCategoryImage,
	"png":  MimeCategoryImage,
	"webp": MimeCategoryImage,
}

// contentTypeCategories maps MIME content types to MimeCategory.
var contentTypeCategories = map[string]MimeCategory{
	"application/pdf":          MimeCategoryPDF,
	"application/vnd.ms-excel": MimeCategorySpreadsheet,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": MimeCategorySpreadsheet,
	"text/csv":   MimeCategorySpreadsheet,
	"image/jpeg": MimeCategoryImage,
	"image/png":  MimeCategoryImage,
	"image/webp": MimeCategoryImage,
}

// Valid reports whether c is a known mime category.
func (c MimeCategory) Valid() bool {
	switch c {
	case MimeCategoryPDF, MimeCategorySpreadsheet, MimeCategoryImage, MimeCategoryOther:
		return true
	}
	return false
}

// DetectMimeCategory derives a MimeCategory from a content type, falling back to the file name's
// extension. Unknown inputs map to MimeCategoryOther.
func DetectMimeCategory(fileName, contentType string) MimeCategory {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if c, ok := contentTypeCategories[ct]; ok {
		return c
	}
	if i := strings.LastIndex(fileName, "."); i >= 0 {
		if c, ok := extensionCategories[strings.ToLower(fileName[i+1:])]; ok {
			return c
		}
	}
	return MimeCategoryOther
}

// SupplyDirection classifies an invoice from the organisation's point of view.
// Outward supplies are reported in GSTR-1, inward supplies in GSTR-2.
type SupplyDirection string

const (
	DirectionOutward SupplyDirection = "outward"
	DirectionInward  SupplyDirection = "inward"
)

// Valid reports whether d is a known direction.
func (d SupplyDirection) Valid() bool {
	return d == DirectionOutward || d == DirectionInward
}

// ReturnName returns the GST return the direction is filed under.
func (d SupplyDirection) ReturnName() string {
	switch d {
	case DirectionOutward:
		return "GSTR-1"
	case DirectionInward:
		return "GSTR-2"
	default:
		return string(d)
	}
}

// ParseReportKind accepts a return name (gstr1, GSTR-1) or a direction (outward) and returns
// the direction it reports on.
func ParseReportKind(s string) (SupplyDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gstr1", "gstr-1", string(DirectionOutward):
		return DirectionOutward, nil
	case "gstr2", "gstr-2", string(DirectionInward):
		return DirectionInward, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidReportKind, s)
}

// TaxType records which components a tax breakdown uses.
type TaxType string

const (
	// TaxTypeIntraState splits tax into CGST and SGST.
	TaxTypeIntraState TaxType = "intra_state"
	// TaxTypeInterState charges the whole tax as IGST.
	TaxTypeInterState TaxType = "inter_state"
)

// ReportStatus represents whether a periodic report has filing data.
type ReportStatus string

const (
	ReportStatusPending ReportStatus = "pending"
	ReportStatusReady   ReportStatus = "ready"
)

// ActivityKind is the severity bucket of an activity feed entry.
type ActivityKind string

const (
	ActivitySuccess ActivityKind = "success"
	ActivityPending ActivityKind = "pending"
	ActivityError   ActivityKind = "error"
	ActivityInfo    ActivityKind = "info"
)

// ExportFormat is the file format for report downloads.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)

// ContentType returns the MIME content type for the export format.
func (f ExportFormat) ContentType() string {
	switch f {
	case ExportFormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}
