package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrInvoiceNotFound   = fmt.Errorf("invoice %w", ErrNotFound)
	ErrDocumentNotFound  = fmt.Errorf("document %w", ErrNotFound)
	ErrReportNotFound    = fmt.Errorf("report %w", ErrNotFound)
	ErrInvalidTaxpayerID = errors.New("invalid taxpayer identifier")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrStatusConflict    = errors.New("status changed concurrently")
	ErrInvoiceLocked     = errors.New("invoice is no longer a draft")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidPeriod     = errors.New("invalid reporting period")
	ErrUnknownSupply     = errors.New("cannot determine supply direction")
	ErrInvalidInvoice    = errors.New("invalid invoice")
	ErrInvalidDocument   = errors.New("invalid document")
	ErrInvalidReportKind = errors.New("invalid report kind")
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrPublishDisabled   = errors.New("report publishing is not configured")
)

// Party names the side of an invoice an identifier belongs to.
type Party string

const (
	PartySupplier Party = "supplier"
	PartyCustomer Party = "customer"
)

// InvalidTaxpayerIDError reports which GSTIN on an invoice failed validation.
type InvalidTaxpayerIDError struct {
	Side   Party
	GSTIN  string
	Reason string
}

func (e *InvalidTaxpayerIDError) Error() string {
	return fmt.Sprintf("invalid %s GSTIN %q: %s", e.Side, e.GSTIN, e.Reason)
}

func (e *InvalidTaxpayerIDError) Is(target error) bool {
	return target == ErrInvalidTaxpayerID
}

// InvalidTransitionError reports a rejected status change.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %q to %q", e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
