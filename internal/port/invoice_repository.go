package port

import (
	"context"

	"gstreport/internal/domain"
)

// InvoiceRepository defines the contract for invoice persistence.
//
// Implementations assign IDs of the form INV-<year>-<seq> on Create, where seq is strictly
// increasing and never reused. Reads return copies; callers may modify them freely.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *domain.Invoice) error
	GetByID(ctx context.Context, id string) (*domain.Invoice, error)
	// List returns all invoices in insertion order.
	List(ctx context.Context) ([]domain.Invoice, error)
	// UpdateDraft replaces the editable fields of a draft invoice.
	// It returns domain.ErrInvoiceLocked if the stored invoice is no longer a draft.
	UpdateDraft(ctx context.Context, inv *domain.Invoice) error
	// UpdateStatus atomically moves an invoice from one status to another.
	// It returns domain.ErrStatusConflict if the stored status is not from.
	UpdateStatus(ctx context.Context, id string, from, to domain.InvoiceStatus) (*domain.Invoice, error)
}
