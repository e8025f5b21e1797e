// Package memory provides in-process repositories guarded by a read/write mutex.
// Every read returns copies, so callers never observe a partially applied write.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gstreport/internal/domain"
	"gstreport/internal/port"
)

type invoiceRepo struct {
	mu    sync.RWMutex
	seq   int
	order []string
	byID  map[string]*domain.Invoice
	now   func() time.Time
}

// NewInvoiceRepo creates an in-memory InvoiceRepository.
func NewInvoiceRepo() port.InvoiceRepository {
	return &invoiceRepo{
		byID: make(map[string]*domain.Invoice),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (r *invoiceRepo) Create(_ context.Context, inv *domain.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	inv.ID = fmt.Sprintf("INV-%d-%04d", inv.IssueDate.Year(), r.seq)
	now := r.now()
	inv.CreatedAt = now
	inv.UpdatedAt = now

	stored := copyInvoice(inv)
	r.byID[inv.ID] = &stored
	r.order = append(r.order, inv.ID)
	return nil
}

func (r *invoiceRepo) GetByID(_ context.Context, id string) (*domain.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inv, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrInvoiceNotFound
	}
	out := copyInvoice(inv)
	return &out, nil
}

func (r *invoiceRepo) List(_ context.Context) ([]domain.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Invoice, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, copyInvoice(r.byID[id]))
	}
	return out, nil
}


func (r *invoiceRepo) UpdateDraft(_ context.Context, inv *domain.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[inv.ID]
	if !ok {
		return domain.ErrInvoiceNotFound
	}
	if stored.Status != domain.InvoiceStatusDraft {
		return domain.ErrInvoiceLocked
	}
	stored.IssueDate = inv.IssueDate
	stored.SupplierGSTIN = inv.SupplierGSTIN
	stored.SupplierName = inv.SupplierName
	stored.CustomerGSTIN = inv.CustomerGSTIN
	stored.CustomerName = inv.CustomerName
	stored.Tax = inv.Tax
	stored.Category = inv.Category
	stored.Direction = inv.Direction
	stored.UpdatedAt = r.now()

	*inv = copyInvoice(stored)
	return nil
}

func (r *invoiceRepo) UpdateStatus(_ context.Context, id string, from, to domain.InvoiceStatus) (*domain.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrInvoiceNotFound
	}
	if stored.Status != from {
		return nil, domain.ErrStatusConflict
	}
	stored.Status = to
	stored.UpdatedAt = r.now()
	out := copyInvoice(stored)
	return &out, nil
}

func copyInvoice(inv *domain.Invoice) domain.Invoice {
	out := *inv
	if inv.RevisionOf != nil {
		rev := *inv.RevisionOf
		out.RevisionOf = &rev
	}
	return out
}
