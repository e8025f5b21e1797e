package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gstreport/internal/domain"
	"gstreport/internal/port"
)

type documentRepo struct {
	mu    sync.RWMutex
	seq   int
	order []string
	byID  map[string]*domain.Document
}

// NewDocumentRepo creates an in-memory DocumentRepository.
func NewDocumentRepo() port.DocumentRepository {
	return &documentRepo{byID: make(map[string]*domain.Document)}
}

func (r *documentRepo) Create(_ context.Context, doc *domain.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	doc.ID = fmt.Sprintf("DOC-%06d", r.seq)
	doc.UpdatedAt = time.Now().UTC()
	stored := copyDocument(doc)
	r.byID[doc.ID] = &stored
	r.order = append(r.order, doc.ID)
	return nil
}

func (r *documentRepo) GetByID(_ context.Context, id string) (*domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	out := copyDocument(doc)
	return &out, nil
}

func (r *documentRepo) List(_ context.Context) ([]domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Document, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, copyDocument(r.byID[id]))
	}
	return out, nil
}

func (r *documentRepo) UpdateStatus(_ context.Context, id string, from, to domain.DocumentStatus, note string) (*domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	if stored.Status != from {
		return nil, domain.ErrStatusConflict
	}
	stored.Status = to
	stored.StatusNote = note
	stored.UpdatedAt = time.Now().UTC()
	out := copyDocument(stored)
	return &out, nil
}

func copyDocument(doc *domain.Document) domain.Document {
	out := *doc
	if doc.InvoiceID != nil {
		id := *doc.InvoiceID
		out.InvoiceID = &id
	}
	return out
}
