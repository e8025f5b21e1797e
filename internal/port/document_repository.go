package port

import (
	"context"

	"gstreport/internal/domain"
)

// DocumentRepository defines the contract for document metadata persistence.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	List(ctx context.Context) ([]domain.Document, error)
	// UpdateStatus moves a document from one status to another, returning
	// domain.ErrStatusConflict if the stored status is not from.
	UpdateStatus(ctx context.Context, id string, from, to domain.DocumentStatus, note string) (*domain.Document, error)
}
