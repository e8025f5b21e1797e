package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"gstreport/internal/domain"
	"gstreport/internal/port"
)

const documentColumns = `id, name, mime_category, size_bytes, upload_date, category,
	status, invoice_id, status_note, updated_at`

type documentRepo struct {
	db *sqlx.DB
}

// NewDocumentRepo creates a new PostgreSQL-backed DocumentRepository.
func NewDocumentRepo(db *sqlx.DB) port.DocumentRepository {
	return &documentRepo{db: db}
}

func (r *documentRepo) Create(ctx context.Context, doc *domain.Document) error {
	var seq int64
	if err := r.db.GetContext(ctx, &seq, "SELECT nextval('document_seq')"); err != nil {
		return fmt.Errorf("documentRepo.Create nextval: %w", err)
	}
	doc.ID = fmt.Sprintf("DOC-%06d", seq)
	doc.UpdatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `INSERT INTO documents (
		id, seq, name, mime_category, size_bytes, upload_date, category,
		status, invoice_id, status_note, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		doc.ID, seq, doc.Name, string(doc.MimeCategory), doc.SizeBytes, doc.UploadDate, doc.Category,
		string(doc.Status), doc.InvoiceID, doc.StatusNote, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("documentRepo.Create: %w", err)
	}
	return nil
}

func (r *documentRepo) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.GetContext(ctx, &doc, "SELECT "+documentColumns+" FROM documents WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("documentRepo.GetByID: %w", err)
	}
	return &doc, nil
}

func (r *documentRepo) List(ctx context.Context) ([]domain.Document, error) {
	docs := make([]domain.Document, 0)
	if err := r.db.SelectContext(ctx, &docs, "SELECT "+documentColumns+" FROM documents ORDER BY seq"); err != nil {
		return nil, fmt.Errorf("documentRepo.List: %w", err)
	}
	return docs, nil
}

func (r *documentRepo) UpdateStatus(ctx context.Context, id string, from, to domain.DocumentStatus, note string) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.GetContext(ctx, &doc,
		`UPDATE documents SET status = $1, status_note = $2, updated_at = $3
		 WHERE id = $4 AND status = $5
		 RETURNING `+documentColumns,
		string(to), note, time.Now().UTC(), id, string(from))
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("documentRepo.UpdateStatus: %w", err)
		}
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, domain.ErrStatusConflict
	}
	return &doc, nil
}
