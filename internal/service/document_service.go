package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"gstreport/internal/domain"
	"gstreport/internal/port"
	"gstreport/internal/search"
)

// CreateDocumentInput is the DTO for registering an uploaded document.
type CreateDocumentInput struct {
	Name        string
	ContentType string
	SizeBytes   int64
	Category    string
	InvoiceID   *string
	// UploadDate defaults to now.
	UploadDate time.Time
}

// DocumentService defines the document bin contract.
type DocumentService interface {
	Create(ctx context.Context, input *CreateDocumentInput) (*domain.Document, error)
	Get(ctx context.Context, id string) (*domain.Document, error)
	List(ctx context.Context) ([]domain.Document, error)
	Search(ctx context.Context, q search.Query) ([]domain.Document, error)
	Transition(ctx context.Context, id string, to domain.DocumentStatus, note string) (*domain.Document, error)
	Stats(ctx context.Context) (*domain.DocumentStats, error)
}

type documentService struct {
	repo       port.DocumentRepository
	activities activityRecorder
	now        Clock
	log        *zap.Logger
}

// NewDocumentService creates a new DocumentService implementation.
func NewDocumentService(repo port.DocumentRepository, activities port.ActivityRepository, now Clock, logger *zap.Logger) DocumentService {
	now = now.orDefault()
	log := orNop(logger).Named("documentService")
	return &documentService{
		repo:       repo,
		activities: activityRecorder{repo: activities, log: log, now: now},
		now:        now,
		log:        log,
	}
}

func (s *documentService) Create(ctx context.Context, input *CreateDocumentInput) (*domain.Document, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidDocument)
	}
	if input.SizeBytes < 0 {
		return nil, fmt.Errorf("%w: size %d is negative", domain.ErrInvalidDocument, input.SizeBytes)
	}
	uploaded := input.UploadDate
	if uploaded.IsZero() {
		uploaded = s.now()
	}

	doc := &domain.Document{
		Name:         name,
		MimeCategory: domain.DetectMimeCategory(name, input.ContentType),
		SizeBytes:    input.SizeBytes,
		UploadDate:   uploaded.UTC(),
		Category:     strings.TrimSpace(input.Category),
		Status:       domain.DocumentStatusPending,
		InvoiceID:    input.InvoiceID,
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		s.log.Error("failed to create document", zap.String("name", name), zap.Error(err))
		return nil, fmt.Errorf("documentService.Create: %w", err)
	}

	s.log.Info("document registered",
		zap.String("document_id", doc.ID),
		zap.String("type", string(doc.MimeCategory)),
		zap.Int64("size_bytes", doc.SizeBytes))
	s.activities.record(ctx, domain.ActivityInfo, doc.ID, "Document %s uploaded", doc.Name)
	return doc, nil
}

func (s *documentService) Get(ctx context.Context, id string) (*domain.Document, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("documentService.Get: %w", err)
	}
	return doc, nil
}

func (s *documentService) List(ctx context.Context) ([]domain.Document, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("documentService.List: %w", err)
	}
	return docs, nil
}

func (s *documentService) Search(ctx context.Context, q search.Query) ([]domain.Document, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("documentService.Search: %w", err)
	}
	return search.Filter(docs, q), nil
}

// Transition moves a pending document to processed or error. Both targets are terminal.
func (s *documentService) Transition(ctx context.Context, id string, to domain.DocumentStatus, note string) (*domain.Document, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("documentService.Transition: %w", err)
	}
	if !current.Status.CanTransitionTo(to) {
		return nil, &domain.InvalidTransitionError{From: string(current.Status), To: string(to)}
	}

	updated, err := s.repo.UpdateStatus(ctx, id, current.Status, to, strings.TrimSpace(note))
	if errors.Is(err, domain.ErrStatusConflict) {
		// Pending is the only source state, so a lost race always lands on a terminal one.
		return nil, &domain.InvalidTransitionError{From: "terminal", To: string(to)}
	}
	if err != nil {
		return nil, fmt.Errorf("documentService.Transition: %w", err)
	}

	s.log.Info("document status changed", zap.String("document_id", id), zap.String("to", string(to)))
	switch to {
	case domain.DocumentStatusProcessed:
		s.activities.record(ctx, domain.ActivitySuccess, id, "Document %s processed", updated.Name)
	case domain.DocumentStatusError:
		s.activities.record(ctx, domain.ActivityError, id, "Document %s failed processing", updated.Name)
	}
	return updated, nil
}

func (s *documentService) Stats(ctx context.Context) (*domain.DocumentStats, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("documentService.Stats: %w", err)
	}
	stats := &domain.DocumentStats{Total: len(docs)}
	for i := range docs {
		stats.TotalBytes += docs[i].SizeBytes
		switch docs[i].Status {
		case domain.DocumentStatusProcessed:
			stats.Processed++
		case domain.DocumentStatusPending:
			stats.Pending++
		case domain.DocumentStatusError:
			stats.Errored++
		}
	}
	return stats, nil
}
