package port

import (
	"context"

	"github.com/google/uuid"

	"gstreport/internal/domain"
)

// ReportRepository stores materialized periodic reports.
type ReportRepository interface {
	Create(ctx context.Context, r *domain.PeriodicReport) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PeriodicReport, error)
	// ListByKind returns reports of one kind, newest first.
	ListByKind(ctx context.Context, kind domain.SupplyDirection) ([]domain.PeriodicReport, error)
}

// ActivityRepository stores the recent-activity feed.
type ActivityRepository interface {
	Create(ctx context.Context, a *domain.Activity) error
	// ListRecent returns up to limit activities, newest first.
	ListRecent(ctx context.Context, limit int) ([]domain.Activity, error)
}
