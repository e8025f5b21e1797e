package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gstreport/internal/domain"
	"gstreport/internal/port"
)

type activityRepo struct {
	db *sqlx.DB
}

// NewActivityRepo creates a new PostgreSQL-backed ActivityRepository.
func NewActivityRepo(db *sqlx.DB) port.ActivityRepository {
	return &activityRepo{db: db}
}

func (r *activityRepo) Create(ctx context.Context, a *domain.Activity) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO activities (id, kind, message, reference, created_at) VALUES ($1, $2, $3, $4, $5)",
		a.ID, string(a.Kind), a.Message, a.Reference, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("activityRepo.Create: %w", err)
	}
	return nil
}

func (r *activityRepo) ListRecent(ctx context.Context, limit int) ([]domain.Activity, error) {
	items := make([]domain.Activity, 0)
	if limit <= 0 {
		return items, nil
	}
	err := r.db.SelectContext(ctx, &items,
		"SELECT id, kind, message, reference, created_at FROM activities ORDER BY created_at DESC LIMIT $1", limit)
	if err != nil {
		return nil, fmt.Errorf("activityRepo.ListRecent: %w", err)
	}
	return items, nil
}
