package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"gstreport/internal/domain"
	"gstreport/internal/port"
)

type activityRepo struct {
	mu       sync.RWMutex
	items    []domain.Activity
	capacity int
}

// NewActivityRepo creates an in-memory ActivityRepository retaining at most capacity entries.
// A non-positive capacity keeps everything.
func NewActivityRepo(capacity int) port.ActivityRepository {
	return &activityRepo{capacity: capacity}
}

func (r *activityRepo) Create(_ context.Context, a *domain.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.items = append(r.items, *a)
	if r.capacity > 0 && len(r.items) > r.capacity {
		r.items = append([]domain.Activity(nil), r.items[len(r.items)-r.capacity:]...)
	}
	return nil
}

func (r *activityRepo) ListRecent(_ context.Context, limit int) ([]domain.Activity, error) {
	if limit <= 0 {
		return []domain.Activity{}, nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Activity, 0, min(limit, len(r.items)))
	for i := len(r.items) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.items[i])
	}
	return out, nil
}
