package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gstreport/internal/domain"
	"gstreport/internal/port"
)

// Clock returns the current time. Services default to time.Now.
type Clock func() time.Time

func (c Clock) orDefault() Clock {
	if c == nil {
		return time.Now
	}
	return c
}

// activityRecorder appends to the dashboard feed. Failures are logged but never block business logic.
type activityRecorder struct {
	repo port.ActivityRepository
	log  *zap.Logger
	now  Clock
}

func (r activityRecorder) record(ctx context.Context, kind domain.ActivityKind, ref, format string, args ...any) {
	if r.repo == nil {
		return
	}
	a := &domain.Activity{
		ID:        uuid.New(),
		Kind:      kind,
		Message:   fmt.Sprintf(format, args...),
		Reference: ref,
		CreatedAt: r.now().UTC(),
	}
	if err := r.repo.Create(ctx, a); err != nil {
		r.log.Warn("failed to record activity",
			zap.String("kind", string(kind)), zap.String("reference", ref), zap.Error(err))
	}
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
