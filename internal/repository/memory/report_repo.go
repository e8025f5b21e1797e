package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"gstreport/internal/domain"
	"gstreport/internal/port"
)

type reportRepo struct {
	mu      sync.RWMutex
	reports []domain.PeriodicReport
}

// NewReportRepo creates an in-memory ReportRepository.
func NewReportRepo() port.ReportRepository {
	return &reportRepo{}
}

func (r *reportRepo) Create(_ context.Context, rep *domain.PeriodicReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rep.ID == nil {
		id := uuid.New()
		rep.ID = &id
	}
	r.reports = append(r.reports, copyReport(rep))
	return nil
}

func (r *reportRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.PeriodicReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.reports {
		if *r.reports[i].ID == id {
			out := copyReport(&r.reports[i])
			return &out, nil
		}
	}
	return nil, domain.ErrReportNotFound
}

func (r *reportRepo) ListByKind(_ context.Context, kind domain.SupplyDirection) ([]domain.PeriodicReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.PeriodicReport, 0)
	for i := len(r.reports) - 1; i >= 0; i-- {
		if r.reports[i].Kind == kind {
			out = append(out, copyReport(&r.reports[i]))
		}
	}
	return out, nil
}

func copyReport(rep *domain.PeriodicReport) domain.PeriodicReport {
	out := *rep
	if rep.ID != nil {
		id := *rep.ID
		out.ID = &id
	}
	return out
}
