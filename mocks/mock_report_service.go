package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"gstreport/internal/domain"
	"gstreport/internal/service"
)

// MockReportService is a mock implementation of service.ReportService.
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Generate(ctx context.Context, kind domain.SupplyDirection, period domain.Period) (*domain.PeriodicReport, error) {
	args := m.Called(ctx, kind, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PeriodicReport), args.Error(1)
}

func (m *MockReportService) Materialize(ctx context.Context, kind domain.SupplyDirection, period domain.Period) (*domain.PeriodicReport, error) {
	args := m.Called(ctx, kind, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PeriodicReport), args.Error(1)
}

func (m *MockReportService) Get(ctx context.Context, id uuid.UUID) (*domain.PeriodicReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PeriodicReport), args.Error(1)
}

func (m *MockReportService) History(ctx context.Context, kind domain.SupplyDirection) ([]domain.PeriodicReport, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PeriodicReport), args.Error(1)
}

// Export writes the bytes given as the third return argument, if any, to w.
func (m *MockReportService) Export(ctx context.Context, kind domain.SupplyDirection, period domain.Period, format domain.ExportFormat, w io.Writer) (*domain.PeriodicReport, error) {
	args := m.Called(ctx, kind, period, format, w)
	if len(args) > 2 {
		if body, ok := args.Get(2).([]byte); ok {
			_, _ = w.Write(body)
		}
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PeriodicReport), args.Error(1)
}

func (m *MockReportService) Publish(ctx context.Context, kind domain.SupplyDirection, period domain.Period) (*service.PublishedReport, error) {
	args := m.Called(ctx, kind, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PublishedReport), args.Error(1)
}
