package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gstreport/internal/domain"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendReportReady(ctx context.Context, to []string, report *domain.PeriodicReport) error {
	args := m.Called(ctx, to, report)
	return args.Error(0)
}
