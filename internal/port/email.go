package port

import (
	"context"

	"gstreport/internal/domain"
)

// EmailSender defines the contract for sending notification emails.
type EmailSender interface {
	// SendReportReady tells recipients that a periodic report has filing data.
	SendReportReady(ctx context.Context, to []string, report *domain.PeriodicReport) error
}
