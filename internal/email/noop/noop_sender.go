package noop

import (
	"context"

	"go.uber.org/zap"

	"gstreport/internal/domain"
	"gstreport/internal/email"
	"gstreport/internal/port"
)

type noopSender struct {
	frontendURL string
	log         *zap.Logger
}

// NewNoopSender creates an EmailSender that only logs the notifications it would send.
func NewNoopSender(frontendURL string, logger *zap.Logger) port.EmailSender {
	return &noopSender{frontendURL: frontendURL, log: logger.Named("noopEmail")}
}

func (s *noopSender) SendReportReady(_ context.Context, to []string, report *domain.PeriodicReport) error {
	msg := email.ReportReady(report, s.frontendURL)
	s.log.Info("report ready email suppressed",
		zap.Strings("to", to),
		zap.String("subject", msg.Subject))
	return nil
}
