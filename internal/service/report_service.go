package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gstreport/internal/domain"
	"gstreport/internal/export"
	"gstreport/internal/port"
	"gstreport/internal/report"
)

// ReportServiceConfig configures publishing and notification of reports.
type ReportServiceConfig struct {
	Bucket        string
	Prefix        string
	PresignExpiry int64 // seconds
	Recipients    []string
	Now           Clock
}

// PublishedReport is the result of uploading a report export to object storage.
type PublishedReport struct {
	Report    *domain.PeriodicReport `json:"report"`
	Key       string                 `json:"key"`
	URL       string                 `json:"url"`
	ExpiresIn int64                  `json:"expires_in"`
}

// ReportService provides GSTR-1 and GSTR-2 reporting over the invoice store.
type ReportService interface {
	// Generate aggregates the current invoices without persisting anything.
	Generate(ctx context.Context, kind domain.SupplyDirection, period domain.Period) (*domain.PeriodicReport, error)
	// Materialize generates a report and stores it in the report history.
	Materialize(ctx context.Context, kind domain.SupplyDirection, period domain.Period) (*domain.PeriodicReport, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.PeriodicReport, error)
	History(ctx context.Context, kind domain.SupplyDirection) ([]domain.PeriodicReport, error)
	// Export writes the report and its counted invoices to w in the given format.
	Export(ctx context.Context, kind domain.SupplyDirection, period domain.Period, format domain.ExportFormat, w io.Writer) (*domain.PeriodicReport, error)
	// Publish uploads an XLSX export and returns a presigned download URL.
	Publish(ctx context.Context, kind domain.SupplyDirection, period domain.Period) (*PublishedReport, error)
}

type reportService struct {
	invoices   port.InvoiceRepository
	reports    port.ReportRepository
	storage    port.ObjectStorage
	email      port.EmailSender
	cfg        ReportServiceConfig
	activities activityRecorder
	log        *zap.Logger
}

// NewReportService creates a new ReportService. storage and email may be nil, which disables
// publishing and ready notifications respectively.
func NewReportService(
	invoices port.InvoiceRepository,
	reports port.ReportRepository,
	activities port.ActivityRepository,
	storage port.ObjectStorage,
	email port.EmailSender,
	cfg ReportServiceConfig,
	logger *zap.Logger,
) ReportService {
	cfg.Now = cfg.Now.orDefault()
	log := orNop(logger).Named("reportService")
	return &reportService{
		invoices:   invoices,
		reports:    reports,
		storage:    storage,
		email:      email,
		cfg:        cfg,
		activities: activityRecorder{repo: activities, log: log, now: cfg.Now},
		log:        log,
	}
}

func (s *reportService) Generate(ctx context.Context, kind domain.SupplyDirection, period domain.Period) (*domain.PeriodicReport, error) {
	rep, _, err := s.build(ctx, kind, period)
	if err != nil {
		return nil, fmt.Errorf("reportService.Generate: %w", err)
	}
	return rep, nil
}

// build loads the invoices of period and aggregates them. It also returns the invoices
// that contributed to the totals, in store order.
func (s *reportService) build(ctx context.Context, kind domain.SupplyDirection, period domain.Period) (*domain.PeriodicReport, []domain.Invoice, error) {
	if !kind.Valid() {
		return nil, nil, fmt.Errorf("%w: %q", domain.ErrInvalidReportKind, kind)
	}
	if period.End.Before(period.Start) {
		return nil, nil, fmt.Errorf("%w: end is before start", domain.ErrInvalidPeriod)
	}
	// The whole snapshot is read so revisions dated outside period still supersede.
	invoices, err := s.invoices.List(ctx)
	if err != nil {
		return nil, nil, err
	}

	rep := report.Build(invoices, kind, period, s.cfg.Now().UTC())
	counted := make([]domain.Invoice, 0, rep.Summary.InvoiceCount)
	for _, inv := range report.Select(invoices, kind, period) {
		if report.Counts(&inv) {
			counted = append(counted, inv)
		}
	}
	return &rep, counted, nil
}

func (s *reportService) Materialize(ctx context.Context, kind domain.SupplyDirection, period domain.Period) (*domain.PeriodicReport, error) {
	rep, _, err := s.build(ctx, kind, period)
	if err != nil {
		return nil, fmt.Errorf("reportService.Materialize: %w", err)
	}
	if err := s.reports.Create(ctx, rep); err != nil {
		s.log.Error("failed to store report", zap.String("return", rep.ReturnName), zap.Error(err))
		return nil, fmt.Errorf("reportService.Materialize: %w", err)
	}

	s.log.Info("report generated",
		zap.Stringer("report_id", rep.ID),
		zap.String("return", rep.ReturnName),
		zap.String("period", rep.Period.Label()),
		zap.String("status", string(rep.Status)),
		zap.Int("invoice_count", rep.Summary.InvoiceCount))

	if rep.Status == domain.ReportStatusReady {
		s.activities.record(ctx, domain.ActivitySuccess, rep.ID.String(),
			"%s for %s ready to file", rep.ReturnName, rep.Period.Label())
		s.notify(ctx, rep)
	} else {
		s.activities.record(ctx, domain.ActivityPending, rep.ID.String(),
			"%s for %s has %d pending invoices", rep.ReturnName, rep.Period.Label(), rep.PendingCount)
	}
	return rep, nil
}

// notify emails the configured recipients. Failures are logged and do not fail the report.
func (s *reportService) notify(ctx context.Context, rep *domain.PeriodicReport) {
	if s.email == nil || len(s.cfg.Recipients) == 0 {
		return
	}
	if err := s.email.SendReportReady(ctx, s.cfg.Recipients, rep); err != nil {
		s.log.Warn("failed to send report notification", zap.Stringer("report_id", rep.ID), zap.Error(err))
	}
}

func (s *reportService) Get(ctx context.Context, id uuid.UUID) (*domain.PeriodicReport, error) {
	rep, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reportService.Get: %w", err)
	}
	return rep, nil
}

func (s *reportService) History(ctx context.Context, kind domain.SupplyDirection) ([]domain.PeriodicReport, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("reportService.History: %w: %q", domain.ErrInvalidReportKind, kind)
	}
	reports, err := s.reports.ListByKind(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("reportService.History: %w", err)
	}
	return reports, nil
}

func (s *reportService) Export(ctx context.Context, kind domain.SupplyDirection, period domain.Period, format domain.ExportFormat, w io.Writer) (*domain.PeriodicReport, error) {
	rep, counted, err := s.build(ctx, kind, period)
	if err != nil {
		return nil, fmt.Errorf("reportService.Export: %w", err)
	}
	if err := render(w, rep, counted, format); err != nil {
		return nil, fmt.Errorf("reportService.Export: %w", err)
	}
	return rep, nil
}

func render(w io.Writer, rep *domain.PeriodicReport, invoices []domain.Invoice, format domain.ExportFormat) error {
	switch format {
	case domain.ExportFormatCSV:
		return export.WriteCSV(w, rep, invoices)
	case domain.ExportFormatXLSX:
		return export.WriteXLSX(w, rep, invoices)
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
	}
}

func (s *reportService) Publish(ctx context.Context, kind domain.SupplyDirection, period domain.Period) (*PublishedReport, error) {
	if s.storage == nil {
		return nil, domain.ErrPublishDisabled
	}
	rep, counted, err := s.build(ctx, kind, period)
	if err != nil {
		return nil, fmt.Errorf("reportService.Publish: %w", err)
	}

	var buf bytes.Buffer
	if err := render(&buf, rep, counted, domain.ExportFormatXLSX); err != nil {
		return nil, fmt.Errorf("reportService.Publish: %w", err)
	}

	key := path.Join(s.cfg.Prefix, string(kind), rep.GeneratedAt.Format("20060102T150405Z"),
		export.BuildFilename(rep, domain.ExportFormatXLSX))
	size := int64(buf.Len())
	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.Bucket,
		Key:         key,
		Body:        &buf,
		ContentType: domain.ExportFormatXLSX.ContentType(),
		Size:        size,
	}); err != nil {
		s.log.Error("failed to upload report", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("reportService.Publish: uploading %s: %w", key, err)
	}

	url, err := s.storage.GetPresignedURL(ctx, s.cfg.Bucket, key, s.cfg.PresignExpiry)
	if err != nil {
		return nil, fmt.Errorf("reportService.Publish: presigning %s: %w", key, err)
	}

	s.log.Info("report published", zap.String("key", key), zap.Int64("size_bytes", size))
	s.activities.record(ctx, domain.ActivityInfo, key, "%s for %s published", rep.ReturnName, rep.Period.Label())
	return &PublishedReport{Report: rep, Key: key, URL: url, ExpiresIn: s.cfg.PresignExpiry}, nil
}
