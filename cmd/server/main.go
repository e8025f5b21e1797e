package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"gstreport/internal/config"
	"gstreport/internal/email/noop"
	"gstreport/internal/email/ses"
	"gstreport/internal/handler"
	"gstreport/internal/logger"
	"gstreport/internal/port"
	"gstreport/internal/repository/memory"
	"gstreport/internal/repository/postgres"
	"gstreport/internal/router"
	"gstreport/internal/service"
	s3storage "gstreport/internal/storage/s3"
	"gstreport/internal/taxcalc"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// stores bundles the repositories of the selected persistence backend.
type stores struct {
	invoices   port.InvoiceRepository
	documents  port.DocumentRepository
	reports    port.ReportRepository
	activities port.ActivityRepository
	pinger     handler.Pinger
	close      func() error
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.Store.Driver == config.DriverMemory {
		return &stores{
			invoices:   memory.NewInvoiceRepo(),
			documents:  memory.NewDocumentRepo(),
			reports:    memory.NewReportRepo(),
			activities: memory.NewActivityRepo(cfg.Store.ActivityCapacity),
			close:      func() error { return nil },
		}, nil
	}

	db, err := postgres.NewDB(ctx, &cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &stores{
		invoices:   postgres.NewInvoiceRepo(db),
		documents:  postgres.NewDocumentRepo(db),
		reports:    postgres.NewReportRepo(db),
		activities: postgres.NewActivityRepo(db),
		pinger:     db,
		close:      db.Close,
	}, nil
}

func newEmailSender(ctx context.Context, cfg *config.EmailConfig, log *zap.Logger) (port.EmailSender, error) {
	if cfg.Provider != "ses" {
		return noop.NewNoopSender(cfg.FrontendURL, log), nil
	}
	sender, err := ses.NewSESSender(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SES sender: %w", err)
	}
	return sender, nil
}

func run() error {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	zlog := logger.New(cfg.Log)
	defer func() { _ = zlog.Sync() }()
	zap.ReplaceGlobals(zlog)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.close() }()

	// Publishing stays disabled (503) unless S3 is configured.
	var storage port.ObjectStorage
	if cfg.S3.Enabled {
		storage, err = s3storage.New(ctx, &cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	emailSender, err := newEmailSender(ctx, &cfg.Email, zlog)
	if err != nil {
		return err
	}

	if cfg.Org.GSTIN == "" {
		zlog.Warn("org.gstin is not set; invoices must carry an explicit direction")
	}

	// Initialize services
	calc := taxcalc.New(cfg.GSTIN.Validator())
	invoiceSvc := service.NewInvoiceService(st.invoices, st.activities, calc, service.InvoiceServiceConfig{
		OrgGSTIN:         cfg.Org.GSTIN,
		AllowSkipPending: cfg.Invoice.AllowSkipPending,
	}, zlog)
	documentSvc := service.NewDocumentService(st.documents, st.activities, nil, zlog)
	reportSvc := service.NewReportService(st.invoices, st.reports, st.activities, storage, emailSender,
		service.ReportServiceConfig{
			Bucket:        cfg.S3.Bucket,
			Prefix:        cfg.S3.Prefix,
			PresignExpiry: cfg.S3.PresignExpiry,
			Recipients:    cfg.Email.ReportRecipients,
		}, zlog)
	dashboardSvc := service.NewDashboardService(st.invoices, st.activities, zlog)

	// Setup router
	r := router.Setup(zlog, cfg.CORS.AllowedOrigins, router.Handlers{
		Health:    handler.NewHealthHandler(st.pinger),
		Tax:       handler.NewTaxHandler(calc),
		Invoice:   handler.NewInvoiceHandler(invoiceSvc),
		Document:  handler.NewDocumentHandler(documentSvc),
		Report:    handler.NewReportHandler(reportSvc),
		Dashboard: handler.NewDashboardHandler(dashboardSvc),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		zlog.Info("server starting",
			zap.String("addr", cfg.Server.Port),
			zap.String("store", cfg.Store.Driver),
			zap.String("environment", cfg.Server.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zlog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
