package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"gstreport/internal/domain"
	"gstreport/internal/port"
	"gstreport/internal/report"
)

const (
	// dashboardMonths is the length of the monthly tax series.
	dashboardMonths = 6
	// dashboardActivities is the number of feed entries embedded in the metrics.
	dashboardActivities = 5
)

// DashboardService computes the headline figures of the landing page.
type DashboardService interface {
	Metrics(ctx context.Context, month domain.Period) (*domain.DashboardMetrics, error)
	RecentActivities(ctx context.Context, limit int) ([]domain.Activity, error)
}

type dashboardService struct {
	invoices   port.InvoiceRepository
	activities port.ActivityRepository
	log        *zap.Logger
}

// NewDashboardService creates a new DashboardService implementation.
func NewDashboardService(invoices port.InvoiceRepository, activities port.ActivityRepository, logger *zap.Logger) DashboardService {
	return &dashboardService{
		invoices:   invoices,
		activities: activities,
		log:        orNop(logger).Named("dashboardService"),
	}
}

// Metrics summarises month. Tax figures count submitted invoices in either direction.
// Pending invoices are every draft or pending invoice in the store regardless of date.
// Invoices replaced by a submitted revision are ignored throughout.
func (s *dashboardService) Metrics(ctx context.Context, month domain.Period) (*domain.DashboardMetrics, error) {
	all, err := s.invoices.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboardService.Metrics: %w", err)
	}

	m := &domain.DashboardMetrics{Month: month.Label()}
	var current, previous []domain.Invoice
	prev := month.Previous()
	all = report.Current(all)
	for i := range all {
		inv := &all[i]
		if inv.Status != domain.InvoiceStatusSubmitted {
			m.PendingInvoices++
		}
		switch {
		case month.Contains(inv.IssueDate):
			m.TotalInvoices++
			current = append(current, *inv)
		case prev.Contains(inv.IssueDate):
			previous = append(previous, *inv)
		}
	}

	sum := report.Summarize(current)
	m.TotalTaxableValue = sum.TotalTaxableValue
	m.TotalGST = sum.TotalTax
	m.CGST = sum.CentralTotal
	m.SGST = sum.StateTotal
	m.IGST = sum.IntegratedTotal
	m.MonthlyGrowth, m.GrowthAvailable = growth(sum.TotalTaxableValue, report.Summarize(previous).TotalTaxableValue)
	m.MonthlyTax = report.Monthly(all, month.End, dashboardMonths)

	m.RecentActivities, err = s.RecentActivities(ctx, dashboardActivities)
	if err != nil {
		return nil, fmt.Errorf("dashboardService.Metrics: %w", err)
	}

	s.log.Debug("dashboard metrics computed",
		zap.String("month", m.Month),
		zap.Int("total_invoices", m.TotalInvoices),
		zap.Int("pending_invoices", m.PendingInvoices))
	return m, nil
}

// growth returns the percentage change from previous to current with one decimal place.
// Growth is unavailable when the previous month had no taxable value.
func growth(current, previous domain.Money) (string, bool) {
	if previous == 0 {
		return "0.0", false
	}
	prev := previous.Decimal()
	pct := current.Decimal().Sub(prev).Mul(decimal.NewFromInt(100)).Div(prev)
	return pct.StringFixed(1), true
}

func (s *dashboardService) RecentActivities(ctx context.Context, limit int) ([]domain.Activity, error) {
	if s.activities == nil || limit <= 0 {
		return []domain.Activity{}, nil
	}
	acts, err := s.activities.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("dashboardService.RecentActivities: %w", err)
	}
	return acts, nil
}
