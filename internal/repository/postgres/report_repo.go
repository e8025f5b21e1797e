package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gstreport/internal/domain"
	"gstreport/internal/port"
)

// reportRow flattens a PeriodicReport into the periodic_reports columns.
type reportRow struct {
	ID                uuid.UUID `db:"id"`
	Kind              string    `db:"kind"`
	ReturnName        string    `db:"return_name"`
	PeriodStart       time.Time `db:"period_start"`
	PeriodEnd         time.Time `db:"period_end"`
	GeneratedAt       time.Time `db:"generated_at"`
	InvoiceCount      int       `db:"invoice_count"`
	TotalTaxableValue int64     `db:"total_taxable_value"`
	TotalTax          int64     `db:"total_tax"`
	CentralTotal      int64     `db:"central_total"`
	StateTotal        int64     `db:"state_total"`
	IntegratedTotal   int64     `db:"integrated_total"`
	EligibleCount     int       `db:"eligible_count"`
	PendingCount      int       `db:"pending_count"`
	Status            string    `db:"status"`
}

func (r reportRow) toDomain() domain.PeriodicReport {
	id := r.ID
	return domain.PeriodicReport{
		ID:          &id,
		Kind:        domain.SupplyDirection(r.Kind),
		ReturnName:  r.ReturnName,
		Period:      domain.Period{Start: domain.DateOf(r.PeriodStart), End: domain.DateOf(r.PeriodEnd)},
		GeneratedAt: r.GeneratedAt,
		Summary: domain.ReportSummary{
			InvoiceCount:      r.InvoiceCount,
			TotalTaxableValue: domain.Money(r.TotalTaxableValue),
			TotalTax:          domain.Money(r.TotalTax),
			CentralTotal:      domain.Money(r.CentralTotal),
			StateTotal:        domain.Money(r.StateTotal),
			IntegratedTotal:   domain.Money(r.IntegratedTotal),
		},
		EligibleCount: r.EligibleCount,
		PendingCount:  r.PendingCount,
		Status:        domain.ReportStatus(r.Status),
	}
}

type reportRepo struct {
	db *sqlx.DB
}

// NewReportRepo creates a new PostgreSQL-backed ReportRepository.
func NewReportRepo(db *sqlx.DB) port.ReportRepository {
	return &reportRepo{db: db}
}

func (r *reportRepo) Create(ctx context.Context, rep *domain.PeriodicReport) error {
	if rep.ID == nil {
		id := uuid.New()
		rep.ID = &id
	}
	s := rep.Summary
	_, err := r.db.ExecContext(ctx, `INSERT INTO periodic_reports (
		id, kind, return_name, period_start, period_end, generated_at,
		invoice_count, total_taxable_value, total_tax, central_total, state_total, integrated_total,
		eligible_count, pending_count, status
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		*rep.ID, string(rep.Kind), rep.ReturnName, rep.Period.Start, rep.Period.End, rep.GeneratedAt,
		s.InvoiceCount, int64(s.TotalTaxableValue), int64(s.TotalTax),
		int64(s.CentralTotal), int64(s.StateTotal), int64(s.IntegratedTotal),
		rep.EligibleCount, rep.PendingCount, string(rep.Status))
	if err != nil {
		return fmt.Errorf("reportRepo.Create: %w", err)
	}
	return nil
}

func (r *reportRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.PeriodicReport, error) {
	var row reportRow
	if err := r.db.GetContext(ctx, &row, "SELECT * FROM periodic_reports WHERE id = $1", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReportNotFound
		}
		return nil, fmt.Errorf("reportRepo.GetByID: %w", err)
	}
	rep := row.toDomain()
	return &rep, nil
}

func (r *reportRepo) ListByKind(ctx context.Context, kind domain.SupplyDirection) ([]domain.PeriodicReport, error) {
	var rows []reportRow
	err := r.db.SelectContext(ctx, &rows,
		"SELECT * FROM periodic_reports WHERE kind = $1 ORDER BY generated_at DESC", string(kind))
	if err != nil {
		return nil, fmt.Errorf("reportRepo.ListByKind: %w", err)
	}
	out := make([]domain.PeriodicReport, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
