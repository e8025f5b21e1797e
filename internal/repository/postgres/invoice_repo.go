package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"gstreport/internal/domain"
	"gstreport/internal/port"
)

// invoiceRow is the flat column layout of the invoices table.
type invoiceRow struct {
	ID            string          `db:"id"`
	IssueDate     time.Time       `db:"issue_date"`
	SupplierGSTIN string          `db:"supplier_gstin"`
	SupplierName  string          `db:"supplier_name"`
	CustomerGSTIN string          `db:"customer_gstin"`
	CustomerName  string          `db:"customer_name"`
	TaxableValue  int64           `db:"taxable_value"`
	Rate          decimal.Decimal `db:"rate"`
	TaxType       string          `db:"tax_type"`
	CentralTax    int64           `db:"central_tax"`
	StateTax      int64           `db:"state_tax"`
	IntegratedTax int64           `db:"integrated_tax"`
	Status        string          `db:"status"`
	Category      string          `db:"category"`
	Direction     string          `db:"direction"`
	RevisionOf    sql.NullString  `db:"revision_of"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

const invoiceColumns = `id, issue_date, supplier_gstin, supplier_name, customer_gstin, customer_name,
	taxable_value, rate, tax_type, central_tax, state_tax, integrated_tax,
	status, category, direction, revision_of, created_at, updated_at`

func (r invoiceRow) toDomain() domain.Invoice {
	inv := domain.Invoice{
		ID:            r.ID,
		IssueDate:     domain.DateOf(r.IssueDate),
		SupplierGSTIN: r.SupplierGSTIN,
		SupplierName:  r.SupplierName,
		CustomerGSTIN: r.CustomerGSTIN,
		CustomerName:  r.CustomerName,
		Tax: domain.TaxBreakdown{
			TaxableValue:  domain.Money(r.TaxableValue),
			Rate:          domain.Rate{Decimal: r.Rate},
			Type:          domain.TaxType(r.TaxType),
			CentralTax:    domain.Money(r.CentralTax),
			StateTax:      domain.Money(r.StateTax),
			IntegratedTax: domain.Money(r.IntegratedTax),
		},
		Status:    domain.InvoiceStatus(r.Status),
		Category:  r.Category,
		Direction: domain.SupplyDirection(r.Direction),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.RevisionOf.Valid {
		rev := r.RevisionOf.String
		inv.RevisionOf = &rev
	}
	return inv
}

type invoiceRepo struct {
	db *sqlx.DB
}

// NewInvoiceRepo creates a new PostgreSQL-backed InvoiceRepository.
// IDs come from the invoice_seq sequence, so they are never reused even after a failed insert.
func NewInvoiceRepo(db *sqlx.DB) port.InvoiceRepository {
	return &invoiceRepo{db: db}
}

func (r *invoiceRepo) Create(ctx context.Context, inv *domain.Invoice) error {
	var seq int64
	if err := r.db.GetContext(ctx, &seq, "SELECT nextval('invoice_seq')"); err != nil {
		return fmt.Errorf("invoiceRepo.Create nextval: %w", err)
	}
	now := time.Now().UTC()
	inv.ID = fmt.Sprintf("INV-%d-%04d", inv.IssueDate.Year(), seq)
	inv.CreatedAt = now
	inv.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `INSERT INTO invoices (
		id, seq, issue_date, supplier_gstin, supplier_name, customer_gstin, customer_name,
		taxable_value, rate, tax_type, central_tax, state_tax, integrated_tax,
		status, category, direction, revision_of, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7,
		$8, $9, $10, $11, $12, $13,
		$14, $15, $16, $17, $18, $19
	)`,
		inv.ID, seq, inv.IssueDate, inv.SupplierGSTIN, inv.SupplierName, inv.CustomerGSTIN, inv.CustomerName,
		int64(inv.Tax.TaxableValue), inv.Tax.Rate.Decimal, string(inv.Tax.Type),
		int64(inv.Tax.CentralTax), int64(inv.Tax.StateTax), int64(inv.Tax.IntegratedTax),
		string(inv.Status), inv.Category, string(inv.Direction), inv.RevisionOf, inv.CreatedAt, inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Create: %w", err)
	}
	return nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	var row invoiceRow
	err := r.db.GetContext(ctx, &row, "SELECT "+invoiceColumns+" FROM invoices WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.GetByID: %w", err)
	}
	inv := row.toDomain()
	return &inv, nil
}

func (r *invoiceRepo) List(ctx context.Context) ([]domain.Invoice, error) {
	var rows []invoiceRow
	if err := r.db.SelectContext(ctx, &rows, "SELECT "+invoiceColumns+" FROM invoices ORDER BY seq"); err != nil {
		return nil, fmt.Errorf("invoiceRepo.List: %w", err)
	}
	return toInvoices(rows), nil
}

func (r *invoiceRepo) UpdateDraft(ctx context.Context, inv *domain.Invoice) error {
	var row invoiceRow
	err := r.db.GetContext(ctx, &row, `UPDATE invoices SET
			issue_date = $1, supplier_gstin = $2, supplier_name = $3,
			customer_gstin = $4, customer_name = $5,
			taxable_value = $6, rate = $7, tax_type = $8,
			central_tax = $9, state_tax = $10, integrated_tax = $11,
			category = $12, direction = $13, updated_at = $14
		 WHERE id = $15 AND status = $16
		 RETURNING `+invoiceColumns,
		inv.IssueDate, inv.SupplierGSTIN, inv.SupplierName,
		inv.CustomerGSTIN, inv.CustomerName,
		int64(inv.Tax.TaxableValue), inv.Tax.Rate.Decimal, string(inv.Tax.Type),
		int64(inv.Tax.CentralTax), int64(inv.Tax.StateTax), int64(inv.Tax.IntegratedTax),
		inv.Category, string(inv.Direction), time.Now().UTC(),
		inv.ID, string(domain.InvoiceStatusDraft))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r.missOrLocked(ctx, inv.ID, domain.ErrInvoiceLocked)
		}
		return fmt.Errorf("invoiceRepo.UpdateDraft: %w", err)
	}
	*inv = row.toDomain()
	return nil
}

func (r *invoiceRepo) UpdateStatus(ctx context.Context, id string, from, to domain.InvoiceStatus) (*domain.Invoice, error) {
	var row invoiceRow
	err := r.db.GetContext(ctx, &row,
		`UPDATE invoices SET status = $1, updated_at = $2
		 WHERE id = $3 AND status = $4
		 RETURNING `+invoiceColumns,
		string(to), time.Now().UTC(), id, string(from))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.missOrLocked(ctx, id, domain.ErrStatusConflict)
		}
		return nil, fmt.Errorf("invoiceRepo.UpdateStatus: %w", err)
	}
	inv := row.toDomain()
	return &inv, nil
}

// missOrLocked distinguishes a missing invoice from a conditional update that matched no row.
func (r *invoiceRepo) missOrLocked(ctx context.Context, id string, conflict error) error {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM invoices WHERE id = $1)", id); err != nil {
		return fmt.Errorf("invoiceRepo.exists: %w", err)
	}
	if !exists {
		return domain.ErrInvoiceNotFound
	}
	return conflict
}

func toInvoices(rows []invoiceRow) []domain.Invoice {
	out := make([]domain.Invoice, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}
