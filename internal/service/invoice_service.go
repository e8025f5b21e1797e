package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"gstreport/internal/domain"
	"gstreport/internal/port"
	"gstreport/internal/search"
	"gstreport/internal/taxcalc"
)

// maxTransitionAttempts bounds the compare-and-swap retries of a status change.
const maxTransitionAttempts = 3

// CreateInvoiceInput is the DTO for recording a new draft invoice.
type CreateInvoiceInput struct {
	IssueDate     time.Time
	SupplierGSTIN string
	SupplierName  string
	CustomerGSTIN string
	CustomerName  string
	TaxableValue  domain.Money
	Rate          domain.Rate
	Category      string
	// Direction overrides classification against the organisation GSTIN when set.
	Direction domain.SupplyDirection
}

// UpdateInvoiceInput is the DTO for editing a draft or revising a filed invoice.
// Nil fields keep their current value.
type UpdateInvoiceInput struct {
	IssueDate     *time.Time
	SupplierGSTIN *string
	SupplierName  *string
	CustomerGSTIN *string
	CustomerName  *string
	TaxableValue  *domain.Money
	Rate          *domain.Rate
	Category      *string
	Direction     *domain.SupplyDirection
}

// InvoiceServiceConfig carries the policies of the invoice store.
type InvoiceServiceConfig struct {
	// OrgGSTIN classifies invoices: supplier match is outward, customer match is inward.
	OrgGSTIN string
	// AllowSkipPending permits Draft -> Submitted directly.
	AllowSkipPending bool
	Now              Clock
}

// InvoiceService defines the invoice store contract.
type InvoiceService interface {
	Create(ctx context.Context, input *CreateInvoiceInput) (*domain.Invoice, error)
	Get(ctx context.Context, id string) (*domain.Invoice, error)
	List(ctx context.Context) ([]domain.Invoice, error)
	Search(ctx context.Context, q search.Query) ([]domain.Invoice, error)
	Transition(ctx context.Context, id string, to domain.InvoiceStatus) (*domain.Invoice, error)
	UpdateDraft(ctx context.Context, id string, input *UpdateInvoiceInput) (*domain.Invoice, error)
	Revise(ctx context.Context, id string, input *UpdateInvoiceInput) (*domain.Invoice, error)
}

type invoiceService struct {
	repo       port.InvoiceRepository
	calc       *taxcalc.Calculator
	cfg        InvoiceServiceConfig
	activities activityRecorder
	log        *zap.Logger
}

// NewInvoiceService creates a new InvoiceService implementation.
func NewInvoiceService(
	repo port.InvoiceRepository,
	activities port.ActivityRepository,
	calc *taxcalc.Calculator,
	cfg InvoiceServiceConfig,
	logger *zap.Logger,
) InvoiceService {
	if calc == nil {
		calc = &taxcalc.Calculator{}
	}
	cfg.Now = cfg.Now.orDefault()
	cfg.OrgGSTIN = strings.TrimSpace(cfg.OrgGSTIN)
	log := orNop(logger).Named("invoiceService")
	return &invoiceService{
		repo:       repo,
		calc:       calc,
		cfg:        cfg,
		activities: activityRecorder{repo: activities, log: log, now: cfg.Now},
		log:        log,
	}
}

func (s *invoiceService) Create(ctx context.Context, input *CreateInvoiceInput) (*domain.Invoice, error) {
	inv, err := s.build(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, inv); err != nil {
		s.log.Error("failed to create invoice", zap.Error(err))
		return nil, fmt.Errorf("invoiceService.Create: %w", err)
	}

	s.log.Info("invoice created",
		zap.String("invoice_id", inv.ID),
		zap.String("direction", string(inv.Direction)),
		zap.String("tax_type", string(inv.Tax.Type)),
		zap.Stringer("total_tax", inv.Tax.Total()))
	s.activities.record(ctx, domain.ActivityInfo, inv.ID, "Invoice %s recorded for %s", inv.ID, inv.CustomerName)
	return inv, nil
}

// build validates input and computes the tax split of a new draft.
func (s *invoiceService) build(ctx context.Context, input *CreateInvoiceInput) (*domain.Invoice, error) {
	if input.IssueDate.IsZero() {
		return nil, fmt.Errorf("%w: issue date is required", domain.ErrInvalidInvoice)
	}
	// Identifiers are validated exactly as given; a padded or lowercase GSTIN is rejected.
	supplier, customer := input.SupplierGSTIN, input.CustomerGSTIN

	tax, err := s.calc.ComputeSplit(supplier, customer, input.TaxableValue, input.Rate)
	if err != nil {
		var idErr *domain.InvalidTaxpayerIDError
		if errors.As(err, &idErr) {
			s.activities.record(ctx, domain.ActivityError, idErr.GSTIN,
				"GSTIN validation failed for %s %s", idErr.Side, idErr.GSTIN)
		}
		return nil, err
	}

	direction, err := s.classify(supplier, customer, input.Direction)
	if err != nil {
		return nil, err
	}

	return &domain.Invoice{
		IssueDate:     domain.DateOf(input.IssueDate),
		SupplierGSTIN: supplier,
		SupplierName:  strings.TrimSpace(input.SupplierName),
		CustomerGSTIN: customer,
		CustomerName:  strings.TrimSpace(input.CustomerName),
		Tax:           tax,
		Status:        domain.InvoiceStatusDraft,
		Category:      strings.TrimSpace(input.Category),
		Direction:     direction,
	}, nil
}

// classify decides which return an invoice belongs to.
func (s *invoiceService) classify(supplier, customer string, explicit domain.SupplyDirection) (domain.SupplyDirection, error) {
	if explicit != "" {
		if !explicit.Valid() {
			return "", fmt.Errorf("%w: unknown direction %q", domain.ErrUnknownSupply, explicit)
		}
		return explicit, nil
	}
	switch {
	case s.cfg.OrgGSTIN == "":
		return "", fmt.Errorf("%w: no organisation GSTIN configured and no direction given", domain.ErrUnknownSupply)
	case supplier == s.cfg.OrgGSTIN:
		return domain.DirectionOutward, nil
	case customer == s.cfg.OrgGSTIN:
		return domain.DirectionInward, nil
	}
	return "", fmt.Errorf("%w: neither party is %s", domain.ErrUnknownSupply, s.cfg.OrgGSTIN)
}

func (s *invoiceService) Get(ctx context.Context, id string) (*domain.Invoice, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("invoiceService.Get: %w", err)
	}
	return inv, nil
}

func (s *invoiceService) List(ctx context.Context) ([]domain.Invoice, error) {
	invoices, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("invoiceService.List: %w", err)
	}
	return invoices, nil
}

func (s *invoiceService) Search(ctx context.Context, q search.Query) ([]domain.Invoice, error) {
	invoices, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("invoiceService.Search: %w", err)
	}
	return search.Filter(invoices, q), nil
}

// Transition moves an invoice forward. A concurrent change between the read and the
// compare-and-swap is retried against the fresh status, so exactly one of two racing
// identical transitions succeeds and the other sees an invalid transition.
func (s *invoiceService) Transition(ctx context.Context, id string, to domain.InvoiceStatus) (*domain.Invoice, error) {
	for attempt := 1; attempt <= maxTransitionAttempts; attempt++ {
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("invoiceService.Transition: %w", err)
		}
		if !current.Status.CanTransitionTo(to, s.cfg.AllowSkipPending) {
			return nil, &domain.InvalidTransitionError{From: string(current.Status), To: string(to)}
		}

		updated, err := s.repo.UpdateStatus(ctx, id, current.Status, to)
		if errors.Is(err, domain.ErrStatusConflict) {
			s.log.Debug("status changed concurrently, retrying",
				zap.String("invoice_id", id), zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("invoiceService.Transition: %w", err)
		}

		s.log.Info("invoice status changed",
			zap.String("invoice_id", id),
			zap.String("from", string(current.Status)),
			zap.String("to", string(to)))
		s.recordTransition(ctx, updated)
		return updated, nil
	}
	return nil, fmt.Errorf("invoiceService.Transition: %w", domain.ErrStatusConflict)
}

func (s *invoiceService) recordTransition(ctx context.Context, inv *domain.Invoice) {
	switch inv.Status {
	case domain.InvoiceStatusSubmitted:
		s.activities.record(ctx, domain.ActivitySuccess, inv.ID, "Invoice %s submitted", inv.ID)
	case domain.InvoiceStatusPending:
		s.activities.record(ctx, domain.ActivityPending, inv.ID, "Invoice %s awaiting submission", inv.ID)
	}
}

func (s *invoiceService) UpdateDraft(ctx context.Context, id string, input *UpdateInvoiceInput) (*domain.Invoice, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("invoiceService.UpdateDraft: %w", err)
	}
	if current.Status != domain.InvoiceStatusDraft {
		return nil, fmt.Errorf("invoiceService.UpdateDraft: %s: %w", id, domain.ErrInvoiceLocked)
	}

	merged, err := s.build(ctx, mergeInput(current, input))
	if err != nil {
		return nil, err
	}
	merged.ID = current.ID
	merged.RevisionOf = current.RevisionOf
	if err := s.repo.UpdateDraft(ctx, merged); err != nil {
		return nil, fmt.Errorf("invoiceService.UpdateDraft: %w", err)
	}

	s.log.Info("draft invoice updated", zap.String("invoice_id", id))
	return merged, nil
}

// Revise records a corrected copy of a pending or submitted invoice as a new draft that
// references the original. The original is never modified.
func (s *invoiceService) Revise(ctx context.Context, id string, input *UpdateInvoiceInput) (*domain.Invoice, error) {
	original, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("invoiceService.Revise: %w", err)
	}
	if original.Status == domain.InvoiceStatusDraft {
		return nil, fmt.Errorf("%w: draft %s can be edited in place", domain.ErrInvalidInvoice, id)
	}

	rev, err := s.build(ctx, mergeInput(original, input))
	if err != nil {
		return nil, err
	}
	rev.RevisionOf = &original.ID
	if err := s.repo.Create(ctx, rev); err != nil {
		return nil, fmt.Errorf("invoiceService.Revise: %w", err)
	}

	s.log.Info("invoice revised", zap.String("invoice_id", rev.ID), zap.String("revision_of", original.ID))
	s.activities.record(ctx, domain.ActivityInfo, rev.ID, "Invoice %s revises %s", rev.ID, original.ID)
	return rev, nil
}

// mergeInput overlays the non-nil fields of input on an existing invoice.
func mergeInput(inv *domain.Invoice, input *UpdateInvoiceInput) *CreateInvoiceInput {
	out := &CreateInvoiceInput{
		IssueDate:     inv.IssueDate,
		SupplierGSTIN: inv.SupplierGSTIN,
		SupplierName:  inv.SupplierName,
		CustomerGSTIN: inv.CustomerGSTIN,
		CustomerName:  inv.CustomerName,
		TaxableValue:  inv.Tax.TaxableValue,
		Rate:          inv.Tax.Rate,
		Category:      inv.Category,
		Direction:     inv.Direction,
	}
	if input == nil {
		return out
	}
	if input.IssueDate != nil {
		out.IssueDate = *input.IssueDate
	}
	if input.SupplierGSTIN != nil {
		out.SupplierGSTIN = *input.SupplierGSTIN
		// A party change re-derives the direction unless one is given.
		out.Direction = ""
	}
	if input.SupplierName != nil {
		out.SupplierName = *input.SupplierName
	}
	if input.CustomerGSTIN != nil {
		out.CustomerGSTIN = *input.CustomerGSTIN
		out.Direction = ""
	}
	if input.CustomerName != nil {
		out.CustomerName = *input.CustomerName
	}
	if input.TaxableValue != nil {
		out.TaxableValue = *input.TaxableValue
	}
	if input.Rate != nil {
		out.Rate = *input.Rate
	}
	if input.Category != nil {
		out.Category = *input.Category
	}
	if input.Direction != nil {
		out.Direction = *input.Direction
	}
	return out
}
