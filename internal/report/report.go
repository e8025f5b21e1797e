// Package report aggregates invoices into GSTR-1 and GSTR-2 period summaries.
//
// Everything here is a pure function of its inputs. Only submitted invoices contribute to the
// totals; eligible invoices still in draft or pending are counted separately so callers can tell
// an empty period from one that is not ready to file. An invoice replaced by a submitted revision
// is left out entirely, so an amendment is never reported twice.
package report

import (
	"time"

	"gstreport/internal/domain"
)

// Result is the outcome of aggregating one kind over one period.
type Result struct {
	Summary       domain.ReportSummary
	EligibleCount int
	PendingCount  int
	Status        domain.ReportStatus
}

// Counts reports whether inv contributes to report totals.
func Counts(inv *domain.Invoice) bool {
	return inv.Status == domain.InvoiceStatusSubmitted
}

// Eligible reports whether inv belongs to a report of kind over period.
func Eligible(inv *domain.Invoice, kind domain.SupplyDirection, period domain.Period) bool {
	return inv.Direction == kind && period.Contains(inv.IssueDate)
}

// Superseded returns the IDs of invoices in the snapshot that a submitted revision replaces.
// A revision still in draft or pending leaves its original in place.
func Superseded(invoices []domain.Invoice) map[string]bool {
	out := make(map[string]bool)
	for i := range invoices {
		inv := &invoices[i]
		if inv.RevisionOf != nil && Counts(inv) {
			out[*inv.RevisionOf] = true
		}
	}
	return out
}

// Current drops superseded invoices from the snapshot, preserving order.
func Current(invoices []domain.Invoice) []domain.Invoice {
	replaced := Superseded(invoices)
	out := make([]domain.Invoice, 0, len(invoices))
	for i := range invoices {
		if !replaced[invoices[i].ID] {
			out = append(out, invoices[i])
		}
	}
	return out
}

// Select returns the current invoices of kind issued within period, preserving order.
// invoices should be the whole snapshot so revisions dated outside period are still seen.
func Select(invoices []domain.Invoice, kind domain.SupplyDirection, period domain.Period) []domain.Invoice {
	replaced := Superseded(invoices)
	out := make([]domain.Invoice, 0)
	for i := range invoices {
		inv := &invoices[i]
		if !replaced[inv.ID] && Eligible(inv, kind, period) {
			out = append(out, *inv)
		}
	}
	return out
}

// Summarize sums the tax breakdowns of the submitted invoices in invoices.
func Summarize(invoices []domain.Invoice) domain.ReportSummary {
	var s domain.ReportSummary
	for i := range invoices {
		inv := &invoices[i]
		if !Counts(inv) {
			continue
		}
		s.InvoiceCount++
		s.TotalTaxableValue += inv.Tax.TaxableValue
		s.CentralTotal += inv.Tax.CentralTax
		s.StateTotal += inv.Tax.StateTax
		s.IntegratedTotal += inv.Tax.IntegratedTax
	}
	s.TotalTax = s.CentralTotal + s.StateTotal + s.IntegratedTotal
	return s
}

// Aggregate selects and summarises invoices for kind over period. It never fails.
// The status is ready once at least one eligible invoice is submitted.
func Aggregate(invoices []domain.Invoice, kind domain.SupplyDirection, period domain.Period) Result {
	selected := Select(invoices, kind, period)
	res := Result{Summary: Summarize(selected), EligibleCount: len(selected)}
	res.PendingCount = res.EligibleCount - res.Summary.InvoiceCount
	res.Status = domain.ReportStatusPending
	if res.Summary.InvoiceCount > 0 {
		res.Status = domain.ReportStatusReady
	}
	return res
}

// Build aggregates invoices into an unmaterialized PeriodicReport stamped with generatedAt.
func Build(invoices []domain.Invoice, kind domain.SupplyDirection, period domain.Period, generatedAt time.Time) domain.PeriodicReport {
	res := Aggregate(invoices, kind, period)
	return domain.PeriodicReport{
		Kind:          kind,
		ReturnName:    kind.ReturnName(),
		Period:        period,
		GeneratedAt:   generatedAt,
		Summary:       res.Summary,
		EligibleCount: res.EligibleCount,
		PendingCount:  res.PendingCount,
		Status:        res.Status,
	}
}

// Monthly returns the CGST, SGST and IGST totals of current submitted invoices, in either
// direction, for each of the n months ending with the month of end, oldest first.
func Monthly(invoices []domain.Invoice, end time.Time, n int) []domain.MonthlyTax {
	if n <= 0 {
		return []domain.MonthlyTax{}
	}
	invoices = Current(invoices)
	out := make([]domain.MonthlyTax, 0, n)
	last := domain.MonthPeriod(end.Year(), end.Month())
	months := make([]domain.Period, n)
	for i := n - 1; i >= 0; i-- {
		months[i] = last
		last = last.Previous()
	}
	for _, p := range months {
		point := domain.MonthlyTax{Month: p.Label()}
		for i := range invoices {
			inv := &invoices[i]
			if !Counts(inv) || !p.Contains(inv.IssueDate) {
				continue
			}
			point.CGST += inv.Tax.CentralTax
			point.SGST += inv.Tax.StateTax
			point.IGST += inv.Tax.IntegratedTax
		}
		out = append(out, point)
	}
	return out
}
