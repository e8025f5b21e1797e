package report_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gstreport/internal/domain"
	"gstreport/internal/report"
	"gstreport/internal/taxcalc"
)

const (
	own      = "27AABCU9603R1ZX"
	local    = "27AABCU9603R1ZY"
	interGST = "07AABCU9603R1ZZ"
)

func day(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
}

func invoice(t *testing.T, id string, issued time.Time, customer string, rupees int64, status domain.InvoiceStatus, dir domain.SupplyDirection) domain.Invoice {
	t.Helper()
	tb, err := taxcalc.ComputeSplit(own, customer, domain.Rupees(rupees), domain.NewRate(18, 0))
	require.NoError(t, err)
	return domain.Invoice{
		ID: id, IssueDate: issued, SupplierGSTIN: own, CustomerGSTIN: customer,
		Tax: tb, Status: status, Direction: dir,
	}
}

func fixture(t *testing.T) []domain.Invoice {
	return []domain.Invoice{
		invoice(t, "INV-2024-0001", day(time.January, 1), local, 10000, domain.InvoiceStatusSubmitted, domain.DirectionOutward),
		invoice(t, "INV-2024-0002", day(time.January, 15), interGST, 5000, domain.InvoiceStatusSubmitted, domain.DirectionOutward),
		invoice(t, "INV-2024-0003", day(time.January, 16), local, 2000, domain.InvoiceStatusPending, domain.DirectionOutward),
		invoice(t, "INV-2024-0004", day(time.January, 31), interGST, 333, domain.InvoiceStatusSubmitted, domain.DirectionOutward),
		invoice(t, "INV-2024-0005", day(time.January, 20), local, 7000, domain.InvoiceStatusSubmitted, domain.DirectionInward),
		invoice(t, "INV-2024-0006", day(time.February, 1), local, 9000, domain.InvoiceStatusSubmitted, domain.DirectionOutward),
		invoice(t, "INV-2024-0007", day(time.January, 10), local, 1000, domain.InvoiceStatusDraft, domain.DirectionOutward),
	}
}

func TestAggregate_Outward(t *testing.T) {
	res := report.Aggregate(fixture(t), domain.DirectionOutward, domain.MonthPeriod(2024, time.January))

	assert.Equal(t, domain.ReportStatusReady, res.Status)
	assert.Equal(t, 5, res.EligibleCount)
	assert.Equal(t, 2, res.PendingCount)
	assert.Equal(t, 3, res.Summary.InvoiceCount)
	assert.Equal(t, domain.Rupees(15333), res.Summary.TotalTaxableValue)
	assert.Equal(t, "900.00", res.Summary.CentralTotal.String())
	assert.Equal(t, "900.00", res.Summary.StateTotal.String())
	assert.Equal(t, "959.94", res.Summary.IntegratedTotal.String())
	assert.Equal(t, "2759.94", res.Summary.TotalTax.String())
}

func TestAggregate_Inward(t *testing.T) {
	res := report.Aggregate(fixture(t), domain.DirectionInward, domain.MonthPeriod(2024, time.January))
	assert.Equal(t, 1, res.Summary.InvoiceCount)
	assert.Equal(t, domain.Rupees(7000), res.Summary.TotalTaxableValue)
	assert.Equal(t, "1260.00", res.Summary.TotalTax.String())
}

func TestAggregate_DraftAndSubmitted(t *testing.T) {
	invs := []domain.Invoice{
		invoice(t, "INV-2024-0001", day(time.March, 3), local, 25000, domain.InvoiceStatusDraft, domain.DirectionOutward),
		invoice(t, "INV-2024-0002", day(time.March, 4), local, 1000, domain.InvoiceStatusSubmitted, domain.DirectionOutward),
	}
	res := report.Aggregate(invs, domain.DirectionOutward, domain.MonthPeriod(2024, time.March))

	assert.Equal(t, 1, res.Summary.InvoiceCount)
	assert.Equal(t, domain.Rupees(1000), res.Summary.TotalTaxableValue)
	assert.Equal(t, "180.00", res.Summary.TotalTax.String())
	assert.Equal(t, "90.00", res.Summary.CentralTotal.String())
	assert.Equal(t, 2, res.EligibleCount)
	assert.Equal(t, 1, res.PendingCount)
	assert.Equal(t, domain.ReportStatusReady, res.Status)
}

func TestAggregate_PendingStatus(t *testing.T) {
	t.Run("eligible_but_none_submitted", func(t *testing.T) {
		invs := []domain.Invoice{
			invoice(t, "INV-2024-0001", day(time.March, 3), local, 25000, domain.InvoiceStatusDraft, domain.DirectionOutward),
			invoice(t, "INV-2024-0002", day(time.March, 4), local, 1000, domain.InvoiceStatusPending, domain.DirectionOutward),
		}
		res := report.Aggregate(invs, domain.DirectionOutward, domain.MonthPeriod(2024, time.March))
		assert.Equal(t, domain.ReportStatusPending, res.Status)
		assert.Equal(t, domain.ReportSummary{}, res.Summary)
		assert.Equal(t, 2, res.EligibleCount)
		assert.Equal(t, 2, res.PendingCount)
	})

	t.Run("empty_period", func(t *testing.T) {
		res := report.Aggregate(fixture(t), domain.DirectionOutward, domain.MonthPeriod(2023, time.June))
		assert.Equal(t, domain.ReportStatusPending, res.Status)
		assert.Zero(t, res.EligibleCount)
		assert.Equal(t, domain.ReportSummary{}, res.Summary)
	})

	t.Run("nil_input", func(t *testing.T) {
		res := report.Aggregate(nil, domain.DirectionInward, domain.MonthPeriod(2024, time.January))
		assert.Equal(t, domain.ReportStatusPending, res.Status)
	})
}

func TestAggregate_Idempotent(t *testing.T) {
	invs := fixture(t)
	p := domain.QuarterPeriod(2024, 1)
	first := report.Aggregate(invs, domain.DirectionOutward, p)
	second := report.Aggregate(invs, domain.DirectionOutward, p)
	assert.Equal(t, first, second)
}

func TestAggregate_Additive(t *testing.T) {
	invs := fixture(t)
	whole := domain.MonthPeriod(2024, time.January)

	for _, d := range []int{2, 15, 16, 31} {
		a, b, err := whole.Split(day(time.January, d))
		require.NoError(t, err)
		for _, kind := range []domain.SupplyDirection{domain.DirectionOutward, domain.DirectionInward} {
			total := report.Aggregate(invs, kind, whole)
			left := report.Aggregate(invs, kind, a)
			right := report.Aggregate(invs, kind, b)
			assert.Equal(t, total.Summary, left.Summary.Add(right.Summary), "split at %d, %s", d, kind)
			assert.Equal(t, total.EligibleCount, left.EligibleCount+right.EligibleCount)
		}
	}
}

func TestAggregate_ReflectsNewInvoices(t *testing.T) {
	invs := fixture(t)
	p := domain.MonthPeriod(2024, time.January)
	before := report.Aggregate(invs, domain.DirectionOutward, p)

	invs = append(invs, invoice(t, "INV-2024-0008", day(time.January, 5), local, 100, domain.InvoiceStatusSubmitted, domain.DirectionOutward))
	after := report.Aggregate(invs, domain.DirectionOutward, p)

	assert.Equal(t, before.Summary.InvoiceCount+1, after.Summary.InvoiceCount)
	assert.Equal(t, before.Summary.TotalTaxableValue+domain.Rupees(100), after.Summary.TotalTaxableValue)
}

func TestSelect_InclusiveBounds(t *testing.T) {
	got := report.Select(fixture(t), domain.DirectionOutward, domain.MonthPeriod(2024, time.January))
	var ids []string
	for _, inv := range got {
		ids = append(ids, inv.ID)
	}
	assert.Equal(t, []string{"INV-2024-0001", "INV-2024-0002", "INV-2024-0003", "INV-2024-0004", "INV-2024-0007"}, ids)
}

func revision(t *testing.T, id, of string, issued time.Time, rupees int64, status domain.InvoiceStatus) domain.Invoice {
	t.Helper()
	inv := invoice(t, id, issued, interGST, rupees, status, domain.DirectionOutward)
	inv.RevisionOf = &of
	return inv
}

func TestAggregate_Revisions(t *testing.T) {
	jan := domain.MonthPeriod(2024, time.January)
	original := invoice(t, "INV-2024-0001", day(time.January, 5), interGST, 10000, domain.InvoiceStatusSubmitted, domain.DirectionOutward)

	t.Run("submitted_revision_replaces_original", func(t *testing.T) {
		invs := []domain.Invoice{original, revision(t, "INV-2024-0002", "INV-2024-0001", day(time.January, 5), 12000, domain.InvoiceStatusSubmitted)}
		res := report.Aggregate(invs, domain.DirectionOutward, jan)
		assert.Equal(t, 1, res.Summary.InvoiceCount)
		assert.Equal(t, 1, res.EligibleCount)
		assert.Equal(t, "12000.00", res.Summary.TotalTaxableValue.String())
		assert.Equal(t, "2160.00", res.Summary.TotalTax.String())
	})

	t.Run("pending_revision_keeps_original", func(t *testing.T) {
		invs := []domain.Invoice{original, revision(t, "INV-2024-0002", "INV-2024-0001", day(time.January, 5), 12000, domain.InvoiceStatusPending)}
		res := report.Aggregate(invs, domain.DirectionOutward, jan)
		assert.Equal(t, 1, res.Summary.InvoiceCount)
		assert.Equal(t, 2, res.EligibleCount)
		assert.Equal(t, 1, res.PendingCount)
		assert.Equal(t, "10000.00", res.Summary.TotalTaxableValue.String())
	})

	t.Run("revision_dated_in_another_period", func(t *testing.T) {
		invs := []domain.Invoice{original, revision(t, "INV-2024-0002", "INV-2024-0001", day(time.February, 2), 12000, domain.InvoiceStatusSubmitted)}
		res := report.Aggregate(invs, domain.DirectionOutward, jan)
		assert.Zero(t, res.EligibleCount)
		assert.Equal(t, domain.ReportStatusPending, res.Status)

		feb := report.Aggregate(invs, domain.DirectionOutward, domain.MonthPeriod(2024, time.February))
		assert.Equal(t, 1, feb.Summary.InvoiceCount)
	})

	t.Run("chain_counts_latest_submitted", func(t *testing.T) {
		invs := []domain.Invoice{
			original,
			revision(t, "INV-2024-0002", "INV-2024-0001", day(time.January, 5), 11000, domain.InvoiceStatusSubmitted),
			revision(t, "INV-2024-0003", "INV-2024-0002", day(time.January, 5), 12000, domain.InvoiceStatusSubmitted),
		}
		got := report.Select(invs, domain.DirectionOutward, jan)
		require.Len(t, got, 1)
		assert.Equal(t, "INV-2024-0003", got[0].ID)
	})

	t.Run("idempotent", func(t *testing.T) {
		invs := []domain.Invoice{original, revision(t, "INV-2024-0002", "INV-2024-0001", day(time.January, 5), 12000, domain.InvoiceStatusSubmitted)}
		assert.Equal(t, report.Aggregate(invs, domain.DirectionOutward, jan), report.Aggregate(invs, domain.DirectionOutward, jan))
	})
}

func TestSuperseded(t *testing.T) {
	invs := []domain.Invoice{
		invoice(t, "INV-2024-0001", day(time.January, 5), local, 100, domain.InvoiceStatusSubmitted, domain.DirectionOutward),
		invoice(t, "INV-2024-0002", day(time.January, 6), local, 100, domain.InvoiceStatusSubmitted, domain.DirectionOutward),
		revision(t, "INV-2024-0003", "INV-2024-0001", day(time.January, 7), 200, domain.InvoiceStatusSubmitted),
		revision(t, "INV-2024-0004", "INV-2024-0002", day(time.January, 8), 200, domain.InvoiceStatusDraft),
	}
	assert.Equal(t, map[string]bool{"INV-2024-0001": true}, report.Superseded(invs))

	var ids []string
	for _, inv := range report.Current(invs) {
		ids = append(ids, inv.ID)
	}
	assert.Equal(t, []string{"INV-2024-0002", "INV-2024-0003", "INV-2024-0004"}, ids)
}

func TestMonthly_SkipsSupersededInvoices(t *testing.T) {
	invs := []domain.Invoice{
		invoice(t, "INV-2024-0001", day(time.January, 5), interGST, 10000, domain.InvoiceStatusSubmitted, domain.DirectionOutward),
		revision(t, "INV-2024-0002", "INV-2024-0001", day(time.January, 5), 12000, domain.InvoiceStatusSubmitted),
	}
	series := report.Monthly(invs, day(time.January, 31), 1)
	require.Len(t, series, 1)
	assert.Equal(t, "2160.00", series[0].IGST.String())
}

func TestBuild(t *testing.T) {
	at := time.Date(2024, 2, 5, 10, 0, 0, 0, time.UTC)
	r := report.Build(fixture(t), domain.DirectionOutward, domain.MonthPeriod(2024, time.January), at)

	assert.Nil(t, r.ID)
	assert.Equal(t, "GSTR-1", r.ReturnName)
	assert.Equal(t, at, r.GeneratedAt)
	assert.Equal(t, 3, r.Summary.InvoiceCount)
	assert.Equal(t, domain.ReportStatusReady, r.Status)
}

func TestMonthly(t *testing.T) {
	series := report.Monthly(fixture(t), day(time.February, 10), 3)
	require.Len(t, series, 3)

	assert.Equal(t, "2023-12", series[0].Month)
	assert.Zero(t, series[0].CGST)

	assert.Equal(t, "2024-01", series[1].Month)
	assert.Equal(t, "1530.00", series[1].CGST.String())
	assert.Equal(t, "1530.00", series[1].SGST.String())
	assert.Equal(t, "959.94", series[1].IGST.String())

	assert.Equal(t, "2024-02", series[2].Month)
	assert.Equal(t, "810.00", series[2].CGST.String())

	assert.Empty(t, report.Monthly(nil, day(time.January, 1), 0))
}
