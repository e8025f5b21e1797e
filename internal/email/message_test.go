package email_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"gstreport/internal/domain"
	"gstreport/internal/email"
)

func TestReportReady(t *testing.T) {
	rep := &domain.PeriodicReport{
		Kind:       domain.DirectionOutward,
		ReturnName: "GSTR-1",
		Period:     domain.MonthPeriod(2024, time.January),
		Summary: domain.ReportSummary{
			InvoiceCount:      2,
			TotalTaxableValue: domain.Rupees(20000),
			TotalTax:          domain.Rupees(3600),
			CentralTotal:      domain.Rupees(900),
			StateTotal:        domain.Rupees(900),
			IntegratedTotal:   domain.Rupees(1800),
		},
		PendingCount: 1,
		Status:       domain.ReportStatusReady,
	}

	msg := email.ReportReady(rep, "https://gst.example.com/")

	assert.Equal(t, "GSTR-1 for 2024-01 is ready to file", msg.Subject)
	assert.Contains(t, msg.Text, "Invoices: 2 submitted, 1 pending")
	assert.Contains(t, msg.Text, "Total tax: 3600.00")
	assert.Contains(t, msg.Text, "https://gst.example.com/reports?kind=outward&period=2024-01")
	assert.Contains(t, msg.HTML, "IGST</td><td style=\"text-align: right;\">1800.00")
	assert.Contains(t, msg.HTML, "kind=outward&amp;period=2024-01")
}
