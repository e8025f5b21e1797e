// Package email renders report notifications. Delivery lives in the ses and noop subpackages.
package email

import (
	"fmt"
	"html"
	"strings"

	"gstreport/internal/domain"
)

// Message is a rendered notification.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

// ReportReady renders the notification sent when a periodic report has filing data.
func ReportReady(rep *domain.PeriodicReport, frontendURL string) Message {
	label := rep.Period.Label()
	link := fmt.Sprintf("%s/reports?kind=%s&period=%s", strings.TrimRight(frontendURL, "/"), rep.Kind, label)
	s := rep.Summary

	subject := fmt.Sprintf("%s for %s is ready to file", rep.ReturnName, label)

	var text strings.Builder
	fmt.Fprintf(&text, "%s for %s is ready to file.\n\n", rep.ReturnName, label)
	fmt.Fprintf(&text, "Invoices: %d submitted, %d pending\n", s.InvoiceCount, rep.PendingCount)
	fmt.Fprintf(&text, "Taxable value: %s\n", s.TotalTaxableValue)
	fmt.Fprintf(&text, "CGST: %s\nSGST: %s\nIGST: %s\n", s.CentralTotal, s.StateTotal, s.IntegratedTotal)
	fmt.Fprintf(&text, "Total tax: %s\n\n", s.TotalTax)
	fmt.Fprintf(&text, "Review it at %s\n", link)

	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">%s for %s is ready to file</h2>
  <table style="border-collapse: collapse; width: 100%%;">
    <tr><td>Invoices submitted</td><td style="text-align: right;">%d</td></tr>
    <tr><td>Invoices pending</td><td style="text-align: right;">%d</td></tr>
    <tr><td>Taxable value</td><td style="text-align: right;">%s</td></tr>
    <tr><td>CGST</td><td style="text-align: right;">%s</td></tr>
    <tr><td>SGST</td><td style="text-align: right;">%s</td></tr>
    <tr><td>IGST</td><td style="text-align: right;">%s</td></tr>
    <tr><td><strong>Total tax</strong></td><td style="text-align: right;"><strong>%s</strong></td></tr>
  </table>
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #4F46E5; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Review report</a>
  </p>
</body>
</html>`,
		html.EscapeString(rep.ReturnName), html.EscapeString(label),
		s.InvoiceCount, rep.PendingCount,
		s.TotalTaxableValue, s.CentralTotal, s.StateTotal, s.IntegratedTotal, s.TotalTax,
		html.EscapeString(link))

	return Message{Subject: subject, Text: text.String(), HTML: body}
}
