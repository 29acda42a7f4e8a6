// Package analytics aggregates invoices into the figures shown on the dashboard
// and in background reports.
package analytics

import (
	"fmt"
	"strings"

	"invoicegen/internal/models"

	"github.com/google/uuid"
)

// RecentInvoiceCount is how many of the newest invoices a dashboard summary carries.
const RecentInvoiceCount = 5

// Summarize aggregates invoices, which must be ordered newest first. Pending counts as
// unpaid.
func Summarize(invoices []*models.Invoice) models.DashboardStats {
	stats := models.DashboardStats{TotalInvoices: len(invoices)}
	for _, inv := range invoices {
		if inv.Status == models.StatusPaid {
			stats.PaidInvoices++
			stats.TotalRevenue += inv.Total
		} else {
			stats.UnpaidInvoices++
			stats.TotalOutstanding += inv.Total
		}
	}
	n := min(RecentInvoiceCount, len(invoices))
	stats.Recent = invoices[:n]
	return stats
}

// FormatSummary renders stats as the bullet list fed to the insights prompt.
func FormatSummary(stats models.DashboardStats) string {
	recent := make([]string, 0, len(stats.Recent))
	for _, inv := range stats.Recent {
		recent = append(recent, fmt.Sprintf("Invoice #%s for %.2f with status %s", inv.InvoiceNumber, inv.Total, inv.Status))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "- Total invoices: %d\n", stats.TotalInvoices)
	fmt.Fprintf(&sb, "- Paid invoices: %d\n", stats.PaidInvoices)
	fmt.Fprintf(&sb, "- Unpaid or pending invoices: %d\n", stats.UnpaidInvoices)
	fmt.Fprintf(&sb, "- Revenue from paid invoices: %.2f\n", stats.TotalRevenue)
	fmt.Fprintf(&sb, "- Outstanding on unpaid or pending invoices: %.2f\n", stats.TotalOutstanding)
	fmt.Fprintf(&sb, "- Recent invoices (last %d): %s", len(stats.Recent), strings.Join(recent, ", "))
	return sb.String()
}

// OverdueStats summarises a set of overdue invoices across users.
type OverdueStats struct {
	Invoices    int
	Users       int
	Outstanding float64
}

func SummarizeOverdue(invoices []*models.Invoice) OverdueStats {
	users := make(map[uuid.UUID]struct{})
	stats := OverdueStats{Invoices: len(invoices)}
	for _, inv := range invoices {
		users[inv.UserID] = struct{}{}
		stats.Outstanding += inv.Total
	}
	stats.Users = len(users)
	return stats
}
