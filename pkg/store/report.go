package store

import (
	"context"
	"fmt"
	"time"
)

// Totals summarizes invoices in a date range. Amounts are minor units.
type Totals struct {
	Count   int64
	Paid    int64
	Pending int64
}

const sqlInvoiceTotals = `SELECT COUNT(*) AS count,
	COALESCE(SUM(CASE WHEN status = 'paid' THEN amount ELSE 0 END), 0) AS paid,
	COALESCE(SUM(CASE WHEN status = 'pending' THEN amount ELSE 0 END), 0) AS pending
FROM invoices WHERE date >= ? AND date < ?`

// InvoiceTotals sums invoices dated in [from, to). Only the calendar date of
// the bounds is used.
func (s *Store) InvoiceTotals(ctx context.Context, from, to time.Time) (Totals, error) {
	var t Totals
	err := s.db.WithContext(ctx).
		Raw(sqlInvoiceTotals, from.Format(time.DateOnly), to.Format(time.DateOnly)).
		Row().
		Scan(&t.Count, &t.Paid, &t.Pending)
	if err != nil {
		return Totals{}, classify("invoice totals", err)
	}
	return t, nil
}

// MonthRange parses a YYYY-MM month into its [start, end) bounds in UTC.
func MonthRange(month string) (time.Time, time.Time, error) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid month %q, expected YYYY-MM", month)
	}
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0), nil
}
