package crm

import (
	"math"
	"time"
)

// Metrics are the per-customer inputs to both classifiers
type Metrics struct {
	TotalOrders         int64
	TotalAmount         int64 // cents
	FirstOrderDate      *time.Time
	LastOrderDate       *time.Time
	LastInteractionDate *time.Time
}

// Sanitize clamps malformed values: negative totals become zero and dates in
// the future become now. A first order later than the last one is pulled back.
func (m Metrics) Sanitize(now time.Time) Metrics {
	if m.TotalOrders < 0 {
		m.TotalOrders = 0
	}
	if m.TotalAmount < 0 {
		m.TotalAmount = 0
	}
	m.FirstOrderDate = clampFuture(m.FirstOrderDate, now)
	m.LastOrderDate = clampFuture(m.LastOrderDate, now)
	m.LastInteractionDate = clampFuture(m.LastInteractionDate, now)
	if m.FirstOrderDate != nil && m.LastOrderDate != nil && m.FirstOrderDate.After(*m.LastOrderDate) {
		first := *m.LastOrderDate
		m.FirstOrderDate = &first
	}
	return m
}

// DaysSinceLastOrder returns whole days between the last order and now
func (m Metrics) DaysSinceLastOrder(now time.Time) (int, bool) {
	return daysSince(m.LastOrderDate, now)
}

// DaysSinceFirstOrder returns whole days between the first order and now
func (m Metrics) DaysSinceFirstOrder(now time.Time) (int, bool) {
	return daysSince(m.FirstOrderDate, now)
}

// DaysSinceLastInteraction returns whole days between the last interaction and now
func (m Metrics) DaysSinceLastInteraction(now time.Time) (int, bool) {
	return daysSince(m.LastInteractionDate, now)
}

func clampFuture(t *time.Time, now time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	if t.After(now) {
		n := now
		return &n
	}
	return t
}

func daysSince(t *time.Time, now time.Time) (int, bool) {
	if t == nil || t.IsZero() {
		return 0, false
	}
	d := daysBetween(*t, now)
	if d < 0 {
		d = 0
	}
	return d, true
}

// daysBetween counts calendar days from a to b in b's location
func daysBetween(a, b time.Time) int {
	a = dateOnly(a.In(b.Location()))
	b = dateOnly(b)
	return int(math.Round(b.Sub(a).Hours() / 24))
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
