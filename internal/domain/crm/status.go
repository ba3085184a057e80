package crm

import (
	"time"

	"github.com/sangkips/orderdesk-api/internal/domain/enum"
)

// ClassifyStatus derives the lifecycle stage from order and interaction recency.
// It keeps no memory between calls: the same metrics and clock give the same status.
func ClassifyStatus(w StatusWindows, m Metrics, now time.Time) enum.CustomerStatus {
	m = m.Sanitize(now)
	if m.TotalOrders == 0 {
		return enum.CustomerStatusPotential
	}

	sinceLast, known := m.DaysSinceLastOrder(now)
	if !known {
		// Orders exist but carry no date; nothing to measure staleness against
		return enum.CustomerStatusActive
	}

	if sinceLast > w.ChurnDays {
		if since, ok := m.DaysSinceLastInteraction(now); ok && since <= w.InteractionGraceDays {
			return enum.CustomerStatusActive
		}
		return enum.CustomerStatusChurned
	}

	sinceFirst, ok := m.DaysSinceFirstOrder(now)
	if !ok {
		sinceFirst = sinceLast
	}

	if sinceLast <= w.ActiveWindowDays &&
		m.TotalOrders >= int64(w.LoyalMinOrders) &&
		sinceFirst >= w.LoyalTenureDays {
		return enum.CustomerStatusLoyal
	}
	if sinceFirst <= w.NewWindowDays {
		return enum.CustomerStatusNew
	}
	return enum.CustomerStatusActive
}

// Classify returns grade and status together
func Classify(rules Rules, m Metrics, now time.Time) (enum.CustomerGrade, enum.CustomerStatus) {
	return ClassifyGrade(rules.GradeRules, m, now), ClassifyStatus(rules.Status, m, now)
}
