package crm

import (
	"time"

	"github.com/sangkips/orderdesk-api/internal/domain/enum"
)

// ClassifyGrade evaluates the grade rules in order and returns the first match.
// A customer without orders is always C.
func ClassifyGrade(rules []GradeRule, m Metrics, now time.Time) enum.CustomerGrade {
	m = m.Sanitize(now)
	if m.TotalOrders == 0 {
		return enum.CustomerGradeC
	}

	for _, rule := range rules {
		if rule.MatchType == MatchDefault {
			return rule.Grade
		}
		if ruleMatches(rule, m, now) {
			return rule.Grade
		}
	}
	return enum.CustomerGradeC
}

func ruleMatches(rule GradeRule, m Metrics, now time.Time) bool {
	if len(rule.Conditions) == 0 {
		return false
	}
	for _, cond := range rule.Conditions {
		ok := conditionHolds(cond, m, now)
		if rule.MatchType == MatchAny && ok {
			return true
		}
		if rule.MatchType == MatchAll && !ok {
			return false
		}
	}
	return rule.MatchType == MatchAll
}

func conditionHolds(cond Condition, m Metrics, now time.Time) bool {
	value, ok := metricValue(cond.Field, m, now)
	if !ok {
		return false
	}
	switch cond.Operator {
	case OpGreater:
		return value > cond.Value
	case OpGreaterEqual:
		return value >= cond.Value
	case OpLess:
		return value < cond.Value
	case OpLessEqual:
		return value <= cond.Value
	case OpEqual:
		return value == cond.Value
	}
	return false
}

func metricValue(field Field, m Metrics, now time.Time) (float64, bool) {
	switch field {
	case FieldTotalOrders:
		return float64(m.TotalOrders), true
	case FieldTotalAmount:
		return float64(m.TotalAmount) / 100, true
	case FieldDaysSinceLastOrder:
		d, ok := m.DaysSinceLastOrder(now)
		return float64(d), ok
	case FieldDaysSinceLastInteraction:
		d, ok := m.DaysSinceLastInteraction(now)
		return float64(d), ok
	}
	return 0, false
}
