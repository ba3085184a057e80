package crm

import (
	"testing"
	"time"

	"github.com/sangkips/orderdesk-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) *time.Time {
	t := testNow.AddDate(0, 0, -n)
	return &t
}

func TestClassifyGrade(t *testing.T) {
	rules := DefaultRules().GradeRules

	tests := []struct {
		name    string
		metrics Metrics
		want    enum.CustomerGrade
	}{
		{
			name:    "no orders is C even with a huge amount",
			metrics: Metrics{TotalOrders: 0, TotalAmount: 900000000, LastOrderDate: daysAgo(1)},
			want:    enum.CustomerGradeC,
		},
		{
			name:    "high value and recent is A",
			metrics: Metrics{TotalOrders: 3, TotalAmount: 600000 * 100, LastOrderDate: daysAgo(10)},
			want:    enum.CustomerGradeA,
		},
		{
			name:    "many recent orders is A",
			metrics: Metrics{TotalOrders: 25, TotalAmount: 1000 * 100, LastOrderDate: daysAgo(180)},
			want:    enum.CustomerGradeA,
		},
		{
			name:    "high value but stale falls to B",
			metrics: Metrics{TotalOrders: 3, TotalAmount: 600000 * 100, LastOrderDate: daysAgo(181)},
			want:    enum.CustomerGradeB,
		},
		{
			name:    "amount exactly at B threshold",
			metrics: Metrics{TotalOrders: 1, TotalAmount: 100000 * 100, LastOrderDate: daysAgo(400)},
			want:    enum.CustomerGradeB,
		},
		{
			name:    "five orders is B",
			metrics: Metrics{TotalOrders: 5, TotalAmount: 50 * 100, LastOrderDate: daysAgo(2)},
			want:    enum.CustomerGradeB,
		},
		{
			name:    "small customer is C",
			metrics: Metrics{TotalOrders: 2, TotalAmount: 500 * 100, LastOrderDate: daysAgo(2)},
			want:    enum.CustomerGradeC,
		},
		{
			name:    "A rule needs a last order date",
			metrics: Metrics{TotalOrders: 30, TotalAmount: 10 * 100},
			want:    enum.CustomerGradeB,
		},
		{
			name:    "negative totals are treated as zero",
			metrics: Metrics{TotalOrders: -4, TotalAmount: -100},
			want:    enum.CustomerGradeC,
		},
		{
			name:    "future last order is clamped to now",
			metrics: Metrics{TotalOrders: 21, TotalAmount: 100, LastOrderDate: daysAgo(-30)},
			want:    enum.CustomerGradeA,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyGrade(rules, tt.metrics, testNow))
		})
	}
}

func TestClassifyGrade_FirstMatchingRuleWins(t *testing.T) {
	rules := []GradeRule{
		{Grade: enum.CustomerGradeB, MatchType: MatchAny, Conditions: []Condition{
			{Field: FieldTotalOrders, Operator: OpGreater, Value: 0},
		}},
		{Grade: enum.CustomerGradeA, MatchType: MatchAny, Conditions: []Condition{
			{Field: FieldTotalOrders, Operator: OpGreater, Value: 0},
		}},
	}
	m := Metrics{TotalOrders: 1, LastOrderDate: daysAgo(1)}
	assert.Equal(t, enum.CustomerGradeB, ClassifyGrade(rules, m, testNow))
}

func TestClassifyGrade_InteractionCondition(t *testing.T) {
	rules := []GradeRule{
		{Grade: enum.CustomerGradeA, MatchType: MatchAll, Conditions: []Condition{
			{Field: FieldDaysSinceLastInteraction, Operator: OpLessEqual, Value: 7},
		}},
		{Grade: enum.CustomerGradeB, MatchType: MatchDefault},
	}

	recent := Metrics{TotalOrders: 1, LastOrderDate: daysAgo(100), LastInteractionDate: daysAgo(3)}
	assert.Equal(t, enum.CustomerGradeA, ClassifyGrade(rules, recent, testNow))

	never := Metrics{TotalOrders: 1, LastOrderDate: daysAgo(100)}
	assert.Equal(t, enum.CustomerGradeB, ClassifyGrade(rules, never, testNow))
}

func TestClassifyGrade_NoRulesFallsBackToC(t *testing.T) {
	m := Metrics{TotalOrders: 50, TotalAmount: 1 << 40, LastOrderDate: daysAgo(1)}
	assert.Equal(t, enum.CustomerGradeC, ClassifyGrade(nil, m, testNow))
}

func TestClassifyGrade_Deterministic(t *testing.T) {
	rules := DefaultRules().GradeRules
	m := Metrics{TotalOrders: 7, TotalAmount: 12345, FirstOrderDate: daysAgo(300), LastOrderDate: daysAgo(20)}
	first := ClassifyGrade(rules, m, testNow)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ClassifyGrade(rules, m, testNow))
	}
}
