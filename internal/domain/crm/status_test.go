package crm

import (
	"testing"

	"github.com/sangkips/orderdesk-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
)

func TestClassifyStatus(t *testing.T) {
	w := DefaultRules().Status

	tests := []struct {
		name    string
		metrics Metrics
		want    enum.CustomerStatus
	}{
		{
			name:    "no orders is potential",
			metrics: Metrics{},
			want:    enum.CustomerStatusPotential,
		},
		{
			name:    "no orders stays potential with recent interaction",
			metrics: Metrics{LastInteractionDate: daysAgo(1)},
			want:    enum.CustomerStatusPotential,
		},
		{
			name:    "first order last week is new",
			metrics: Metrics{TotalOrders: 1, FirstOrderDate: daysAgo(7), LastOrderDate: daysAgo(7)},
			want:    enum.CustomerStatusNew,
		},
		{
			name:    "regular buyer is active",
			metrics: Metrics{TotalOrders: 4, FirstOrderDate: daysAgo(200), LastOrderDate: daysAgo(20)},
			want:    enum.CustomerStatusActive,
		},
		{
			name:    "long tenure and many orders is loyal",
			metrics: Metrics{TotalOrders: 12, FirstOrderDate: daysAgo(500), LastOrderDate: daysAgo(30)},
			want:    enum.CustomerStatusLoyal,
		},
		{
			name:    "loyal customer gone quiet is active",
			metrics: Metrics{TotalOrders: 12, FirstOrderDate: daysAgo(500), LastOrderDate: daysAgo(120)},
			want:    enum.CustomerStatusActive,
		},
		{
			name:    "stale beyond churn window is churned",
			metrics: Metrics{TotalOrders: 3, FirstOrderDate: daysAgo(400), LastOrderDate: daysAgo(181)},
			want:    enum.CustomerStatusChurned,
		},
		{
			name:    "exactly at churn window is not churned",
			metrics: Metrics{TotalOrders: 3, FirstOrderDate: daysAgo(400), LastOrderDate: daysAgo(180)},
			want:    enum.CustomerStatusActive,
		},
		{
			name: "recent interaction keeps a stale customer active",
			metrics: Metrics{
				TotalOrders: 3, FirstOrderDate: daysAgo(400), LastOrderDate: daysAgo(250),
				LastInteractionDate: daysAgo(10),
			},
			want: enum.CustomerStatusActive,
		},
		{
			name: "old interaction does not prevent churn",
			metrics: Metrics{
				TotalOrders: 3, FirstOrderDate: daysAgo(400), LastOrderDate: daysAgo(250),
				LastInteractionDate: daysAgo(60),
			},
			want: enum.CustomerStatusChurned,
		},
		{
			name:    "orders without a date are active",
			metrics: Metrics{TotalOrders: 2},
			want:    enum.CustomerStatusActive,
		},
		{
			name:    "future dates are clamped to now",
			metrics: Metrics{TotalOrders: 1, FirstOrderDate: daysAgo(-5), LastOrderDate: daysAgo(-5)},
			want:    enum.CustomerStatusNew,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyStatus(w, tt.metrics, testNow))
		})
	}
}

func TestClassify_ChurnedAlongsideStaleGrade(t *testing.T) {
	m := Metrics{TotalOrders: 2, TotalAmount: 100, FirstOrderDate: daysAgo(900), LastOrderDate: daysAgo(400)}
	grade, status := Classify(DefaultRules(), m, testNow)
	assert.Equal(t, enum.CustomerGradeC, grade)
	assert.Equal(t, enum.CustomerStatusChurned, status)
}

func TestMetricsSanitize(t *testing.T) {
	m := Metrics{
		TotalOrders:    -1,
		TotalAmount:    -50,
		FirstOrderDate: daysAgo(5),
		LastOrderDate:  daysAgo(10),
	}
	s := m.Sanitize(testNow)
	assert.Equal(t, int64(0), s.TotalOrders)
	assert.Equal(t, int64(0), s.TotalAmount)
	assert.True(t, s.FirstOrderDate.Equal(*s.LastOrderDate))

	d, ok := s.DaysSinceLastOrder(testNow)
	assert.True(t, ok)
	assert.Equal(t, 10, d)
}
