package service

import (
	"context"
	"testing"

	"github.com/sangkips/orderdesk-api/internal/domain/crm"
	"github.com/sangkips/orderdesk-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardStats(t *testing.T) {
	loyal := gradedCustomer()
	stale := staleCustomer("Quiet Co", 100)
	customers := newFakeCustomerRepo(loyal, stale, newCustomer("Lead", ""))
	reminders := NewReminderService(customers, newFakeInteractionRepo(customers), newFakeReadRepo(),
		crm.NewRuleSet(crm.DefaultRules()), testLog, testClock)
	svc := NewDashboardService(customers, reminders)

	stats, err := svc.GetDashboardStats(context.Background(), staff)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalCustomers)
	assert.Equal(t, int64(1), stats.ByGrade[enum.CustomerGradeA])
	assert.Equal(t, int64(2), stats.ByGrade[enum.CustomerGradeC])
	assert.Equal(t, int64(0), stats.ByGrade[enum.CustomerGradeB])
	assert.Equal(t, int64(1), stats.ByStatus[enum.CustomerStatusLoyal])
	assert.Equal(t, int64(2), stats.ByStatus[enum.CustomerStatusPotential])
	assert.Equal(t, 1, stats.UnreadReminders)

	_, err = svc.GetDashboardStats(context.Background(), buyer)
	assert.Error(t, err)
}
