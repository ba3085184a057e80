package service

import (
	"context"

	"github.com/sangkips/orderdesk-api/internal/domain/entity"
	"github.com/sangkips/orderdesk-api/internal/domain/enum"
	"github.com/sangkips/orderdesk-api/internal/domain/repository"
)

// DashboardService summarises the customer base for the CRM home screen
type DashboardService struct {
	customerRepo repository.CustomerRepository
	reminders    *ReminderService
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(customerRepo repository.CustomerRepository, reminders *ReminderService) *DashboardService {
	return &DashboardService{customerRepo: customerRepo, reminders: reminders}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	TotalCustomers  int64                         `json:"total_customers"`
	ByGrade         map[enum.CustomerGrade]int64  `json:"by_grade"`
	ByStatus        map[enum.CustomerStatus]int64 `json:"by_status"`
	UnreadReminders int                           `json:"unread_reminders"`
}

// GetDashboardStats returns grade and status counts plus the unread reminder count
func (s *DashboardService) GetDashboardStats(ctx context.Context, actor entity.Actor) (*DashboardStats, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	segments, err := s.customerRepo.CountBySegment(ctx)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		ByGrade:  map[enum.CustomerGrade]int64{enum.CustomerGradeA: 0, enum.CustomerGradeB: 0, enum.CustomerGradeC: 0},
		ByStatus: map[enum.CustomerStatus]int64{
			enum.CustomerStatusPotential: 0,
			enum.CustomerStatusNew:       0,
			enum.CustomerStatusActive:    0,
			enum.CustomerStatusLoyal:     0,
			enum.CustomerStatusChurned:   0,
		},
	}
	for _, seg := range segments {
		stats.TotalCustomers += seg.Count
		stats.ByGrade[seg.Grade] += seg.Count
		stats.ByStatus[seg.Status] += seg.Count
	}

	stats.UnreadReminders, err = s.reminders.UnreadCount(ctx, actor)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
