package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sangkips/orderdesk-api/internal/domain/crm"
	"github.com/sangkips/orderdesk-api/internal/domain/entity"
	"github.com/sangkips/orderdesk-api/internal/domain/enum"
	"github.com/sangkips/orderdesk-api/internal/domain/repository"
)

// ReminderService produces reminders on read and keeps their read flags
type ReminderService struct {
	customerRepo    repository.CustomerRepository
	interactionRepo repository.InteractionRepository
	readRepo        repository.ReminderReadRepository
	rules           *crm.RuleSet
	log             zerolog.Logger
	now             func() time.Time
}

// NewReminderService creates a new reminder service
func NewReminderService(
	customerRepo repository.CustomerRepository,
	interactionRepo repository.InteractionRepository,
	readRepo repository.ReminderReadRepository,
	rules *crm.RuleSet,
	log zerolog.Logger,
	now func() time.Time,
) *ReminderService {
	if now == nil {
		now = time.Now
	}
	return &ReminderService{
		customerRepo:    customerRepo,
		interactionRepo: interactionRepo,
		readRepo:        readRepo,
		rules:           rules,
		log:             log.With().Str("service", "reminder").Logger(),
		now:             now,
	}
}

// ListReminders generates the current reminders and attaches their read flags
func (s *ReminderService) ListReminders(ctx context.Context, actor entity.Actor) ([]entity.Reminder, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	return s.generate(ctx)
}

// UnreadCount returns how many current reminders are unread
func (s *ReminderService) UnreadCount(ctx context.Context, actor entity.Actor) (int, error) {
	if err := requireStaff(actor); err != nil {
		return 0, err
	}

	reminders, err := s.generate(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, r := range reminders {
		if !r.IsRead {
			count++
		}
	}
	return count, nil
}

// MarkRead flags a reminder as read. Ids that are malformed or that do not
// match a reminder the engine produces right now are ignored.
func (s *ReminderService) MarkRead(ctx context.Context, actor entity.Actor, reminderID string) error {
	if err := requireStaff(actor); err != nil {
		return err
	}

	exists, err := s.reminderExists(ctx, reminderID)
	if err != nil {
		return err
	}
	if !exists {
		s.log.Debug().Str("reminder_id", reminderID).Msg("Ignoring read flag for unknown reminder")
		return nil
	}

	if err := s.readRepo.MarkRead(ctx, reminderID, actor.UserID, s.now()); err != nil {
		return fmt.Errorf("failed to mark reminder read: %w", err)
	}
	return nil
}

func (s *ReminderService) generate(ctx context.Context) ([]entity.Reminder, error) {
	customers, err := s.customerRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load customers: %w", err)
	}
	actions, err := s.interactionRepo.LatestOpenActions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load open actions: %w", err)
	}

	reminders := crm.GenerateReminders(s.rules.Load().Reminders, customers, actions, s.now())
	if len(reminders) == 0 {
		return reminders, nil
	}

	ids := make([]string, len(reminders))
	for i, r := range reminders {
		ids[i] = r.ID
	}
	read, err := s.readRepo.ReadSet(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load read flags: %w", err)
	}
	for i := range reminders {
		reminders[i].IsRead = read[reminders[i].ID]
	}
	return reminders, nil
}

// reminderExists regenerates reminders for the one customer the id points at
func (s *ReminderService) reminderExists(ctx context.Context, reminderID string) (bool, error) {
	typ, subject, _, err := crm.ParseReminderID(reminderID)
	if err != nil {
		return false, nil
	}

	customerID := subject
	if typ == enum.ReminderTypeFollowUp {
		interaction, err := s.interactionRepo.GetByID(ctx, subject)
		if err != nil {
			return false, err
		}
		if interaction == nil {
			return false, nil
		}
		customerID = interaction.CustomerID
	}

	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return false, err
	}
	if customer == nil {
		return false, nil
	}

	actions, err := s.interactionRepo.LatestOpenActions(ctx, customerID)
	if err != nil {
		return false, err
	}
	for _, r := range crm.GenerateReminders(s.rules.Load().Reminders, []entity.Customer{*customer}, actions, s.now()) {
		if r.ID == reminderID {
			return true, nil
		}
	}
	return false, nil
}
