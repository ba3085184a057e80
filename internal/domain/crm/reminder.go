package crm

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/orderdesk-api/internal/domain/entity"
	"github.com/sangkips/orderdesk-api/internal/domain/enum"
)

const reminderDateLayout = "20060102"

// ReminderID builds the stable identity of a reminder. The subject is the
// interaction for follow-ups and the customer for every other type.
func ReminderID(t enum.ReminderType, subject uuid.UUID, due time.Time) string {
	return string(t) + ":" + subject.String() + ":" + due.Format(reminderDateLayout)
}

// ParseReminderID validates a reminder id and returns its parts
func ParseReminderID(id string) (enum.ReminderType, uuid.UUID, time.Time, error) {
	parts := strings.Split(id, ":")
	if len(parts) != 3 {
		return "", uuid.Nil, time.Time{}, fmt.Errorf("malformed reminder id %q", id)
	}
	t := enum.ReminderType(parts[0])
	if !t.IsValid() {
		return "", uuid.Nil, time.Time{}, fmt.Errorf("unknown reminder type %q", parts[0])
	}
	subject, err := uuid.Parse(parts[1])
	if err != nil {
		return "", uuid.Nil, time.Time{}, fmt.Errorf("invalid reminder subject: %w", err)
	}
	due, err := time.Parse(reminderDateLayout, parts[2])
	if err != nil {
		return "", uuid.Nil, time.Time{}, fmt.Errorf("invalid reminder date: %w", err)
	}
	return t, subject, due, nil
}

// GenerateReminders scans customers and their latest open next action.
// openActions is keyed by customer id. The result is sorted and carries no read flags.
func GenerateReminders(w ReminderWindows, customers []entity.Customer, openActions map[uuid.UUID]entity.Interaction, now time.Time) []entity.Reminder {
	today := dateOnly(now)
	reminders := make([]entity.Reminder, 0)

	for i := range customers {
		c := &customers[i]

		if r, ok := noOrderReminder(w, c, now, today); ok {
			reminders = append(reminders, r)
		}
		if action, ok := openActions[c.ID]; ok {
			if r, ok := followUpReminder(w, c, &action, today); ok {
				reminders = append(reminders, r)
			}
		}
		if r, ok := birthdayReminder(w, c, today); ok {
			reminders = append(reminders, r)
		}
		if r, ok := renewalReminder(w, c, today); ok {
			reminders = append(reminders, r)
		}
	}

	SortReminders(reminders)
	return reminders
}

// SortReminders orders by priority (high first), then due date, then id
func SortReminders(reminders []entity.Reminder) {
	sort.SliceStable(reminders, func(i, j int) bool {
		a, b := reminders[i], reminders[j]
		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() > b.Priority.Rank()
		}
		if !a.DueDate.Equal(b.DueDate) {
			return a.DueDate.Before(b.DueDate)
		}
		return a.ID < b.ID
	})
}

func noOrderReminder(w ReminderWindows, c *entity.Customer, now, today time.Time) (entity.Reminder, bool) {
	if c.TotalOrders <= 0 || c.LastOrderDate == nil || c.LastOrderDate.IsZero() {
		return entity.Reminder{}, false
	}
	last := *c.LastOrderDate
	if last.After(now) {
		last = now
	}
	days := daysBetween(last, now)
	if days <= w.NoOrderDays {
		return entity.Reminder{}, false
	}

	priority := enum.ReminderPriorityLow
	switch {
	case days >= 2*w.NoOrderDays:
		priority = enum.ReminderPriorityHigh
	case days*2 >= 3*w.NoOrderDays:
		priority = enum.ReminderPriorityMedium
	}

	due := dateOnly(last.In(today.Location())).AddDate(0, 0, w.NoOrderDays)
	return entity.Reminder{
		ID:           ReminderID(enum.ReminderTypeNoOrder, c.ID, due),
		CustomerID:   c.ID,
		CustomerName: c.CompanyName,
		Message:      fmt.Sprintf("No order for %d days", days),
		Type:         enum.ReminderTypeNoOrder,
		Priority:     priority,
		DueDate:      due,
	}, true
}

func followUpReminder(w ReminderWindows, c *entity.Customer, i *entity.Interaction, today time.Time) (entity.Reminder, bool) {
	if !i.HasOpenAction() {
		return entity.Reminder{}, false
	}

	var due time.Time
	if i.NextActionDate != nil && !i.NextActionDate.IsZero() {
		due = dateOnly(i.NextActionDate.In(today.Location()))
	} else {
		due = dateOnly(i.CreatedAt.In(today.Location())).AddDate(0, 0, w.FollowUpDueDays)
	}
	if due.After(today.AddDate(0, 0, w.FollowUpLookaheadDays)) {
		return entity.Reminder{}, false
	}

	priority := enum.ReminderPriorityMedium
	if due.Before(today) {
		priority = enum.ReminderPriorityHigh
	}

	return entity.Reminder{
		ID:           ReminderID(enum.ReminderTypeFollowUp, i.ID, due),
		CustomerID:   c.ID,
		CustomerName: c.CompanyName,
		Message:      "Follow up: " + *i.NextAction,
		Type:         enum.ReminderTypeFollowUp,
		Priority:     priority,
		DueDate:      due,
	}, true
}

func birthdayReminder(w ReminderWindows, c *entity.Customer, today time.Time) (entity.Reminder, bool) {
	if c.Birthday == nil || c.Birthday.IsZero() {
		return entity.Reminder{}, false
	}
	next := nextAnniversary(*c.Birthday, today)
	days := daysBetween(today, next)
	if days > w.BirthdayLookaheadDays {
		return entity.Reminder{}, false
	}

	priority := enum.ReminderPriorityLow
	if days == 0 {
		priority = enum.ReminderPriorityMedium
	}
	name := c.ContactPerson
	if name == "" {
		name = c.CompanyName
	}

	return entity.Reminder{
		ID:           ReminderID(enum.ReminderTypeBirthday, c.ID, next),
		CustomerID:   c.ID,
		CustomerName: c.CompanyName,
		Message:      fmt.Sprintf("Birthday of %s on %s", name, next.Format("Jan 2")),
		Type:         enum.ReminderTypeBirthday,
		Priority:     priority,
		DueDate:      next,
	}, true
}

func renewalReminder(w ReminderWindows, c *entity.Customer, today time.Time) (entity.Reminder, bool) {
	if c.RenewalDate == nil || c.RenewalDate.IsZero() {
		return entity.Reminder{}, false
	}
	due := dateOnly(c.RenewalDate.In(today.Location()))
	if due.Before(today) {
		// Past renewal dates roll over yearly
		due = nextAnniversary(due, today)
	}
	days := daysBetween(today, due)
	if days > w.RenewalLookaheadDays {
		return entity.Reminder{}, false
	}

	priority := enum.ReminderPriorityMedium
	if days <= w.RenewalUrgentDays {
		priority = enum.ReminderPriorityHigh
	}

	return entity.Reminder{
		ID:           ReminderID(enum.ReminderTypeRenewal, c.ID, due),
		CustomerID:   c.ID,
		CustomerName: c.CompanyName,
		Message:      fmt.Sprintf("Contract renewal due on %s", due.Format("2006-01-02")),
		Type:         enum.ReminderTypeRenewal,
		Priority:     priority,
		DueDate:      due,
	}, true
}

// nextAnniversary returns the first occurrence of d's month and day on or after today
func nextAnniversary(d, today time.Time) time.Time {
	d = d.In(today.Location())
	next := time.Date(today.Year(), d.Month(), d.Day(), 0, 0, 0, 0, today.Location())
	if next.Before(today) {
		next = time.Date(today.Year()+1, d.Month(), d.Day(), 0, 0, 0, 0, today.Location())
	}
	return next
}
