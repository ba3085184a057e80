package enum

// ReminderType identifies the rule that produced a reminder
type ReminderType string

const (
	ReminderTypeFollowUp ReminderType = "follow_up"
	ReminderTypeNoOrder  ReminderType = "no_order"
	ReminderTypeBirthday ReminderType = "birthday"
	ReminderTypeRenewal  ReminderType = "renewal"
)

// IsValid reports whether t is a known reminder type
func (t ReminderType) IsValid() bool {
	switch t {
	case ReminderTypeFollowUp, ReminderTypeNoOrder, ReminderTypeBirthday, ReminderTypeRenewal:
		return true
	}
	return false
}

// ReminderPriority ranks reminders for the notification popover
type ReminderPriority string

const (
	ReminderPriorityHigh   ReminderPriority = "high"
	ReminderPriorityMedium ReminderPriority = "medium"
	ReminderPriorityLow    ReminderPriority = "low"
)

// Rank returns a sortable weight, higher is more urgent
func (p ReminderPriority) Rank() int {
	switch p {
	case ReminderPriorityHigh:
		return 3
	case ReminderPriorityMedium:
		return 2
	case ReminderPriorityLow:
		return 1
	}
	return 0
}
