package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/orderdesk-api/internal/domain/enum"
)

// Reminder is a generated follow-up prompt; only its read flag is persisted
type Reminder struct {
	ID           string                `json:"id"`
	CustomerID   uuid.UUID             `json:"customer_id"`
	CustomerName string                `json:"customer_name"`
	Message      string                `json:"message"`
	Type         enum.ReminderType     `json:"type"`
	Priority     enum.ReminderPriority `json:"priority"`
	DueDate      time.Time             `json:"-"`
	IsRead       bool                  `json:"is_read"`
}

// MarshalJSON renders the due date as a calendar date
func (r Reminder) MarshalJSON() ([]byte, error) {
	type Alias Reminder
	return json.Marshal(&struct {
		Alias
		DueDate string `json:"due_date"`
	}{
		Alias:   Alias(r),
		DueDate: r.DueDate.Format("2006-01-02"),
	})
}

// ReminderRead records that a reminder id was marked as read
type ReminderRead struct {
	ReminderID string    `gorm:"size:120;primaryKey" json:"reminder_id"`
	UserID     uuid.UUID `gorm:"type:uuid" json:"user_id"`
	ReadAt     time.Time `gorm:"not null" json:"read_at"`
}

// TableName returns the table name for the ReminderRead model
func (ReminderRead) TableName() string {
	return "reminder_reads"
}
