package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/orderdesk-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Interaction is an append-only log entry of a staff-customer contact
type Interaction struct {
	ID              uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID      uuid.UUID            `gorm:"type:uuid;not null;index" json:"customer_id"`
	InteractionType enum.InteractionType `gorm:"size:20;not null" json:"interaction_type"`
	Content         string               `gorm:"type:text;not null" json:"content"`
	NextAction      *string              `gorm:"type:text" json:"next_action,omitempty"`
	NextActionDate  *time.Time           `gorm:"type:date" json:"next_action_date,omitempty"`
	ActionCompleted bool                 `gorm:"not null;default:false;index" json:"action_completed"`
	RecordedBy      string               `gorm:"size:255" json:"recorded_by,omitempty"`
	CreatedAt       time.Time            `gorm:"index" json:"created_at"`

	Customer *Customer `gorm:"foreignKey:CustomerID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new interaction
func (i *Interaction) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Interaction model
func (Interaction) TableName() string {
	return "interactions"
}

// HasOpenAction reports whether the interaction carries a next action that is not closed
func (i *Interaction) HasOpenAction() bool {
	return !i.ActionCompleted && i.NextAction != nil && *i.NextAction != ""
}
