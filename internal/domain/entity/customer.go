package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/orderdesk-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Customer represents a customer in the CRM
type Customer struct {
	ID                  uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	CompanyName         string              `gorm:"size:255;not null" json:"company_name"`
	ContactPerson       string              `gorm:"size:255" json:"contact_person"`
	Phone               string              `gorm:"size:50" json:"phone"`
	Email               *string             `gorm:"size:255;index" json:"email,omitempty"`
	Address             *string             `gorm:"type:text" json:"address,omitempty"`
	Industry            string              `gorm:"size:100;index" json:"industry"`
	Source              string              `gorm:"size:100" json:"source"`
	Status              enum.CustomerStatus `gorm:"size:20;not null;default:'potential';index" json:"status"`
	Grade               enum.CustomerGrade  `gorm:"size:1;not null;default:'C';index" json:"grade"`
	Notes               *string             `gorm:"type:text" json:"notes,omitempty"`
	TotalOrders         int64               `gorm:"not null;default:0" json:"total_orders"`
	TotalAmount         int64               `gorm:"not null;default:0" json:"-"` // Stored in cents, excluded from JSON
	FirstOrderDate      *time.Time          `json:"first_order_date,omitempty"`
	LastOrderDate       *time.Time          `gorm:"index" json:"last_order_date,omitempty"`
	LastInteractionDate *time.Time          `gorm:"index" json:"last_interaction_date,omitempty"`
	Birthday            *time.Time          `gorm:"type:date" json:"birthday,omitempty"`
	RenewalDate         *time.Time          `gorm:"type:date" json:"renewal_date,omitempty"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
	DeletedAt           gorm.DeletedAt      `gorm:"index" json:"-"`
}

// MarshalJSON renders the cent amount as a decimal
func (c Customer) MarshalJSON() ([]byte, error) {
	type Alias Customer
	return json.Marshal(&struct {
		Alias
		TotalAmount float64 `json:"total_amount"`
	}{
		Alias:       Alias(c),
		TotalAmount: float64(c.TotalAmount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Status == "" {
		c.Status = enum.CustomerStatusPotential
	}
	if c.Grade == "" {
		c.Grade = enum.CustomerGradeC
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

// DerivedFields are the columns owned by the recalculation job
type DerivedFields struct {
	Grade          enum.CustomerGrade
	Status         enum.CustomerStatus
	TotalOrders    int64
	TotalAmount    int64
	FirstOrderDate *time.Time
	LastOrderDate  *time.Time
}

// Derived returns the customer's currently stored derived fields
func (c *Customer) Derived() DerivedFields {
	return DerivedFields{
		Grade:          c.Grade,
		Status:         c.Status,
		TotalOrders:    c.TotalOrders,
		TotalAmount:    c.TotalAmount,
		FirstOrderDate: c.FirstOrderDate,
		LastOrderDate:  c.LastOrderDate,
	}
}

// Equal reports whether both sets of derived fields hold the same values
func (d DerivedFields) Equal(o DerivedFields) bool {
	return d.Grade == o.Grade &&
		d.Status == o.Status &&
		d.TotalOrders == o.TotalOrders &&
		d.TotalAmount == o.TotalAmount &&
		sameInstant(d.FirstOrderDate, o.FirstOrderDate) &&
		sameInstant(d.LastOrderDate, o.LastOrderDate)
}

// Apply copies the derived fields onto the customer
func (c *Customer) Apply(d DerivedFields) {
	c.Grade = d.Grade
	c.Status = d.Status
	c.TotalOrders = d.TotalOrders
	c.TotalAmount = d.TotalAmount
	c.FirstOrderDate = d.FirstOrderDate
	c.LastOrderDate = d.LastOrderDate
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
