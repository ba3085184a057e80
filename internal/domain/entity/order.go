package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/orderdesk-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Order represents a sales order placed by a user
type Order struct {
	ID              uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	OrderNumber     string           `gorm:"size:100;unique;not null" json:"order_number"`
	UserID          uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	OrderDate       time.Time        `gorm:"not null;index" json:"order_date"`
	Status          enum.OrderStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	TotalAmount     int64            `gorm:"not null;default:0" json:"-"` // Stored in cents, excluded from JSON
	DeliveryAddress *string          `gorm:"type:text" json:"delivery_address,omitempty"`
	Notes           *string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	DeletedAt       gorm.DeletedAt   `gorm:"index" json:"-"`

	User  *User       `gorm:"foreignKey:UserID" json:"-"`
	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (o Order) MarshalJSON() ([]byte, error) {
	type Alias Order
	return json.Marshal(&struct {
		Alias
		TotalAmount float64 `json:"total_amount"`
	}{
		Alias:       Alias(o),
		TotalAmount: float64(o.TotalAmount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderAggregate summarizes the non-cancelled orders placed under one email
type OrderAggregate struct {
	Email          string
	TotalOrders    int64
	TotalAmount    int64
	FirstOrderDate *time.Time
	LastOrderDate  *time.Time
}

// Buyer is a user with at least one completed order
type Buyer struct {
	UserID      uuid.UUID
	Username    string
	Email       string
	CompanyName string
}
