package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/orderdesk-api/internal/domain/enum"
	"gorm.io/gorm"
)

// User represents a user in the system
type User struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Username    string         `gorm:"size:255;unique;not null" json:"username"`
	Email       string         `gorm:"size:255;unique;not null" json:"email"`
	Password    string         `gorm:"size:255;not null" json:"-"`
	Role        enum.UserRole  `gorm:"size:30;not null;default:'customer'" json:"role"`
	CompanyName string         `gorm:"size:255;not null" json:"company_name"`
	IsActive    bool           `gorm:"not null;default:true" json:"is_active"`
	LastLogin   *time.Time     `json:"last_login,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Orders []Order `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// Actor is the authenticated identity a request acts as
type Actor struct {
	UserID uuid.UUID
	Email  string
	Role   enum.UserRole
}

// IsStaff reports whether the actor may use the CRM back office
func (a Actor) IsStaff() bool {
	return a.Role.IsStaff()
}

// IsAdmin reports whether the actor may run admin-only operations
func (a Actor) IsAdmin() bool {
	return a.Role.IsAdmin()
}

// SystemActor is used by scheduled jobs
var SystemActor = Actor{Email: "system", Role: enum.UserRoleSuperAdmin}
