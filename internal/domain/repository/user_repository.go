package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/orderdesk-api/internal/domain/entity"
	"github.com/sangkips/orderdesk-api/internal/domain/enum"
	"github.com/sangkips/orderdesk-api/pkg/pagination"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.User, int64, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role enum.UserRole) error
	// UpdateFields writes the given columns of one user
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	TouchLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	// ListStaffEmails returns the addresses of active staff users
	ListStaffEmails(ctx context.Context) ([]string, error)
}
