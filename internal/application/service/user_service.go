package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sangkips/orderdesk-api/internal/domain/entity"
	"github.com/sangkips/orderdesk-api/internal/domain/enum"
	"github.com/sangkips/orderdesk-api/internal/domain/repository"
	"github.com/sangkips/orderdesk-api/pkg/apperror"
	"github.com/sangkips/orderdesk-api/pkg/pagination"
	"github.com/sangkips/orderdesk-api/pkg/utils"
)

// UserService handles user management operations
type UserService struct {
	userRepo repository.UserRepository
	log      zerolog.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		log:      log.With().Str("service", "user").Logger(),
	}
}

// GetProfile returns the actor's own user record
func (s *UserService) GetProfile(ctx context.Context, actor entity.Actor) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

// ListUsersInput represents the input for listing users
type ListUsersInput struct {
	Page    int
	PerPage int
	Search  string
}

// ListUsers returns a paginated list of users
func (s *UserService) ListUsers(ctx context.Context, actor entity.Actor, input *ListUsersInput) (*pagination.PaginatedResult[entity.User], error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	params := &pagination.PaginationParams{
		Page:    input.Page,
		PerPage: input.PerPage,
	}
	params.Validate()

	users, total, err := s.userRepo.List(ctx, params, input.Search)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []entity.User{}
	}

	return pagination.NewPaginatedResult(users, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}

// UpdateRole changes a user's role. Only a super admin can grant or revoke super admin.
func (s *UserService) UpdateRole(ctx context.Context, actor entity.Actor, id uuid.UUID, role string) (*entity.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	newRole := enum.UserRole(role)
	if !newRole.IsValid() {
		return nil, apperror.Invalid("role", "role must be one of customer, account_manager, admin, super_admin")
	}
	if id == actor.UserID {
		return nil, apperror.NewBadRequestError("You cannot change your own role")
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}

	if (newRole == enum.UserRoleSuperAdmin || user.Role == enum.UserRoleSuperAdmin) &&
		actor.Role != enum.UserRoleSuperAdmin {
		return nil, apperror.NewForbiddenError("Only a super admin can change super admin roles")
	}

	if user.Role == newRole {
		return user, nil
	}
	if err := s.userRepo.UpdateRole(ctx, id, newRole); err != nil {
		return nil, err
	}
	user.Role = newRole
	return user, nil
}

// UpdateProfileInput represents a self-service profile change
type UpdateProfileInput struct {
	Email       *string
	CompanyName *string
}

// UpdateProfile changes the actor's own email or company name. Orders follow the
// account, so a new email moves future aggregation to the matching customer.
func (s *UserService) UpdateProfile(ctx context.Context, actor entity.Actor, input *UpdateProfileInput) (*entity.User, error) {
	user, err := s.GetProfile(ctx, actor)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, apperror.Invalid("email", "email is invalid")
		}
		if email != user.Email {
			existing, err := s.userRepo.GetByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != user.ID {
				return nil, apperror.NewConflictError("Email already registered")
			}
			fields["email"] = email
		}
	}
	if input.CompanyName != nil {
		name := strings.TrimSpace(*input.CompanyName)
		if name == "" {
			return nil, apperror.Invalid("company_name", "company_name cannot be empty")
		}
		fields["company_name"] = name
	}

	if len(fields) == 0 {
		return user, nil
	}
	if err := s.userRepo.UpdateFields(ctx, user.ID, fields); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return s.GetProfile(ctx, actor)
}

// ChangePasswordInput represents a password change
type ChangePasswordInput struct {
	OldPassword string
	NewPassword string
}

// ChangePassword replaces the actor's password after checking the current one
func (s *UserService) ChangePassword(ctx context.Context, actor entity.Actor, input *ChangePasswordInput) error {
	user, err := s.GetProfile(ctx, actor)
	if err != nil {
		return err
	}
	if !utils.CheckPassword(user.Password, input.OldPassword) {
		return apperror.Invalid("old_password", "old password is incorrect")
	}
	if len(input.NewPassword) < minPasswordLength {
		return apperror.Invalid("new_password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	hashed, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdateFields(ctx, user.ID, map[string]interface{}{"password": hashed}); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}

	s.log.Info().Str("user_id", user.ID.String()).Msg("Password changed")
	return nil
}

// UpdateStatus activates or deactivates an account. Deactivated users are
// rejected on their next request, not only at login.
func (s *UserService) UpdateStatus(ctx context.Context, actor entity.Actor, id uuid.UUID, active bool) (*entity.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if id == actor.UserID {
		return nil, apperror.NewBadRequestError("You cannot change your own status")
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	if user.Role == enum.UserRoleSuperAdmin && actor.Role != enum.UserRoleSuperAdmin {
		return nil, apperror.NewForbiddenError("Only a super admin can change a super admin's status")
	}

	if user.IsActive == active {
		return user, nil
	}
	if err := s.userRepo.UpdateFields(ctx, id, map[string]interface{}{"is_active": active}); err != nil {
		return nil, fmt.Errorf("failed to update user status: %w", err)
	}
	user.IsActive = active

	s.log.Info().Str("user_id", id.String()).Bool("is_active", active).Msg("User status updated")
	return user, nil
}
