package request

// ListUsersQuery is bound from the user list query string
type ListUsersQuery struct {
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
	Search  string `form:"search"`
}

// UpdateRoleRequest represents a user role change
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// UpdateProfileRequest represents a self-service profile change
type UpdateProfileRequest struct {
	Email       *string `json:"email"`
	CompanyName *string `json:"company_name" binding:"omitempty,max=255"`
}

// ChangePasswordRequest represents a password change
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// UpdateUserStatusRequest activates or deactivates a user
type UpdateUserStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}
