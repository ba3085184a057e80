package enum

// UserRole is the access role carried in access tokens
type UserRole string

const (
	UserRoleCustomer       UserRole = "customer"
	UserRoleAccountManager UserRole = "account_manager"
	UserRoleAdmin          UserRole = "admin"
	UserRoleSuperAdmin     UserRole = "super_admin"
)

// IsValid reports whether r is a known role
func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleCustomer, UserRoleAccountManager, UserRoleAdmin, UserRoleSuperAdmin:
		return true
	}
	return false
}

// IsStaff reports whether the role may use the CRM back office
func (r UserRole) IsStaff() bool {
	return r == UserRoleAccountManager || r.IsAdmin()
}

// IsAdmin reports whether the role may run admin-only operations
func (r UserRole) IsAdmin() bool {
	return r == UserRoleAdmin || r == UserRoleSuperAdmin
}
