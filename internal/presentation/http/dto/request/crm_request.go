package request

// ListCustomersQuery is bound from the customer list and export query string
type ListCustomersQuery struct {
	Page     int    `form:"page"`
	PerPage  int    `form:"per_page"`
	Search   string `form:"search"`
	Status   string `form:"status"`
	Grade    string `form:"grade"`
	Industry string `form:"industry"`
	SortBy   string `form:"sort_by"`
}

// CreateCustomerRequest represents a manual customer entry
type CreateCustomerRequest struct {
	CompanyName   string  `json:"company_name" binding:"required,max=255"`
	ContactPerson string  `json:"contact_person" binding:"max=255"`
	Phone         string  `json:"phone" binding:"max=50"`
	Email         *string `json:"email" binding:"omitempty,email"`
	Address       *string `json:"address"`
	Industry      string  `json:"industry" binding:"max=100"`
	Source        string  `json:"source" binding:"max=100"`
	Notes         *string `json:"notes"`
	Birthday      string  `json:"birthday"`     // YYYY-MM-DD
	RenewalDate   string  `json:"renewal_date"` // YYYY-MM-DD
}

// UpdateCustomerRequest carries identity and contact fields only. Absent
// fields stay as they are.
type UpdateCustomerRequest struct {
	CompanyName   *string `json:"company_name" binding:"omitempty,max=255"`
	ContactPerson *string `json:"contact_person" binding:"omitempty,max=255"`
	Phone         *string `json:"phone" binding:"omitempty,max=50"`
	Email         *string `json:"email"`
	Address       *string `json:"address"`
	Industry      *string `json:"industry" binding:"omitempty,max=100"`
	Source        *string `json:"source" binding:"omitempty,max=100"`
	Notes         *string `json:"notes"`
	Birthday      *string `json:"birthday"`
	RenewalDate   *string `json:"renewal_date"`
}

// CreateInteractionRequest represents a new interaction log entry
type CreateInteractionRequest struct {
	InteractionType string  `json:"interaction_type" binding:"required"`
	Content         string  `json:"content" binding:"required"`
	NextAction      *string `json:"next_action"`
	NextActionDate  string  `json:"next_action_date"` // YYYY-MM-DD
}
