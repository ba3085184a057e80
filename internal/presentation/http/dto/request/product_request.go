package request

// ListProductsQuery is bound from the product list query string
type ListProductsQuery struct {
	Page            int    `form:"page"`
	PerPage         int    `form:"per_page"`
	Category        string `form:"category"`
	Search          string `form:"search"`
	IncludeInactive bool   `form:"include_inactive"`
}

// ProductRequest is used for both create and partial update
type ProductRequest struct {
	Name        *string  `json:"name" binding:"omitempty,max=255"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Category    *string  `json:"category" binding:"omitempty,max=100"`
	IsActive    *bool    `json:"is_active"`
}
