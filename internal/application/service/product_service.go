package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sangkips/orderdesk-api/internal/domain/entity"
	"github.com/sangkips/orderdesk-api/internal/domain/repository"
	"github.com/sangkips/orderdesk-api/pkg/apperror"
	"github.com/sangkips/orderdesk-api/pkg/pagination"
)

// ProductService manages the catalog orders are priced from
type ProductService struct {
	productRepo repository.ProductRepository
	log         zerolog.Logger
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository, log zerolog.Logger) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		log:         log.With().Str("service", "product").Logger(),
	}
}

// ListProductsInput represents the list products input
type ListProductsInput struct {
	Page            int
	PerPage         int
	Category        string
	Search          string
	IncludeInactive bool
}

// ListProducts returns the catalog. Only staff see inactive products.
func (s *ProductService) ListProducts(ctx context.Context, actor entity.Actor, input *ListProductsInput) (*pagination.PaginatedResult[entity.Product], error) {
	params := &repository.ProductFilterParams{
		Pagination:      &pagination.PaginationParams{Page: input.Page, PerPage: input.PerPage},
		Category:        strings.TrimSpace(input.Category),
		Search:          strings.TrimSpace(input.Search),
		IncludeInactive: input.IncludeInactive && actor.IsStaff(),
	}

	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []entity.Product{}
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, actor entity.Actor, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil || (!product.IsActive && !actor.IsStaff()) {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ProductInput carries create and update fields. Nil pointers are left unchanged on update.
type ProductInput struct {
	Name        *string
	Description *string
	Price       *float64
	Stock       *int
	Category    *string
	IsActive    *bool
}

func validateProduct(input *ProductInput, creating bool) []apperror.FieldError {
	var fieldErrors []apperror.FieldError
	if (creating && input.Name == nil) || (input.Name != nil && strings.TrimSpace(*input.Name) == "") {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "name is required"})
	}
	if creating && input.Price == nil {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "price", Message: "price is required"})
	}
	if p := input.Price; p != nil && (*p < 0 || math.IsNaN(*p) || math.IsInf(*p, 0)) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "price", Message: "price must be zero or more"})
	}
	if input.Stock != nil && *input.Stock < 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "stock", Message: "stock must be zero or more"})
	}
	return fieldErrors
}

func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// CreateProduct adds a product to the catalog (admin only)
func (s *ProductService) CreateProduct(ctx context.Context, actor entity.Actor, input *ProductInput) (*entity.Product, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if fieldErrors := validateProduct(input, true); len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	product := &entity.Product{
		Name:        strings.TrimSpace(*input.Name),
		Description: input.Description,
		Price:       toCents(*input.Price),
		IsActive:    true,
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.Category != nil {
		product.Category = strings.TrimSpace(*input.Category)
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.log.Info().Str("product_id", product.ID.String()).Str("name", product.Name).Msg("Product created")
	return product, nil
}

// UpdateProduct changes catalog fields (admin only). Existing order items
// keep the price they were placed at.
func (s *ProductService) UpdateProduct(ctx context.Context, actor entity.Actor, id uuid.UUID, input *ProductInput) (*entity.Product, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if fieldErrors := validateProduct(input, false); len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	fields := make(map[string]interface{})
	if input.Name != nil {
		fields["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		fields["description"] = input.Description
	}
	if input.Price != nil {
		fields["price"] = toCents(*input.Price)
	}
	if input.Stock != nil {
		fields["stock"] = *input.Stock
	}
	if input.Category != nil {
		fields["category"] = strings.TrimSpace(*input.Category)
	}
	if input.IsActive != nil {
		fields["is_active"] = *input.IsActive
	}

	return s.update(ctx, id, fields)
}

// DeactivateProduct hides a product from buyers without deleting it (admin only)
func (s *ProductService) DeactivateProduct(ctx context.Context, actor entity.Actor, id uuid.UUID) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	_, err := s.update(ctx, id, map[string]interface{}{"is_active": false})
	return err
}

func (s *ProductService) update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*entity.Product, error) {
	if len(fields) > 0 {
		rows, err := s.productRepo.Update(ctx, id, fields)
		if err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
		if rows == 0 {
			return nil, apperror.NewNotFoundError("Product")
		}
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}
