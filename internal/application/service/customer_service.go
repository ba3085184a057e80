package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sangkips/orderdesk-api/internal/domain/entity"
	"github.com/sangkips/orderdesk-api/internal/domain/enum"
	"github.com/sangkips/orderdesk-api/internal/domain/repository"
	"github.com/sangkips/orderdesk-api/pkg/apperror"
	"github.com/sangkips/orderdesk-api/pkg/pagination"
)

// SourceManualEntry marks customers created through the API
const SourceManualEntry = "Manual Entry"

// CustomerService handles customer-related operations
type CustomerService struct {
	customerRepo repository.CustomerRepository
	log          zerolog.Logger
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository, log zerolog.Logger) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		log:          log.With().Str("service", "customer").Logger(),
	}
}

// ListCustomersInput represents the list customers input
type ListCustomersInput struct {
	Page     int
	PerPage  int
	Search   string
	Status   string
	Grade    string
	Industry string
	SortBy   string
}

// filterParams validates the input and converts it into repository filters
func (in *ListCustomersInput) filterParams() (*repository.CustomerFilterParams, error) {
	params := &repository.CustomerFilterParams{
		Search:   strings.TrimSpace(in.Search),
		Industry: strings.TrimSpace(in.Industry),
		SortBy:   in.SortBy,
	}

	var fieldErrors []apperror.FieldError
	if in.Status != "" {
		status := enum.CustomerStatus(in.Status)
		if !status.IsValid() {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "status", Message: "unknown status " + in.Status})
		}
		params.Status = &status
	}
	if in.Grade != "" {
		grade := enum.CustomerGrade(strings.ToUpper(in.Grade))
		if !grade.IsValid() {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "grade", Message: "unknown grade " + in.Grade})
		}
		params.Grade = &grade
	}
	switch in.SortBy {
	case "", repository.CustomerSortLastOrderAsc, repository.CustomerSortLastInteractionDesc, repository.CustomerSortLastOrderDate:
	default:
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "sort_by", Message: "unknown sort key " + in.SortBy})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}
	return params, nil
}

// ListCustomers lists customers matching the filters
func (s *CustomerService) ListCustomers(ctx context.Context, actor entity.Actor, input *ListCustomersInput) (*pagination.PaginatedResult[entity.Customer], error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	params, err := input.filterParams()
	if err != nil {
		return nil, err
	}
	params.Pagination = &pagination.PaginationParams{Page: input.Page, PerPage: input.PerPage}
	params.Pagination.Validate()

	customers, total, err := s.customerRepo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	if customers == nil {
		customers = []entity.Customer{}
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	CompanyName   string
	ContactPerson string
	Phone         string
	Email         *string
	Address       *string
	Industry      string
	Source        string
	Notes         *string
	Birthday      string
	RenewalDate   string
}

// CreateCustomer records a customer by hand. Derived fields start at their defaults.
func (s *CustomerService) CreateCustomer(ctx context.Context, actor entity.Actor, input *CreateCustomerInput) (*entity.Customer, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	companyName := strings.TrimSpace(input.CompanyName)
	if companyName == "" {
		return nil, apperror.Invalid("company_name", "company_name is required")
	}

	email := normalizeEmail(input.Email)
	if email != nil {
		if err := s.ensureEmailFree(ctx, *email, uuid.Nil); err != nil {
			return nil, err
		}
	}

	birthday, err := parseOptionalDate("birthday", input.Birthday)
	if err != nil {
		return nil, err
	}
	renewal, err := parseOptionalDate("renewal_date", input.RenewalDate)
	if err != nil {
		return nil, err
	}

	source := strings.TrimSpace(input.Source)
	if source == "" {
		source = SourceManualEntry
	}

	customer := &entity.Customer{
		CompanyName:   companyName,
		ContactPerson: strings.TrimSpace(input.ContactPerson),
		Phone:         strings.TrimSpace(input.Phone),
		Email:         email,
		Address:       input.Address,
		Industry:      strings.TrimSpace(input.Industry),
		Source:        source,
		Notes:         input.Notes,
		Birthday:      birthday,
		RenewalDate:   renewal,
		Status:        enum.CustomerStatusPotential,
		Grade:         enum.CustomerGradeC,
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	s.log.Info().Str("customer_id", customer.ID.String()).Str("by", actor.Email).Msg("Customer created")
	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, actor entity.Actor, id uuid.UUID) (*entity.Customer, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// UpdateCustomerInput carries the identity and contact fields a client may change.
// A nil field is left untouched; an empty date string clears the date.
type UpdateCustomerInput struct {
	ID            uuid.UUID
	CompanyName   *string
	ContactPerson *string
	Phone         *string
	Email         *string
	Address       *string
	Industry      *string
	Source        *string
	Notes         *string
	Birthday      *string
	RenewalDate   *string
}

// UpdateCustomer writes the supplied contact fields only. Grade, status and
// order totals are never touched here.
func (s *CustomerService) UpdateCustomer(ctx context.Context, actor entity.Actor, input *UpdateCustomerInput) (*entity.Customer, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	fields := make(map[string]interface{})
	if input.CompanyName != nil {
		name := strings.TrimSpace(*input.CompanyName)
		if name == "" {
			return nil, apperror.Invalid("company_name", "company_name cannot be empty")
		}
		fields["company_name"] = name
	}
	if input.ContactPerson != nil {
		fields["contact_person"] = strings.TrimSpace(*input.ContactPerson)
	}
	if input.Phone != nil {
		fields["phone"] = strings.TrimSpace(*input.Phone)
	}
	if input.Email != nil {
		email := normalizeEmail(input.Email)
		if email != nil {
			if err := s.ensureEmailFree(ctx, *email, customer.ID); err != nil {
				return nil, err
			}
		}
		fields["email"] = email
	}
	if input.Address != nil {
		fields["address"] = input.Address
	}
	if input.Industry != nil {
		fields["industry"] = strings.TrimSpace(*input.Industry)
	}
	if input.Source != nil {
		fields["source"] = strings.TrimSpace(*input.Source)
	}
	if input.Notes != nil {
		fields["notes"] = input.Notes
	}
	if input.Birthday != nil {
		birthday, err := parseOptionalDate("birthday", *input.Birthday)
		if err != nil {
			return nil, err
		}
		fields["birthday"] = birthday
	}
	if input.RenewalDate != nil {
		renewal, err := parseOptionalDate("renewal_date", *input.RenewalDate)
		if err != nil {
			return nil, err
		}
		fields["renewal_date"] = renewal
	}

	if len(fields) == 0 {
		return customer, nil
	}

	rows, err := s.customerRepo.UpdateContact(ctx, customer.ID, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	if rows == 0 {
		return nil, apperror.NewConflictError("Customer was removed while being updated")
	}

	updated, err := s.customerRepo.GetByID(ctx, customer.ID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperror.NewConflictError("Customer was removed while being updated")
	}
	return updated, nil
}

// DeleteCustomer soft deletes a customer
func (s *CustomerService) DeleteCustomer(ctx context.Context, actor entity.Actor, id uuid.UUID) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	rows, err := s.customerRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	if rows == 0 {
		return apperror.NewNotFoundError("Customer")
	}

	s.log.Info().Str("customer_id", id.String()).Str("by", actor.Email).Msg("Customer deleted")
	return nil
}

func (s *CustomerService) ensureEmailFree(ctx context.Context, email string, self uuid.UUID) error {
	existing, err := s.customerRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != self {
		return apperror.NewConflictError("A customer with this email already exists")
	}
	return nil
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	e := strings.ToLower(strings.TrimSpace(*email))
	if e == "" {
		return nil
	}
	return &e
}
