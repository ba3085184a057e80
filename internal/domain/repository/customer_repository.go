package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/orderdesk-api/internal/domain/entity"
	"github.com/sangkips/orderdesk-api/internal/domain/enum"
	"github.com/sangkips/orderdesk-api/pkg/pagination"
)

// Customer list sort keys
const (
	CustomerSortLastOrderAsc        = "last_order_asc"
	CustomerSortLastInteractionDesc = "last_interaction_desc"
	CustomerSortLastOrderDate       = "last_order_date"
)

// CustomerFilterParams contains filtering parameters for customer queries
type CustomerFilterParams struct {
	Pagination *pagination.PaginationParams // nil returns every match
	Search     string
	Status     *enum.CustomerStatus
	Grade      *enum.CustomerGrade
	Industry   string
	SortBy     string
}

// SegmentCount is the number of live customers holding a grade and status pair
type SegmentCount struct {
	Grade  enum.CustomerGrade
	Status enum.CustomerStatus
	Count  int64
}

// CustomerRepository defines the interface for customer data operations.
// Lookups return nil, nil when the customer does not exist.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	GetByEmail(ctx context.Context, email string) (*entity.Customer, error)
	List(ctx context.Context, params *CustomerFilterParams) ([]entity.Customer, int64, error)
	// ListAll returns every live customer ordered by id
	ListAll(ctx context.Context) ([]entity.Customer, error)
	// UpdateContact writes only the given contact columns and reports the rows touched
	UpdateContact(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error)
	// UpdateDerived writes only the columns owned by the recalculation job
	UpdateDerived(ctx context.Context, id uuid.UUID, derived entity.DerivedFields) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	CountBySegment(ctx context.Context) ([]SegmentCount, error)
}

// InteractionRepository defines the interface for interaction log operations
type InteractionRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Interaction, error)
	// ListByCustomer returns the log newest first
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.Interaction, error)
	// CreateAndTouch inserts the interaction and moves the customer's
	// last_interaction_date forward in one transaction
	CreateAndTouch(ctx context.Context, interaction *entity.Interaction) error
	CompleteAction(ctx context.Context, id uuid.UUID) error
	// LatestOpenActions returns the newest interaction with an open next action per customer,
	// limited to customerIDs when any are given
	LatestOpenActions(ctx context.Context, customerIDs ...uuid.UUID) (map[uuid.UUID]entity.Interaction, error)
}

// ReminderReadRepository persists reminder read flags
type ReminderReadRepository interface {
	// MarkRead records the id as read; repeating it changes nothing
	MarkRead(ctx context.Context, reminderID string, userID uuid.UUID, at time.Time) error
	// ReadSet returns which of the given ids are read
	ReadSet(ctx context.Context, reminderIDs []string) (map[string]bool, error)
}
