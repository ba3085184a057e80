package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/orderdesk-api/internal/domain/entity"
	"github.com/sangkips/orderdesk-api/internal/domain/enum"
	"github.com/sangkips/orderdesk-api/pkg/pagination"
)

// OrderFilterParams contains filtering parameters for order queries
type OrderFilterParams struct {
	Pagination     *pagination.PaginationParams
	Status         *enum.OrderStatus
	StartDate      *time.Time
	EndDate        *time.Time
	SkipUserFilter bool // If true, returns all orders (for staff)
}

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	// CreateWithItems deducts stock for every item and writes the order and its
	// items in one transaction. A short product yields *InsufficientStockError.
	CreateWithItems(ctx context.Context, order *entity.Order) error
	// GetByID loads the order with its items and their products
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	List(ctx context.Context, userID uuid.UUID, params *OrderFilterParams) ([]entity.Order, int64, error)
	// UpdateStatus changes the status unless the order is already cancelled.
	// It returns false when no row matched.
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) (bool, error)
	// Cancel moves an order whose status is one of from to cancelled and
	// returns its items to stock. It returns false when no row matched.
	Cancel(ctx context.Context, id uuid.UUID, from []enum.OrderStatus) (bool, error)
	// AggregateByEmail sums non-cancelled orders per lower-cased user email
	AggregateByEmail(ctx context.Context) (map[string]entity.OrderAggregate, error)
	// ListBuyersWithoutCustomer returns users with a completed order and no matching customer
	ListBuyersWithoutCustomer(ctx context.Context) ([]entity.Buyer, error)
}
