package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sangkips/orderdesk-api/internal/domain/entity"
	"github.com/sangkips/orderdesk-api/internal/domain/enum"
	"github.com/sangkips/orderdesk-api/internal/domain/repository"
	"github.com/sangkips/orderdesk-api/pkg/apperror"
	"github.com/sangkips/orderdesk-api/pkg/pagination"
	"github.com/sangkips/orderdesk-api/pkg/utils"
)

const orderNumberPrefix = "ORD"

// OrderService handles order-related operations
type OrderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	log         zerolog.Logger
	now         func() time.Time
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	log zerolog.Logger,
	now func() time.Time,
) *OrderService {
	if now == nil {
		now = time.Now
	}
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		log:         log.With().Str("service", "order").Logger(),
		now:         now,
	}
}

// OrderItemInput represents one requested order line
type OrderItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CreateOrderInput represents the create order input. Prices and the order
// date are never taken from the caller.
type CreateOrderInput struct {
	Items           []OrderItemInput
	DeliveryAddress *string
	Notes           *string
}

// CreateOrder places an order for the actor. The total is priced from the
// catalog and stock is reserved in the same transaction as the insert.
func (s *OrderService) CreateOrder(ctx context.Context, actor entity.Actor, input *CreateOrderInput) (*entity.Order, error) {
	if len(input.Items) == 0 {
		return nil, apperror.Invalid("items", "order must contain at least one item")
	}

	// Repeated products are merged into one line
	quantities := make(map[uuid.UUID]int, len(input.Items))
	var productIDs []uuid.UUID
	for i, item := range input.Items {
		if item.Quantity < 1 {
			return nil, apperror.Invalid(fmt.Sprintf("items[%d].quantity", i), "quantity must be at least 1")
		}
		if _, seen := quantities[item.ProductID]; !seen {
			productIDs = append(productIDs, item.ProductID)
		}
		quantities[item.ProductID] += item.Quantity
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	productMap := make(map[uuid.UUID]entity.Product, len(products))
	for _, p := range products {
		productMap[p.ID] = p
	}

	items := make([]entity.OrderItem, 0, len(productIDs))
	var total int64
	for _, id := range productIDs {
		product, ok := productMap[id]
		if !ok {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", id))
		}
		if !product.IsActive {
			return nil, apperror.NewBadRequestError(fmt.Sprintf("Product %s is not available", product.Name))
		}
		qty := quantities[id]
		if product.Stock < qty {
			return nil, insufficientStock(product.Name)
		}

		subtotal := product.Price * int64(qty)
		total += subtotal
		items = append(items, entity.OrderItem{
			ProductID: id,
			Quantity:  qty,
			UnitPrice: product.Price,
			Subtotal:  subtotal,
		})
	}

	now := s.now()
	order := &entity.Order{
		OrderNumber:     utils.GenerateOrderNumber(orderNumberPrefix, now),
		UserID:          actor.UserID,
		OrderDate:       now,
		Status:          enum.OrderStatusPending,
		TotalAmount:     total,
		DeliveryAddress: input.DeliveryAddress,
		Notes:           input.Notes,
		Items:           items,
	}
	if err := s.orderRepo.CreateWithItems(ctx, order); err != nil {
		var stockErr *repository.InsufficientStockError
		if errors.As(err, &stockErr) {
			// Stock moved between the read and the guarded decrement
			return nil, insufficientStock(productMap[stockErr.ProductID].Name)
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.log.Info().
		Str("order_id", order.ID.String()).
		Str("order_number", order.OrderNumber).
		Int64("total_cents", total).
		Msg("Order placed")

	return s.getOrder(ctx, order.ID)
}

func insufficientStock(name string) error {
	return apperror.NewConflictError("Insufficient stock for " + name)
}

func (s *OrderService) getOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// GetOrder returns an order to its owner or to staff
func (s *OrderService) GetOrder(ctx context.Context, actor entity.Actor, id uuid.UUID) (*entity.Order, error) {
	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != actor.UserID && !actor.IsStaff() {
		// Other buyers' orders are reported as missing
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// CancelOrder lets a buyer withdraw their own order while it is still pending
func (s *OrderService) CancelOrder(ctx context.Context, actor entity.Actor, id uuid.UUID) (*entity.Order, error) {
	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != actor.UserID {
		return nil, apperror.NewForbiddenError("Not authorized to cancel this order")
	}
	if order.Status != enum.OrderStatusPending {
		return nil, apperror.NewConflictError("Only pending orders can be cancelled")
	}

	cancelled, err := s.orderRepo.Cancel(ctx, id, []enum.OrderStatus{enum.OrderStatusPending})
	if err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}
	if !cancelled {
		return nil, apperror.NewConflictError("Only pending orders can be cancelled")
	}

	s.log.Info().Str("order_id", id.String()).Msg("Order cancelled by buyer")
	return s.getOrder(ctx, id)
}

// ListOrdersInput represents the list orders input
type ListOrdersInput struct {
	Page    int
	PerPage int
	Status  string
}

// ListOrders returns the actor's orders, or every order for staff
func (s *OrderService) ListOrders(ctx context.Context, actor entity.Actor, input *ListOrdersInput) (*pagination.PaginatedResult[entity.Order], error) {
	params := &repository.OrderFilterParams{
		Pagination:     &pagination.PaginationParams{Page: input.Page, PerPage: input.PerPage},
		SkipUserFilter: actor.IsStaff(),
	}
	if input.Status != "" {
		status := enum.OrderStatus(input.Status)
		if !status.IsValid() {
			return nil, apperror.Invalid("status", "unknown order status "+input.Status)
		}
		params.Status = &status
	}

	orders, total, err := s.orderRepo.List(ctx, actor.UserID, params)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []entity.Order{}
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(orders, pag), nil
}

// UpdateStatus moves an order to a new status. Cancelling returns stock;
// cancelled orders are final.
func (s *OrderService) UpdateStatus(ctx context.Context, actor entity.Actor, id uuid.UUID, status string) (*entity.Order, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	newStatus := enum.OrderStatus(status)
	if !newStatus.IsValid() {
		return nil, apperror.Invalid("status", "unknown order status "+status)
	}

	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == newStatus {
		return order, nil
	}
	if order.Status == enum.OrderStatusCancelled {
		return nil, apperror.NewConflictError("Cancelled orders cannot change status")
	}

	var changed bool
	if newStatus == enum.OrderStatusCancelled {
		changed, err = s.orderRepo.Cancel(ctx, id, []enum.OrderStatus{order.Status})
	} else {
		changed, err = s.orderRepo.UpdateStatus(ctx, id, newStatus)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if !changed {
		return nil, apperror.NewConflictError("Order status changed concurrently")
	}

	s.log.Info().
		Str("order_id", id.String()).
		Str("from", string(order.Status)).
		Str("to", string(newStatus)).
		Msg("Order status updated")

	return s.getOrder(ctx, id)
}
