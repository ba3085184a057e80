package repository

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/orderdesk-api/internal/domain/entity"
	"github.com/sangkips/orderdesk-api/internal/domain/enum"
	domainRepo "github.com/sangkips/orderdesk-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) domainRepo.OrderRepository {
	return &orderRepository{db: db}
}

// CreateWithItems decrements stock with a guarded UPDATE per product, so two
// orders racing for the last unit cannot both succeed.
func (r *orderRepository) CreateWithItems(ctx context.Context, order *entity.Order) error {
	if len(order.Items) == 0 {
		return errors.New("order has no items")
	}

	decrements := make(map[uuid.UUID]int, len(order.Items))
	for _, item := range order.Items {
		decrements[item.ProductID] += item.Quantity
	}
	productIDs := make([]uuid.UUID, 0, len(decrements))
	for id := range decrements {
		productIDs = append(productIDs, id)
	}
	// Fixed lock order across concurrent orders
	sort.Slice(productIDs, func(i, j int) bool { return productIDs[i].String() < productIDs[j].String() })

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, id := range productIDs {
			amount := decrements[id]
			result := tx.Model(&entity.Product{}).
				Where("id = ? AND is_active = ? AND stock >= ?", id, true, amount).
				Update("stock", gorm.Expr("stock - ?", amount))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return &domainRepo.InsufficientStockError{ProductID: id}
			}
		}

		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return err
		}
		for i := range order.Items {
			order.Items[i].OrderID = order.ID
		}
		return tx.Omit(clause.Associations).Create(&order.Items).Error
	})
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).Preload("Items.Product").First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) List(ctx context.Context, userID uuid.UUID, params *domainRepo.OrderFilterParams) ([]entity.Order, int64, error) {
	var orders []entity.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Order{})
	if !params.SkipUserFilter {
		query = query.Where("user_id = ?", userID)
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.StartDate != nil {
		query = query.Where("order_date >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("order_date <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Preload("Items.Product").
		Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("order_date DESC, id ASC").
		Find(&orders).Error

	return orders, total, err
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.Order{}).
		Where("id = ? AND status <> ?", id, enum.OrderStatusCancelled).
		Update("status", status)
	return result.RowsAffected > 0, result.Error
}

func (r *orderRepository) Cancel(ctx context.Context, id uuid.UUID, from []enum.OrderStatus) (bool, error) {
	cancelled := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.Order{}).
			Where("id = ? AND status IN ?", id, from).
			Update("status", enum.OrderStatusCancelled)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		cancelled = true

		var items []entity.OrderItem
		if err := tx.Where("order_id = ?", id).Find(&items).Error; err != nil {
			return err
		}
		for _, item := range items {
			if err := tx.Model(&entity.Product{}).
				Where("id = ?", item.ProductID).
				Update("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return cancelled, nil
}

type orderAmountRow struct {
	Email       string
	TotalAmount int64
	OrderDate   time.Time
}

// AggregateByEmail streams every counted order once and folds it per email.
// Folding in Go keeps date handling identical on postgres and sqlite.
func (r *orderRepository) AggregateByEmail(ctx context.Context) (map[string]entity.OrderAggregate, error) {
	rows, err := r.db.WithContext(ctx).
		Table("orders").
		Select("users.email AS email, orders.total_amount AS total_amount, orders.order_date AS order_date").
		Joins("JOIN users ON users.id = orders.user_id").
		Where("orders.status <> ? AND orders.deleted_at IS NULL AND users.deleted_at IS NULL", enum.OrderStatusCancelled).
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	aggregates := make(map[string]entity.OrderAggregate)
	for rows.Next() {
		var row orderAmountRow
		if err := r.db.ScanRows(rows, &row); err != nil {
			return nil, err
		}

		email := strings.ToLower(strings.TrimSpace(row.Email))
		agg := aggregates[email]
		agg.Email = email
		agg.TotalOrders++
		agg.TotalAmount += row.TotalAmount
		if !row.OrderDate.IsZero() {
			d := row.OrderDate
			if agg.FirstOrderDate == nil || d.Before(*agg.FirstOrderDate) {
				agg.FirstOrderDate = &d
			}
			if agg.LastOrderDate == nil || d.After(*agg.LastOrderDate) {
				last := d
				agg.LastOrderDate = &last
			}
		}
		aggregates[email] = agg
	}
	return aggregates, rows.Err()
}

// ListBuyersWithoutCustomer ignores soft deletion on customers so removed
// customers are not imported again.
func (r *orderRepository) ListBuyersWithoutCustomer(ctx context.Context) ([]entity.Buyer, error) {
	var buyers []entity.Buyer
	err := r.db.WithContext(ctx).
		Table("users").
		Distinct("users.id AS user_id", "users.username", "users.email", "users.company_name").
		Joins("JOIN orders ON orders.user_id = users.id AND orders.status = ? AND orders.deleted_at IS NULL", enum.OrderStatusCompleted).
		Where("users.deleted_at IS NULL").
		Where("NOT EXISTS (SELECT 1 FROM customers WHERE LOWER(customers.email) = LOWER(users.email))").
		Order("users.email ASC").
		Scan(&buyers).Error
	return buyers, err
}
