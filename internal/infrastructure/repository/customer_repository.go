package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/orderdesk-api/internal/domain/entity"
	domainRepo "github.com/sangkips/orderdesk-api/internal/domain/repository"
	"gorm.io/gorm"
)

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) domainRepo.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	var customer entity.Customer
	err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &customer, err
}

func (r *customerRepository) GetByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	var customer entity.Customer
	err := r.db.WithContext(ctx).First(&customer, "LOWER(email) = ?", strings.ToLower(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &customer, err
}

func (r *customerRepository) List(ctx context.Context, params *domainRepo.CustomerFilterParams) ([]entity.Customer, int64, error) {
	var customers []entity.Customer
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Customer{})

	if params.Search != "" {
		like := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(company_name) LIKE ? OR LOWER(contact_person) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?",
			like, like, like, like)
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.Grade != nil {
		query = query.Where("grade = ?", *params.Grade)
	}

	if params.Industry != "" {
		query = query.Where("industry = ?", params.Industry)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Never-ordered and never-contacted customers sort last on every driver
	switch params.SortBy {
	case domainRepo.CustomerSortLastOrderAsc:
		query = query.Order("CASE WHEN last_order_date IS NULL THEN 1 ELSE 0 END, last_order_date ASC")
	case domainRepo.CustomerSortLastInteractionDesc:
		query = query.Order("CASE WHEN last_interaction_date IS NULL THEN 1 ELSE 0 END, last_interaction_date DESC")
	case domainRepo.CustomerSortLastOrderDate:
		query = query.Order("CASE WHEN last_order_date IS NULL THEN 1 ELSE 0 END, last_order_date DESC")
	default:
		query = query.Order("created_at DESC")
	}
	query = query.Order("id ASC")

	if params.Pagination != nil {
		params.Pagination.Validate()
		query = query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage)
	}

	err := query.Find(&customers).Error
	return customers, total, err
}

func (r *customerRepository) ListAll(ctx context.Context) ([]entity.Customer, error) {
	var customers []entity.Customer
	err := r.db.WithContext(ctx).Order("id ASC").Find(&customers).Error
	return customers, err
}

func (r *customerRepository) UpdateContact(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.Customer{}).
		Where("id = ?", id).
		Updates(fields)
	return result.RowsAffected, result.Error
}

func (r *customerRepository) UpdateDerived(ctx context.Context, id uuid.UUID, derived entity.DerivedFields) error {
	return r.db.WithContext(ctx).Model(&entity.Customer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"grade":            derived.Grade,
			"status":           derived.Status,
			"total_orders":     derived.TotalOrders,
			"total_amount":     derived.TotalAmount,
			"first_order_date": derived.FirstOrderDate,
			"last_order_date":  derived.LastOrderDate,
		}).Error
}

func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&entity.Customer{}, "id = ?", id)
	return result.RowsAffected, result.Error
}

func (r *customerRepository) CountBySegment(ctx context.Context) ([]domainRepo.SegmentCount, error) {
	var counts []domainRepo.SegmentCount
	err := r.db.WithContext(ctx).
		Model(&entity.Customer{}).
		Select("grade, status, COUNT(*) AS count").
		Group("grade, status").
		Order("grade, status").
		Scan(&counts).Error
	return counts, err
}
