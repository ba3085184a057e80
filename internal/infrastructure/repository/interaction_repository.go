package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/orderdesk-api/internal/domain/entity"
	domainRepo "github.com/sangkips/orderdesk-api/internal/domain/repository"
	"gorm.io/gorm"
)

type interactionRepository struct {
	db *gorm.DB
}

// NewInteractionRepository creates a new interaction repository
func NewInteractionRepository(db *gorm.DB) domainRepo.InteractionRepository {
	return &interactionRepository{db: db}
}

func (r *interactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Interaction, error) {
	var interaction entity.Interaction
	err := r.db.WithContext(ctx).First(&interaction, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &interaction, err
}

func (r *interactionRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.Interaction, error) {
	var interactions []entity.Interaction
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC, id ASC").
		Find(&interactions).Error
	return interactions, err
}

func (r *interactionRepository) CreateAndTouch(ctx context.Context, interaction *entity.Interaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(interaction).Error; err != nil {
			return err
		}

		// last_interaction_date only moves forward
		return tx.Model(&entity.Customer{}).
			Where("id = ? AND (last_interaction_date IS NULL OR last_interaction_date < ?)",
				interaction.CustomerID, interaction.CreatedAt).
			UpdateColumn("last_interaction_date", interaction.CreatedAt).Error
	})
}

func (r *interactionRepository) CompleteAction(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&entity.Interaction{}).
		Where("id = ?", id).
		Update("action_completed", true).Error
}

func (r *interactionRepository) LatestOpenActions(ctx context.Context, customerIDs ...uuid.UUID) (map[uuid.UUID]entity.Interaction, error) {
	var interactions []entity.Interaction
	query := r.db.WithContext(ctx).
		Where("action_completed = ? AND next_action IS NOT NULL AND next_action <> ''", false)
	if len(customerIDs) > 0 {
		query = query.Where("customer_id IN ?", customerIDs)
	}
	err := query.Order("customer_id ASC, created_at DESC, id ASC").Find(&interactions).Error
	if err != nil {
		return nil, err
	}

	latest := make(map[uuid.UUID]entity.Interaction, len(interactions))
	for _, i := range interactions {
		if _, seen := latest[i.CustomerID]; !seen {
			latest[i.CustomerID] = i
		}
	}
	return latest, nil
}
