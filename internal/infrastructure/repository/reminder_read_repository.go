package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/orderdesk-api/internal/domain/entity"
	domainRepo "github.com/sangkips/orderdesk-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type reminderReadRepository struct {
	db *gorm.DB
}

// NewReminderReadRepository creates a new reminder read-flag repository
func NewReminderReadRepository(db *gorm.DB) domainRepo.ReminderReadRepository {
	return &reminderReadRepository{db: db}
}

func (r *reminderReadRepository) MarkRead(ctx context.Context, reminderID string, userID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entity.ReminderRead{ReminderID: reminderID, UserID: userID, ReadAt: at}).Error
}

func (r *reminderReadRepository) ReadSet(ctx context.Context, reminderIDs []string) (map[string]bool, error) {
	read := make(map[string]bool)
	if len(reminderIDs) == 0 {
		return read, nil
	}

	var ids []string
	err := r.db.WithContext(ctx).Model(&entity.ReminderRead{}).
		Where("reminder_id IN ?", reminderIDs).
		Pluck("reminder_id", &ids).Error
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		read[id] = true
	}
	return read, nil
}
