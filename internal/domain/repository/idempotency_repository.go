package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/orderdesk-api/internal/domain/entity"
)

// IdempotencyRepository stores replayable responses per user and key
type IdempotencyRepository interface {
	// GetActive returns the user's key if it has not expired at now, or nil
	GetActive(ctx context.Context, key string, userID uuid.UUID, now time.Time) (*entity.IdempotencyKey, error)
	// Save stores the key, replacing an expired row for the same user and key
	Save(ctx context.Context, ikey *entity.IdempotencyKey) error
	// DeleteExpired removes keys that expired before the given time
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
