package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sangkips/orderdesk-api/internal/domain/repository"
)

// MaintenanceService purges expired bookkeeping rows
type MaintenanceService struct {
	idempotencyRepo repository.IdempotencyRepository
	log             zerolog.Logger
}

// NewMaintenanceService creates a new maintenance service
func NewMaintenanceService(idempotencyRepo repository.IdempotencyRepository, log zerolog.Logger) *MaintenanceService {
	return &MaintenanceService{
		idempotencyRepo: idempotencyRepo,
		log:             log.With().Str("service", "maintenance").Logger(),
	}
}

// PurgeIdempotencyKeys deletes idempotency keys that have expired
func (s *MaintenanceService) PurgeIdempotencyKeys(ctx context.Context) {
	n, err := s.idempotencyRepo.DeleteExpired(ctx, time.Now())
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to purge idempotency keys")
		return
	}
	s.log.Info().Int64("deleted", n).Msg("Purged expired idempotency keys")
}
