package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sangkips/orderdesk-api/internal/domain/entity"
	"github.com/sangkips/orderdesk-api/internal/domain/enum"
	"github.com/sangkips/orderdesk-api/internal/domain/repository"
	"github.com/sangkips/orderdesk-api/pkg/apperror"
)

// InteractionService handles the customer interaction log
type InteractionService struct {
	customerRepo    repository.CustomerRepository
	interactionRepo repository.InteractionRepository
	log             zerolog.Logger
	now             func() time.Time
}

// NewInteractionService creates a new interaction service
func NewInteractionService(
	customerRepo repository.CustomerRepository,
	interactionRepo repository.InteractionRepository,
	log zerolog.Logger,
	now func() time.Time,
) *InteractionService {
	if now == nil {
		now = time.Now
	}
	return &InteractionService{
		customerRepo:    customerRepo,
		interactionRepo: interactionRepo,
		log:             log.With().Str("service", "interaction").Logger(),
		now:             now,
	}
}

// ListInteractions returns a customer's interactions, newest first
func (s *InteractionService) ListInteractions(ctx context.Context, actor entity.Actor, customerID uuid.UUID) ([]entity.Interaction, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if err := s.ensureCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	interactions, err := s.interactionRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list interactions: %w", err)
	}
	if interactions == nil {
		interactions = []entity.Interaction{}
	}
	return interactions, nil
}

// CreateInteractionInput represents the create interaction input
type CreateInteractionInput struct {
	CustomerID      uuid.UUID
	InteractionType string
	Content         string
	NextAction      *string
	NextActionDate  string
}

// CreateInteraction appends to the log and moves the customer's last interaction date
func (s *InteractionService) CreateInteraction(ctx context.Context, actor entity.Actor, input *CreateInteractionInput) (*entity.Interaction, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	var fieldErrors []apperror.FieldError
	interactionType := enum.InteractionType(strings.ToLower(strings.TrimSpace(input.InteractionType)))
	if !interactionType.IsValid() {
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field:   "interaction_type",
			Message: "interaction_type must be one of phone, email, meeting, visit, other",
		})
	}
	content := strings.TrimSpace(input.Content)
	if content == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "content", Message: "content is required"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	nextActionDate, err := parseOptionalDate("next_action_date", input.NextActionDate)
	if err != nil {
		return nil, err
	}
	var nextAction *string
	if input.NextAction != nil {
		if a := strings.TrimSpace(*input.NextAction); a != "" {
			nextAction = &a
		}
	}
	if nextAction == nil && nextActionDate != nil {
		return nil, apperror.Invalid("next_action", "next_action is required when next_action_date is set")
	}

	if err := s.ensureCustomer(ctx, input.CustomerID); err != nil {
		return nil, err
	}

	interaction := &entity.Interaction{
		CustomerID:      input.CustomerID,
		InteractionType: interactionType,
		Content:         content,
		NextAction:      nextAction,
		NextActionDate:  nextActionDate,
		RecordedBy:      actor.Email,
		CreatedAt:       s.now(),
	}
	if err := s.interactionRepo.CreateAndTouch(ctx, interaction); err != nil {
		return nil, fmt.Errorf("failed to record interaction: %w", err)
	}

	s.log.Info().
		Str("customer_id", input.CustomerID.String()).
		Str("interaction_id", interaction.ID.String()).
		Str("type", string(interactionType)).
		Msg("Interaction recorded")
	return interaction, nil
}

// CompleteAction closes an interaction's next action. Completing twice is harmless.
func (s *InteractionService) CompleteAction(ctx context.Context, actor entity.Actor, id uuid.UUID) (*entity.Interaction, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	interaction, err := s.interactionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if interaction == nil {
		return nil, apperror.NewNotFoundError("Interaction")
	}
	if interaction.ActionCompleted {
		return interaction, nil
	}

	if err := s.interactionRepo.CompleteAction(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to complete action: %w", err)
	}
	interaction.ActionCompleted = true
	return interaction, nil
}

func (s *InteractionService) ensureCustomer(ctx context.Context, id uuid.UUID) error {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if customer == nil {
		return apperror.NewNotFoundError("Customer")
	}
	return nil
}
