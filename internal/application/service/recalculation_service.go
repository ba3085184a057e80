package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sangkips/orderdesk-api/internal/domain/crm"
	"github.com/sangkips/orderdesk-api/internal/domain/entity"
	"github.com/sangkips/orderdesk-api/internal/domain/enum"
	"github.com/sangkips/orderdesk-api/internal/domain/repository"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// SourceAutoImport marks customers created from buyers during recalculation
const SourceAutoImport = "System Auto-Import"

const defaultRecalcWorkers = 4

// RecalculationResult summarizes one recalculation run
type RecalculationResult struct {
	UpdatedCount  int    `json:"updated_count"`
	ImportedCount int    `json:"imported_count"`
	FailedCount   int    `json:"failed_count"`
	Message       string `json:"message"`
}

// RecalculationService re-derives grade, status and order totals for every customer
type RecalculationService struct {
	customerRepo repository.CustomerRepository
	orderRepo    repository.OrderRepository
	rules        *crm.RuleSet
	workers      int
	log          zerolog.Logger
	now          func() time.Time

	group singleflight.Group
}

// NewRecalculationService creates a new recalculation service
func NewRecalculationService(
	customerRepo repository.CustomerRepository,
	orderRepo repository.OrderRepository,
	rules *crm.RuleSet,
	workers int,
	log zerolog.Logger,
	now func() time.Time,
) *RecalculationService {
	if workers < 1 {
		workers = defaultRecalcWorkers
	}
	if now == nil {
		now = time.Now
	}
	return &RecalculationService{
		customerRepo: customerRepo,
		orderRepo:    orderRepo,
		rules:        rules,
		workers:      workers,
		log:          log.With().Str("service", "recalculation").Logger(),
		now:          now,
	}
}

// Recalculate runs the job for an admin. Calls that overlap a running job
// share its result. The job itself outlives a cancelled request.
func (s *RecalculationService) Recalculate(ctx context.Context, actor entity.Actor) (*RecalculationResult, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	jobCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan("recalculate", func() (interface{}, error) {
		return s.run(jobCtx, actor)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*RecalculationResult), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *RecalculationService) run(ctx context.Context, actor entity.Actor) (*RecalculationResult, error) {
	started := time.Now()
	now := s.now()
	rules := s.rules.Load()

	var errs error
	imported, importErr := s.importBuyers(ctx)
	errs = multierr.Append(errs, importErr)

	aggregates, err := s.orderRepo.AggregateByEmail(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate orders: %w", err)
	}
	customers, err := s.customerRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load customers: %w", err)
	}

	var (
		mu      sync.Mutex
		updated atomic.Int64
		failed  int
	)

	g := new(errgroup.Group)
	g.SetLimit(s.workers)
	for i := range customers {
		c := &customers[i]
		g.Go(func() error {
			changed, err := s.recalculateOne(ctx, c, aggregates, rules, now)
			if err != nil {
				mu.Lock()
				failed++
				errs = multierr.Append(errs, fmt.Errorf("customer %s: %w", c.ID, err))
				mu.Unlock()
				return nil
			}
			if changed && !imported[c.ID] {
				updated.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	result := &RecalculationResult{
		UpdatedCount:  int(updated.Load()) + len(imported),
		ImportedCount: len(imported),
		FailedCount:   failed + len(multierr.Errors(importErr)),
	}

	logEvent := s.log.Info()
	if errs != nil {
		logEvent = s.log.Warn().Err(errs)
	}
	logEvent.
		Str("by", actor.Email).
		Int("customers", len(customers)).
		Int("updated", result.UpdatedCount).
		Int("imported", result.ImportedCount).
		Int("failed", result.FailedCount).
		Dur("took", time.Since(started)).
		Msg("Recalculation finished")

	if len(customers) > 0 && failed == len(customers) {
		return nil, fmt.Errorf("recalculation failed for every customer: %w", errs)
	}

	result.Message = fmt.Sprintf("Recalculated %d customers: %d updated", len(customers), result.UpdatedCount)
	if result.ImportedCount > 0 {
		result.Message += fmt.Sprintf(", %d imported", result.ImportedCount)
	}
	if result.FailedCount > 0 {
		result.Message += fmt.Sprintf(", %d failed", result.FailedCount)
	}
	return result, nil
}

// recalculateOne classifies one customer and writes its derived columns when they changed
func (s *RecalculationService) recalculateOne(
	ctx context.Context,
	c *entity.Customer,
	aggregates map[string]entity.OrderAggregate,
	rules crm.Rules,
	now time.Time,
) (bool, error) {
	var agg entity.OrderAggregate
	if c.Email != nil {
		agg = aggregates[strings.ToLower(strings.TrimSpace(*c.Email))]
	}

	metrics := crm.Metrics{
		TotalOrders:         agg.TotalOrders,
		TotalAmount:         agg.TotalAmount,
		FirstOrderDate:      agg.FirstOrderDate,
		LastOrderDate:       agg.LastOrderDate,
		LastInteractionDate: c.LastInteractionDate,
	}
	grade, status := crm.Classify(rules, metrics, now)

	derived := entity.DerivedFields{
		Grade:          grade,
		Status:         status,
		TotalOrders:    agg.TotalOrders,
		TotalAmount:    agg.TotalAmount,
		FirstOrderDate: agg.FirstOrderDate,
		LastOrderDate:  agg.LastOrderDate,
	}
	if derived.Equal(c.Derived()) {
		return false, nil
	}

	if err := s.customerRepo.UpdateDerived(ctx, c.ID, derived); err != nil {
		return false, err
	}
	c.Apply(derived)
	return true, nil
}

// importBuyers creates customers for users who completed an order but have no customer record
func (s *RecalculationService) importBuyers(ctx context.Context) (map[uuid.UUID]bool, error) {
	imported := make(map[uuid.UUID]bool)

	buyers, err := s.orderRepo.ListBuyersWithoutCustomer(ctx)
	if err != nil {
		return imported, fmt.Errorf("failed to list buyers: %w", err)
	}

	var errs error
	for _, b := range buyers {
		email := strings.ToLower(strings.TrimSpace(b.Email))
		if email == "" {
			continue
		}
		name := strings.TrimSpace(b.CompanyName)
		if name == "" {
			name = b.Username
		}

		customer := &entity.Customer{
			CompanyName:   name,
			ContactPerson: b.Username,
			Email:         &email,
			Source:        SourceAutoImport,
			Status:        enum.CustomerStatusPotential,
			Grade:         enum.CustomerGradeC,
		}
		if err := s.customerRepo.Create(ctx, customer); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("import %s: %w", email, err))
			continue
		}
		imported[customer.ID] = true
	}
	return imported, errs
}

// RunScheduled runs the job as the system actor. Errors are logged, not returned.
func (s *RecalculationService) RunScheduled(ctx context.Context) {
	if _, err := s.Recalculate(ctx, entity.SystemActor); err != nil {
		s.log.Error().Err(err).Msg("Scheduled recalculation failed")
	}
}
