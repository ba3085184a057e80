package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sangkips/orderdesk-api/internal/domain/entity"
	"github.com/sangkips/orderdesk-api/internal/domain/repository"
	"github.com/sangkips/orderdesk-api/pkg/email"
)

// DigestMailer delivers the daily reminder digest
type DigestMailer interface {
	SendReminderDigest(ctx context.Context, to []string, digest email.Digest) error
}

// DigestService mails unread reminders to staff once a day
type DigestService struct {
	reminders  *ReminderService
	userRepo   repository.UserRepository
	mailer     DigestMailer
	recipients []string
	log        zerolog.Logger
	now        func() time.Time
}

// NewDigestService creates a new digest service. With no configured
// recipients the digest goes to every active staff user.
func NewDigestService(
	reminders *ReminderService,
	userRepo repository.UserRepository,
	mailer DigestMailer,
	recipients []string,
	log zerolog.Logger,
	now func() time.Time,
) *DigestService {
	if now == nil {
		now = time.Now
	}
	return &DigestService{
		reminders:  reminders,
		userRepo:   userRepo,
		mailer:     mailer,
		recipients: recipients,
		log:        log.With().Str("service", "digest").Logger(),
		now:        now,
	}
}

// SendDaily builds and sends the digest of unread reminders
func (s *DigestService) SendDaily(ctx context.Context) error {
	reminders, err := s.reminders.ListReminders(ctx, entity.SystemActor)
	if err != nil {
		return err
	}

	digest := email.Digest{Date: s.now().Format(dateLayout)}
	for _, r := range reminders {
		if r.IsRead {
			continue
		}
		digest.Items = append(digest.Items, email.DigestItem{
			CustomerName: r.CustomerName,
			Message:      r.Message,
			Type:         string(r.Type),
			Priority:     string(r.Priority),
			DueDate:      r.DueDate.Format(dateLayout),
		})
	}
	if len(digest.Items) == 0 {
		s.log.Info().Msg("No unread reminders, digest skipped")
		return nil
	}

	to := s.recipients
	if len(to) == 0 {
		to, err = s.userRepo.ListStaffEmails(ctx)
		if err != nil {
			return fmt.Errorf("failed to load staff emails: %w", err)
		}
	}
	if len(to) == 0 {
		s.log.Warn().Msg("No digest recipients")
		return nil
	}

	if err := s.mailer.SendReminderDigest(ctx, to, digest); err != nil {
		return err
	}
	s.log.Info().Int("reminders", len(digest.Items)).Int("recipients", len(to)).Msg("Reminder digest sent")
	return nil
}
