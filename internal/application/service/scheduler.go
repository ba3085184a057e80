package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// ScheduleDailyAt runs task every day at hour:minute local time until ctx is done.
// Runs never overlap: the next one is planned after the previous returns.
func ScheduleDailyAt(ctx context.Context, log zerolog.Logger, name string, hour, minute int, task func(context.Context)) {
	go func() {
		for {
			next := nextDailyRun(time.Now(), hour, minute)
			log.Debug().Str("task", name).Time("next_run", next).Msg("Scheduled daily task")

			timer := time.NewTimer(time.Until(next))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}

			log.Info().Str("task", name).Msg("Running daily task")
			task(ctx)
		}
	}()
}

func nextDailyRun(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
