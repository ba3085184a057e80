package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextDailyRun(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"later today", time.Date(2026, 6, 15, 1, 30, 0, 0, time.UTC), time.Date(2026, 6, 15, 2, 0, 0, 0, time.UTC)},
		{"exactly now runs tomorrow", time.Date(2026, 6, 15, 2, 0, 0, 0, time.UTC), time.Date(2026, 6, 16, 2, 0, 0, 0, time.UTC)},
		{"already passed", time.Date(2026, 6, 15, 23, 0, 0, 0, time.UTC), time.Date(2026, 6, 16, 2, 0, 0, 0, time.UTC)},
		{"month rollover", time.Date(2026, 6, 30, 3, 0, 0, 0, time.UTC), time.Date(2026, 7, 1, 2, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextDailyRun(tt.now, 2, 0))
		})
	}
}
