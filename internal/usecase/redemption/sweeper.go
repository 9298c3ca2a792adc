package redemption

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	domain "github.com/salonpuntos/loyalty-scheduler/internal/domain/ledger"
	"github.com/salonpuntos/loyalty-scheduler/internal/timezone"
)

// Sweeper periodically marks overdue pending canjes expired. The confirm
// and lookup paths already re-check expiry on read, so the sweep only keeps
// "pending" counts honest for reporting; missing a tick is harmless.
type Sweeper struct {
	repo     domain.Repository
	interval time.Duration
	logger   zerolog.Logger
}

func NewSweeper(
	repo domain.Repository,
	interval time.Duration,
	logger zerolog.Logger,
) *Sweeper {
	return &Sweeper{
		repo:     repo,
		interval: interval,
		logger:   logger,
	}
}

// Run blocks until ctx is done. Call it from its own goroutine.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("redemption sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	n, err := s.repo.ExpireOverdue(ctx, timezone.Now())
	if err != nil {
		s.logger.Error().Err(err).Msg("redemption sweep failed")
		return
	}
	if n > 0 {
		s.logger.Info().Int64("expired", n).Msg("redemptions swept")
	}
}
