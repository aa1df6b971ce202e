// Package expiry removes pending signups whose verification window has
// closed. MongoDB's TTL monitor does the same eventually; the sweeper keeps
// the delay bounded and observable. Correctness never depends on either:
// token lookups always filter by expiry at read time.
package expiry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/convoo/convoo-backend/internal/metrics"
	"github.com/convoo/convoo-backend/internal/repository"
	"github.com/robfig/cron/v3"
)

type Sweeper struct {
	pending  repository.PendingUserRepository
	logger   *slog.Logger
	interval time.Duration
	cron     *cron.Cron
}

func NewSweeper(pending repository.PendingUserRepository, logger *slog.Logger, interval time.Duration) *Sweeper {
	return &Sweeper{
		pending:  pending,
		logger:   logger.With("component", "expiry_sweeper"),
		interval: interval,
		cron:     cron.New(),
	}
}

func (s *Sweeper) Start() error {
	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, func() {
		s.Sweep(context.Background())
	}); err != nil {
		return fmt.Errorf("schedule sweep: %w", err)
	}

	s.cron.Start()
	s.logger.Info("expiry sweeper started", "interval", s.interval.String())
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("expiry sweeper stopped")
}

// Sweep deletes every pending signup past its token expiry.
func (s *Sweeper) Sweep(ctx context.Context) {
	start := time.Now()

	deleted, err := s.pending.DeleteExpired(ctx, time.Now())
	if err != nil {
		s.logger.Error("sweep expired pending signups", "error", err)
		return
	}

	metrics.SweepCycleDuration.Observe(time.Since(start).Seconds())
	if deleted > 0 {
		metrics.PendingSweptTotal.Add(float64(deleted))
		s.logger.Info("swept expired pending signups", "deleted", deleted)
	}
}
