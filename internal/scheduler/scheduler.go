package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"hn_reader/internal/domain"
	"hn_reader/internal/service"
)

// Refresher defines the interface for one settled refresh.
type Refresher interface {
	Refresh(ctx context.Context) (*domain.RefreshStats, error)
}

type Scheduler struct {
	refresher  Refresher
	interval   time.Duration
	runTimeout time.Duration
	logger     *slog.Logger
}

// NewScheduler builds a scheduler that refreshes every interval. Each run is
// bounded by runTimeout; zero means no bound.
func NewScheduler(refresher Refresher, interval, runTimeout time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		refresher:  refresher,
		interval:   interval,
		runTimeout: runTimeout,
		logger:     logger.With("component", "scheduler"),
	}
}

// Start refreshes immediately and then on every tick until ctx is done.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval)

	s.runRefresh(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runRefresh(ctx)
		}
	}
}

func (s *Scheduler) runRefresh(ctx context.Context) {
	runCtx := ctx
	if s.runTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.runTimeout)
		defer cancel()
	}

	_, err := s.refresher.Refresh(runCtx)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrListFailed):
		s.logger.Warn("refresh failed, waiting for next tick", "error", err)
	case ctx.Err() != nil:
	default:
		s.logger.Error("refresh failed", "error", err)
	}
}
