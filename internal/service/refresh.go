package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"hn_reader/internal/config"
	"hn_reader/internal/domain"
	"hn_reader/internal/feed"
)

// ErrListFailed is wrapped by Refresh when the story list could not be fetched.
var ErrListFailed = errors.New("refresh list")

// RefreshService drives the feed without a screen: it triggers a refresh,
// polls it once per frame until it settles and records the outcome.
type RefreshService struct {
	feed      Feed
	states    RefreshStateStore
	logs      RefreshLogStore
	txManager TransactionManager
	publisher Publisher
	logger    *slog.Logger
	config    config.RefreshConfig
}

// NewRefreshService wires the service. The stores, the transaction manager
// and the publisher may be nil, in which case that step is skipped.
func NewRefreshService(
	feed Feed,
	states RefreshStateStore,
	logs RefreshLogStore,
	txManager TransactionManager,
	publisher Publisher,
	logger *slog.Logger,
	cfg config.RefreshConfig,
) *RefreshService {
	return &RefreshService{
		feed:      feed,
		states:    states,
		logs:      logs,
		txManager: txManager,
		publisher: publisher,
		logger:    logger.With("component", "refresh"),
		config:    cfg,
	}
}

// Target returns what the next Refresh fetches: the feed's current
// category and offset, or the configured ones before the first refresh.
func (s *RefreshService) Target() (domain.Category, int) {
	if category, offset, ok := s.feed.Selection(); ok {
		return category, offset
	}
	return s.config.Category, s.config.Offset
}

func (s *RefreshService) Refresh(ctx context.Context) (*domain.RefreshStats, error) {
	startTime := time.Now()
	category, offset := s.Target()
	gen := s.feed.Refresh(category, offset)
	s.logger.Info("starting refresh", "category", category.Slug(), "offset", offset, "generation", gen)

	view, err := s.awaitSettled(ctx, gen)
	if err != nil {
		return nil, fmt.Errorf("await refresh: %w", err)
	}

	stats := view.Stats()
	stats.Duration = time.Since(startTime)

	if err := s.record(ctx, &stats); err != nil {
		return &stats, fmt.Errorf("record refresh: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, &stats); err != nil {
			s.logger.Warn("failed to publish refresh event", "generation", stats.Generation, "error", err)
		}
	}

	if stats.ListError != "" {
		return &stats, fmt.Errorf("%w: %s", ErrListFailed, stats.ListError)
	}

	s.logger.Info("refresh completed",
		"category", stats.Category.Slug(),
		"generation", stats.Generation,
		"cards", stats.Cards,
		"ready", stats.Ready,
		"pending", stats.Pending,
		"abandoned", stats.Abandoned,
		"retries", stats.Retries,
		"stale", stats.Stale,
		"duration", stats.Duration,
	)

	return &stats, nil
}

// awaitSettled polls the feed every frame until the latest generation has
// settled or the settle timeout passes. A refresh triggered elsewhere while
// waiting supersedes gen and is followed instead.
func (s *RefreshService) awaitSettled(ctx context.Context, gen uint64) (feed.View, error) {
	deadline := time.NewTimer(s.config.SettleTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(s.config.FrameInterval)
	defer ticker.Stop()

	for {
		s.feed.Poll()
		view := s.feed.Snapshot()
		if view.Generation != gen {
			s.logger.Debug("refresh superseded", "generation", gen, "current", view.Generation)
			gen = view.Generation
		}
		if view.Settled() {
			return view, nil
		}

		select {
		case <-ctx.Done():
			return view, ctx.Err()
		case <-deadline.C:
			s.logger.Warn("refresh did not settle in time",
				"generation", view.Generation,
				"timeout", s.config.SettleTimeout,
			)
			return view, nil
		case <-ticker.C:
		}
	}
}

func (s *RefreshService) record(ctx context.Context, stats *domain.RefreshStats) error {
	if s.states == nil || s.logs == nil || s.txManager == nil {
		return nil
	}

	return s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		state, err := s.states.Get(txCtx, stats.Category.Slug())
		if err != nil {
			return fmt.Errorf("get refresh state: %w", err)
		}

		state.Category = stats.Category.Slug()
		state.LastRefreshAt = time.Now()
		state.LastGeneration = int64(stats.Generation)
		state.TotalRefreshes++
		state.TotalResolved += int64(stats.Ready)

		if err := s.states.Update(txCtx, state); err != nil {
			return fmt.Errorf("update refresh state: %w", err)
		}

		if _, err := s.logs.Append(txCtx, stats); err != nil {
			return fmt.Errorf("append refresh log: %w", err)
		}

		return nil
	})
}
