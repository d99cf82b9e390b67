package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"hn_reader/internal/domain"
	"hn_reader/internal/feed"
)

type Feed interface {
	Refresh(category domain.Category, offset int) uint64
	Poll() int
	Selection() (domain.Category, int, bool)
	Snapshot() feed.View
}

type RefreshStateStore interface {
	Get(ctx context.Context, category string) (*domain.RefreshState, error)
	Update(ctx context.Context, state *domain.RefreshState) error
}

type RefreshLogStore interface {
	Append(ctx context.Context, stats *domain.RefreshStats) (int64, error)
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	Publish(ctx context.Context, stats *domain.RefreshStats) error
	Close() error
}
