package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"hn_reader/internal/domain"
)

type RefreshStateStore struct {
	db *sqlx.DB
}

func NewRefreshStateStore(db *sqlx.DB) *RefreshStateStore {
	return &RefreshStateStore{db: db}
}

func (s *RefreshStateStore) Get(ctx context.Context, category string) (*domain.RefreshState, error) {
	var state domain.RefreshState
	query := `
		SELECT id, category, last_refresh_at, last_generation, total_refreshes, total_resolved
		FROM refresh_state
		WHERE category = $1`

	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &state, query, category)
	if errors.Is(err, sql.ErrNoRows) {
		// Return empty state for categories never refreshed
		return &domain.RefreshState{Category: category}, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *RefreshStateStore) Update(ctx context.Context, state *domain.RefreshState) error {
	query := `
		INSERT INTO refresh_state (category, last_refresh_at, last_generation, total_refreshes, total_resolved)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (category) DO UPDATE SET
			last_refresh_at = EXCLUDED.last_refresh_at,
			last_generation = EXCLUDED.last_generation,
			total_refreshes = EXCLUDED.total_refreshes,
			total_resolved = EXCLUDED.total_resolved`

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		state.Category,
		state.LastRefreshAt,
		state.LastGeneration,
		state.TotalRefreshes,
		state.TotalResolved,
	)
	return err
}
