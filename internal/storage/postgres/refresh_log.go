package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"hn_reader/internal/domain"
)

type RefreshLogStore struct {
	db *sqlx.DB
}

func NewRefreshLogStore(db *sqlx.DB) *RefreshLogStore {
	return &RefreshLogStore{db: db}
}

// Append stores one settled refresh and returns the row id.
func (s *RefreshLogStore) Append(ctx context.Context, stats *domain.RefreshStats) (int64, error) {
	query := `
		INSERT INTO refresh_log (
			category, generation, page_offset, listed, ready, pending,
			abandoned, retries, stale, list_error, duration_ms
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
		RETURNING id`

	var listError *string
	if stats.ListError != "" {
		listError = &stats.ListError
	}

	var id int64
	err := GetExecutor(ctx, s.db).QueryRowxContext(ctx, query,
		stats.Category.Slug(),
		int64(stats.Generation),
		stats.Offset,
		stats.Listed,
		stats.Ready,
		stats.Pending,
		stats.Abandoned,
		stats.Retries,
		stats.Stale,
		listError,
		stats.Duration.Milliseconds(),
	).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

// Recent returns the latest entries for the given categories, newest first.
// No categories means all of them.
func (s *RefreshLogStore) Recent(ctx context.Context, categories []string, limit int) ([]domain.RefreshLogEntry, error) {
	query := `
		SELECT id, category, generation, page_offset, listed, ready, pending,
			abandoned, retries, stale, list_error, duration_ms, refreshed_at
		FROM refresh_log
		WHERE cardinality($1::text[]) = 0 OR category = ANY($1)
		ORDER BY refreshed_at DESC, id DESC
		LIMIT $2`

	if categories == nil {
		categories = []string{}
	}

	var entries []domain.RefreshLogEntry
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &entries, query, pq.Array(categories), limit); err != nil {
		return nil, err
	}
	return entries, nil
}
