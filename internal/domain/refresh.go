package domain

import "time"

// RefreshStats holds statistics about one settled refresh.
type RefreshStats struct {
	Category   Category      `json:"category"`
	Generation uint64        `json:"generation"`
	Offset     int           `json:"offset"`
	Listed     int           `json:"listed"`
	Cards      int           `json:"cards"`
	Ready      int           `json:"ready"`
	Pending    int           `json:"pending"`
	Abandoned  int           `json:"abandoned"`
	Retries    int           `json:"retries"`
	Stale      int           `json:"stale"`
	ListError  string        `json:"list_error,omitempty"`
	Duration   time.Duration `json:"duration"`
}

type RefreshState struct {
	ID             int64     `db:"id"`
	Category       string    `db:"category"`
	LastRefreshAt  time.Time `db:"last_refresh_at"`
	LastGeneration int64     `db:"last_generation"`
	TotalRefreshes int64     `db:"total_refreshes"`
	TotalResolved  int64     `db:"total_resolved"`
}

// RefreshLogEntry is one row of the refresh history.
type RefreshLogEntry struct {
	ID          int64     `db:"id" json:"id"`
	Category    string    `db:"category" json:"category"`
	Generation  int64     `db:"generation" json:"generation"`
	PageOffset  int       `db:"page_offset" json:"offset"`
	Listed      int       `db:"listed" json:"listed"`
	Ready       int       `db:"ready" json:"ready"`
	Pending     int       `db:"pending" json:"pending"`
	Abandoned   int       `db:"abandoned" json:"abandoned"`
	Retries     int       `db:"retries" json:"retries"`
	Stale       int       `db:"stale" json:"stale"`
	ListError   *string   `db:"list_error" json:"list_error,omitempty"`
	DurationMS  int64     `db:"duration_ms" json:"duration_ms"`
	RefreshedAt time.Time `db:"refreshed_at" json:"refreshed_at"`
}
