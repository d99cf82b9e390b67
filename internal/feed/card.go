package feed

import (
	"time"

	"hn_reader/internal/domain"
)

// CardState is the outcome slot of a card.
type CardState int

const (
	// CardLoading means a request is in flight.
	CardLoading CardState = iota
	// CardReady means the story was fetched.
	CardReady
	// CardFailed means the last attempt failed and a retry is scheduled.
	CardFailed
	// CardAbandoned means the retry budget is spent; no more requests.
	CardAbandoned
)

func (s CardState) String() string {
	switch s {
	case CardLoading:
		return "loading"
	case CardReady:
		return "ready"
	case CardFailed:
		return "failed"
	case CardAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// IsResolved reports whether the card will not change without a new refresh.
func (s CardState) IsResolved() bool {
	return s == CardReady || s == CardAbandoned
}

func (s CardState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// card is owned by Feed and only touched under Feed.mu.
type card struct {
	id         domain.StoryID
	generation uint64
	state      CardState
	story      *domain.Story
	err        error
	attempts   int
	retryAt    time.Time
}

func newCard(id domain.StoryID, generation uint64) *card {
	return &card{
		id:         id,
		generation: generation,
		state:      CardLoading,
	}
}

func (c *card) view() CardView {
	v := CardView{
		ID:       c.id,
		State:    c.state,
		Story:    c.story,
		Attempts: c.attempts,
	}
	if c.state == CardFailed {
		v.RetryAt = c.retryAt
	}
	if c.err != nil {
		v.Error = c.err.Error()
	}
	return v
}

// CardView is a read-only copy of a card for one frame.
type CardView struct {
	ID       domain.StoryID `json:"id"`
	State    CardState      `json:"state"`
	Story    *domain.Story  `json:"story,omitempty"`
	Error    string         `json:"error,omitempty"`
	Attempts int            `json:"attempts"`
	RetryAt  time.Time      `json:"retry_at,omitzero"`
}
