package feed

import "hn_reader/internal/domain"

// ListState is the outcome slot of the story list.
type ListState int

const (
	// ListIdle means no refresh has been requested yet.
	ListIdle ListState = iota
	ListLoading
	ListReady
	ListFailed
)

func (s ListState) String() string {
	switch s {
	case ListIdle:
		return "idle"
	case ListLoading:
		return "loading"
	case ListReady:
		return "ready"
	case ListFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s ListState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// View is the render state of the feed at one instant.
type View struct {
	Generation uint64          `json:"generation"`
	Category   domain.Category `json:"category"`
	Offset     int             `json:"offset"`
	State      ListState       `json:"state"`
	Error      string          `json:"error,omitempty"`
	Listed     int             `json:"listed"`
	Cards      []CardView      `json:"cards"`
	Retries    int             `json:"retries"`
	Stale      int             `json:"stale"`
}

// ErrorMessage is the list error as shown to the user; an empty message
// still reads as "Error".
func (v View) ErrorMessage() string {
	if v.Error == "" {
		return "Error"
	}
	return v.Error
}

// Settled reports whether nothing in this generation is still in flight or
// waiting for a retry.
func (v View) Settled() bool {
	switch v.State {
	case ListFailed:
		return true
	case ListReady:
		for _, c := range v.Cards {
			if !c.State.IsResolved() {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Stats summarizes the view. Duration is left for the caller.
func (v View) Stats() domain.RefreshStats {
	stats := domain.RefreshStats{
		Category:   v.Category,
		Generation: v.Generation,
		Offset:     v.Offset,
		Listed:     v.Listed,
		Cards:      len(v.Cards),
		Retries:    v.Retries,
		Stale:      v.Stale,
	}
	if v.State == ListFailed {
		stats.ListError = v.ErrorMessage()
	}
	for _, c := range v.Cards {
		switch c.State {
		case CardReady:
			stats.Ready++
		case CardAbandoned:
			stats.Abandoned++
		default:
			stats.Pending++
		}
	}
	return stats
}
