package feed

import (
	"math"
	"time"
)

// RetryPolicy bounds how often a failed item is re-requested.
type RetryPolicy struct {
	MaxAttempts    int // <= 0 retries forever
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Backoff returns the wait after the given failed attempt (1-based):
// InitialBackoff doubled per attempt, capped at MaxBackoff.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	backoff := p.InitialBackoff
	for i := 1; i < attempt; i++ {
		if backoff > math.MaxInt64/2 {
			break
		}
		backoff *= 2
		if p.MaxBackoff > 0 && backoff >= p.MaxBackoff {
			break
		}
	}
	if p.MaxBackoff > 0 && backoff > p.MaxBackoff {
		backoff = p.MaxBackoff
	}
	return backoff
}

// Exhausted reports whether no attempt is left after attempts failures.
func (p RetryPolicy) Exhausted(attempts int) bool {
	return p.MaxAttempts > 0 && attempts >= p.MaxAttempts
}
