package feed

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardView_RetryAtOnlyWhileFailed(t *testing.T) {
	retryAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	c := newCard(7, 1)
	c.state = CardFailed
	c.attempts = 1
	c.err = errors.New("unexpected status: 503")
	c.retryAt = retryAt
	assert.Equal(t, retryAt, c.view().RetryAt)

	c.state = CardLoading
	assert.True(t, c.view().RetryAt.IsZero())
}

func TestCardView_JSONOmitsZeroRetryAt(t *testing.T) {
	data, err := json.Marshal(CardView{ID: 1, State: CardReady})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"state":"ready","attempts":0}`, string(data))

	data, err = json.Marshal(CardView{
		ID:       2,
		State:    CardFailed,
		Attempts: 1,
		RetryAt:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"retry_at":"2024-05-01T12:00:00Z"`)
}
