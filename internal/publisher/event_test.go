package publisher

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hn_reader/internal/domain"
)

func TestNewRefreshEvent(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	stats := &domain.RefreshStats{Category: domain.Best, Generation: 7, Cards: 30, Ready: 30}

	event := newRefreshEvent(stats, now)

	_, err := uuid.Parse(event.ID)
	require.NoError(t, err)
	assert.Equal(t, EventRefreshCompleted, event.Type)
	assert.Equal(t, domain.Best, event.Category)
	assert.Equal(t, uint64(7), event.Generation)
	assert.Equal(t, time.UTC, event.Timestamp.Location())

	other := newRefreshEvent(stats, now)
	assert.NotEqual(t, event.ID, other.ID)
}

func TestNewRefreshEvent_ListFailure(t *testing.T) {
	event := newRefreshEvent(&domain.RefreshStats{Category: domain.Top, ListError: "Error"}, time.Now())
	assert.Equal(t, EventRefreshFailed, event.Type)
}

func TestRefreshEvent_JSON(t *testing.T) {
	event := newRefreshEvent(&domain.RefreshStats{Category: domain.New, Generation: 2, Ready: 3}, time.Unix(0, 0))

	body, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "new", decoded["category"])
	assert.Equal(t, "refresh.completed", decoded["type"])
	assert.EqualValues(t, 2, decoded["generation"])

	stats, ok := decoded["stats"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 3, stats["ready"])
}
