package hn

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hn_reader/internal/domain"
)

func newTestSource(t *testing.T, handler http.HandlerFunc) *Source {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(Config{BaseURL: server.URL, Timeout: 5 * time.Second}, logger)
}

func TestStoryIDs_RequestsCategoryEndpoint(t *testing.T) {
	tests := []struct {
		category domain.Category
		path     string
	}{
		{domain.Top, "/v0/topstories.json"},
		{domain.New, "/v0/newstories.json"},
		{domain.Best, "/v0/beststories.json"},
	}

	for _, tt := range tests {
		t.Run(tt.category.String(), func(t *testing.T) {
			var gotPath string
			src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				_, _ = w.Write([]byte(`[3, 1, 2]`))
			})

			ids, err := src.StoryIDs(context.Background(), tt.category)
			require.NoError(t, err)
			assert.Equal(t, tt.path, gotPath)
			assert.Equal(t, []domain.StoryID{3, 1, 2}, ids)
		})
	}
}

func TestStoryIDs_EmptyList(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	ids, err := src.StoryIDs(context.Background(), domain.Top)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestStoryIDs_StatusError(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := src.StoryIDs(context.Background(), domain.Best)
	require.Error(t, err)

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, http.StatusServiceUnavailable, transportErr.StatusCode)
}

func TestStoryIDs_DecodeError(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not": "a list"}`))
	})

	_, err := src.StoryIDs(context.Background(), domain.Top)

	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
}

func TestStory_Decodes(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v0/item/8863.json", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"by": "dhouston",
			"descendants": 71,
			"id": 8863,
			"kids": [9224, 8917],
			"score": 104,
			"time": 1175714200,
			"title": "My YC app: Dropbox - Throw away your USB drive",
			"type": "story",
			"url": "http://www.getdropbox.com/u/2/screencast.html"
		}`))
	})

	story, err := src.Story(context.Background(), 8863)
	require.NoError(t, err)

	assert.Equal(t, "dhouston", story.By)
	assert.Equal(t, 104, story.Score)
	assert.Equal(t, int64(1175714200), story.Time)
	assert.Equal(t, "story", story.Type)
	require.NotNil(t, story.Descendants)
	assert.Equal(t, 71, *story.Descendants)
	assert.Equal(t, []domain.StoryID{9224, 8917}, story.Kids)
	require.NotNil(t, story.URL)
	assert.Nil(t, story.Text)
}

func TestStory_OptionalFieldsAbsent(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"by":"pg","score":5,"time":1,"title":"Ask HN: ?","type":"story","text":"<p>hi</p>"}`))
	})

	story, err := src.Story(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, story.URL)
	assert.Nil(t, story.Descendants)
	assert.Nil(t, story.Kids)
	require.NotNil(t, story.Text)
	assert.Equal(t, "<p>hi</p>", *story.Text)
}

func TestStory_NullBody(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("null\n"))
	})

	_, err := src.Story(context.Background(), 42)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	var decodeErr *DecodeError
	assert.True(t, errors.As(err, &decodeErr))
}

func TestStory_MalformedBodyIsRecoverable(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"title": 12`))
	})

	assert.NotPanics(t, func() {
		_, err := src.Story(context.Background(), 7)
		assert.Error(t, err)
	})
}

func TestStory_ContextCanceled(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.Story(ctx, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
