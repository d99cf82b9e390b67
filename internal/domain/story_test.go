package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hn_reader/testdata/utils"
)

func TestCategory_Endpoint(t *testing.T) {
	tests := []struct {
		category Category
		want     string
	}{
		{Top, "topstories.json"},
		{New, "newstories.json"},
		{Best, "beststories.json"},
	}

	for _, tt := range tests {
		t.Run(tt.category.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.category.Endpoint())
		})
	}
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("BEST")
	require.NoError(t, err)
	assert.Equal(t, Best, c)

	_, err = ParseCategory("ask")
	assert.ErrorContains(t, err, `unknown category "ask"`)
}

func TestCategory_TextRoundTrip(t *testing.T) {
	text, err := New.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "new", string(text))

	var c Category
	require.NoError(t, c.UnmarshalText([]byte("Top")))
	assert.Equal(t, Top, c)
	assert.Error(t, c.UnmarshalText([]byte("jobs")))
}

func TestStory_Link(t *testing.T) {
	withURL := &Story{URL: utils.Ptr("https://www.example.com/post")}
	assert.Equal(t, "https://www.example.com/post", withURL.Link(1))
	assert.Equal(t, "example.com", withURL.Domain(1))

	self := &Story{URL: utils.Ptr("")}
	assert.Equal(t, "https://news.ycombinator.com/item?id=42", self.Link(42))
	assert.Equal(t, "news.ycombinator.com", self.Domain(42))
}

func TestStory_CommentCount(t *testing.T) {
	assert.Equal(t, 0, (&Story{}).CommentCount())
	assert.Equal(t, 2, (&Story{Kids: []StoryID{7, 8}}).CommentCount())
	assert.Equal(t, 15, (&Story{Descendants: utils.Ptr(15), Kids: []StoryID{7}}).CommentCount())
}
