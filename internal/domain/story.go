package domain

import (
	"fmt"
	"net/url"
	"strings"
)

const itemPageURL = "https://news.ycombinator.com/item?id=%d"

type StoryID int64

// Story is a Hacker News item as returned by the item endpoint.
// Optional fields are nil when the API omits them.
type Story struct {
	By          string    `json:"by"`
	Descendants *int      `json:"descendants,omitempty"`
	Kids        []StoryID `json:"kids,omitempty"`
	Score       int       `json:"score"`
	Time        int64     `json:"time"`
	Title       string    `json:"title"`
	Text        *string   `json:"text,omitempty"`
	Type        string    `json:"type"`
	URL         *string   `json:"url,omitempty"`
}

// CommentsLink returns the HN discussion page for id.
func CommentsLink(id StoryID) string {
	return fmt.Sprintf(itemPageURL, id)
}

// Link returns the external URL, or the discussion page for self posts.
func (s *Story) Link(id StoryID) string {
	if s.URL != nil && *s.URL != "" {
		return *s.URL
	}
	return CommentsLink(id)
}

// Domain returns the host of Link without a leading "www.".
// Unparseable links fall back to the raw link.
func (s *Story) Domain(id StoryID) string {
	link := s.Link(id)
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return link
	}
	return strings.TrimPrefix(u.Host, "www.")
}

func (s *Story) CommentCount() int {
	if s.Descendants != nil {
		return *s.Descendants
	}
	return len(s.Kids)
}
