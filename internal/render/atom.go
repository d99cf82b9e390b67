package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/feeds"

	"hn_reader/internal/domain"
	"hn_reader/internal/feed"
)

// Atom builds an Atom document of the ready cards in list order.
func Atom(v feed.View, now time.Time) (string, error) {
	doc := &feeds.Feed{
		Title:       fmt.Sprintf("Hacker News %s Stories", v.Category),
		Description: fmt.Sprintf("HN::%s Stories", v.Category),
		Link:        &feeds.Link{Href: "https://news.ycombinator.com/", Rel: "self", Type: "text/html"},
		Id:          "tag:news.ycombinator.com,2024:" + strings.ToLower(v.Category.String()),
		Created:     now,
		Updated:     now,
	}

	for _, c := range v.Cards {
		if c.State != feed.CardReady || c.Story == nil {
			continue
		}
		story := c.Story
		commentsLink := domain.CommentsLink(c.ID)

		item := &feeds.Item{
			Title:  story.Title,
			Link:   &feeds.Link{Href: story.Link(c.ID), Rel: "alternate", Type: "text/html"},
			Id:     commentsLink,
			Author: &feeds.Author{Name: story.By},
			Description: fmt.Sprintf(
				`%d points by %s · <a href="%s">%d comments</a> · %s`,
				story.Score, story.By, commentsLink, story.CommentCount(), story.Domain(c.ID),
			),
			Created: time.Unix(story.Time, 0).UTC(),
		}
		if story.Text != nil {
			item.Content = *story.Text
		}
		doc.Items = append(doc.Items, item)
	}

	out, err := doc.ToAtom()
	if err != nil {
		return "", fmt.Errorf("generate atom feed: %w", err)
	}
	return out, nil
}
