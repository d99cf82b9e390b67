package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"hn_reader/internal/feed"
)

const defaultWidth = 80

// Settings is passed into every render call.
type Settings struct {
	DarkMode bool
	ShowText bool
	Width    int
	NoColor  bool
}

func (s Settings) width() int {
	if s.Width <= 0 {
		return defaultWidth
	}
	return s.Width
}

// Terminal paints a feed view as colored text.
type Terminal struct {
	out io.Writer
}

func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{out: out}
}

// Render writes one full frame. Pending cards are drawn as placeholders so
// the card order matches the list order.
func (t *Terminal) Render(v feed.View, s Settings, now time.Time) error {
	w := bufio.NewWriter(t.out)
	p := newPalette(s)
	width := s.width()
	rule := p.Muted.Sprint(strings.Repeat("─", width))

	p.Header.Fprintf(w, "HN::%s Stories\n", v.Category)
	fmt.Fprintln(w, rule)

	switch v.State {
	case feed.ListIdle:
		p.Muted.Fprintln(w, "Nothing loaded yet.")
	case feed.ListLoading:
		p.Loading.Fprintln(w, "Loading stories...")
	case feed.ListFailed:
		fmt.Fprintln(w, "↺\tRefresh to retry...")
		p.Error.Fprintln(w, v.ErrorMessage())
	case feed.ListReady:
		if len(v.Cards) == 0 {
			p.Muted.Fprintln(w, "No stories.")
		}
		for i, c := range v.Cards {
			renderCard(w, p, s, v.Offset+i+1, c, now)
			fmt.Fprintln(w, rule)
		}
	}

	return w.Flush()
}

func renderCard(w io.Writer, p palette, s Settings, n int, c feed.CardView, now time.Time) {
	indent := "    "

	switch c.State {
	case feed.CardLoading:
		p.Loading.Fprintf(w, "%3d. … loading story %d\n", n, c.ID)
		return
	case feed.CardFailed:
		p.Warning.Fprintf(w, "%3d. ✗ story %d: %s\n", n, c.ID, c.Error)
		p.Muted.Fprintf(w, "%sretry %d at %s\n", indent, c.Attempts+1, c.RetryAt.Format(time.TimeOnly))
		return
	case feed.CardAbandoned:
		p.Error.Fprintf(w, "%3d. ✗ story %d unavailable after %d attempts: %s\n", n, c.ID, c.Attempts, c.Error)
		return
	}

	story := c.Story
	p.Title.Fprintf(w, "%3d. ▶ %s\n", n, story.Title)
	p.Meta.Fprintf(w, "%s%d points by %s\n", indent, story.Score, story.By)
	p.Meta.Fprintf(w, "%s%s · %s\n", indent, story.Domain(c.ID), RelativeAge(story.Time, now))
	fmt.Fprintf(w, "%s%s  %s\n", indent, p.Link.Sprintf("%d comments", story.CommentCount()), p.Link.Sprint(story.Link(c.ID)))

	if s.ShowText && story.Text != nil {
		paras := paragraphs(*story.Text)
		if len(paras) == 0 {
			return
		}
		fmt.Fprintln(w)
		for _, line := range wrapParagraphs(paras, s.width()-len(indent)) {
			if line == "" {
				fmt.Fprintln(w)
				continue
			}
			fmt.Fprintf(w, "%s%s\n", indent, line)
		}
	}
}
