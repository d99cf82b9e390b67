package render

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// paragraph is one block of self-text. Preformatted blocks keep their
// line breaks and indentation.
type paragraph struct {
	text string
	pre  bool
}

// PlainText converts the HTML fragment HN uses for self-text into plain
// paragraphs separated by a blank line. Entities are decoded; markup is
// dropped.
func PlainText(fragment string) string {
	paras := paragraphs(fragment)
	texts := make([]string, 0, len(paras))
	for _, p := range paras {
		texts = append(texts, p.text)
	}
	return strings.Join(texts, "\n\n")
}

func paragraphs(fragment string) []paragraph {
	if strings.TrimSpace(fragment) == "" {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return []paragraph{{text: fragment}}
	}

	// HN separates paragraphs with bare <p> tags, so the first paragraph
	// sits directly in <body>.
	var paras []paragraph
	var current strings.Builder
	flush := func() {
		if text := strings.TrimSpace(current.String()); text != "" {
			paras = append(paras, paragraph{text: text})
		}
		current.Reset()
	}

	doc.Find("body").Contents().Each(func(_ int, s *goquery.Selection) {
		switch goquery.NodeName(s) {
		case "pre":
			flush()
			if text := strings.Trim(s.Text(), "\n"); strings.TrimSpace(text) != "" {
				paras = append(paras, paragraph{text: text, pre: true})
			}
		case "p":
			flush()
			current.WriteString(s.Text())
			flush()
		default:
			current.WriteString(s.Text())
		}
	})
	flush()

	return paras
}

// wrapParagraphs lays out paragraphs as lines with a blank line between
// them. Preformatted paragraphs are never rewrapped.
func wrapParagraphs(paras []paragraph, width int) []string {
	var lines []string
	for i, p := range paras {
		if i > 0 {
			lines = append(lines, "")
		}
		if p.pre {
			lines = append(lines, strings.Split(p.text, "\n")...)
			continue
		}
		lines = append(lines, wrap(p.text, width)...)
	}
	return lines
}

// wrap breaks text into lines of at most width runes on word boundaries.
// Paragraph breaks are kept. width <= 0 disables wrapping.
func wrap(text string, width int) []string {
	var lines []string
	for i, para := range strings.Split(text, "\n\n") {
		if i > 0 {
			lines = append(lines, "")
		}
		if width <= 0 {
			lines = append(lines, strings.Split(para, "\n")...)
			continue
		}

		var line strings.Builder
		lineLen := 0
		for _, word := range strings.Fields(para) {
			n := len([]rune(word))
			if lineLen > 0 && lineLen+1+n > width {
				lines = append(lines, line.String())
				line.Reset()
				lineLen = 0
			}
			if lineLen > 0 {
				line.WriteByte(' ')
				lineLen++
			}
			line.WriteString(word)
			lineLen += n
		}
		if lineLen > 0 {
			lines = append(lines, line.String())
		}
	}
	return lines
}
