package domain

import (
	"fmt"
	"strings"
)

// Category selects one of the HN story lists.
type Category int

const (
	Top Category = iota
	New
	Best
)

// Categories lists every category in menu order.
var Categories = []Category{Top, New, Best}

func (c Category) String() string {
	switch c {
	case Top:
		return "Top"
	case New:
		return "New"
	case Best:
		return "Best"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// Slug is the lowercase name used in config, URLs and storage keys.
func (c Category) Slug() string {
	return strings.ToLower(c.String())
}

// Endpoint is the list resource name, e.g. "topstories.json".
func (c Category) Endpoint() string {
	return c.Slug() + "stories.json"
}

func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if strings.EqualFold(s, c.String()) {
			return c, nil
		}
	}
	return Top, fmt.Errorf("unknown category %q", s)
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.Slug()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
