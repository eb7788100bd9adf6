package competitor

import (
	"context"
	"fmt"
)

// Directory maps category keywords to candidate storefront URLs.
type Directory interface {
	// Categories lists the category keywords in matching order.
	Categories() []string
	// Lookup returns the candidate URLs for category, best first.
	Lookup(ctx context.Context, category string) ([]string, error)
}

// Category is one directory entry.
type Category struct {
	Keyword string
	URLs    []string
}

// DefaultCategories is the curated directory of well-known storefronts.
var DefaultCategories = []Category{
	{Keyword: "beauty", URLs: []string{
		"https://colourpop.com",
		"https://jeffreestarcosmetics.com",
		"https://fentybeauty.com",
		"https://glossier.com",
	}},
	{Keyword: "fashion", URLs: []string{
		"https://fashionnova.com",
		"https://gymshark.com",
		"https://cupshe.com",
		"https://shein.com",
	}},
	{Keyword: "cosmetics", URLs: []string{
		"https://colourpop.com",
		"https://jeffreestarcosmetics.com",
		"https://rarebeauty.com",
	}},
	{Keyword: "clothing", URLs: []string{
		"https://fashionnova.com",
		"https://memy.co.in",
		"https://gymshark.com",
	}},
	{Keyword: "accessories", URLs: []string{
		"https://pandora.net",
		"https://danielwellington.com",
	}},
}

// StaticDirectory serves a fixed, in-memory category table.
type StaticDirectory struct {
	categories []Category
	byKeyword  map[string][]string
}

// NewStaticDirectory builds a directory from categories. Nil selects
// DefaultCategories.
func NewStaticDirectory(categories []Category) *StaticDirectory {
	if categories == nil {
		categories = DefaultCategories
	}
	d := &StaticDirectory{
		categories: categories,
		byKeyword:  make(map[string][]string, len(categories)),
	}
	for _, c := range categories {
		d.byKeyword[c.Keyword] = c.URLs
	}
	return d
}

// Categories implements Directory.
func (d *StaticDirectory) Categories() []string {
	out := make([]string, 0, len(d.categories))
	for _, c := range d.categories {
		out = append(out, c.Keyword)
	}
	return out
}

// Lookup implements Directory.
func (d *StaticDirectory) Lookup(_ context.Context, category string) ([]string, error) {
	urls, ok := d.byKeyword[category]
	if !ok {
		return nil, fmt.Errorf("unknown category %q", category)
	}
	return append([]string(nil), urls...), nil
}
