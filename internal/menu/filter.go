// Package menu holds the customer menu pipeline and the admin item form.
package menu

import (
	"strings"

	"pizzeria/internal/model"
)

// Empty explains why a successful listing has no rows.
const (
	EmptyCatalog   = "catalog_empty"
	EmptyNoMatches = "no_matches"
)

// Filters narrows the available items. Empty fields match everything.
type Filters struct {
	Search   string `query:"search"`
	Category string `query:"category"`
}

// Listing is the result of one menu query.
type Listing struct {
	Items      []model.MenuItem `json:"items"`
	Categories []string         `json:"categories"`
	Total      int              `json:"total"`
	Empty      string           `json:"empty,omitempty"`
}

// NewListing filters the available items and derives the category list
// from the unfiltered set.
func NewListing(available []model.MenuItem, f Filters) *Listing {
	items := Apply(available, f)
	l := &Listing{
		Items:      items,
		Categories: Categories(available),
		Total:      len(available),
	}
	switch {
	case len(available) == 0:
		l.Empty = EmptyCatalog
	case len(items) == 0:
		l.Empty = EmptyNoMatches
	}
	return l
}

// Apply returns the items matching both the search text and the category,
// preserving input order. It never modifies items.
func Apply(items []model.MenuItem, f Filters) []model.MenuItem {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	category := strings.TrimSpace(f.Category)
	anyCategory := category == "" || category == model.CategoryAll

	out := make([]model.MenuItem, 0, len(items))
	for _, item := range items {
		if !anyCategory && string(item.Category) != category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(item.Name), search) &&
			!strings.Contains(strings.ToLower(item.Description), search) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Categories returns "all" followed by every distinct category present in
// items, in first seen order.
func Categories(items []model.MenuItem) []string {
	seen := make(map[model.Category]struct{}, len(model.Categories))
	out := []string{model.CategoryAll}
	for _, item := range items {
		if item.Category == "" {
			continue
		}
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		out = append(out, string(item.Category))
	}
	return out
}
