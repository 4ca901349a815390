// Package catalog serves the canteen's static menu: listing, category filter,
// free-text search and sorting. Nothing here mutates after New.
package catalog

import (
	"cmp"
	"fmt"
	"github.com/ariefcatur/go-kantin-orders/internal/orders"
	"slices"
	"strings"
)

// CategoryAll returns the whole menu. "semua" is accepted as an alias.
const (
	CategoryAll   = "all"
	categorySemua = "semua"
)

type SortMode string

const (
	SortDefault   SortMode = "default"
	SortPriceLow  SortMode = "price-low"
	SortPriceHigh SortMode = "price-high"
	SortRating    SortMode = "rating"
)

func ParseSortMode(s string) (SortMode, error) {
	switch m := SortMode(s); m {
	case "":
		return SortDefault, nil
	case SortDefault, SortPriceLow, SortPriceHigh, SortRating:
		return m, nil
	}
	return "", fmt.Errorf("unknown sort mode %q", s)
}

type Catalog struct {
	entries    []orders.MenuEntry
	categories []orders.Category
	byID       map[orders.ItemID]int
}

func New(entries []orders.MenuEntry, categories []orders.Category) (*Catalog, error) {
	c := &Catalog{
		entries:    slices.Clone(entries),
		categories: slices.Clone(categories),
		byID:       make(map[orders.ItemID]int, len(entries)),
	}
	for i, e := range c.entries {
		if err := e.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[e.ID]; dup {
			return nil, fmt.Errorf("menu entry %s: duplicate id", e.ID)
		}
		c.byID[e.ID] = i
	}
	return c, nil
}

// List returns the full menu in authored order.
func (c *Catalog) List() []orders.MenuEntry { return slices.Clone(c.entries) }

func (c *Catalog) Categories() []orders.Category { return slices.Clone(c.categories) }

func (c *Catalog) Find(id orders.ItemID) (orders.MenuEntry, bool) {
	i, ok := c.byID[id]
	if !ok {
		return orders.MenuEntry{}, false
	}
	return c.entries[i], true
}

// ByCategory matches the category id as a case-insensitive substring of the entry category.
func (c *Catalog) ByCategory(categoryID string) []orders.MenuEntry {
	id := strings.ToLower(strings.TrimSpace(categoryID))
	if id == "" || id == CategoryAll || id == categorySemua {
		return c.List()
	}
	return c.filter(func(e orders.MenuEntry) bool {
		return strings.Contains(strings.ToLower(e.Category), id)
	})
}

// Search matches name, description and category, case-insensitive. Blank query returns everything.
func (c *Catalog) Search(query string) []orders.MenuEntry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return c.List()
	}
	return c.filter(func(e orders.MenuEntry) bool {
		return strings.Contains(strings.ToLower(e.Name), q) ||
			strings.Contains(strings.ToLower(e.Description), q) ||
			strings.Contains(strings.ToLower(e.Category), q)
	})
}

// Browse is what the storefront shows: a non-blank query wins and the category is ignored.
func (c *Catalog) Browse(query, categoryID string) []orders.MenuEntry {
	if strings.TrimSpace(query) != "" {
		return c.Search(query)
	}
	return c.ByCategory(categoryID)
}

func (c *Catalog) Popular() []orders.MenuEntry {
	return c.filter(func(e orders.MenuEntry) bool { return e.IsPopular })
}

func (c *Catalog) Discounted() []orders.MenuEntry {
	return c.filter(func(e orders.MenuEntry) bool { return e.Discount > 0 })
}

func (c *Catalog) filter(keep func(orders.MenuEntry) bool) []orders.MenuEntry {
	out := make([]orders.MenuEntry, 0, len(c.entries))
	for _, e := range c.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// Sorted returns a sorted copy. Ties keep their authored order.
func Sorted(entries []orders.MenuEntry, mode SortMode) []orders.MenuEntry {
	out := slices.Clone(entries)
	switch mode {
	case SortPriceLow:
		slices.SortStableFunc(out, func(a, b orders.MenuEntry) int { return cmp.Compare(a.Price, b.Price) })
	case SortPriceHigh:
		slices.SortStableFunc(out, func(a, b orders.MenuEntry) int { return cmp.Compare(b.Price, a.Price) })
	case SortRating:
		slices.SortStableFunc(out, func(a, b orders.MenuEntry) int { return cmp.Compare(b.Rating, a.Rating) })
	}
	return out
}
