package service

import (
	"strings"

	"order-intake/internal/intake/model"
)

// Catalog is a read-only snapshot of the known items with every name
// normalized once up front. Matches point into the slice passed to
// NewCatalog, so it must not be modified while a parse is running.
type Catalog struct {
	items   []model.CatalogItem
	entries []catalogEntry
}

type catalogEntry struct {
	item    *model.CatalogItem
	norm    string
	compact string
	words   []string
	wordSet map[string]struct{}
}

func NewCatalog(items []model.CatalogItem) *Catalog {
	c := &Catalog{
		items:   items,
		entries: make([]catalogEntry, 0, len(items)),
	}
	for i := range items {
		norm := Normalize(items[i].Name)
		words := strings.Fields(norm)
		c.entries = append(c.entries, catalogEntry{
			item:    &items[i],
			norm:    norm,
			compact: compact(norm),
			words:   words,
			wordSet: toSet(words),
		})
	}
	return c
}

func (c *Catalog) Len() int { return len(c.entries) }

func (c *Catalog) Items() []model.CatalogItem { return c.items }

// query is a search string in every form the stages compare against.
type query struct {
	norm    string
	compact string
	words   []string
	wordSet map[string]struct{}
}

func newQuery(norm string) query {
	words := strings.Fields(norm)
	return query{
		norm:    norm,
		compact: compact(norm),
		words:   words,
		wordSet: toSet(words),
	}
}

func containsAll(words []string, set map[string]struct{}) bool {
	if len(words) == 0 {
		return false
	}
	for _, w := range words {
		if _, ok := set[w]; !ok {
			return false
		}
	}
	return true
}
