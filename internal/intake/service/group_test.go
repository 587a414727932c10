package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-intake/internal/intake/model"
)

func TestGroup(t *testing.T) {
	lines := []model.ParsedLine{
		{ID: "1", ResolvedSupplier: "B"},
		{ID: "2"},
		{ID: "3", ResolvedSupplier: "A"},
		{ID: "4", ResolvedSupplier: "B"},
		{ID: "5"},
	}
	before := append([]model.ParsedLine(nil), lines...)

	cards := Group(lines)

	require.Len(t, cards, 3)
	assert.Equal(t, "B", cards[0].SupplierName)
	assert.Equal(t, "A", cards[1].SupplierName)
	assert.Equal(t, model.NewItemsSupplier, cards[2].SupplierName)
	assert.Equal(t, []string{"1", "4"}, ids(cards[0].Items))
	assert.Equal(t, []string{"3"}, ids(cards[1].Items))
	assert.Equal(t, []string{"2", "5"}, ids(cards[2].Items))
	assert.Equal(t, before, lines)

	cards[0].Items[0].Quantity = 99
	assert.Zero(t, lines[0].Quantity)
}

func TestGroup_Completeness(t *testing.T) {
	items := []model.CatalogItem{
		{ID: "c", Name: "Cucumber", SupplierName: "A"},
		{ID: "t", Name: "Tomato", SupplierName: "B"},
	}
	raw := "Cucumber 4\nTomato 2\nmystery 1\nCucumber4pcs\nstaff food\nត្រី 3\n12"
	lines := newTestParser().ParseLines(raw, NewCatalog(items))
	cards := Group(lines)

	total := 0
	seen := map[string]int{}
	for _, c := range cards {
		assert.NotEmpty(t, c.Items)
		total += len(c.Items)
		for _, it := range c.Items {
			seen[it.ID]++
		}
	}
	assert.Equal(t, len(lines), total)
	for _, l := range lines {
		assert.Equal(t, 1, seen[l.ID])
	}
}

func TestGroup_Empty(t *testing.T) {
	cards := Group(nil)
	assert.NotNil(t, cards)
	assert.Empty(t, cards)
}

func ids(lines []model.ParsedLine) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.ID)
	}
	return out
}
