package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-intake/internal/intake/model"
)

func TestParseQuickOrder(t *testing.T) {
	catalog := []model.CatalogItem{
		{ID: "eggs", Name: "Eggs"},
		{ID: "rice", Name: "Rice"},
		{ID: "breast", Name: "Chicken Breast"},
	}
	tests := []struct {
		text   string
		wantID string
		qty    float64
	}{
		// "eggs" contains "egg", so the contains rule resolves it
		{"Egg 30", "eggs", 30},
		{"eggs 12", "eggs", 12},
		{"Rice 2 bags", "rice", 2},
		{"Rice bag 3", "rice", 3},
		{"chicken 1.5kg", "breast", 1.5},
		{"Rice 0", "rice", 1},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := ParseQuickOrder(tt.text, catalog)
			require.True(t, ok)
			assert.Equal(t, tt.wantID, got.Item.ID)
			assert.InDelta(t, tt.qty, got.Quantity, 1e-9)
		})
	}
}

func TestParseQuickOrder_None(t *testing.T) {
	catalog := []model.CatalogItem{{ID: "eggs", Name: "Eggs"}}
	for _, text := range []string{"Egg", "", "Cucumbr 3", "Eggz 3", "30"} {
		_, ok := ParseQuickOrder(text, catalog)
		assert.False(t, ok, text)
	}
}

func TestParseQuickOrder_ExactBeforeContains(t *testing.T) {
	catalog := []model.CatalogItem{{ID: "yolk", Name: "Egg Yolk"}, {ID: "egg", Name: "egg"}}
	got, ok := ParseQuickOrder("EGG 6", catalog)
	require.True(t, ok)
	assert.Equal(t, "egg", got.Item.ID)
}
