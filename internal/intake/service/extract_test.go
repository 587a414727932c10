package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		line     string
		name     string
		qty      float64
		unit     string
		strategy string
	}{
		{"Cucumber4pcs", "Cucumber", 4, "pcs", "attached"},
		{"Tomato4", "Tomato", 4, "", "attached"},
		{"Tomato x5", "Tomato", 5, "", "attached"},
		{"Egg 30 pcs", "Egg", 30, "pcs", "trailing"},
		{"Cucumber 4pcs", "Cucumber", 4, "pcs", "trailing"},
		{"Tomato 5", "Tomato", 5, "", "trailing"},
		{"Milk 1,5l", "Milk", 1.5, "l", "trailing"},
		{"Big Onion 3", "Onion", 3, "", "trailing"},
		{"30 pcs Egg", "Egg", 30, "pcs", "leading"},
		{"2x Egg", "Egg", 2, "", "leading"},
		{"2 cans Tomato paste", "Tomato paste", 2, "cans", "leading"},
		{"Tomato (5)", "Tomato", 5, "", "bare"},
		{"Egg 30 pcs.", "Egg", 30, "pcs", "bare"},
		{"Milk", "Milk", 1, "", "none"},
		{"Tomato 0", "Tomato", 1, "", "trailing"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := Extract(tt.line)
			assert.Equal(t, tt.name, got.Name)
			assert.InDelta(t, tt.qty, got.Quantity, 1e-9)
			assert.Equal(t, tt.unit, got.Unit)
			assert.Equal(t, tt.strategy, got.Strategy)
		})
	}
}

func TestExtractQuantityDefaultsToOne(t *testing.T) {
	for _, line := range []string{"Fish sauce", "ត្រី", "Chicken Breast boneless", "Salt!"} {
		assert.Equal(t, 1.0, Extract(line).Quantity, line)
	}
}

func TestExtractNumericOnlyHasNoName(t *testing.T) {
	for _, line := range []string{"5", "12 24", "  7  "} {
		assert.Empty(t, Extract(line).Name, line)
	}
}
