package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"4", 4, true},
		{"1,5", 1.5, true},
		{"1.25", 1.25, true},
		{"1 200", 1200, true},
		{"", 0, false},
		{"abc", 0, false},
		{"-", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseQuantity(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestPositiveQuantity(t *testing.T) {
	assert.Equal(t, 1.0, PositiveQuantity("0"))
	assert.Equal(t, 1.0, PositiveQuantity("-3"))
	assert.Equal(t, 1.0, PositiveQuantity("x"))
	assert.Equal(t, 30.0, PositiveQuantity("30"))
}
