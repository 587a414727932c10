package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plural", "Eggs", "egg"},
		{"units and stopwords", "The Bag of Rice", "rice"},
		{"attached number keeps unit", "Flour 2kg", "flour 2kg"},
		{"punctuation", "Coca-Cola!!", "coca cola"},
		{"double s kept", "Glass", "glass"},
		{"coarse plural", "Gas", "ga"},
		{"only units", "kg pcs", ""},
		{"unit uncovered by plural", "kgs", ""},
		{"blank", "   ", ""},
		{"whitespace collapse", "  Chicken   Breast \t", "chicken breast"},
		{"khmer kept", "ត្រី", "ត្រី"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Eggs", "glass", "gas", "kgs", "as", "Bags of Chips", "the eggs kg",
		"Tomato - red -", "egg-s", "Small Big Onions", "pcss", "ត្រី ធំ", "", "s", "ss",
		"Chicken Breast (boneless)", "Milk 1.5L", "a an the",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}
