package shopping_cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		raw      string
		expected int64
		ok       bool
	}{
		{"7", 7, true},
		{"007", 7, true},
		{"1,000", 1000, true},
		{"0", 0, true},
		{"000", 0, true},
		{"1000000", MaxQuantity, true},
		{"1000001", 0, false},
		{"9223372036854775807", 0, false},
		{"99999999999999999999", 0, false},
		{"", 0, false},
		{"abc", 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			n, ok := parseQuantity(tc.raw)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, n)
		})
	}
}

func TestUnitPrice(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
		ok       bool
	}{
		{"19.99", "19.99", true},
		{"0019.99", "19.99", true},
		{"$5", "5", true},
		{"0.50", "0.5", true},
		{"0", "0", true},
		{"free", "0", false},
		{"", "0", false},
		{"1.2.3", "0", false},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			d, ok := unitPrice(tc.raw)
			assert.Equal(t, tc.ok, ok)
			assert.True(t, d.Equal(dec(tc.expected)), "got %s", d)
		})
	}
}

func TestCharacterClasses(t *testing.T) {
	assert.True(t, validProductID("SKU-1_a.b"))
	assert.False(t, validProductID("abc$123"))
	assert.False(t, validProductID("with space"))
	assert.False(t, validProductID(""))

	assert.True(t, validProductName("Widget: Deluxe 2.0 - blue_ed"))
	assert.False(t, validProductName("Widget!"))
	assert.False(t, validProductName(""))
}
