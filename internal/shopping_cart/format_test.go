package shopping_cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"", ""},
		{"5", "5.00"},
		{"1234.5", "1,234.50"},
		{"$1234567.891", "1,234,567.89"},
		{"999", "999.00"},
		{"abc", "0.00"},
		{"1.2.3", ""},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormatNumber(tc.in))
		})
	}
}

func TestFormatAmount_Negative(t *testing.T) {
	assert.Equal(t, "-1,000.00", FormatAmount(dec("-1000")))
}
