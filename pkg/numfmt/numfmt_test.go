package numfmt

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		in     string
		digits int
		want   string
	}{
		{"0", 2, "0.00"},
		{"1234.5", 2, "1,234.50"},
		{"1234567.891", 2, "1,234,567.89"},
		{"-1234.5", 2, "-1,234.50"},
		{"999", 0, "999"},
		{"1000", 0, "1,000"},
		{"963", 2, "963.00"},
		{"0.125", 4, "0.1250"},
	}

	for _, tt := range tests {
		d, err := decimal.NewFromString(tt.in)
		if err != nil {
			t.Fatalf("bad test input %q: %v", tt.in, err)
		}
		assert.Equal(t, tt.want, Format(d, tt.digits), "Format(%s, %d)", tt.in, tt.digits)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1,234.50", "1234.5"},
		{" 963.00 ", "963"},
		{"-1,000", "-1000"},
		{"", "0"},
		{"-", "0"},
		{".", "0"},
		{"abc", "0"},
		{"12.34.56", "0"},
	}

	for _, tt := range tests {
		want := decimal.RequireFromString(tt.want)
		assert.True(t, Parse(tt.in).Equal(want), "Parse(%q) = %s, want %s", tt.in, Parse(tt.in), want)
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	d := decimal.RequireFromString("1234567.89")
	assert.True(t, Parse(Format(d, 2)).Equal(d))
}

func TestFormatDiscount(t *testing.T) {
	assert.Equal(t, "-100.00", FormatDiscount(decimal.RequireFromString("100"), 2))
	assert.Equal(t, "-100.00", FormatDiscount(decimal.RequireFromString("-100"), 2))
	assert.Equal(t, "0.00", FormatDiscount(decimal.Zero, 2))
}
