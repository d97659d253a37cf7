// Package numfmt converts between display-formatted numeric strings and
// exact decimal values. It is presentation-only: the calculation engine
// never depends on formatted output.
package numfmt

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Format renders d with thousands separators and a fixed number of fraction
// digits. Negative values keep the minus sign ahead of the grouped digits.
func Format(d decimal.Decimal, digits int) string {
	s := d.StringFixed(int32(digits))

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart = s[:i]
		fracPart = s[i:]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString(fracPart)
	return b.String()
}

// Parse converts a display string back to an exact decimal. It is lenient by
// design: grouping separators and surrounding space are stripped, and an
// empty or unparsable string yields zero. Input may be mid-typing state, so
// parsing must never fail loudly.
func Parse(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	if s == "" || s == "-" || s == "." || s == "-." {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatDiscount renders a discount amount for display. Discounts are shown
// as deductions, so a positive discount carries a leading minus and zero is
// rendered unsigned.
func FormatDiscount(d decimal.Decimal, digits int) string {
	if d.IsZero() {
		return Format(decimal.Zero, digits)
	}
	return "-" + Format(d.Abs(), digits)
}
