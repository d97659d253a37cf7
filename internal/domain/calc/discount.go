package calc

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DiscountKind distinguishes percent discounts from flat amounts.
type DiscountKind int

const (
	// DiscountAmount is a flat deduction in document currency.
	DiscountAmount DiscountKind = iota
	// DiscountPercent scales with the amount it applies to.
	DiscountPercent
)

// Discount is a parsed discount specification.
type Discount struct {
	Kind  DiscountKind
	Value decimal.Decimal
}

// IsZero reports whether the discount deducts nothing.
func (d Discount) IsZero() bool {
	return d.Value.IsZero()
}

// ParseDiscount parses a discount token. A token containing '%' is a
// percentage, anything else is a flat amount. Unparsable or empty input
// degrades to a zero flat discount: tokens arrive mid-typing and a transient
// invalid state must not break computation.
func ParseDiscount(token string) Discount {
	s := strings.TrimSpace(token)

	kind := DiscountAmount
	if strings.Contains(s, "%") {
		kind = DiscountPercent
		s = strings.ReplaceAll(s, "%", "")
		s = strings.TrimSpace(s)
	}

	s = strings.ReplaceAll(s, ",", "")
	if s == "" || s == "-" || s == "." {
		return Discount{Kind: kind}
	}

	v, err := decimal.NewFromString(s)
	if err != nil {
		return Discount{Kind: kind}
	}
	return Discount{Kind: kind, Value: v}
}
