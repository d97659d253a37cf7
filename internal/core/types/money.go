// Package types provides common type aliases and numeric utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// NewMoney creates a Money value from a float.
// WARNING: Use NewMoneyFromString for precise values.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// RoundMoney rounds to the given number of decimal digits, half away from
// zero. Monetary amounts in this module are non-negative in the common case,
// so this is half-up rounding at every derivation boundary.
func RoundMoney(d Money, digits int) Money {
	return d.Round(int32(digits))
}

// ToLocal converts a document-currency amount to the local (base) currency
// and rounds at the local precision. Rounding is applied per field, never
// propagated from an already-rounded base, to avoid compounding drift.
func ToLocal(d Money, exchangeRate Money, localDigits int) Money {
	return RoundMoney(d.Mul(exchangeRate), localDigits)
}

// Percent applies rate/100 to d without intermediate rounding.
func Percent(d Money, rate Money) Money {
	return d.Mul(rate).Div(decimal.NewFromInt(100))
}
