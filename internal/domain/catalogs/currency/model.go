// Package currency provides the Currency catalog.
package currency

import (
	"context"
	"regexp"

	"purchasing/internal/core/apperror"
	"purchasing/internal/core/entity"
	"purchasing/internal/core/types"
)

// Currency represents a monetary unit.
type Currency struct {
	entity.Catalog

	// ISOCode is the ISO 4217 alphabetic code (e.g., "USD", "THB")
	ISOCode string `db:"iso_code" json:"isoCode"`

	// Symbol is the currency symbol
	Symbol string `db:"symbol" json:"symbol,omitempty"`

	// DecimalPlaces is the rounding precision for amounts in this currency
	DecimalPlaces int `db:"decimal_places" json:"decimalPlaces"`

	// ExchangeRate to the local currency. Fixed at 1 for the local
	// currency itself.
	ExchangeRate types.Money `db:"exchange_rate" json:"exchangeRate"`

	// IsLocal marks the local (base accounting) currency
	IsLocal bool `db:"is_local" json:"isLocal"`
}

// NewCurrency creates a new Currency with required fields.
func NewCurrency(isoCode, name string) *Currency {
	return &Currency{
		Catalog:       entity.NewCatalog(isoCode, name),
		ISOCode:       isoCode,
		DecimalPlaces: 2,
		ExchangeRate:  types.NewMoney(1),
	}
}

var isoCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)

// Validate implements entity.Validatable.
func (c *Currency) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}

	if !isoCodeRe.MatchString(c.ISOCode) {
		return apperror.NewValidation("ISO code must be 3 uppercase letters").
			WithDetail("field", "isoCode").
			WithDetail("value", c.ISOCode)
	}

	if c.DecimalPlaces < 0 || c.DecimalPlaces > 8 {
		return apperror.NewValidation("decimal places must be between 0 and 8").
			WithDetail("field", "decimalPlaces")
	}

	if c.IsLocal {
		if !c.ExchangeRate.Equal(types.NewMoney(1)) {
			return apperror.NewValidation("local currency exchange rate is fixed at 1").
				WithDetail("field", "exchangeRate")
		}
	} else if c.ExchangeRate.Sign() <= 0 {
		return apperror.NewValidation("exchange rate must be positive").
			WithDetail("field", "exchangeRate")
	}

	return nil
}
