// Package item provides the Item catalog (goods and services orderable
// on purchase documents).
package item

import (
	"context"

	"purchasing/internal/core/apperror"
	"purchasing/internal/core/entity"
	"purchasing/internal/core/types"
)

// Item represents an orderable good or service.
type Item struct {
	entity.Catalog

	// Unit is the base unit of measure code
	Unit string `db:"unit" json:"unit"`

	// LastPurchasePrice is the price of the most recent purchase, used as
	// the default unit price when the item is added to a document
	LastPurchasePrice types.Money `db:"last_purchase_price" json:"lastPurchasePrice"`

	// VATExempt items are excluded from the VAT base by default
	VATExempt bool `db:"vat_exempt" json:"vatExempt"`

	// Barcode for scanning
	Barcode string `db:"barcode" json:"barcode,omitempty"`
}

// NewItem creates a new Item.
func NewItem(code, name string) *Item {
	return &Item{
		Catalog: entity.NewCatalog(code, name),
		Unit:    "EA",
	}
}

// Validate implements entity.Validatable.
func (i *Item) Validate(ctx context.Context) error {
	if err := i.Catalog.Validate(ctx); err != nil {
		return err
	}
	if i.IsFolder {
		return nil
	}
	if i.Unit == "" {
		return apperror.NewValidation("unit of measure is required").
			WithDetail("field", "unit")
	}
	if i.LastPurchasePrice.Sign() < 0 {
		return apperror.NewValidation("purchase price cannot be negative").
			WithDetail("field", "lastPurchasePrice")
	}
	return nil
}
