package item

import (
	"context"

	"purchasing/internal/domain"
)

// Repository defines the interface for Item persistence.
type Repository interface {
	domain.CatalogRepository[*Item]

	// FindByBarcode retrieves item by barcode.
	FindByBarcode(ctx context.Context, barcode string) (*Item, error)
}
