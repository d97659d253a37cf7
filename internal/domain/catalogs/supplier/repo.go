package supplier

import (
	"context"

	"purchasing/internal/domain"
)

// Repository defines the interface for Supplier persistence.
type Repository interface {
	domain.CatalogRepository[*Supplier]

	// FindByTaxID retrieves supplier by tax registration number.
	FindByTaxID(ctx context.Context, taxID string) (*Supplier, error)
}
