package currency

import (
	"context"

	"purchasing/internal/domain"
)

// Repository defines the interface for Currency persistence.
type Repository interface {
	domain.CatalogRepository[*Currency]

	// FindByISOCode retrieves currency by ISO code.
	FindByISOCode(ctx context.Context, isoCode string) (*Currency, error)

	// GetLocal retrieves the local (base) currency.
	GetLocal(ctx context.Context) (*Currency, error)

	// ClearLocal clears the local flag on all currencies.
	ClearLocal(ctx context.Context) error
}
