// Package warehouse provides the Warehouse catalog.
package warehouse

import (
	"context"

	"purchasing/internal/core/entity"
)

// Warehouse represents a receiving location for purchased goods.
type Warehouse struct {
	entity.Catalog

	Address string `db:"address" json:"address,omitempty"`

	// Inactive warehouses are hidden from document entry
	Inactive bool `db:"inactive" json:"inactive"`
}

// NewWarehouse creates a new Warehouse.
func NewWarehouse(code, name string) *Warehouse {
	return &Warehouse{
		Catalog: entity.NewCatalog(code, name),
	}
}

// Validate implements entity.Validatable.
func (w *Warehouse) Validate(ctx context.Context) error {
	return w.Catalog.Validate(ctx)
}
