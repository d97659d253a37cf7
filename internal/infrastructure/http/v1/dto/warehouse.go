package dto

import (
	"purchasing/internal/core/entity"
	"purchasing/internal/domain/catalogs/warehouse"
)

// --- Request DTOs ---

// CreateWarehouseRequest is the request body for creating a warehouse.
type CreateWarehouseRequest struct {
	Code       string            `json:"code" binding:"required"`
	Name       string            `json:"name" binding:"required"`
	Address    string            `json:"address"`
	Inactive   bool              `json:"inactive"`
	ParentID   *string           `json:"parentId"`
	IsFolder   bool              `json:"isFolder"`
	Attributes entity.Attributes `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateWarehouseRequest) ToEntity() *warehouse.Warehouse {
	w := warehouse.NewWarehouse(r.Code, r.Name)
	w.Address = r.Address
	w.Inactive = r.Inactive
	w.ParentID = r.ParentID
	w.IsFolder = r.IsFolder
	w.Attributes = r.Attributes
	return w
}

// UpdateWarehouseRequest is the request body for updating a warehouse.
type UpdateWarehouseRequest struct {
	Code       string            `json:"code" binding:"required"`
	Name       string            `json:"name" binding:"required"`
	Address    string            `json:"address"`
	Inactive   bool              `json:"inactive"`
	ParentID   *string           `json:"parentId"`
	IsFolder   bool              `json:"isFolder"`
	Attributes entity.Attributes `json:"attributes"`
	Version    int               `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateWarehouseRequest) ApplyTo(w *warehouse.Warehouse) {
	w.Code = r.Code
	w.Name = r.Name
	w.Address = r.Address
	w.Inactive = r.Inactive
	w.ParentID = r.ParentID
	w.IsFolder = r.IsFolder
	w.Attributes = r.Attributes
	w.Version = r.Version
}

// --- Response DTOs ---

// WarehouseResponse is the response body for a warehouse.
type WarehouseResponse struct {
	CatalogResponse
	Address  string `json:"address,omitempty"`
	Inactive bool   `json:"inactive"`
}

// FromWarehouse creates response DTO from domain entity.
func FromWarehouse(w *warehouse.Warehouse) *WarehouseResponse {
	return &WarehouseResponse{
		CatalogResponse: FromCatalog(w.Catalog),
		Address:         w.Address,
		Inactive:        w.Inactive,
	}
}
