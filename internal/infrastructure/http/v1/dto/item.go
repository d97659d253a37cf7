package dto

import (
	"purchasing/internal/core/entity"
	"purchasing/internal/core/types"
	"purchasing/internal/domain/catalogs/item"
)

// --- Request DTOs ---

// CreateItemRequest is the request body for creating an item.
type CreateItemRequest struct {
	Code              string            `json:"code" binding:"required"`
	Name              string            `json:"name" binding:"required"`
	Unit              string            `json:"unit"`
	LastPurchasePrice types.Money       `json:"lastPurchasePrice"`
	VATExempt         bool              `json:"vatExempt"`
	Barcode           string            `json:"barcode"`
	ParentID          *string           `json:"parentId"`
	IsFolder          bool              `json:"isFolder"`
	Attributes        entity.Attributes `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateItemRequest) ToEntity() *item.Item {
	i := item.NewItem(r.Code, r.Name)
	if r.Unit != "" {
		i.Unit = r.Unit
	}
	i.LastPurchasePrice = r.LastPurchasePrice
	i.VATExempt = r.VATExempt
	i.Barcode = r.Barcode
	i.ParentID = r.ParentID
	i.IsFolder = r.IsFolder
	i.Attributes = r.Attributes
	return i
}

// UpdateItemRequest is the request body for updating an item.
type UpdateItemRequest struct {
	Code              string            `json:"code" binding:"required"`
	Name              string            `json:"name" binding:"required"`
	Unit              string            `json:"unit"`
	LastPurchasePrice types.Money       `json:"lastPurchasePrice"`
	VATExempt         bool              `json:"vatExempt"`
	Barcode           string            `json:"barcode"`
	ParentID          *string           `json:"parentId"`
	IsFolder          bool              `json:"isFolder"`
	Attributes        entity.Attributes `json:"attributes"`
	Version           int               `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateItemRequest) ApplyTo(i *item.Item) {
	i.Code = r.Code
	i.Name = r.Name
	i.Unit = r.Unit
	i.LastPurchasePrice = r.LastPurchasePrice
	i.VATExempt = r.VATExempt
	i.Barcode = r.Barcode
	i.ParentID = r.ParentID
	i.IsFolder = r.IsFolder
	i.Attributes = r.Attributes
	i.Version = r.Version
}

// --- Response DTOs ---

// ItemResponse is the response body for an item.
type ItemResponse struct {
	CatalogResponse
	Unit              string      `json:"unit"`
	LastPurchasePrice types.Money `json:"lastPurchasePrice"`
	VATExempt         bool        `json:"vatExempt"`
	Barcode           string      `json:"barcode,omitempty"`
}

// FromItem creates response DTO from domain entity.
func FromItem(i *item.Item) *ItemResponse {
	return &ItemResponse{
		CatalogResponse:   FromCatalog(i.Catalog),
		Unit:              i.Unit,
		LastPurchasePrice: i.LastPurchasePrice,
		VATExempt:         i.VATExempt,
		Barcode:           i.Barcode,
	}
}
