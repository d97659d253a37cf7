package dto

import (
	"purchasing/internal/core/entity"
	"purchasing/internal/domain/catalogs/supplier"
)

// --- Request DTOs ---

// CreateSupplierRequest is the request body for creating a supplier.
type CreateSupplierRequest struct {
	Code               string            `json:"code" binding:"required"`
	Name               string            `json:"name" binding:"required"`
	TaxID              string            `json:"taxId"`
	DefaultCurrency    string            `json:"defaultCurrency"`
	DefaultPaymentTerm string            `json:"defaultPaymentTerm"`
	ContactName        string            `json:"contactName"`
	ContactPhone       string            `json:"contactPhone"`
	Address            string            `json:"address"`
	Blocked            bool              `json:"blocked"`
	ParentID           *string           `json:"parentId"`
	IsFolder           bool              `json:"isFolder"`
	Attributes         entity.Attributes `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateSupplierRequest) ToEntity() *supplier.Supplier {
	s := supplier.NewSupplier(r.Code, r.Name)
	s.TaxID = r.TaxID
	s.DefaultCurrency = r.DefaultCurrency
	s.DefaultPaymentTerm = r.DefaultPaymentTerm
	s.ContactName = r.ContactName
	s.ContactPhone = r.ContactPhone
	s.Address = r.Address
	s.Blocked = r.Blocked
	s.ParentID = r.ParentID
	s.IsFolder = r.IsFolder
	s.Attributes = r.Attributes
	return s
}

// UpdateSupplierRequest is the request body for updating a supplier.
type UpdateSupplierRequest struct {
	Code               string            `json:"code" binding:"required"`
	Name               string            `json:"name" binding:"required"`
	TaxID              string            `json:"taxId"`
	DefaultCurrency    string            `json:"defaultCurrency"`
	DefaultPaymentTerm string            `json:"defaultPaymentTerm"`
	ContactName        string            `json:"contactName"`
	ContactPhone       string            `json:"contactPhone"`
	Address            string            `json:"address"`
	Blocked            bool              `json:"blocked"`
	ParentID           *string           `json:"parentId"`
	IsFolder           bool              `json:"isFolder"`
	Attributes         entity.Attributes `json:"attributes"`
	Version            int               `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateSupplierRequest) ApplyTo(s *supplier.Supplier) {
	s.Code = r.Code
	s.Name = r.Name
	s.TaxID = r.TaxID
	s.DefaultCurrency = r.DefaultCurrency
	s.DefaultPaymentTerm = r.DefaultPaymentTerm
	s.ContactName = r.ContactName
	s.ContactPhone = r.ContactPhone
	s.Address = r.Address
	s.Blocked = r.Blocked
	s.ParentID = r.ParentID
	s.IsFolder = r.IsFolder
	s.Attributes = r.Attributes
	s.Version = r.Version
}

// --- Response DTOs ---

// SupplierResponse is the response body for a supplier.
type SupplierResponse struct {
	CatalogResponse
	TaxID              string `json:"taxId,omitempty"`
	DefaultCurrency    string `json:"defaultCurrency,omitempty"`
	DefaultPaymentTerm string `json:"defaultPaymentTerm,omitempty"`
	ContactName        string `json:"contactName,omitempty"`
	ContactPhone       string `json:"contactPhone,omitempty"`
	Address            string `json:"address,omitempty"`
	Blocked            bool   `json:"blocked"`
}

// FromSupplier creates response DTO from domain entity.
func FromSupplier(s *supplier.Supplier) *SupplierResponse {
	return &SupplierResponse{
		CatalogResponse:    FromCatalog(s.Catalog),
		TaxID:              s.TaxID,
		DefaultCurrency:    s.DefaultCurrency,
		DefaultPaymentTerm: s.DefaultPaymentTerm,
		ContactName:        s.ContactName,
		ContactPhone:       s.ContactPhone,
		Address:            s.Address,
		Blocked:            s.Blocked,
	}
}
