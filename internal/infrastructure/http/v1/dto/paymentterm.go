package dto

import (
	"purchasing/internal/core/entity"
	"purchasing/internal/domain/catalogs/paymentterm"
)

// --- Request DTOs ---

// CreatePaymentTermRequest is the request body for creating a payment term.
type CreatePaymentTermRequest struct {
	Code       string            `json:"code" binding:"required"`
	Name       string            `json:"name" binding:"required"`
	CreditDays int               `json:"creditDays"`
	EndOfMonth bool              `json:"endOfMonth"`
	ParentID   *string           `json:"parentId"`
	IsFolder   bool              `json:"isFolder"`
	Attributes entity.Attributes `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreatePaymentTermRequest) ToEntity() *paymentterm.PaymentTerm {
	p := paymentterm.NewPaymentTerm(r.Code, r.Name, r.CreditDays)
	p.EndOfMonth = r.EndOfMonth
	p.ParentID = r.ParentID
	p.IsFolder = r.IsFolder
	p.Attributes = r.Attributes
	return p
}

// UpdatePaymentTermRequest is the request body for updating a payment term.
type UpdatePaymentTermRequest struct {
	Code       string            `json:"code" binding:"required"`
	Name       string            `json:"name" binding:"required"`
	CreditDays int               `json:"creditDays"`
	EndOfMonth bool              `json:"endOfMonth"`
	ParentID   *string           `json:"parentId"`
	IsFolder   bool              `json:"isFolder"`
	Attributes entity.Attributes `json:"attributes"`
	Version    int               `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdatePaymentTermRequest) ApplyTo(p *paymentterm.PaymentTerm) {
	p.Code = r.Code
	p.Name = r.Name
	p.CreditDays = r.CreditDays
	p.EndOfMonth = r.EndOfMonth
	p.ParentID = r.ParentID
	p.IsFolder = r.IsFolder
	p.Attributes = r.Attributes
	p.Version = r.Version
}

// --- Response DTOs ---

// PaymentTermResponse is the response body for a payment term.
type PaymentTermResponse struct {
	CatalogResponse
	CreditDays int  `json:"creditDays"`
	EndOfMonth bool `json:"endOfMonth"`
}

// FromPaymentTerm creates response DTO from domain entity.
func FromPaymentTerm(p *paymentterm.PaymentTerm) *PaymentTermResponse {
	return &PaymentTermResponse{
		CatalogResponse: FromCatalog(p.Catalog),
		CreditDays:      p.CreditDays,
		EndOfMonth:      p.EndOfMonth,
	}
}
