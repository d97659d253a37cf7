package dto

import (
	"purchasing/internal/core/entity"
	"purchasing/internal/core/types"
	"purchasing/internal/domain/catalogs/currency"
)

// --- Request DTOs ---

// CreateCurrencyRequest is the request body for creating a currency.
type CreateCurrencyRequest struct {
	Code          string            `json:"code"`
	Name          string            `json:"name" binding:"required"`
	ISOCode       string            `json:"isoCode" binding:"required"`
	Symbol        string            `json:"symbol"`
	DecimalPlaces *int              `json:"decimalPlaces"`
	ExchangeRate  *types.Money      `json:"exchangeRate"`
	IsLocal       bool              `json:"isLocal"`
	ParentID      *string           `json:"parentId"`
	IsFolder      bool              `json:"isFolder"`
	Attributes    entity.Attributes `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateCurrencyRequest) ToEntity() *currency.Currency {
	c := currency.NewCurrency(r.ISOCode, r.Name)
	if r.Code != "" {
		c.Code = r.Code
	}
	c.Symbol = r.Symbol
	if r.DecimalPlaces != nil {
		c.DecimalPlaces = *r.DecimalPlaces
	}
	if r.ExchangeRate != nil {
		c.ExchangeRate = *r.ExchangeRate
	}
	c.IsLocal = r.IsLocal
	c.ParentID = r.ParentID
	c.IsFolder = r.IsFolder
	c.Attributes = r.Attributes
	return c
}

// UpdateCurrencyRequest is the request body for updating a currency.
type UpdateCurrencyRequest struct {
	Code          string            `json:"code"`
	Name          string            `json:"name" binding:"required"`
	ISOCode       string            `json:"isoCode" binding:"required"`
	Symbol        string            `json:"symbol"`
	DecimalPlaces int               `json:"decimalPlaces"`
	ExchangeRate  types.Money       `json:"exchangeRate"`
	IsLocal       bool              `json:"isLocal"`
	ParentID      *string           `json:"parentId"`
	IsFolder      bool              `json:"isFolder"`
	Attributes    entity.Attributes `json:"attributes"`
	Version       int               `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateCurrencyRequest) ApplyTo(c *currency.Currency) {
	c.Code = r.Code
	c.Name = r.Name
	c.ISOCode = r.ISOCode
	c.Symbol = r.Symbol
	c.DecimalPlaces = r.DecimalPlaces
	c.ExchangeRate = r.ExchangeRate
	c.IsLocal = r.IsLocal
	c.ParentID = r.ParentID
	c.IsFolder = r.IsFolder
	c.Attributes = r.Attributes
	c.Version = r.Version
}

// --- Response DTOs ---

// CurrencyResponse is the response body for a currency.
type CurrencyResponse struct {
	CatalogResponse
	ISOCode       string      `json:"isoCode"`
	Symbol        string      `json:"symbol,omitempty"`
	DecimalPlaces int         `json:"decimalPlaces"`
	ExchangeRate  types.Money `json:"exchangeRate"`
	IsLocal       bool        `json:"isLocal"`
}

// FromCurrency creates response DTO from domain entity.
func FromCurrency(c *currency.Currency) *CurrencyResponse {
	return &CurrencyResponse{
		CatalogResponse: FromCatalog(c.Catalog),
		ISOCode:         c.ISOCode,
		Symbol:          c.Symbol,
		DecimalPlaces:   c.DecimalPlaces,
		ExchangeRate:    c.ExchangeRate,
		IsLocal:         c.IsLocal,
	}
}
