package handlers

import (
	"purchasing/internal/domain/catalogs/supplier"
	"purchasing/internal/infrastructure/http/v1/dto"
)

// SupplierHTTPHandler is a type alias to shorten signatures.
type SupplierHTTPHandler = CatalogHandler[
	*supplier.Supplier,
	dto.CreateSupplierRequest,
	dto.UpdateSupplierRequest,
]

// NewSupplierHandler creates a configured generic handler for suppliers.
func NewSupplierHandler(
	base *BaseHandler,
	service *supplier.Service,
) *SupplierHTTPHandler {

	config := CatalogHandlerConfig[
		*supplier.Supplier,
		dto.CreateSupplierRequest,
		dto.UpdateSupplierRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "supplier",

		MapCreateDTO: func(req dto.CreateSupplierRequest) *supplier.Supplier {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateSupplierRequest, existing *supplier.Supplier) *supplier.Supplier {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *supplier.Supplier) any {
			return dto.FromSupplier(entity)
		},
	}

	return NewCatalogHandler(base, config)
}
