package handlers

import (
	"purchasing/internal/domain/catalogs/paymentterm"
	"purchasing/internal/infrastructure/http/v1/dto"
)

// PaymentTermHTTPHandler is a type alias to shorten signatures.
type PaymentTermHTTPHandler = CatalogHandler[
	*paymentterm.PaymentTerm,
	dto.CreatePaymentTermRequest,
	dto.UpdatePaymentTermRequest,
]

// NewPaymentTermHandler creates a configured generic handler for payment terms.
func NewPaymentTermHandler(
	base *BaseHandler,
	service *paymentterm.Service,
) *PaymentTermHTTPHandler {

	config := CatalogHandlerConfig[
		*paymentterm.PaymentTerm,
		dto.CreatePaymentTermRequest,
		dto.UpdatePaymentTermRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "payment-term",

		MapCreateDTO: func(req dto.CreatePaymentTermRequest) *paymentterm.PaymentTerm {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdatePaymentTermRequest, existing *paymentterm.PaymentTerm) *paymentterm.PaymentTerm {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *paymentterm.PaymentTerm) any {
			return dto.FromPaymentTerm(entity)
		},
	}

	return NewCatalogHandler(base, config)
}
