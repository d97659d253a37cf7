package handlers

import (
	"purchasing/internal/domain/catalogs/currency"
	"purchasing/internal/infrastructure/http/v1/dto"
)

// CurrencyHTTPHandler is a type alias to shorten signatures.
type CurrencyHTTPHandler = CatalogHandler[
	*currency.Currency,
	dto.CreateCurrencyRequest,
	dto.UpdateCurrencyRequest,
]

// NewCurrencyHandler creates a configured generic handler for currencies.
func NewCurrencyHandler(
	base *BaseHandler,
	service *currency.Service,
) *CurrencyHTTPHandler {

	config := CatalogHandlerConfig[
		*currency.Currency,
		dto.CreateCurrencyRequest,
		dto.UpdateCurrencyRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "currency",

		MapCreateDTO: func(req dto.CreateCurrencyRequest) *currency.Currency {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateCurrencyRequest, existing *currency.Currency) *currency.Currency {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *currency.Currency) any {
			return dto.FromCurrency(entity)
		},
	}

	return NewCatalogHandler(base, config)
}
