package paymentterm

import (
	"purchasing/internal/domain"
)

// Repository defines the interface for PaymentTerm persistence.
type Repository interface {
	domain.CatalogRepository[*PaymentTerm]
}
