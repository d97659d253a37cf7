package catalog_repo

import (
	"purchasing/internal/domain/catalogs/paymentterm"
	"purchasing/internal/infrastructure/storage/postgres"
)

const paymentTermTable = "cat_payment_terms"

var _ paymentterm.Repository = (*PaymentTermRepo)(nil)

// PaymentTermRepo implements paymentterm.Repository.
type PaymentTermRepo struct {
	*BaseCatalogRepo[*paymentterm.PaymentTerm]
}

// NewPaymentTermRepo creates a new payment term repository.
func NewPaymentTermRepo(txManager *postgres.TxManager) *PaymentTermRepo {
	return &PaymentTermRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			paymentTermTable,
			postgres.ExtractDBColumns[paymentterm.PaymentTerm](),
			func() *paymentterm.PaymentTerm { return &paymentterm.PaymentTerm{} },
		),
	}
}
