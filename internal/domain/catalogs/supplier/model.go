// Package supplier provides the Supplier catalog.
package supplier

import (
	"context"

	"purchasing/internal/core/apperror"
	"purchasing/internal/core/entity"
)

// Supplier represents a vendor a purchase order can be placed with.
type Supplier struct {
	entity.Catalog

	// TaxID is the supplier's tax registration number
	TaxID string `db:"tax_id" json:"taxId,omitempty"`

	// DefaultCurrency is the ISO code of the supplier's usual currency
	DefaultCurrency string `db:"default_currency" json:"defaultCurrency,omitempty"`

	// DefaultPaymentTerm is the code of the supplier's usual payment term
	DefaultPaymentTerm string `db:"default_payment_term" json:"defaultPaymentTerm,omitempty"`

	// ContactName and ContactPhone of the purchasing contact
	ContactName  string `db:"contact_name" json:"contactName,omitempty"`
	ContactPhone string `db:"contact_phone" json:"contactPhone,omitempty"`

	// Address is the billing address
	Address string `db:"address" json:"address,omitempty"`

	// Blocked suppliers cannot receive new purchase orders
	Blocked bool `db:"blocked" json:"blocked"`
}

// NewSupplier creates a new Supplier.
func NewSupplier(code, name string) *Supplier {
	return &Supplier{
		Catalog: entity.NewCatalog(code, name),
	}
}

// Validate implements entity.Validatable.
func (s *Supplier) Validate(ctx context.Context) error {
	if err := s.Catalog.Validate(ctx); err != nil {
		return err
	}
	if s.Code == "" {
		return apperror.NewValidation("supplier code is required").
			WithDetail("field", "code")
	}
	return nil
}

// CanOrder reports whether new purchase orders may reference the supplier.
func (s *Supplier) CanOrder() error {
	if s.Blocked {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule, "supplier is blocked").
			WithDetail("supplier", s.Code)
	}
	if s.DeletionMark {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule, "supplier is marked for deletion").
			WithDetail("supplier", s.Code)
	}
	return nil
}
