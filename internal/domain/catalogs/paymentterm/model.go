// Package paymentterm provides the PaymentTerm catalog and due-date
// calculation.
package paymentterm

import (
	"context"
	"time"

	"purchasing/internal/core/apperror"
	"purchasing/internal/core/entity"
)

// PaymentTerm defines when payment for a document falls due.
type PaymentTerm struct {
	entity.Catalog

	// CreditDays is the number of days after the reference date
	CreditDays int `db:"credit_days" json:"creditDays"`

	// EndOfMonth shifts the due date to the last day of the month after
	// adding CreditDays (e.g. "30 days EOM")
	EndOfMonth bool `db:"end_of_month" json:"endOfMonth"`
}

// NewPaymentTerm creates a new PaymentTerm.
func NewPaymentTerm(code, name string, creditDays int) *PaymentTerm {
	return &PaymentTerm{
		Catalog:    entity.NewCatalog(code, name),
		CreditDays: creditDays,
	}
}

// Validate implements entity.Validatable.
func (p *PaymentTerm) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}
	if p.CreditDays < 0 {
		return apperror.NewValidation("credit days cannot be negative").
			WithDetail("field", "creditDays")
	}
	return nil
}

// DueDate calculates the payment due date from a reference date.
func (p *PaymentTerm) DueDate(ref time.Time) time.Time {
	due := ref.AddDate(0, 0, p.CreditDays)
	if p.EndOfMonth {
		firstOfNext := time.Date(due.Year(), due.Month(), 1, 0, 0, 0, 0, due.Location()).AddDate(0, 1, 0)
		due = firstOfNext.AddDate(0, 0, -1)
	}
	return due
}
