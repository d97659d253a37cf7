package entity

import (
	"context"
	"time"

	"purchasing/internal/core/apperror"
)

// Record status values shared by all documents.
const (
	RecordStatusActive    = 0
	RecordStatusCancelled = 1
)

// Document is the base type for business documents.
type Document struct {
	BaseDocument

	// RunNo is the raw sequence value, the stable technical document key
	RunNo int64 `db:"run_no" json:"runNo"`

	// Number is the formatted document number (auto-generated)
	Number string `db:"number" json:"number"`

	// Date is the business date of the document
	Date time.Time `db:"date" json:"date"`

	// RecordStatus: 0 = active, 1 = cancelled
	RecordStatus int `db:"rec_status" json:"recStatus"`

	// CompanyCode is the owning company
	CompanyCode string `db:"company_code" json:"companyCode"`

	// Comment is an optional user comment
	Comment string `db:"comment" json:"comment,omitempty"`
}

// NewDocument creates a new Document with generated ID.
func NewDocument(companyCode string) Document {
	return Document{
		BaseDocument: NewBaseDocument(),
		Date:         time.Now().UTC(),
		CompanyCode:  companyCode,
	}
}

// Validate implements Validatable interface.
func (d *Document) Validate(ctx context.Context) error {
	if d.CompanyCode == "" {
		return apperror.NewValidation("company is required").
			WithDetail("field", "companyCode")
	}
	if d.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	return nil
}

// IsCancelled reports whether the document carries the cancelled record status.
func (d *Document) IsCancelled() bool {
	return d.RecordStatus == RecordStatusCancelled
}

// MarkCancelled sets the cancelled record status.
func (d *Document) MarkCancelled() {
	d.RecordStatus = RecordStatusCancelled
	d.Touch()
}

// CanModify checks if the document can be modified.
func (d *Document) CanModify() error {
	if d.IsCancelled() {
		return apperror.NewBusinessRule(
			apperror.CodeDocumentCancelled,
			"Cannot modify cancelled document.",
		).WithDetail("document_id", d.ID.String())
	}
	return nil
}
