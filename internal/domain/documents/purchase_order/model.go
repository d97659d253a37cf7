// Package purchase_order provides the PurchaseOrder document: header, line
// table, derived monetary fields, and the operations that keep them
// consistent.
package purchase_order

import (
	"context"
	"time"

	"purchasing/internal/core/apperror"
	"purchasing/internal/core/entity"
	"purchasing/internal/core/id"
	"purchasing/internal/core/types"
	"purchasing/internal/domain/calc"
)

// PurchaseOrder represents a purchase order document.
//
// Derived monetary fields are a projection of the lines and header flags.
// Mutating operations on lines and flags do not update them; callers run
// Recalculate after any change. The service layer does this on every save.
type PurchaseOrder struct {
	entity.Document

	// Supplier reference
	SupplierID id.ID `db:"supplier_id" json:"supplierId"`

	// Warehouse goods will be received into
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	// PaymentTermCode and the due date derived from it
	PaymentTermCode string     `db:"payment_term_code" json:"paymentTermCode,omitempty"`
	DueDate         *time.Time `db:"due_date" json:"dueDate,omitempty"`

	// Currency is the document currency ISO code
	Currency string `db:"currency" json:"currency"`

	// ExchangeRate to the local currency. Must be positive; fixed at 1
	// when Currency is the local currency.
	ExchangeRate types.Money `db:"exchange_rate" json:"exchangeRate"`

	// VATRate in percent
	VATRate types.Money `db:"vat_rate" json:"vatRate"`

	// AdjustVAT enables the manual VAT base/amount overrides
	AdjustVAT       bool        `db:"adjust_vat" json:"adjustVat"`
	VATBaseOverride types.Money `db:"vat_base_override" json:"vatBaseOverride"`

	// VATAmountOverride is authoritative when set together with AdjustVAT
	VATAmountOverride *types.Money `db:"vat_amount_override" json:"vatAmountOverride,omitempty"`

	// IncludeVAT means unit prices already contain VAT
	IncludeVAT bool `db:"include_vat" json:"includeVat"`

	// Discount token applied at header level, e.g. "10%" or "100"
	Discount string `db:"discount" json:"discount,omitempty"`

	// Rounding digit counts
	QuantityDigits int `db:"quantity_digits" json:"quantityDigits"`
	PriceDigits    int `db:"price_digits" json:"priceDigits"`
	TotalDigits    int `db:"total_digits" json:"totalDigits"`
	LocalDigits    int `db:"local_digits" json:"localDigits"`

	// Derived totals, document currency
	TotalAmount        types.Money `db:"total_amount" json:"totalAmount"`
	DiscountAmount     types.Money `db:"discount_amount" json:"discountAmount"`
	TotalAfterDiscount types.Money `db:"total_after_discount" json:"totalAfterDiscount"`
	VATBase            types.Money `db:"vat_base" json:"vatBase"`
	VATAmount          types.Money `db:"vat_amount" json:"vatAmount"`
	GrandTotal         types.Money `db:"grand_total" json:"grandTotal"`

	// Derived totals, local currency
	TotalAmountLocal        types.Money `db:"total_amount_local" json:"totalAmountLocal"`
	DiscountAmountLocal     types.Money `db:"discount_amount_local" json:"discountAmountLocal"`
	TotalAfterDiscountLocal types.Money `db:"total_after_discount_local" json:"totalAfterDiscountLocal"`
	VATBaseLocal            types.Money `db:"vat_base_local" json:"vatBaseLocal"`
	VATAmountLocal          types.Money `db:"vat_amount_local" json:"vatAmountLocal"`
	GrandTotalLocal         types.Money `db:"grand_total_local" json:"grandTotalLocal"`

	// Table part: ordered lines
	Lines []Line `db:"-" json:"lines"`
}

// Line represents one purchase order line. Order is significant for display
// only; LineNo gives a stable handle for edit and remove operations.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ItemID      id.ID  `db:"item_id" json:"itemId"`
	Description string `db:"description" json:"description,omitempty"`
	Unit        string `db:"unit" json:"unit,omitempty"`

	Quantity  types.Money `db:"quantity" json:"quantity"`
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`

	// Discount token, "10%" per unit or "100" whole-line flat
	Discount string `db:"discount" json:"discount,omitempty"`

	// VATExcluded lines stay in the subtotal and grand total but are
	// omitted from the VAT base
	VATExcluded bool `db:"vat_excluded" json:"vatExcluded"`

	// Derived fields
	LineAmount               types.Money `db:"line_amount" json:"lineAmount"`
	DiscountAmount           types.Money `db:"discount_amount" json:"discountAmount"`
	AmountAfterDiscount      types.Money `db:"amount_after_discount" json:"amountAfterDiscount"`
	LineAmountLocal          types.Money `db:"line_amount_local" json:"lineAmountLocal"`
	AmountAfterDiscountLocal types.Money `db:"amount_after_discount_local" json:"amountAfterDiscountLocal"`
}

// New creates a new purchase order for a company.
func New(companyCode string, supplierID id.ID) *PurchaseOrder {
	// ExchangeRate is left unset; the service defaults it from the
	// currency catalog when the document is first saved.
	return &PurchaseOrder{
		Document:       entity.NewDocument(companyCode),
		SupplierID:     supplierID,
		QuantityDigits: 2,
		PriceDigits:    2,
		TotalDigits:    2,
		LocalDigits:    2,
		Lines:          make([]Line, 0),
	}
}

// AddLine appends a line and returns its line number.
func (p *PurchaseOrder) AddLine(line Line) int {
	line.LineID = id.New()
	line.LineNo = len(p.Lines) + 1
	p.Lines = append(p.Lines, line)
	return line.LineNo
}

// SetLine replaces the line with the given line number.
func (p *PurchaseOrder) SetLine(lineNo int, line Line) error {
	idx := p.lineIndex(lineNo)
	if idx < 0 {
		return apperror.NewNotFound("line", lineNo)
	}
	line.LineID = p.Lines[idx].LineID
	line.LineNo = lineNo
	p.Lines[idx] = line
	return nil
}

// RemoveLine deletes the line with the given line number and renumbers the
// remaining lines.
func (p *PurchaseOrder) RemoveLine(lineNo int) error {
	idx := p.lineIndex(lineNo)
	if idx < 0 {
		return apperror.NewNotFound("line", lineNo)
	}
	p.Lines = append(p.Lines[:idx], p.Lines[idx+1:]...)
	for i := range p.Lines {
		p.Lines[i].LineNo = i + 1
	}
	return nil
}

func (p *PurchaseOrder) lineIndex(lineNo int) int {
	for i := range p.Lines {
		if p.Lines[i].LineNo == lineNo {
			return i
		}
	}
	return -1
}

// SetCurrency sets the document currency. The local currency forces an
// exchange rate of 1.
func (p *PurchaseOrder) SetCurrency(isoCode string, rate types.Money, isLocal bool) {
	p.Currency = isoCode
	if isLocal {
		p.ExchangeRate = types.NewMoney(1)
	} else {
		p.ExchangeRate = rate
	}
}

// Recalculate rebuilds every derived monetary field from the lines and
// header flags. Total, not incremental: it is cheap and runs after any
// mutation.
func (p *PurchaseOrder) Recalculate() {
	header := calc.Header{
		VATRate:           p.VATRate,
		Discount:          p.Discount,
		AdjustVAT:         p.AdjustVAT,
		VATBaseOverride:   p.VATBaseOverride,
		VATAmountOverride: p.VATAmountOverride,
		IncludeVAT:        p.IncludeVAT,
		ExchangeRate:      p.ExchangeRate,
		CurrencyDigits:    p.TotalDigits,
		LocalDigits:       p.LocalDigits,
	}

	lines := make([]calc.Line, len(p.Lines))
	for i := range p.Lines {
		lines[i] = calc.Line{
			Quantity:    p.Lines[i].Quantity,
			UnitPrice:   p.Lines[i].UnitPrice,
			Discount:    p.Lines[i].Discount,
			VATExcluded: p.Lines[i].VATExcluded,
		}
	}

	totals := calc.ComputeTotals(lines, header)

	p.TotalAmount = totals.TotalAmount
	p.DiscountAmount = totals.DiscountAmount
	p.TotalAfterDiscount = totals.TotalAfterDiscount
	p.VATBase = totals.VATBase
	p.VATAmount = totals.VATAmount
	p.GrandTotal = totals.GrandTotal

	p.TotalAmountLocal = totals.TotalAmountLocal
	p.DiscountAmountLocal = totals.DiscountAmountLocal
	p.TotalAfterDiscountLocal = totals.TotalAfterDiscountLocal
	p.VATBaseLocal = totals.VATBaseLocal
	p.VATAmountLocal = totals.VATAmountLocal
	p.GrandTotalLocal = totals.GrandTotalLocal

	for i := range p.Lines {
		p.Lines[i].LineAmount = totals.Lines[i].LineAmount
		p.Lines[i].DiscountAmount = totals.Lines[i].DiscountAmount
		p.Lines[i].AmountAfterDiscount = totals.Lines[i].AmountAfterDiscount
		p.Lines[i].LineAmountLocal = totals.Lines[i].LineAmountLocal
		p.Lines[i].AmountAfterDiscountLocal = totals.Lines[i].AmountAfterDiscountLocal
	}
}

// Validate implements entity.Validatable.
func (p *PurchaseOrder) Validate(ctx context.Context) error {
	if err := p.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(p.SupplierID) {
		return apperror.NewValidation("supplier is required").
			WithDetail("field", "supplierId")
	}

	if p.Currency == "" {
		return apperror.NewValidation("currency is required").
			WithDetail("field", "currency")
	}

	if p.ExchangeRate.Sign() <= 0 {
		return apperror.NewValidation("exchange rate must be positive").
			WithDetail("field", "exchangeRate")
	}

	if p.VATRate.Sign() < 0 {
		return apperror.NewValidation("VAT rate cannot be negative").
			WithDetail("field", "vatRate")
	}

	if len(p.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i := range p.Lines {
		line := &p.Lines[i]
		if id.IsNil(line.ItemID) {
			return apperror.NewValidation("item is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", line.LineNo)
		}
		if line.Quantity.Sign() < 0 {
			return apperror.NewValidation("quantity cannot be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", line.LineNo)
		}
		if line.UnitPrice.Sign() < 0 {
			return apperror.NewValidation("unit price cannot be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", line.LineNo)
		}
	}

	return nil
}
