package dto

import (
	"time"

	"purchasing/internal/core/id"
	"purchasing/internal/core/types"
	"purchasing/internal/domain/documents/purchase_order"
	"purchasing/internal/domain/lifecycle"
	"purchasing/pkg/numfmt"
)

// --- Request DTOs ---

// CreatePurchaseOrderRequest represents a request to create a purchase order.
type CreatePurchaseOrderRequest struct {
	Date              time.Time                  `json:"date"`
	CompanyCode       string                     `json:"companyCode" binding:"required"`
	SupplierID        string                     `json:"supplierId" binding:"required"`
	WarehouseID       string                     `json:"warehouseId"`
	PaymentTermCode   string                     `json:"paymentTermCode"`
	Currency          string                     `json:"currency" binding:"required"`
	ExchangeRate      types.Money                `json:"exchangeRate"`
	VATRate           types.Money                `json:"vatRate"`
	IncludeVAT        bool                       `json:"includeVat"`
	AdjustVAT         bool                       `json:"adjustVat"`
	VATBaseOverride   types.Money                `json:"vatBaseOverride"`
	VATAmountOverride *types.Money               `json:"vatAmountOverride"`
	Discount          string                     `json:"discount"`
	Comment           string                     `json:"comment"`
	Lines             []PurchaseOrderLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// PurchaseOrderLineRequest represents a line in create/update requests.
type PurchaseOrderLineRequest struct {
	ItemID      string      `json:"itemId" binding:"required"`
	Description string      `json:"description"`
	Unit        string      `json:"unit"`
	Quantity    types.Money `json:"quantity"`
	UnitPrice   types.Money `json:"unitPrice"`
	Discount    string      `json:"discount"`
	VATExcluded bool        `json:"vatExcluded"`
}

// ToEntity converts request to domain entity.
func (r *CreatePurchaseOrderRequest) ToEntity() *purchase_order.PurchaseOrder {
	supplierID, _ := id.Parse(r.SupplierID)

	doc := purchase_order.New(r.CompanyCode, supplierID)
	if !r.Date.IsZero() {
		doc.Date = r.Date
	}
	if r.WarehouseID != "" {
		doc.WarehouseID, _ = id.Parse(r.WarehouseID)
	}
	doc.PaymentTermCode = r.PaymentTermCode
	doc.Currency = r.Currency
	doc.ExchangeRate = r.ExchangeRate
	doc.VATRate = r.VATRate
	doc.IncludeVAT = r.IncludeVAT
	doc.AdjustVAT = r.AdjustVAT
	doc.VATBaseOverride = r.VATBaseOverride
	doc.VATAmountOverride = r.VATAmountOverride
	doc.Discount = r.Discount
	doc.Comment = r.Comment

	for _, line := range r.Lines {
		doc.AddLine(line.toEntity())
	}

	return doc
}

func (l PurchaseOrderLineRequest) toEntity() purchase_order.Line {
	itemID, _ := id.Parse(l.ItemID)
	return purchase_order.Line{
		ItemID:      itemID,
		Description: l.Description,
		Unit:        l.Unit,
		Quantity:    l.Quantity,
		UnitPrice:   l.UnitPrice,
		Discount:    l.Discount,
		VATExcluded: l.VATExcluded,
	}
}

// UpdatePurchaseOrderRequest represents a request to update a purchase order.
type UpdatePurchaseOrderRequest struct {
	Date                   *time.Time                 `json:"date"`
	SupplierID             *string                    `json:"supplierId"`
	WarehouseID            *string                    `json:"warehouseId"`
	PaymentTermCode        *string                    `json:"paymentTermCode"`
	Currency               *string                    `json:"currency"`
	ExchangeRate           *types.Money               `json:"exchangeRate"`
	VATRate                *types.Money               `json:"vatRate"`
	IncludeVAT             *bool                      `json:"includeVat"`
	AdjustVAT              *bool                      `json:"adjustVat"`
	VATBaseOverride        *types.Money               `json:"vatBaseOverride"`
	VATAmountOverride      *types.Money               `json:"vatAmountOverride"`
	ClearVATAmountOverride bool                       `json:"clearVatAmountOverride"`
	Discount               *string                    `json:"discount"`
	Comment                *string                    `json:"comment"`
	Lines                  []PurchaseOrderLineRequest `json:"lines"`
	Version                int                        `json:"version" binding:"required"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdatePurchaseOrderRequest) ApplyTo(doc *purchase_order.PurchaseOrder) {
	if r.Date != nil {
		doc.Date = *r.Date
	}
	if r.SupplierID != nil {
		doc.SupplierID, _ = id.Parse(*r.SupplierID)
	}
	if r.WarehouseID != nil {
		doc.WarehouseID, _ = id.Parse(*r.WarehouseID)
	}
	if r.PaymentTermCode != nil {
		doc.PaymentTermCode = *r.PaymentTermCode
	}
	if r.Currency != nil {
		doc.Currency = *r.Currency
		// rate must be re-resolved for the new currency unless given explicitly
		if r.ExchangeRate == nil {
			doc.ExchangeRate = types.Zero()
		}
	}
	if r.ExchangeRate != nil {
		doc.ExchangeRate = *r.ExchangeRate
	}
	if r.VATRate != nil {
		doc.VATRate = *r.VATRate
	}
	if r.IncludeVAT != nil {
		doc.IncludeVAT = *r.IncludeVAT
	}
	if r.AdjustVAT != nil {
		doc.AdjustVAT = *r.AdjustVAT
	}
	if r.VATBaseOverride != nil {
		doc.VATBaseOverride = *r.VATBaseOverride
	}
	if r.ClearVATAmountOverride {
		doc.VATAmountOverride = nil
	} else if r.VATAmountOverride != nil {
		doc.VATAmountOverride = r.VATAmountOverride
	}
	if r.Discount != nil {
		doc.Discount = *r.Discount
	}
	if r.Comment != nil {
		doc.Comment = *r.Comment
	}
	if r.Lines != nil {
		doc.Lines = doc.Lines[:0]
		for _, line := range r.Lines {
			doc.AddLine(line.toEntity())
		}
	}
	doc.Version = r.Version
}

// CancelPurchaseOrderRequest requires explicit confirmation. A passing guard
// check alone never fires the cancellation.
type CancelPurchaseOrderRequest struct {
	Confirm bool `json:"confirm"`
}

// SubmitApprovalRequest represents an approval action submission.
type SubmitApprovalRequest struct {
	Level   int    `json:"level" binding:"required,min=1"`
	Action  string `json:"action" binding:"required"`
	Comment string `json:"comment"`
}

// --- Response DTOs ---

// PurchaseOrderResponse represents a purchase order in API responses.
type PurchaseOrderResponse struct {
	BaseResponse
	RunNo           int64      `json:"runNo"`
	Number          string     `json:"number"`
	Date            time.Time  `json:"date"`
	RecStatus       int        `json:"recStatus"`
	CompanyCode     string     `json:"companyCode"`
	Comment         string     `json:"comment,omitempty"`
	CreatedBy       string     `json:"createdBy,omitempty"`
	UpdatedBy       string     `json:"updatedBy,omitempty"`
	SupplierID      string     `json:"supplierId"`
	WarehouseID     string     `json:"warehouseId"`
	PaymentTermCode string     `json:"paymentTermCode,omitempty"`
	DueDate         *time.Time `json:"dueDate,omitempty"`
	Currency        string     `json:"currency"`

	ExchangeRate      types.Money  `json:"exchangeRate"`
	VATRate           types.Money  `json:"vatRate"`
	IncludeVAT        bool         `json:"includeVat"`
	AdjustVAT         bool         `json:"adjustVat"`
	VATBaseOverride   types.Money  `json:"vatBaseOverride"`
	VATAmountOverride *types.Money `json:"vatAmountOverride,omitempty"`
	Discount          string       `json:"discount,omitempty"`

	TotalAmount        types.Money `json:"totalAmount"`
	DiscountAmount     types.Money `json:"discountAmount"`
	TotalAfterDiscount types.Money `json:"totalAfterDiscount"`
	VATBase            types.Money `json:"vatBase"`
	VATAmount          types.Money `json:"vatAmount"`
	GrandTotal         types.Money `json:"grandTotal"`

	TotalAmountLocal        types.Money `json:"totalAmountLocal"`
	DiscountAmountLocal     types.Money `json:"discountAmountLocal"`
	TotalAfterDiscountLocal types.Money `json:"totalAfterDiscountLocal"`
	VATBaseLocal            types.Money `json:"vatBaseLocal"`
	VATAmountLocal          types.Money `json:"vatAmountLocal"`
	GrandTotalLocal         types.Money `json:"grandTotalLocal"`

	Display TotalsDisplay `json:"display"`

	Lines []PurchaseOrderLineResponse `json:"lines,omitempty"`
}

// TotalsDisplay carries the formatted totals for direct rendering.
type TotalsDisplay struct {
	TotalAmount        string `json:"totalAmount"`
	DiscountAmount     string `json:"discountAmount"`
	TotalAfterDiscount string `json:"totalAfterDiscount"`
	VATAmount          string `json:"vatAmount"`
	GrandTotal         string `json:"grandTotal"`
	GrandTotalLocal    string `json:"grandTotalLocal"`
}

// PurchaseOrderLineResponse represents a line in API responses.
type PurchaseOrderLineResponse struct {
	LineID      string      `json:"lineId"`
	LineNo      int         `json:"lineNo"`
	ItemID      string      `json:"itemId"`
	Description string      `json:"description,omitempty"`
	Unit        string      `json:"unit,omitempty"`
	Quantity    types.Money `json:"quantity"`
	UnitPrice   types.Money `json:"unitPrice"`
	Discount    string      `json:"discount,omitempty"`
	VATExcluded bool        `json:"vatExcluded"`

	LineAmount               types.Money `json:"lineAmount"`
	DiscountAmount           types.Money `json:"discountAmount"`
	AmountAfterDiscount      types.Money `json:"amountAfterDiscount"`
	LineAmountLocal          types.Money `json:"lineAmountLocal"`
	AmountAfterDiscountLocal types.Money `json:"amountAfterDiscountLocal"`
}

// FromPurchaseOrder converts domain entity to response DTO.
func FromPurchaseOrder(doc *purchase_order.PurchaseOrder) *PurchaseOrderResponse {
	resp := &PurchaseOrderResponse{
		BaseResponse:    FromBaseDocument(doc.BaseDocument),
		RunNo:           doc.RunNo,
		Number:          doc.Number,
		Date:            doc.Date,
		RecStatus:       doc.RecordStatus,
		CompanyCode:     doc.CompanyCode,
		Comment:         doc.Comment,
		CreatedBy:       doc.CreatedBy,
		UpdatedBy:       doc.UpdatedBy,
		SupplierID:      doc.SupplierID.String(),
		WarehouseID:     doc.WarehouseID.String(),
		PaymentTermCode: doc.PaymentTermCode,
		DueDate:         doc.DueDate,
		Currency:        doc.Currency,

		ExchangeRate:      doc.ExchangeRate,
		VATRate:           doc.VATRate,
		IncludeVAT:        doc.IncludeVAT,
		AdjustVAT:         doc.AdjustVAT,
		VATBaseOverride:   doc.VATBaseOverride,
		VATAmountOverride: doc.VATAmountOverride,
		Discount:          doc.Discount,

		TotalAmount:        doc.TotalAmount,
		DiscountAmount:     doc.DiscountAmount,
		TotalAfterDiscount: doc.TotalAfterDiscount,
		VATBase:            doc.VATBase,
		VATAmount:          doc.VATAmount,
		GrandTotal:         doc.GrandTotal,

		TotalAmountLocal:        doc.TotalAmountLocal,
		DiscountAmountLocal:     doc.DiscountAmountLocal,
		TotalAfterDiscountLocal: doc.TotalAfterDiscountLocal,
		VATBaseLocal:            doc.VATBaseLocal,
		VATAmountLocal:          doc.VATAmountLocal,
		GrandTotalLocal:         doc.GrandTotalLocal,

		Display: TotalsDisplay{
			TotalAmount:        numfmt.Format(doc.TotalAmount, doc.TotalDigits),
			DiscountAmount:     numfmt.FormatDiscount(doc.DiscountAmount, doc.TotalDigits),
			TotalAfterDiscount: numfmt.Format(doc.TotalAfterDiscount, doc.TotalDigits),
			VATAmount:          numfmt.Format(doc.VATAmount, doc.TotalDigits),
			GrandTotal:         numfmt.Format(doc.GrandTotal, doc.TotalDigits),
			GrandTotalLocal:    numfmt.Format(doc.GrandTotalLocal, doc.LocalDigits),
		},
	}

	resp.Lines = make([]PurchaseOrderLineResponse, len(doc.Lines))
	for i, line := range doc.Lines {
		resp.Lines[i] = PurchaseOrderLineResponse{
			LineID:      line.LineID.String(),
			LineNo:      line.LineNo,
			ItemID:      line.ItemID.String(),
			Description: line.Description,
			Unit:        line.Unit,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Discount:    line.Discount,
			VATExcluded: line.VATExcluded,

			LineAmount:               line.LineAmount,
			DiscountAmount:           line.DiscountAmount,
			AmountAfterDiscount:      line.AmountAfterDiscount,
			LineAmountLocal:          line.LineAmountLocal,
			AmountAfterDiscountLocal: line.AmountAfterDiscountLocal,
		}
	}

	return resp
}

// --- Status Check ---

// StatusCheckResponse reports the lifecycle guard decision for a document.
type StatusCheckResponse struct {
	CanProceed     bool                     `json:"canProceed"`
	Message        string                   `json:"message,omitempty"`
	WarningMessage string                   `json:"warningMessage,omitempty"`
	State          lifecycle.State          `json:"state"`
	CurrentStatus  lifecycle.StatusSnapshot `json:"currentStatus"`
}

// FromDecision builds a status check response from a guard decision.
func FromDecision(d lifecycle.Decision, state lifecycle.State) *StatusCheckResponse {
	return &StatusCheckResponse{
		CanProceed:     d.CanProceed,
		Message:        d.Message,
		WarningMessage: d.WarningMessage,
		State:          state,
		CurrentStatus:  d.Snapshot,
	}
}
