// Package calc implements the purchase document calculation engine.
//
// All functions are pure: they derive monetary fields from line and header
// inputs without touching any external state, so the orchestration layer can
// re-run a full recomputation after every mutation. Values stay unrounded
// through intermediate steps; rounding happens once per derived field, and
// local-currency conversion is its own rounding boundary per field so that
// rounding drift never compounds across dependent fields.
package calc

import (
	"github.com/shopspring/decimal"

	"purchasing/internal/core/types"
)

var hundred = decimal.NewFromInt(100)

// Header carries the header-level inputs of a calculation.
type Header struct {
	// VATRate in percent, e.g. 7 for 7%.
	VATRate types.Money

	// Discount token applied to the sum of after-line-discount amounts,
	// same grammar as line discounts.
	Discount string

	// AdjustVAT switches the VAT base to the user-entered override instead
	// of the derived value.
	AdjustVAT bool

	// VATBaseOverride is authoritative when AdjustVAT is set.
	VATBaseOverride types.Money

	// VATAmountOverride, when non-nil and AdjustVAT is set, replaces the
	// derived VAT amount verbatim.
	VATAmountOverride *types.Money

	// IncludeVAT means unit prices already contain VAT: the VAT amount is
	// extracted from the base instead of added on top.
	IncludeVAT bool

	// ExchangeRate from document currency to local currency. Must be
	// positive; 1 when the document currency is the local currency.
	ExchangeRate types.Money

	// CurrencyDigits and LocalDigits are the rounding precisions of the
	// document currency and the local currency.
	CurrencyDigits int
	LocalDigits    int
}

// Line carries the inputs of one document line.
type Line struct {
	Quantity    types.Money
	UnitPrice   types.Money
	Discount    string
	VATExcluded bool
}

// LineResult holds the derived fields of one line, rounded at document
// currency precision with per-field local-currency counterparts.
type LineResult struct {
	LineAmount          types.Money
	DiscountAmount      types.Money
	AmountAfterDiscount types.Money
	VATExcluded         bool

	LineAmountLocal          types.Money
	AmountAfterDiscountLocal types.Money
}

// Totals is the full derived projection for a document. It is recomputed
// whole on every input change and never independently mutated.
type Totals struct {
	Lines []LineResult

	TotalAmount        types.Money
	DiscountAmount     types.Money
	TotalAfterDiscount types.Money
	VATBase            types.Money
	VATAmount          types.Money
	GrandTotal         types.Money

	TotalAmountLocal        types.Money
	DiscountAmountLocal     types.Money
	TotalAfterDiscountLocal types.Money
	VATBaseLocal            types.Money
	VATAmountLocal          types.Money
	GrandTotalLocal         types.Money
}

// lineFigures holds unrounded per-line values for total accumulation.
type lineFigures struct {
	amount        types.Money
	discount      types.Money
	afterDiscount types.Money
	vatExcluded   bool
}

// computeLineFigures derives the unrounded line values.
//
// Percent discounts apply per unit and therefore scale with quantity. Flat
// discounts deduct from the whole line exactly once, regardless of quantity.
func computeLineFigures(line Line) lineFigures {
	amount := line.Quantity.Mul(line.UnitPrice)
	disc := ParseDiscount(line.Discount)

	var discountAmount types.Money
	var afterDiscount types.Money

	switch disc.Kind {
	case DiscountPercent:
		perUnit := types.Percent(line.UnitPrice, disc.Value)
		discountAmount = perUnit.Mul(line.Quantity)
		afterDiscount = line.UnitPrice.Sub(perUnit).Mul(line.Quantity)
	default:
		discountAmount = disc.Value
		afterDiscount = amount.Sub(disc.Value)
	}

	return lineFigures{
		amount:        amount,
		discount:      discountAmount,
		afterDiscount: afterDiscount,
		vatExcluded:   line.VATExcluded,
	}
}

// ComputeLine derives the rounded fields of a single line. No clamping is
// applied: a flat discount larger than the line amount yields a negative
// after-discount amount.
func ComputeLine(line Line, header Header) LineResult {
	return lineResult(computeLineFigures(line), header)
}

func lineResult(f lineFigures, header Header) LineResult {
	rate := normalizeRate(header.ExchangeRate)
	r := LineResult{
		LineAmount:          types.RoundMoney(f.amount, header.CurrencyDigits),
		DiscountAmount:      types.RoundMoney(f.discount, header.CurrencyDigits),
		AmountAfterDiscount: types.RoundMoney(f.afterDiscount, header.CurrencyDigits),
		VATExcluded:         f.vatExcluded,
	}
	r.LineAmountLocal = types.ToLocal(r.LineAmount, rate, header.LocalDigits)
	r.AmountAfterDiscountLocal = types.ToLocal(r.AmountAfterDiscount, rate, header.LocalDigits)
	return r
}

// ComputeTotals derives the complete Totals projection from lines and header.
func ComputeTotals(lines []Line, header Header) Totals {
	rate := normalizeRate(header.ExchangeRate)

	figures := make([]lineFigures, len(lines))
	totalAmount := decimal.Zero
	afterLineDiscount := decimal.Zero
	excludedAfterDiscount := decimal.Zero
	for i, line := range lines {
		f := computeLineFigures(line)
		figures[i] = f
		totalAmount = totalAmount.Add(f.amount)
		afterLineDiscount = afterLineDiscount.Add(f.afterDiscount)
		if f.vatExcluded {
			excludedAfterDiscount = excludedAfterDiscount.Add(f.afterDiscount)
		}
	}

	// line discounts are already inside afterLineDiscount; the header
	// discount deducts on top of them
	headerDisc := ParseDiscount(header.Discount)
	var discountAmount types.Money
	if headerDisc.Kind == DiscountPercent {
		discountAmount = types.Percent(afterLineDiscount, headerDisc.Value)
	} else {
		discountAmount = headerDisc.Value
	}

	totalAfterDiscount := afterLineDiscount.Sub(discountAmount)

	var vatBase types.Money
	if header.AdjustVAT {
		vatBase = header.VATBaseOverride
	} else {
		vatBase = totalAfterDiscount.Sub(excludedAfterDiscount)
	}

	var vatAmount types.Money
	switch {
	case header.AdjustVAT && header.VATAmountOverride != nil:
		vatAmount = *header.VATAmountOverride
	case header.IncludeVAT:
		// Prices carry VAT already, so the VAT portion is extracted
		// from the base rather than added on top of it.
		vatAmount = vatBase.Mul(header.VATRate).Div(hundred.Add(header.VATRate))
	default:
		vatAmount = types.Percent(vatBase, header.VATRate)
	}

	var grandTotal types.Money
	if header.IncludeVAT {
		grandTotal = totalAfterDiscount
	} else {
		grandTotal = totalAfterDiscount.Add(vatAmount)
	}

	t := Totals{
		Lines: make([]LineResult, len(lines)),

		TotalAmount:        types.RoundMoney(totalAmount, header.CurrencyDigits),
		DiscountAmount:     types.RoundMoney(discountAmount, header.CurrencyDigits),
		TotalAfterDiscount: types.RoundMoney(totalAfterDiscount, header.CurrencyDigits),
		VATBase:            types.RoundMoney(vatBase, header.CurrencyDigits),
		VATAmount:          types.RoundMoney(vatAmount, header.CurrencyDigits),
		GrandTotal:         types.RoundMoney(grandTotal, header.CurrencyDigits),
	}

	// Each local field is its own conversion of the rounded currency field,
	// never derived from another local field.
	t.TotalAmountLocal = types.ToLocal(t.TotalAmount, rate, header.LocalDigits)
	t.DiscountAmountLocal = types.ToLocal(t.DiscountAmount, rate, header.LocalDigits)
	t.TotalAfterDiscountLocal = types.ToLocal(t.TotalAfterDiscount, rate, header.LocalDigits)
	t.VATBaseLocal = types.ToLocal(t.VATBase, rate, header.LocalDigits)
	t.VATAmountLocal = types.ToLocal(t.VATAmount, rate, header.LocalDigits)
	t.GrandTotalLocal = types.ToLocal(t.GrandTotal, rate, header.LocalDigits)

	for i, f := range figures {
		t.Lines[i] = lineResult(f, header)
	}

	return t
}

func normalizeRate(rate types.Money) types.Money {
	if rate.Sign() <= 0 {
		return decimal.NewFromInt(1)
	}
	return rate
}
