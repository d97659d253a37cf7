package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"purchasing/internal/core/types"
)

func m(s string) types.Money { return types.MustMoney(s) }

func eq(t *testing.T, want string, got types.Money, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, m(want).Equal(got), "want %s, got %s %v", want, got, msgAndArgs)
}

func baseHeader() Header {
	return Header{
		VATRate:        m("7"),
		ExchangeRate:   m("1"),
		CurrencyDigits: 2,
		LocalDigits:    2,
	}
}

func TestParseDiscount(t *testing.T) {
	tests := []struct {
		token string
		kind  DiscountKind
		value string
	}{
		{"10%", DiscountPercent, "10"},
		{" 12.5 % ", DiscountPercent, "12.5"},
		{"100", DiscountAmount, "100"},
		{"1,500.25", DiscountAmount, "1500.25"},
		{"-50", DiscountAmount, "-50"},
		{"", DiscountAmount, "0"},
		{"%", DiscountPercent, "0"},
		{"abc", DiscountAmount, "0"},
		{"1x0%", DiscountPercent, "0"},
	}

	for _, tt := range tests {
		d := ParseDiscount(tt.token)
		assert.Equal(t, tt.kind, d.Kind, "kind of %q", tt.token)
		assert.True(t, m(tt.value).Equal(d.Value), "value of %q: got %s", tt.token, d.Value)
	}
}

func TestComputeLinePercentDiscount(t *testing.T) {
	line := Line{Quantity: m("10"), UnitPrice: m("100"), Discount: "10%"}
	r := ComputeLine(line, baseHeader())

	eq(t, "1000", r.LineAmount)
	eq(t, "100", r.DiscountAmount)
	eq(t, "900", r.AmountAfterDiscount)
}

func TestComputeLineFlatDiscountDoesNotScale(t *testing.T) {
	line := Line{Quantity: m("10"), UnitPrice: m("100"), Discount: "100"}
	r := ComputeLine(line, baseHeader())

	eq(t, "1000", r.LineAmount)
	eq(t, "100", r.DiscountAmount)
	eq(t, "900", r.AmountAfterDiscount)

	// same token, different quantity: flat deduction stays 100
	line.Quantity = m("2")
	r = ComputeLine(line, baseHeader())
	eq(t, "200", r.LineAmount)
	eq(t, "100", r.DiscountAmount)
	eq(t, "100", r.AmountAfterDiscount)
}

func TestComputeLineFlatDiscountMayGoNegative(t *testing.T) {
	line := Line{Quantity: m("1"), UnitPrice: m("30"), Discount: "50"}
	r := ComputeLine(line, baseHeader())

	eq(t, "-20", r.AmountAfterDiscount)
}

func TestComputeTotalsEndToEnd(t *testing.T) {
	// 10 × 100 with a 10% line discount at 7% VAT
	lines := []Line{{Quantity: m("10"), UnitPrice: m("100"), Discount: "10%"}}
	totals := ComputeTotals(lines, baseHeader())

	eq(t, "1000", totals.Lines[0].LineAmount)
	eq(t, "100", totals.Lines[0].DiscountAmount)
	eq(t, "900", totals.Lines[0].AmountAfterDiscount)

	eq(t, "1000", totals.TotalAmount)
	eq(t, "0", totals.DiscountAmount)
	eq(t, "900", totals.TotalAfterDiscount)
	eq(t, "900", totals.VATBase)
	eq(t, "63.00", totals.VATAmount)
	eq(t, "963.00", totals.GrandTotal)
}

func TestComputeTotalsLineAndHeaderDiscountWithExcludedLine(t *testing.T) {
	lines := []Line{
		{Quantity: m("10"), UnitPrice: m("100"), Discount: "10%"},
		{Quantity: m("1"), UnitPrice: m("300"), VATExcluded: true},
	}
	header := baseHeader()
	header.Discount = "50"

	totals := ComputeTotals(lines, header)

	eq(t, "1300", totals.TotalAmount)
	// header discount deducts from the after-line-discount subtotal 1200
	eq(t, "50", totals.DiscountAmount)
	eq(t, "1150", totals.TotalAfterDiscount)
	eq(t, "850", totals.VATBase)
	eq(t, "59.50", totals.VATAmount)
	eq(t, "1209.50", totals.GrandTotal)
}

func TestComputeTotalsFlatHeaderDiscount(t *testing.T) {
	lines := []Line{
		{Quantity: m("1"), UnitPrice: m("450")},
		{Quantity: m("1"), UnitPrice: m("450")},
	}
	header := baseHeader()
	header.Discount = "50"

	totals := ComputeTotals(lines, header)

	eq(t, "900", totals.TotalAmount)
	eq(t, "50", totals.DiscountAmount)
	eq(t, "850", totals.TotalAfterDiscount)
	eq(t, "850", totals.VATBase)
	eq(t, "59.50", totals.VATAmount)
	eq(t, "909.50", totals.GrandTotal)
}

func TestComputeTotalsPercentHeaderDiscount(t *testing.T) {
	lines := []Line{{Quantity: m("1"), UnitPrice: m("1000")}}
	header := baseHeader()
	header.Discount = "10%"

	totals := ComputeTotals(lines, header)

	eq(t, "100", totals.DiscountAmount)
	eq(t, "900", totals.TotalAfterDiscount)
	eq(t, "63.00", totals.VATAmount)
	eq(t, "963.00", totals.GrandTotal)
}

func TestComputeTotalsVATExcludedLines(t *testing.T) {
	lines := []Line{
		{Quantity: m("1"), UnitPrice: m("500")},
		{Quantity: m("1"), UnitPrice: m("300"), VATExcluded: true},
	}
	totals := ComputeTotals(lines, baseHeader())

	eq(t, "800", totals.TotalAmount)
	eq(t, "500", totals.VATBase)
	eq(t, "35.00", totals.VATAmount)
	// excluded line still contributes to the grand total
	eq(t, "835.00", totals.GrandTotal)
}

func TestComputeTotalsAdjustVATOverrides(t *testing.T) {
	lines := []Line{{Quantity: m("1"), UnitPrice: m("1000")}}
	header := baseHeader()
	header.AdjustVAT = true
	header.VATBaseOverride = m("800")

	totals := ComputeTotals(lines, header)
	eq(t, "800", totals.VATBase)
	eq(t, "56.00", totals.VATAmount)

	override := m("55.55")
	header.VATAmountOverride = &override
	totals = ComputeTotals(lines, header)
	eq(t, "800", totals.VATBase)
	eq(t, "55.55", totals.VATAmount)
	eq(t, "1055.55", totals.GrandTotal)
}

func TestComputeTotalsIncludeVAT(t *testing.T) {
	lines := []Line{{Quantity: m("1"), UnitPrice: m("107")}}
	totals := ComputeTotals(lines, baseHeader())
	eq(t, "7.49", totals.VATAmount)

	header := baseHeader()
	header.IncludeVAT = true
	totals = ComputeTotals(lines, header)
	// VAT extracted from the price: 107 * 7 / 107 = 7
	eq(t, "7.00", totals.VATAmount)
	eq(t, "107", totals.GrandTotal)
}

func TestComputeTotalsLocalCurrencyPerFieldRounding(t *testing.T) {
	lines := []Line{{Quantity: m("3"), UnitPrice: m("33.335")}}
	header := baseHeader()
	header.ExchangeRate = m("35.125")

	totals := ComputeTotals(lines, header)

	// each local field is round(currencyField * rate, 2) independently
	assert.True(t, totals.TotalAmountLocal.Equal(
		types.ToLocal(totals.TotalAmount, m("35.125"), 2)))
	assert.True(t, totals.VATAmountLocal.Equal(
		types.ToLocal(totals.VATAmount, m("35.125"), 2)))
	assert.True(t, totals.GrandTotalLocal.Equal(
		types.ToLocal(totals.GrandTotal, m("35.125"), 2)))
}

func TestComputeTotalsRateOneIdentity(t *testing.T) {
	lines := []Line{
		{Quantity: m("2"), UnitPrice: m("123.45"), Discount: "5%"},
		{Quantity: m("1"), UnitPrice: m("10"), VATExcluded: true},
	}
	totals := ComputeTotals(lines, baseHeader())

	assert.True(t, totals.TotalAmount.Equal(totals.TotalAmountLocal))
	assert.True(t, totals.TotalAfterDiscount.Equal(totals.TotalAfterDiscountLocal))
	assert.True(t, totals.VATAmount.Equal(totals.VATAmountLocal))
	assert.True(t, totals.GrandTotal.Equal(totals.GrandTotalLocal))
}

func TestComputeTotalsIdempotent(t *testing.T) {
	lines := []Line{
		{Quantity: m("10"), UnitPrice: m("99.99"), Discount: "7.5%"},
		{Quantity: m("4"), UnitPrice: m("25"), Discount: "13"},
	}
	header := baseHeader()
	header.Discount = "2%"
	header.ExchangeRate = m("31.07")

	a := ComputeTotals(lines, header)
	b := ComputeTotals(lines, header)
	assert.Equal(t, a, b)
}

func TestComputeTotalsEmptyLines(t *testing.T) {
	totals := ComputeTotals(nil, baseHeader())

	eq(t, "0", totals.TotalAmount)
	eq(t, "0", totals.VATAmount)
	eq(t, "0", totals.GrandTotal)
	assert.Empty(t, totals.Lines)
}
