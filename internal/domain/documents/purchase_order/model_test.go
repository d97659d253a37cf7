package purchase_order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"purchasing/internal/core/id"
	"purchasing/internal/core/types"
)

func m(s string) types.Money { return types.MustMoney(s) }

func eq(t *testing.T, want string, got types.Money) {
	t.Helper()
	assert.True(t, m(want).Equal(got), "want %s, got %s", want, got)
}

func testOrder() *PurchaseOrder {
	doc := New("C01", id.New())
	doc.Currency = "THB"
	doc.ExchangeRate = m("1")
	doc.VATRate = m("7")
	return doc
}

func TestAddSetRemoveLine(t *testing.T) {
	doc := testOrder()

	n1 := doc.AddLine(Line{ItemID: id.New(), Quantity: m("1"), UnitPrice: m("10")})
	n2 := doc.AddLine(Line{ItemID: id.New(), Quantity: m("2"), UnitPrice: m("20")})
	n3 := doc.AddLine(Line{ItemID: id.New(), Quantity: m("3"), UnitPrice: m("30")})
	assert.Equal(t, []int{1, 2, 3}, []int{n1, n2, n3})

	keptID := doc.Lines[2].LineID
	require.NoError(t, doc.RemoveLine(n2))
	require.Len(t, doc.Lines, 2)

	// remaining lines renumber but keep identity
	assert.Equal(t, 2, doc.Lines[1].LineNo)
	assert.Equal(t, keptID, doc.Lines[1].LineID)

	err := doc.RemoveLine(99)
	assert.Error(t, err)

	updated := Line{ItemID: doc.Lines[0].ItemID, Quantity: m("5"), UnitPrice: m("10")}
	require.NoError(t, doc.SetLine(1, updated))
	eq(t, "5", doc.Lines[0].Quantity)
	assert.Equal(t, 1, doc.Lines[0].LineNo)

	assert.Error(t, doc.SetLine(99, updated))
}

func TestRecalculateLineDiscountScenario(t *testing.T) {
	doc := testOrder()
	doc.AddLine(Line{ItemID: id.New(), Quantity: m("10"), UnitPrice: m("100"), Discount: "10%"})
	doc.Recalculate()

	eq(t, "1000", doc.Lines[0].LineAmount)
	eq(t, "100", doc.Lines[0].DiscountAmount)
	eq(t, "900", doc.Lines[0].AmountAfterDiscount)

	eq(t, "1000", doc.TotalAmount)
	eq(t, "900", doc.TotalAfterDiscount)
	eq(t, "900", doc.VATBase)
	eq(t, "63.00", doc.VATAmount)
	eq(t, "963.00", doc.GrandTotal)
}

func TestRecalculateFlatHeaderDiscountScenario(t *testing.T) {
	doc := testOrder()
	doc.AddLine(Line{ItemID: id.New(), Quantity: m("1"), UnitPrice: m("450")})
	doc.AddLine(Line{ItemID: id.New(), Quantity: m("1"), UnitPrice: m("450")})
	doc.Discount = "50"
	doc.Recalculate()

	eq(t, "900", doc.TotalAmount)
	eq(t, "50", doc.DiscountAmount)
	eq(t, "850", doc.TotalAfterDiscount)
	eq(t, "59.50", doc.VATAmount)
	eq(t, "909.50", doc.GrandTotal)
}

func TestRecalculateIsIdempotent(t *testing.T) {
	doc := testOrder()
	doc.AddLine(Line{ItemID: id.New(), Quantity: m("3"), UnitPrice: m("99.99"), Discount: "5%"})
	doc.ExchangeRate = m("35.25")

	doc.Recalculate()
	first := doc.GrandTotal
	firstLocal := doc.GrandTotalLocal
	doc.Recalculate()

	assert.True(t, first.Equal(doc.GrandTotal))
	assert.True(t, firstLocal.Equal(doc.GrandTotalLocal))
}

func TestSetCurrencyLocalForcesRateOne(t *testing.T) {
	doc := testOrder()
	doc.SetCurrency("USD", m("35.5"), false)
	eq(t, "35.5", doc.ExchangeRate)

	doc.SetCurrency("THB", m("35.5"), true)
	eq(t, "1", doc.ExchangeRate)

	doc.AddLine(Line{ItemID: id.New(), Quantity: m("2"), UnitPrice: m("100")})
	doc.Recalculate()
	assert.True(t, doc.TotalAmount.Equal(doc.TotalAmountLocal))
	assert.True(t, doc.GrandTotal.Equal(doc.GrandTotalLocal))
}

func TestValidate(t *testing.T) {
	ctx := context.Background()

	doc := testOrder()
	doc.AddLine(Line{ItemID: id.New(), Quantity: m("1"), UnitPrice: m("10")})
	assert.NoError(t, doc.Validate(ctx))

	t.Run("missing supplier", func(t *testing.T) {
		d := testOrder()
		d.SupplierID = id.Nil()
		d.AddLine(Line{ItemID: id.New(), Quantity: m("1"), UnitPrice: m("10")})
		assert.Error(t, d.Validate(ctx))
	})

	t.Run("no lines", func(t *testing.T) {
		d := testOrder()
		assert.Error(t, d.Validate(ctx))
	})

	t.Run("nonpositive exchange rate", func(t *testing.T) {
		d := testOrder()
		d.AddLine(Line{ItemID: id.New(), Quantity: m("1"), UnitPrice: m("10")})
		d.ExchangeRate = m("0")
		assert.Error(t, d.Validate(ctx))
	})

	t.Run("negative quantity", func(t *testing.T) {
		d := testOrder()
		d.AddLine(Line{ItemID: id.New(), Quantity: m("-1"), UnitPrice: m("10")})
		assert.Error(t, d.Validate(ctx))
	})

	t.Run("line without item", func(t *testing.T) {
		d := testOrder()
		d.AddLine(Line{Quantity: m("1"), UnitPrice: m("10")})
		assert.Error(t, d.Validate(ctx))
	})
}
