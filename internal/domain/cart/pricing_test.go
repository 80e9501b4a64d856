package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotals_WorkedExample(t *testing.T) {
	items := []LineItem{
		{ID: "i1", ProductID: "p1", Quantity: 2, UnitPrice: 1299},
	}

	totals := ComputeTotals(items)

	assert.InDelta(t, 2598.00, Round2(totals.Subtotal), 0.001)
	assert.InDelta(t, 467.64, Round2(totals.Tax), 0.001)
	assert.InDelta(t, 50.00, Round2(totals.Shipping), 0.001)
	assert.InDelta(t, 3115.64, Round2(totals.GrandTotal), 0.001)
}

func TestComputeTotals_EmptyCart(t *testing.T) {
	totals := ComputeTotals(nil)

	assert.Zero(t, totals.Subtotal)
	assert.Zero(t, totals.Tax)
	assert.Zero(t, totals.Shipping)
	assert.Zero(t, totals.GrandTotal)
}

func TestComputeTotals_ShippingChargedOnAnyNonEmptyCart(t *testing.T) {
	small := ComputeTotals([]LineItem{{Quantity: 1, UnitPrice: 0.01}})
	large := ComputeTotals([]LineItem{{Quantity: 100, UnitPrice: 999.99}})

	assert.Equal(t, DefaultShippingFlat, small.Shipping)
	assert.Equal(t, DefaultShippingFlat, large.Shipping)
}

func TestComputeTotals_Deterministic(t *testing.T) {
	items := []LineItem{
		{ProductID: "a", Quantity: 3, UnitPrice: 19.99},
		{ProductID: "b", Quantity: 1, UnitPrice: 450},
	}

	first := ComputeTotals(items)
	second := ComputeTotals(items)

	assert.Equal(t, first, second)
}

func TestComputeTotals_MultipleLines(t *testing.T) {
	items := []LineItem{
		{ProductID: "a", Quantity: 2, UnitPrice: 100},
		{ProductID: "b", Quantity: 1, UnitPrice: 50},
	}

	totals := ComputeTotals(items)

	assert.InDelta(t, 250.0, totals.Subtotal, 0.001)
	assert.InDelta(t, 45.0, totals.Tax, 0.001)
	assert.InDelta(t, 345.0, totals.GrandTotal, 0.001)
}

func TestComputeTotalsWith_CustomRates(t *testing.T) {
	items := []LineItem{{Quantity: 1, UnitPrice: 200}}

	totals := ComputeTotalsWith(items, 0.10, 25)

	assert.InDelta(t, 200.0, totals.Subtotal, 0.001)
	assert.InDelta(t, 20.0, totals.Tax, 0.001)
	assert.InDelta(t, 25.0, totals.Shipping, 0.001)
	assert.InDelta(t, 245.0, totals.GrandTotal, 0.001)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 467.64, Round2(467.64000000000004))
	assert.Equal(t, 0.1, Round2(0.10000000001))
	assert.Equal(t, 2.35, Round2(2.345000001))
}

// Add-then-remove must restore the previous totals exactly.
func TestCartTotals_AddThenRemoveRestoresTotals(t *testing.T) {
	c := &Cart{UserID: "u1", Items: []LineItem{
		{ID: "i1", ProductID: "p1", Quantity: 2, UnitPrice: 1299},
	}}
	c.recompute()
	before := ComputeTotals(c.Items)

	c.Items = append(c.Items, LineItem{ID: "i2", ProductID: "p2", Quantity: 1, UnitPrice: 75})
	c.recompute()
	c.Items = c.Items[:1]
	c.recompute()

	after := ComputeTotals(c.Items)
	assert.Equal(t, before, after)
	assert.Equal(t, 2, c.TotalItems)
	assert.InDelta(t, 2598.0, c.TotalAmount, 0.001)
}
