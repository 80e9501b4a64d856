package cart

import "math"

const (
	// DefaultTaxRate is the flat GST rate applied to the subtotal.
	DefaultTaxRate = 0.18
	// DefaultShippingFlat is charged on any non-empty cart.
	DefaultShippingFlat = 50.0
)

// Totals is the output of the pricing calculator. Values are unrounded;
// apply Round2 at presentation time only.
type Totals struct {
	Subtotal   float64 `json:"subtotal"`
	Tax        float64 `json:"tax"`
	Shipping   float64 `json:"shipping"`
	GrandTotal float64 `json:"grand_total"`
}

// ComputeTotals derives subtotal, tax, shipping and grand total from a set of
// line items using the default rates. It is deterministic and side-effect
// free: identical inputs always produce identical outputs.
func ComputeTotals(items []LineItem) Totals {
	return ComputeTotalsWith(items, DefaultTaxRate, DefaultShippingFlat)
}

// ComputeTotalsWith is ComputeTotals with explicit tax rate and flat
// shipping charge.
func ComputeTotalsWith(items []LineItem, taxRate, shippingFlat float64) Totals {
	var subtotal float64
	for _, item := range items {
		subtotal += item.UnitPrice * float64(item.Quantity)
	}

	shipping := 0.0
	if len(items) > 0 {
		shipping = shippingFlat
	}

	tax := subtotal * taxRate
	return Totals{
		Subtotal:   subtotal,
		Tax:        tax,
		Shipping:   shipping,
		GrandTotal: subtotal + tax + shipping,
	}
}

// Round2 rounds to two decimal places for display.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
