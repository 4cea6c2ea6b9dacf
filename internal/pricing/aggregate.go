package pricing

import (
	"storefront/internal/domain"

	"github.com/shopspring/decimal"
)

// Policy holds the shipping and tax parameters applied to every cart.
type Policy struct {
	// FreeShippingThreshold is exclusive: shipping is free only above it.
	FreeShippingThreshold decimal.Decimal
	ShippingFee           decimal.Decimal
	TaxRate               decimal.Decimal
	BadgeMode             BadgeMode
}

// DefaultPolicy is free shipping above 999, a flat fee of 50 otherwise, and 18% tax.
func DefaultPolicy() Policy {
	return Policy{
		FreeShippingThreshold: decimal.NewFromInt(999),
		ShippingFee:           decimal.NewFromInt(50),
		TaxRate:               decimal.RequireFromString("0.18"),
		BadgeMode:             BadgeRetail,
	}
}

// Totals are derived from cart lines on every read and never stored on the cart.
type Totals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	Shipping  decimal.Decimal `json:"shipping"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

// LineTotal is the unit price for role times quantity.
func LineTotal(l domain.CartLine, role domain.Role) decimal.Decimal {
	return ResolveUnitPrice(l.Product, role).Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// ComputeAggregates derives subtotal, shipping, tax and total for lines priced for role.
func ComputeAggregates(lines []domain.CartLine, role domain.Role, policy Policy) Totals {
	subtotal := decimal.Zero
	count := 0
	for _, l := range lines {
		subtotal = subtotal.Add(LineTotal(l, role))
		count += l.Quantity
	}
	shipping := policy.ShippingFee
	if subtotal.GreaterThan(policy.FreeShippingThreshold) {
		shipping = decimal.Zero
	}
	tax := subtotal.Mul(policy.TaxRate)
	return Totals{
		Subtotal:  subtotal,
		Shipping:  shipping,
		Tax:       tax,
		Total:     subtotal.Add(shipping).Add(tax),
		ItemCount: count,
	}
}
