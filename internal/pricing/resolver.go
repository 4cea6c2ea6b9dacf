// Package pricing selects per-viewer unit prices and derives cart aggregates.
package pricing

import (
	"storefront/internal/domain"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// BadgeMode controls whether the discount badge depends on the viewer.
type BadgeMode string

const (
	// BadgeRetail computes the badge from retail prices for every viewer.
	BadgeRetail BadgeMode = "retail"
	// BadgeRoleAware hides the badge for resellers, whose price is not the discounted one.
	BadgeRoleAware BadgeMode = "role-aware"
)

// ResolveUnitPrice picks the price a viewer with role pays for one unit of p.
func ResolveUnitPrice(p domain.ProductSnapshot, role domain.Role) decimal.Decimal {
	if role == domain.RoleReseller {
		return p.ResellerPrice
	}
	if p.OnOffer && present(p.DiscountPrice) {
		return p.DiscountPrice.Decimal
	}
	if present(p.SellingPrice) {
		return p.SellingPrice.Decimal
	}
	return p.RetailPrice
}

// ResolveDiscountPercent returns the whole-number discount badge for p, in [0, 100].
func ResolveDiscountPercent(p domain.ProductSnapshot) int {
	retail := p.RetailPrice
	if retail.IsPositive() {
		if present(p.SellingPrice) && p.SellingPrice.Decimal.LessThan(retail) {
			return percentOff(retail, p.SellingPrice.Decimal)
		}
		if p.OnOffer && present(p.DiscountPrice) {
			return percentOff(retail, p.DiscountPrice.Decimal)
		}
	}
	return clampPercent(p.Discount)
}

// DiscountBadge applies mode on top of ResolveDiscountPercent.
func DiscountBadge(p domain.ProductSnapshot, role domain.Role, mode BadgeMode) int {
	if mode == BadgeRoleAware && role == domain.RoleReseller {
		return 0
	}
	return ResolveDiscountPercent(p)
}

// ShowOfferPrice reports whether the viewer is charged the offer price.
func ShowOfferPrice(p domain.ProductSnapshot, role domain.Role) bool {
	return role != domain.RoleReseller && p.OnOffer && present(p.DiscountPrice)
}

func percentOff(retail, price decimal.Decimal) int {
	pct := retail.Sub(price).Div(retail).Mul(hundred).Round(0)
	return clampPercent(int(pct.IntPart()))
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// present treats a missing or non-positive price as absent.
func present(d decimal.NullDecimal) bool {
	return d.Valid && d.Decimal.IsPositive()
}
