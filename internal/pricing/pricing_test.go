package pricing

import (
	"testing"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func opt(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(s))
}

func TestResolveUnitPrice(t *testing.T) {
	tests := []struct {
		name    string
		product domain.ProductSnapshot
		role    domain.Role
		want    string
	}{
		{
			name:    "reseller ignores offer",
			product: domain.ProductSnapshot{RetailPrice: dec("1000"), ResellerPrice: dec("700"), OnOffer: true, DiscountPrice: opt("800")},
			role:    domain.RoleReseller,
			want:    "700",
		},
		{
			name:    "offer beats selling price",
			product: domain.ProductSnapshot{RetailPrice: dec("1000"), ResellerPrice: dec("700"), OnOffer: true, DiscountPrice: opt("800"), SellingPrice: opt("900")},
			role:    domain.RoleCustomer,
			want:    "800",
		},
		{
			name:    "selling price without offer",
			product: domain.ProductSnapshot{RetailPrice: dec("1000"), OnOffer: false, DiscountPrice: opt("800"), SellingPrice: opt("900")},
			role:    domain.RoleCustomer,
			want:    "900",
		},
		{
			name:    "retail fallback",
			product: domain.ProductSnapshot{RetailPrice: dec("1000")},
			role:    domain.RoleCustomer,
			want:    "1000",
		},
		{
			name:    "offer flag without discount price",
			product: domain.ProductSnapshot{RetailPrice: dec("1000"), OnOffer: true, SellingPrice: opt("950")},
			role:    domain.RoleCustomer,
			want:    "950",
		},
		{
			name:    "zero selling price counts as absent",
			product: domain.ProductSnapshot{RetailPrice: dec("1000"), SellingPrice: opt("0")},
			role:    domain.RoleCustomer,
			want:    "1000",
		},
		{
			name:    "admin prices as customer",
			product: domain.ProductSnapshot{RetailPrice: dec("1000"), ResellerPrice: dec("700"), OnOffer: true, DiscountPrice: opt("800")},
			role:    domain.RoleAdmin,
			want:    "800",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveUnitPrice(tc.product, tc.role)
			assert.True(t, dec(tc.want).Equal(got), "want %s got %s", tc.want, got)
		})
	}
}

func TestResolveDiscountPercent(t *testing.T) {
	tests := []struct {
		name    string
		product domain.ProductSnapshot
		want    int
	}{
		{
			name:    "selling below retail",
			product: domain.ProductSnapshot{RetailPrice: dec("1000"), SellingPrice: opt("900")},
			want:    10,
		},
		{
			name:    "rounds half up",
			product: domain.ProductSnapshot{RetailPrice: dec("200"), SellingPrice: opt("171")},
			want:    15,
		},
		{
			name:    "selling above retail falls through to offer",
			product: domain.ProductSnapshot{RetailPrice: dec("1000"), SellingPrice: opt("1100"), OnOffer: true, DiscountPrice: opt("750")},
			want:    25,
		},
		{
			name:    "offer discount",
			product: domain.ProductSnapshot{RetailPrice: dec("999"), OnOffer: true, DiscountPrice: opt("666")},
			want:    33,
		},
		{
			name:    "stored discount field",
			product: domain.ProductSnapshot{RetailPrice: dec("1000"), Discount: 12},
			want:    12,
		},
		{
			name:    "nothing applies",
			product: domain.ProductSnapshot{RetailPrice: dec("1000")},
			want:    0,
		},
		{
			name:    "stored discount clamped",
			product: domain.ProductSnapshot{Discount: 140},
			want:    100,
		},
		{
			name:    "discount price above retail clamps to zero",
			product: domain.ProductSnapshot{RetailPrice: dec("100"), OnOffer: true, DiscountPrice: opt("120")},
			want:    0,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ResolveDiscountPercent(tc.product))
		})
	}
}

func TestDiscountBadge_RoleAwareHidesResellerBadge(t *testing.T) {
	p := domain.ProductSnapshot{RetailPrice: dec("1000"), ResellerPrice: dec("700"), SellingPrice: opt("900")}
	assert.Equal(t, 10, DiscountBadge(p, domain.RoleReseller, BadgeRetail))
	assert.Equal(t, 0, DiscountBadge(p, domain.RoleReseller, BadgeRoleAware))
	assert.Equal(t, 10, DiscountBadge(p, domain.RoleCustomer, BadgeRoleAware))
}

func line(price string, qty int) domain.CartLine {
	return domain.CartLine{
		Product:  domain.ProductSnapshot{ID: price, RetailPrice: dec(price), ResellerPrice: dec(price), Stock: 100},
		Quantity: qty,
	}
}

func TestComputeAggregates_FreeShippingBoundary(t *testing.T) {
	policy := DefaultPolicy()

	atThreshold := ComputeAggregates([]domain.CartLine{line("999.00", 1)}, domain.RoleCustomer, policy)
	assert.True(t, dec("50").Equal(atThreshold.Shipping), "got %s", atThreshold.Shipping)

	above := ComputeAggregates([]domain.CartLine{line("999.01", 1)}, domain.RoleCustomer, policy)
	assert.True(t, above.Shipping.IsZero(), "got %s", above.Shipping)
}

func TestComputeAggregates_Tax(t *testing.T) {
	got := ComputeAggregates([]domain.CartLine{line("250", 4)}, domain.RoleCustomer, DefaultPolicy())
	assert.True(t, dec("1000").Equal(got.Subtotal))
	assert.True(t, dec("180.00").Equal(got.Tax), "got %s", got.Tax)
	assert.True(t, dec("1180").Equal(got.Total), "got %s", got.Total)
	assert.Equal(t, 4, got.ItemCount)
}

func TestComputeAggregates_IsPure(t *testing.T) {
	lines := []domain.CartLine{line("120.50", 2), line("80", 3)}
	first := ComputeAggregates(lines, domain.RoleCustomer, DefaultPolicy())
	second := ComputeAggregates(lines, domain.RoleCustomer, DefaultPolicy())
	require.True(t, first.Total.Equal(second.Total))
	assert.True(t, first.Subtotal.Equal(second.Subtotal))
	assert.True(t, first.Tax.Equal(second.Tax))
	assert.True(t, first.Shipping.Equal(second.Shipping))
	assert.Equal(t, first.ItemCount, second.ItemCount)
}

func TestComputeAggregates_UsesRolePrices(t *testing.T) {
	l := domain.CartLine{
		Product:  domain.ProductSnapshot{RetailPrice: dec("1000"), ResellerPrice: dec("700"), Stock: 5},
		Quantity: 2,
	}
	reseller := ComputeAggregates([]domain.CartLine{l}, domain.RoleReseller, DefaultPolicy())
	customer := ComputeAggregates([]domain.CartLine{l}, domain.RoleCustomer, DefaultPolicy())
	assert.True(t, dec("1400").Equal(reseller.Subtotal))
	assert.True(t, dec("2000").Equal(customer.Subtotal))
}

func TestComputeAggregates_CustomPolicy(t *testing.T) {
	policy := Policy{FreeShippingThreshold: dec("500"), ShippingFee: dec("40"), TaxRate: dec("0.05")}
	got := ComputeAggregates([]domain.CartLine{line("400", 1)}, domain.RoleCustomer, policy)
	assert.True(t, dec("40").Equal(got.Shipping))
	assert.True(t, dec("20").Equal(got.Tax))
	assert.True(t, dec("460").Equal(got.Total))
}
