package product

import (
	"sort"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/pricing"

	"github.com/shopspring/decimal"
)

// Sort keys accepted by List.
const (
	SortName      = "name"
	SortNewest    = "newest"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortRating    = "rating"
	SortPopular   = "popular"
)

// Query holds catalog filters. Zero values disable a filter.
type Query struct {
	Search    string
	Category  string
	MinPrice  decimal.NullDecimal
	MaxPrice  decimal.NullDecimal
	MinRating float64
	Tags      []string
	OnOffer   bool
	InStock   bool
	Sort      string
}

// Filter returns the products matching q. Price bounds apply to the retail price.
func Filter(products []domain.Product, q Query) []domain.Product {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if search != "" && !matchesSearch(p, search) {
			continue
		}
		if q.Category != "" && !strings.EqualFold(p.Category, q.Category) {
			continue
		}
		if q.OnOffer && !p.OnOffer {
			continue
		}
		if q.InStock && p.Stock < 1 {
			continue
		}
		if q.MinRating > 0 && p.Rating < q.MinRating {
			continue
		}
		if len(q.Tags) > 0 && !hasAnyTag(p.Tags, q.Tags) {
			continue
		}
		if q.MinPrice.Valid && p.RetailPrice.LessThan(q.MinPrice.Decimal) {
			continue
		}
		if q.MaxPrice.Valid && p.RetailPrice.GreaterThan(q.MaxPrice.Decimal) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Sort orders products in place. Price keys use the viewer's unit price; unknown keys sort by name.
func Sort(products []domain.Product, role domain.Role, key string) {
	price := func(p domain.Product) decimal.Decimal {
		return pricing.ResolveUnitPrice(p.Snapshot(), role)
	}
	var less func(a, b domain.Product) bool
	switch key {
	case SortNewest:
		less = func(a, b domain.Product) bool { return a.CreatedAt.After(b.CreatedAt) }
	case SortPriceLow:
		less = func(a, b domain.Product) bool { return price(a).LessThan(price(b)) }
	case SortPriceHigh:
		less = func(a, b domain.Product) bool { return price(a).GreaterThan(price(b)) }
	case SortRating:
		less = func(a, b domain.Product) bool { return a.Rating > b.Rating }
	case SortPopular:
		less = func(a, b domain.Product) bool { return a.Reviews > b.Reviews }
	default:
		less = func(a, b domain.Product) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	}
	sort.SliceStable(products, func(i, j int) bool { return less(products[i], products[j]) })
}

func matchesSearch(p domain.Product, needle string) bool {
	if strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) ||
		strings.Contains(strings.ToLower(p.Category), needle) {
		return true
	}
	for _, t := range p.Tags {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}

func hasAnyTag(tags, wanted []string) bool {
	for _, w := range wanted {
		for _, t := range tags {
			if strings.EqualFold(t, w) {
				return true
			}
		}
	}
	return false
}
