package product

import (
	"context"
	"sort"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	lowStockBelow = 10
	topProducts   = 5
)

// Stats counts low-stock products, values inventory at retail price and picks the
// best rated products.
func (s *Service) Stats(ctx context.Context) (*domain.ProductStats, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	stats := &domain.ProductStats{
		TotalProducts:       len(products),
		TotalInventoryValue: decimal.Zero,
	}
	for _, p := range products {
		if p.Stock < lowStockBelow {
			stats.LowStockProducts++
		}
		stats.TotalInventoryValue = stats.TotalInventoryValue.Add(p.RetailPrice.Mul(decimal.NewFromInt(int64(p.Stock))))
	}
	sort.SliceStable(products, func(i, j int) bool { return products[i].Rating > products[j].Rating })
	if len(products) > topProducts {
		products = products[:topProducts]
	}
	stats.TopProducts = products
	return stats, nil
}
