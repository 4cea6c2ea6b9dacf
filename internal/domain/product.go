package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry as stored in the products table.
type Product struct {
	ID                     string              `json:"id"`
	Name                   string              `json:"name"`
	Category               string              `json:"category"`
	SKU                    string              `json:"sku,omitempty"`
	Image                  string              `json:"image,omitempty"`
	Description            string              `json:"description,omitempty"`
	Tags                   []string            `json:"tags,omitempty"`
	Rating                 float64             `json:"rating"`
	Reviews                int                 `json:"reviews"`
	RetailPrice            decimal.Decimal     `json:"retailPrice"`
	ResellerPrice          decimal.Decimal     `json:"resellerPrice"`
	SellingPrice           decimal.NullDecimal `json:"sellingPrice"`
	DiscountPrice          decimal.NullDecimal `json:"discountPrice"`
	CostPrice              decimal.NullDecimal `json:"costPrice"`
	Discount               int                 `json:"discount,omitempty"`
	OnOffer                bool                `json:"onOffer"`
	Stock                  int                 `json:"stock"`
	NeedsCustomerName      bool                `json:"needsCustomerName"`
	NeedsCustomerPhoto     bool                `json:"needsCustomerPhoto"`
	NumberOfImagesRequired int                 `json:"numberOfImagesRequired,omitempty"`
	CreatedAt              time.Time           `json:"createdAt"`
}

// ProductSnapshot is the value copy of a product captured when it enters a cart.
// It holds no slices or maps, so assigning it copies it fully.
type ProductSnapshot struct {
	ID                     string              `json:"id"`
	Name                   string              `json:"name"`
	Category               string              `json:"category,omitempty"`
	Image                  string              `json:"image,omitempty"`
	RetailPrice            decimal.Decimal     `json:"retailPrice"`
	ResellerPrice          decimal.Decimal     `json:"resellerPrice"`
	SellingPrice           decimal.NullDecimal `json:"sellingPrice"`
	DiscountPrice          decimal.NullDecimal `json:"discountPrice"`
	Discount               int                 `json:"discount,omitempty"`
	OnOffer                bool                `json:"onOffer"`
	Stock                  int                 `json:"stock"`
	NeedsCustomerName      bool                `json:"needsCustomerName"`
	NeedsCustomerPhoto     bool                `json:"needsCustomerPhoto"`
	NumberOfImagesRequired int                 `json:"numberOfImagesRequired,omitempty"`
}

// Snapshot captures the pricing and customization fields of p.
func (p Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		ID:                     p.ID,
		Name:                   p.Name,
		Category:               p.Category,
		Image:                  p.Image,
		RetailPrice:            p.RetailPrice,
		ResellerPrice:          p.ResellerPrice,
		SellingPrice:           p.SellingPrice,
		DiscountPrice:          p.DiscountPrice,
		Discount:               p.Discount,
		OnOffer:                p.OnOffer,
		Stock:                  p.Stock,
		NeedsCustomerName:      p.NeedsCustomerName,
		NeedsCustomerPhoto:     p.NeedsCustomerPhoto,
		NumberOfImagesRequired: p.NumberOfImagesRequired,
	}
}

// RequiresCustomization reports whether the buyer must supply a name or photo.
func (s ProductSnapshot) RequiresCustomization() bool {
	return s.NeedsCustomerName || s.NeedsCustomerPhoto
}

// PhotosRequired is the number of photos a buyer must upload for this product.
func (s ProductSnapshot) PhotosRequired() int {
	if !s.NeedsCustomerPhoto {
		return 0
	}
	if s.NumberOfImagesRequired > 1 {
		return s.NumberOfImagesRequired
	}
	return 1
}

// ProductStats summarises the catalog for the admin dashboard.
type ProductStats struct {
	TotalProducts       int             `json:"totalProducts"`
	LowStockProducts    int             `json:"lowStockProducts"`
	TopProducts         []Product       `json:"topProducts"`
	TotalInventoryValue decimal.Decimal `json:"totalInventoryValue"`
}
