package order

import (
	"context"

	"storefront/internal/domain"
)

// Filter narrows admin order listings. Zero values match everything.
type Filter struct {
	Status    domain.OrderStatus
	OrderType domain.OrderType
	Limit     int
	Offset    int
}

// Repository stores orders. Apart from UpdateStatus, stored orders are never modified.
type Repository interface {
	Create(ctx context.Context, o domain.Order) (string, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
	List(ctx context.Context, f Filter) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) (*domain.Order, error)
	Stats(ctx context.Context) (*domain.OrderStats, error)
}
