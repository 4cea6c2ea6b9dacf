package cart

import (
	"context"

	"storefront/internal/domain"
)

// Repository stores one cart per owner key. Save replaces the stored cart (last write wins).
type Repository interface {
	Get(ctx context.Context, ownerKey string) (*domain.Cart, error)
	Save(ctx context.Context, cart domain.Cart) error
	Delete(ctx context.Context, ownerKey string) error
}
