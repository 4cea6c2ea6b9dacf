package wishlist

import "context"

// Repository keeps the set of saved product ids per owner key, oldest first.
type Repository interface {
	List(ctx context.Context, ownerKey string) ([]string, error)
	// Add is a no-op when the product is already saved.
	Add(ctx context.Context, ownerKey, productID string) error
	// Remove reports whether the product was saved.
	Remove(ctx context.Context, ownerKey, productID string) (bool, error)
	Delete(ctx context.Context, ownerKey string) error
}
