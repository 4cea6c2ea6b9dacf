package cart

import (
	"context"
	"sync"

	"storefront/internal/domain"
)

type memoryRepo struct {
	mu    sync.RWMutex
	carts map[string]domain.Cart
}

// NewMemory keeps guest carts for the lifetime of the process.
func NewMemory() Repository {
	return &memoryRepo{carts: make(map[string]domain.Cart)}
}

func (r *memoryRepo) Get(_ context.Context, ownerKey string) (*domain.Cart, error) {
	r.mu.RLock()
	c, ok := r.carts[ownerKey]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c.Clone(), nil
}

func (r *memoryRepo) Save(_ context.Context, c domain.Cart) error {
	stored := c.Clone()
	r.mu.Lock()
	r.carts[c.OwnerKey] = *stored
	r.mu.Unlock()
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, ownerKey string) error {
	r.mu.Lock()
	delete(r.carts, ownerKey)
	r.mu.Unlock()
	return nil
}
