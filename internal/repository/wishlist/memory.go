package wishlist

import (
	"context"
	"slices"
	"sync"
)

type memoryRepo struct {
	mu    sync.RWMutex
	items map[string][]string
}

// NewMemory keeps guest wishlists for the lifetime of the process.
func NewMemory() Repository {
	return &memoryRepo{items: make(map[string][]string)}
}

func (r *memoryRepo) List(_ context.Context, ownerKey string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string{}, r.items[ownerKey]...), nil
}

func (r *memoryRepo) Add(_ context.Context, ownerKey, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !slices.Contains(r.items[ownerKey], productID) {
		r.items[ownerKey] = append(r.items[ownerKey], productID)
	}
	return nil
}

func (r *memoryRepo) Remove(_ context.Context, ownerKey, productID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := r.items[ownerKey]
	idx := slices.Index(ids, productID)
	if idx < 0 {
		return false, nil
	}
	r.items[ownerKey] = slices.Delete(slices.Clone(ids), idx, idx+1)
	return true, nil
}

func (r *memoryRepo) Delete(_ context.Context, ownerKey string) error {
	r.mu.Lock()
	delete(r.items, ownerKey)
	r.mu.Unlock()
	return nil
}
