package wishlist

import (
	"context"
	"errors"
	"slices"
	"strings"

	"storefront/internal/domain"
	wishlistrepo "storefront/internal/repository/wishlist"
	productsvc "storefront/internal/service/product"

	"github.com/rs/zerolog"
)

type catalog interface {
	Get(ctx context.Context, viewer domain.Viewer, id string) (*productsvc.View, error)
}

// Service manages saved products. Signed-in wishlists persist in accounts storage and guest
// wishlists live in guests storage until the session ends.
type Service struct {
	accounts wishlistrepo.Repository
	guests   wishlistrepo.Repository
	products catalog
	logger   zerolog.Logger
}

func New(accounts, guests wishlistrepo.Repository, products catalog, logger zerolog.Logger) *Service {
	return &Service{
		accounts: accounts,
		guests:   guests,
		products: products,
		logger:   logger.With().Str("service", "wishlist").Logger(),
	}
}

// View lists saved products priced for the viewer, oldest first.
type View struct {
	Count      int               `json:"count"`
	ProductIDs []string          `json:"productIds"`
	Items      []productsvc.View `json:"items"`
}

// Get resolves saved ids against the catalog. Products that no longer exist are skipped.
func (s *Service) Get(ctx context.Context, viewer domain.Viewer) (*View, error) {
	key, repo, err := s.route(viewer)
	if err != nil {
		return nil, err
	}
	ids, err := repo.List(ctx, key)
	if err != nil {
		return nil, err
	}
	view := &View{ProductIDs: []string{}, Items: []productsvc.View{}}
	for _, id := range ids {
		p, err := s.products.Get(ctx, viewer, id)
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Debug().Str("owner", key).Str("product_id", id).Msg("skip missing wishlist product")
			continue
		}
		if err != nil {
			return nil, err
		}
		view.ProductIDs = append(view.ProductIDs, id)
		view.Items = append(view.Items, *p)
	}
	view.Count = len(view.Items)
	return view, nil
}

// Add saves productID. Saving it twice keeps a single entry.
func (s *Service) Add(ctx context.Context, viewer domain.Viewer, productID string) (*View, error) {
	key, repo, err := s.route(viewer)
	if err != nil {
		return nil, err
	}
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, domain.NewValidationError("productId", "productId required")
	}
	if _, err := s.products.Get(ctx, viewer, productID); err != nil {
		return nil, err
	}
	if err := repo.Add(ctx, key, productID); err != nil {
		s.logger.Error().Err(err).Str("owner", key).Str("product_id", productID).Msg("add to wishlist")
		return nil, err
	}
	return s.Get(ctx, viewer)
}

// Remove drops productID, failing with ErrNotFound when it was not saved.
func (s *Service) Remove(ctx context.Context, viewer domain.Viewer, productID string) (*View, error) {
	key, repo, err := s.route(viewer)
	if err != nil {
		return nil, err
	}
	removed, err := repo.Remove(ctx, key, strings.TrimSpace(productID))
	if err != nil {
		s.logger.Error().Err(err).Str("owner", key).Str("product_id", productID).Msg("remove from wishlist")
		return nil, err
	}
	if !removed {
		return nil, domain.ErrNotFound
	}
	return s.Get(ctx, viewer)
}

// Contains reports whether productID is saved.
func (s *Service) Contains(ctx context.Context, viewer domain.Viewer, productID string) (bool, error) {
	key, repo, err := s.route(viewer)
	if err != nil {
		return false, err
	}
	ids, err := repo.List(ctx, key)
	if err != nil {
		return false, err
	}
	return slices.Contains(ids, strings.TrimSpace(productID)), nil
}

// Discard forgets a guest wishlist when its session ends. Account wishlists are kept.
func (s *Service) Discard(ctx context.Context, viewer domain.Viewer) error {
	if !viewer.IsGuest() {
		return nil
	}
	key, repo, err := s.route(viewer)
	if err != nil {
		return err
	}
	return repo.Delete(ctx, key)
}

func (s *Service) route(viewer domain.Viewer) (string, wishlistrepo.Repository, error) {
	key := viewer.OwnerKey()
	if key == "" {
		return "", nil, domain.NewValidationError("session", "no wishlist session")
	}
	if viewer.IsGuest() {
		return key, s.guests, nil
	}
	return key, s.accounts, nil
}
