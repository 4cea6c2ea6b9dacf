package cart

import (
	"context"
	"errors"
	"strings"
	"time"

	"storefront/internal/domain"
	"storefront/internal/pricing"
	cartrepo "storefront/internal/repository/cart"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Service manages carts. Signed-in carts live in accounts storage and guest carts in guests storage.
type Service struct {
	accounts cartrepo.Repository
	guests   cartrepo.Repository
	products catalog
	policy   pricing.Policy
	locks    *keyedMutex
	logger   zerolog.Logger
	now      func() time.Time
}

type catalog interface {
	Snapshot(ctx context.Context, id string) (domain.ProductSnapshot, error)
}

func New(accounts, guests cartrepo.Repository, products catalog, policy pricing.Policy, logger zerolog.Logger) *Service {
	return &Service{
		accounts: accounts,
		guests:   guests,
		products: products,
		policy:   policy,
		locks:    newKeyedMutex(),
		logger:   logger.With().Str("service", "cart").Logger(),
		now:      time.Now,
	}
}

// LineView is a cart line priced for the viewer.
type LineView struct {
	domain.CartLine
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// View is the cart as shown to its owner.
type View struct {
	Lines     []LineView     `json:"lines"`
	Totals    pricing.Totals `json:"totals"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (s *Service) Get(ctx context.Context, viewer domain.Viewer) (*View, error) {
	c, err := s.Load(ctx, viewer)
	if err != nil {
		return nil, err
	}
	return s.view(c, viewer.Role), nil
}

// Add puts qty units of productID into the viewer's cart, merging with an existing line.
func (s *Service) Add(ctx context.Context, viewer domain.Viewer, productID string, qty int) (*View, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, domain.NewValidationError("productId", "productId required")
	}
	p, err := s.products.Snapshot(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, viewer, func(c *domain.Cart, now time.Time) error {
		_, err := c.Add(p, qty, now)
		return err
	})
}

// UpdateQuantity sets a line's quantity. Quantities below 1 remove the line.
func (s *Service) UpdateQuantity(ctx context.Context, viewer domain.Viewer, productID string, qty int) (*View, error) {
	return s.mutate(ctx, viewer, func(c *domain.Cart, now time.Time) error {
		_, err := c.UpdateQuantity(productID, qty, now)
		return err
	})
}

func (s *Service) Remove(ctx context.Context, viewer domain.Viewer, productID string) (*View, error) {
	return s.mutate(ctx, viewer, func(c *domain.Cart, now time.Time) error {
		if !c.Remove(productID, now) {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (s *Service) Clear(ctx context.Context, viewer domain.Viewer) error {
	_, err := s.mutate(ctx, viewer, func(c *domain.Cart, now time.Time) error {
		c.Clear(now)
		return nil
	})
	return err
}

// RemoveOrdered takes the ordered lines out of the viewer's cart. Lines added or
// increased after ordered was read keep their extra units.
func (s *Service) RemoveOrdered(ctx context.Context, viewer domain.Viewer, ordered []domain.CartLine) error {
	_, err := s.mutate(ctx, viewer, func(c *domain.Cart, now time.Time) error {
		for _, o := range ordered {
			cur, ok := c.Line(o.Product.ID)
			if !ok {
				continue
			}
			if cur.Quantity > o.Quantity {
				if _, err := c.UpdateQuantity(o.Product.ID, cur.Quantity-o.Quantity, now); err != nil {
					return err
				}
				continue
			}
			c.Remove(o.Product.ID, now)
		}
		return nil
	})
	return err
}

// Discard deletes the viewer's stored cart.
func (s *Service) Discard(ctx context.Context, viewer domain.Viewer) error {
	key, repo, err := s.route(viewer)
	if err != nil {
		return err
	}
	unlock := s.locks.Lock(key)
	defer unlock()
	if err := repo.Delete(ctx, key); err != nil {
		s.logger.Error().Err(err).Str("owner", key).Msg("delete cart")
		return err
	}
	return nil
}

// Load returns a copy of the viewer's cart, empty when none was stored yet.
func (s *Service) Load(ctx context.Context, viewer domain.Viewer) (*domain.Cart, error) {
	key, repo, err := s.route(viewer)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, repo, key)
}

// Totals prices lines for role under the configured policy.
func (s *Service) Totals(lines []domain.CartLine, role domain.Role) pricing.Totals {
	return pricing.ComputeAggregates(lines, role, s.policy)
}

func (s *Service) mutate(ctx context.Context, viewer domain.Viewer, fn func(*domain.Cart, time.Time) error) (*View, error) {
	key, repo, err := s.route(viewer)
	if err != nil {
		return nil, err
	}
	unlock := s.locks.Lock(key)
	defer unlock()

	c, err := s.load(ctx, repo, key)
	if err != nil {
		return nil, err
	}
	if err := fn(c, s.now()); err != nil {
		return nil, err
	}
	if err := repo.Save(ctx, *c); err != nil {
		s.logger.Error().Err(err).Str("owner", key).Msg("save cart")
		return nil, err
	}
	return s.view(c, viewer.Role), nil
}

func (s *Service) load(ctx context.Context, repo cartrepo.Repository, key string) (*domain.Cart, error) {
	c, err := repo.Get(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewCart(key), nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) route(viewer domain.Viewer) (string, cartrepo.Repository, error) {
	key := viewer.OwnerKey()
	if key == "" {
		return "", nil, domain.NewValidationError("session", "no cart session")
	}
	if viewer.IsGuest() {
		return key, s.guests, nil
	}
	return key, s.accounts, nil
}

func (s *Service) view(c *domain.Cart, role domain.Role) *View {
	lines := make([]LineView, 0, len(c.Lines))
	for _, l := range c.Lines {
		lines = append(lines, LineView{
			CartLine:  l,
			UnitPrice: pricing.ResolveUnitPrice(l.Product, role),
			LineTotal: pricing.LineTotal(l, role),
		})
	}
	return &View{
		Lines:     lines,
		Totals:    s.Totals(c.Lines, role),
		UpdatedAt: c.UpdatedAt,
	}
}
