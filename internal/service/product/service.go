package product

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/pricing"
	productrepo "storefront/internal/repository/product"
)

type Service struct {
	repo      productrepo.Repository
	badgeMode pricing.BadgeMode
}

func New(repo productrepo.Repository, badgeMode pricing.BadgeMode) *Service {
	return &Service{repo: repo, badgeMode: badgeMode}
}

// View is a product priced for one viewer.
type View struct {
	domain.Product
	UnitPrice         string `json:"unitPrice"`
	DiscountPercent   int    `json:"discountPercent"`
	ShowOfferPrice    bool   `json:"showOfferPrice"`
	ShowResellerBadge bool   `json:"showResellerBadge"`
	InStock           bool   `json:"inStock"`
}

func (s *Service) List(ctx context.Context, viewer domain.Viewer, q Query) ([]View, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	products = Filter(products, q)
	Sort(products, viewer.Role, q.Sort)

	views := make([]View, 0, len(products))
	for _, p := range products {
		views = append(views, s.view(p, viewer.Role))
	}
	return views, nil
}

func (s *Service) Get(ctx context.Context, viewer domain.Viewer, id string) (*View, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v := s.view(*p, viewer.Role)
	return &v, nil
}

// Snapshot loads a product for placing it into a cart.
func (s *Service) Snapshot(ctx context.Context, id string) (domain.ProductSnapshot, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.ProductSnapshot{}, err
	}
	return p.Snapshot(), nil
}

func (s *Service) view(p domain.Product, role domain.Role) View {
	snap := p.Snapshot()
	return View{
		Product:           p,
		UnitPrice:         pricing.ResolveUnitPrice(snap, role).StringFixed(2),
		DiscountPercent:   pricing.DiscountBadge(snap, role, s.badgeMode),
		ShowOfferPrice:    pricing.ShowOfferPrice(snap, role),
		ShowResellerBadge: role == domain.RoleReseller,
		InStock:           p.Stock > 0,
	}
}
