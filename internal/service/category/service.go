package category

import (
	"context"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/repository/category"
)

type Service struct {
	repo category.Repository
}

func New(repo category.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.Category, error) {
	return s.repo.List(ctx)
}

// Upsert stores c, deriving the slug from the name when it is blank.
func (s *Service) Upsert(ctx context.Context, c domain.Category) (*domain.Category, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return nil, domain.NewValidationError("name", "name required")
	}
	if strings.TrimSpace(c.Slug) == "" {
		c.Slug = category.Slugify(c.Name)
	}
	return s.repo.Upsert(ctx, c)
}
