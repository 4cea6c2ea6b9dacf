package order

import (
	"context"
	"strings"

	"storefront/internal/domain"
	orderrepo "storefront/internal/repository/order"

	"github.com/rs/zerolog"
)

type Service struct {
	repo   orderrepo.Repository
	logger zerolog.Logger
}

func New(repo orderrepo.Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger.With().Str("service", "order").Logger()}
}

// Get returns an order by id. Anyone holding the id may track it, but contact
// details are only shown to the buyer and to admins.
func (s *Service) Get(ctx context.Context, viewer domain.Viewer, id string) (*domain.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrNotFound
	}
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !o.VisibleTo(viewer) {
		redacted := o.Redacted()
		return &redacted, nil
	}
	return o, nil
}

// ListForViewer returns the signed-in viewer's orders, newest first.
func (s *Service) ListForViewer(ctx context.Context, viewer domain.Viewer) ([]domain.Order, error) {
	if viewer.IsGuest() {
		return []domain.Order{}, nil
	}
	return s.repo.ListByCustomer(ctx, viewer.ID)
}

// ListParams are the raw admin listing filters.
type ListParams struct {
	Status    string
	OrderType string
	Limit     int
	Offset    int
}

func (s *Service) List(ctx context.Context, p ListParams) ([]domain.Order, error) {
	f := orderrepo.Filter{Limit: p.Limit, Offset: p.Offset}
	if p.Status != "" {
		status, ok := domain.ParseOrderStatus(p.Status)
		if !ok {
			return nil, domain.NewValidationError("status", "unknown status")
		}
		f.Status = status
	}
	switch t := domain.OrderType(strings.ToLower(strings.TrimSpace(p.OrderType))); t {
	case "":
	case domain.OrderTypeOnline, domain.OrderTypeReseller, domain.OrderTypeOffline:
		f.OrderType = t
	default:
		return nil, domain.NewValidationError("orderType", "unknown order type")
	}
	if f.Limit < 0 || f.Offset < 0 {
		return nil, domain.NewValidationError("limit", "limit and offset must not be negative")
	}
	return s.repo.List(ctx, f)
}

// UpdateStatus moves an order along its lifecycle. Only the status and update time change.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	next, ok := domain.ParseOrderStatus(status)
	if !ok {
		return nil, domain.NewValidationError("status", "unknown status")
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransition(next) {
		return nil, domain.ErrInvalidTransition
	}
	updated, err := s.repo.UpdateStatus(ctx, id, current.Status, next)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("order_id", id).
		Str("from", string(current.Status)).
		Str("to", string(next)).
		Msg("order status changed")
	return updated, nil
}

func (s *Service) Stats(ctx context.Context) (*domain.OrderStats, error) {
	return s.repo.Stats(ctx)
}
