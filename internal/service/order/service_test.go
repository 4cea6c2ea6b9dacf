package order

import (
	"context"
	"errors"
	"strings"
	"testing"

	"storefront/internal/domain"
	orderrepo "storefront/internal/repository/order"

	"github.com/rs/zerolog"
)

type stubRepo struct {
	orders     map[string]domain.Order
	lastFilter orderrepo.Filter
	updates    int
}

func newStubRepo(orders ...domain.Order) *stubRepo {
	r := &stubRepo{orders: make(map[string]domain.Order)}
	for _, o := range orders {
		r.orders[o.ID] = o
	}
	return r
}

func (r *stubRepo) Create(_ context.Context, o domain.Order) (string, error) {
	r.orders[o.ID] = o
	return o.ID, nil
}

func (r *stubRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &o, nil
}

func (r *stubRepo) ListByCustomer(_ context.Context, customerID string) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range r.orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *stubRepo) List(_ context.Context, f orderrepo.Filter) ([]domain.Order, error) {
	r.lastFilter = f
	return nil, nil
}

func (r *stubRepo) UpdateStatus(_ context.Context, id string, from, to domain.OrderStatus) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if o.Status != from {
		return nil, domain.ErrInvalidTransition
	}
	r.updates++
	o.Status = to
	r.orders[id] = o
	return &o, nil
}

func (r *stubRepo) Stats(_ context.Context) (*domain.OrderStats, error) {
	return &domain.OrderStats{TotalOrders: len(r.orders)}, nil
}

func TestUpdateStatus_FollowsLifecycle(t *testing.T) {
	repo := newStubRepo(domain.Order{ID: "o1", Status: domain.OrderPending})
	svc := New(repo, zerolog.Nop())
	ctx := context.Background()

	for _, next := range []string{"processing", "SHIPPED", "delivered"} {
		o, err := svc.UpdateStatus(ctx, "o1", next)
		if err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
		if string(o.Status) != strings.ToLower(next) {
			t.Fatalf("expected %s, got %s", next, o.Status)
		}
	}

	if _, err := svc.UpdateStatus(ctx, "o1", "cancelled"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected delivered orders to stay delivered, got %v", err)
	}
	if repo.updates != 3 {
		t.Fatalf("expected 3 writes, got %d", repo.updates)
	}
}

func TestUpdateStatus_Errors(t *testing.T) {
	repo := newStubRepo(domain.Order{ID: "o1", Status: domain.OrderPending})
	svc := New(repo, zerolog.Nop())
	ctx := context.Background()

	var verr *domain.ValidationError
	if _, err := svc.UpdateStatus(ctx, "o1", "lost"); !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, "missing", "processing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, "o1", "shipped"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected pending->shipped to be rejected, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, "o1", "cancelled"); err != nil {
		t.Fatalf("cancel pending order: %v", err)
	}
}

func TestList_ParsesFilters(t *testing.T) {
	repo := newStubRepo()
	svc := New(repo, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.List(ctx, ListParams{Status: "Pending", OrderType: "Reseller", Limit: 20}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if repo.lastFilter.Status != domain.OrderPending || repo.lastFilter.OrderType != domain.OrderTypeReseller || repo.lastFilter.Limit != 20 {
		t.Fatalf("unexpected filter %+v", repo.lastFilter)
	}

	if _, err := svc.List(ctx, ListParams{OrderType: "wholesale"}); err == nil {
		t.Fatalf("expected unknown order type to be rejected")
	}
	if _, err := svc.List(ctx, ListParams{Status: "archived"}); err == nil {
		t.Fatalf("expected unknown status to be rejected")
	}
}

func TestListForViewer(t *testing.T) {
	repo := newStubRepo(
		domain.Order{ID: "o1", CustomerID: "u1"},
		domain.Order{ID: "o2", CustomerID: "guest"},
	)
	svc := New(repo, zerolog.Nop())
	ctx := context.Background()

	mine, err := svc.ListForViewer(ctx, domain.Viewer{ID: "u1"})
	if err != nil || len(mine) != 1 || mine[0].ID != "o1" {
		t.Fatalf("unexpected orders %+v err=%v", mine, err)
	}
	guest, err := svc.ListForViewer(ctx, domain.GuestViewer("g1"))
	if err != nil || len(guest) != 0 {
		t.Fatalf("guests have no order history, got %+v err=%v", guest, err)
	}
}

func TestGet_RedactsContactDetailsForOthers(t *testing.T) {
	repo := newStubRepo(domain.Order{
		ID: "o1", CustomerID: "guest", OwnerKey: "anon:g1",
		CustomerName: "Asha Rao", CustomerEmail: "asha@example.com", CustomerPhone: "9876543210",
		ShippingAddress: domain.Address{AddressLine1: "12 MG Road", City: "Pune", State: "MH"},
		Status:          domain.OrderPending,
	})
	svc := New(repo, zerolog.Nop())
	ctx := context.Background()

	own, err := svc.Get(ctx, domain.GuestViewer("g1"), "o1")
	if err != nil {
		t.Fatalf("get as owner: %v", err)
	}
	if own.CustomerEmail != "asha@example.com" || own.ShippingAddress.AddressLine1 != "12 MG Road" {
		t.Fatalf("owner should see contact details: %+v", own)
	}

	other, err := svc.Get(ctx, domain.Viewer{ID: "u9", Role: domain.RoleCustomer}, " o1 ")
	if err != nil {
		t.Fatalf("get as other: %v", err)
	}
	if other.CustomerEmail != "" || other.CustomerPhone != "" || other.ShippingAddress.AddressLine1 != "" {
		t.Fatalf("contact details leaked: %+v", other)
	}
	if other.Status != domain.OrderPending || other.ShippingAddress.City != "Pune" {
		t.Fatalf("tracking fields missing: %+v", other)
	}
	if repo.orders["o1"].CustomerEmail == "" {
		t.Fatalf("stored order must not be modified")
	}

	admin, err := svc.Get(ctx, domain.Viewer{ID: "a1", Role: domain.RoleAdmin}, "o1")
	if err != nil || admin.CustomerPhone != "9876543210" {
		t.Fatalf("admin should see contact details: %+v err=%v", admin, err)
	}

	if _, err := svc.Get(ctx, domain.GuestViewer("g1"), "  "); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for blank id, got %v", err)
	}
}
