package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/domain"
	"storefront/internal/pricing"
	"storefront/internal/storage"

	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type cartStore interface {
	Load(ctx context.Context, viewer domain.Viewer) (*domain.Cart, error)
	RemoveOrdered(ctx context.Context, viewer domain.Viewer, ordered []domain.CartLine) error
	Totals(lines []domain.CartLine, role domain.Role) pricing.Totals
}

type orderCreator interface {
	Create(ctx context.Context, o domain.Order) (string, error)
}

// Uploader stores one customer photo and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, sessionID, itemKey string, data []byte) (string, error)
}

type Options struct {
	UploadConcurrency int
	PhotoMaxDimension int
}

// Service turns a cart into a persisted order.
type Service struct {
	carts    cartStore
	orders   orderCreator
	store    Uploader
	opts     Options
	validate *validator.Validate
	guard    *inflight
	logger   zerolog.Logger
	now      func() time.Time
	newID    func() (uuid.UUID, error)
}

func New(carts cartStore, orders orderCreator, store Uploader, opts Options, logger zerolog.Logger) *Service {
	if opts.UploadConcurrency < 1 {
		opts.UploadConcurrency = 4
	}
	return &Service{
		carts:    carts,
		orders:   orders,
		store:    store,
		opts:     opts,
		validate: validator.New(),
		guard:    newInflight(),
		logger:   logger.With().Str("service", "checkout").Logger(),
		now:      time.Now,
		newID:    uuid.NewV4,
	}
}

type photoJob struct {
	line int
	slot int
	key  string
	data []byte
}

// PlaceOrder validates the submission, uploads customer photos and persists the order.
// The ordered lines leave the cart only after the order is stored. Upload and persistence failures
// come back as *domain.PlacementError and leave the cart untouched.
func (s *Service) PlaceOrder(ctx context.Context, viewer domain.Viewer, in PlaceOrderInput) (string, error) {
	owner := viewer.OwnerKey()
	if owner == "" {
		return "", domain.NewValidationError("session", "no cart session")
	}
	if !s.guard.acquire(owner) {
		return "", domain.ErrCheckoutInProgress
	}
	defer s.guard.release(owner)

	cart, err := s.carts.Load(ctx, viewer)
	if err != nil {
		return "", err
	}
	if cart.IsEmpty() {
		return "", domain.NewValidationError("cart", "cart is empty")
	}

	in.Form.trim()
	if err := s.validate.Struct(in.Form); err != nil {
		return "", validationError(err)
	}
	jobs, err := s.prepare(cart.Lines, in.Items)
	if err != nil {
		return "", err
	}

	id, err := s.newID()
	if err != nil {
		return "", err
	}
	sessionID := "order-" + id.String()
	log := s.logger.With().Str("owner", owner).Str("session", sessionID).Logger()

	urls, err := s.upload(ctx, sessionID, cart.Lines, jobs)
	if err != nil {
		log.Error().Err(err).Int("photos", len(jobs)).Msg("photo upload failed")
		return "", &domain.PlacementError{Stage: domain.StageUpload, Err: err}
	}

	order, err := s.build(viewer, in, cart.Lines, urls)
	if err != nil {
		return "", err
	}
	orderID, err := s.orders.Create(ctx, order)
	if err != nil {
		ev := log.Error().Err(err)
		if len(jobs) > 0 {
			ev = ev.Int("orphaned_photos", len(jobs))
		}
		ev.Msg("persist order failed")
		return "", &domain.PlacementError{Stage: domain.StagePersist, Err: err}
	}

	if err := s.carts.RemoveOrdered(ctx, viewer, cart.Lines); err != nil {
		log.Warn().Err(err).Str("order_id", orderID).Msg("clear cart after order")
	}
	log.Info().
		Str("order_id", orderID).
		Str("total", order.Total.StringFixed(2)).
		Int("items", len(order.Items)).
		Msg("order placed")
	return orderID, nil
}

// prepare checks customization inputs and normalizes every photo before anything is uploaded.
func (s *Service) prepare(lines []domain.CartLine, items map[string]ItemInput) ([]photoJob, error) {
	var jobs []photoJob
	for i, l := range lines {
		p := l.Product
		item := items[p.ID]
		if p.NeedsCustomerName && strings.TrimSpace(item.CustomerName) == "" {
			return nil, domain.NewValidationError(
				fmt.Sprintf("customerName[%s]", p.ID),
				fmt.Sprintf("%s needs a name for personalisation", p.Name),
			)
		}
		need := p.PhotosRequired()
		if len(item.Photos) < need {
			return nil, domain.NewValidationError(
				fmt.Sprintf("photo[%s]", p.ID),
				fmt.Sprintf("%s needs %d photo(s)", p.Name, need),
			)
		}
		for slot := 0; slot < need; slot++ {
			data, err := storage.NormalizePhoto(item.Photos[slot], s.opts.PhotoMaxDimension)
			if err != nil {
				if errors.Is(err, storage.ErrNotAnImage) {
					return nil, domain.NewValidationError(fmt.Sprintf("photo[%s]", p.ID), "photo is not a supported image")
				}
				return nil, err
			}
			jobs = append(jobs, photoJob{line: i, slot: slot, key: photoKey(p.ID, slot), data: data})
		}
	}
	return jobs, nil
}

// upload runs every job concurrently and waits for all of them.
// The result is indexed by line, then photo slot.
func (s *Service) upload(ctx context.Context, sessionID string, lines []domain.CartLine, jobs []photoJob) ([][]string, error) {
	urls := make([][]string, len(lines))
	for i, l := range lines {
		urls[i] = make([]string, l.Product.PhotosRequired())
	}
	if len(jobs) == 0 {
		return urls, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.UploadConcurrency)
	for _, job := range jobs {
		g.Go(func() error {
			url, err := s.store.Upload(gctx, sessionID, job.key, job.data)
			if err != nil {
				return fmt.Errorf("upload %s: %w", job.key, err)
			}
			urls[job.line][job.slot] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}

func (s *Service) build(viewer domain.Viewer, in PlaceOrderInput, lines []domain.CartLine, urls [][]string) (domain.Order, error) {
	items := make([]domain.OrderItem, 0, len(lines))
	hasCustomizations := false
	for i, l := range lines {
		item := domain.OrderItem{
			Product:   l.Product,
			Quantity:  l.Quantity,
			UnitPrice: pricing.ResolveUnitPrice(l.Product, viewer.Role),
			LineTotal: pricing.LineTotal(l, viewer.Role),
		}
		if l.Product.RequiresCustomization() {
			c := &domain.Customization{}
			if l.Product.NeedsCustomerName {
				c.CustomerName = strings.TrimSpace(in.Items[l.Product.ID].CustomerName)
			}
			if photos := urls[i]; len(photos) > 0 {
				c.CustomerPhotoURL = photos[0]
				if len(photos) > 1 {
					c.CustomerImages = append([]string(nil), photos...)
				}
			}
			item.Customization = c
			hasCustomizations = true
		}
		items = append(items, item)
	}

	addrID, err := s.newID()
	if err != nil {
		return domain.Order{}, err
	}
	totals := s.carts.Totals(lines, viewer.Role)
	now := s.now().UTC()
	f := in.Form
	return domain.Order{
		CustomerID:    viewer.CustomerID(),
		OwnerKey:      viewer.OwnerKey(),
		CustomerName:  f.FullName,
		CustomerEmail: f.Email,
		CustomerPhone: f.Phone,
		Items:         items,
		Subtotal:      totals.Subtotal,
		Shipping:      totals.Shipping,
		Tax:           totals.Tax,
		Total:         totals.Total,
		Status:        domain.OrderPending,
		PaymentMethod: domain.PaymentMethodLabel(f.PaymentMethod),
		ShippingAddress: domain.Address{
			ID:           "addr-" + addrID.String(),
			Name:         f.FullName,
			Phone:        f.Phone,
			AddressLine1: f.AddressLine1,
			AddressLine2: f.AddressLine2,
			City:         f.City,
			State:        f.State,
			Pincode:      f.Pincode,
		},
		OrderType:         domain.OrderTypeFor(viewer.Role),
		HasCustomizations: hasCustomizations,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

func photoKey(productID string, slot int) string {
	if slot == 0 {
		return productID
	}
	return fmt.Sprintf("%s-%d", productID, slot+1)
}
