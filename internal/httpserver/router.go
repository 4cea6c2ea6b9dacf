package httpserver

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain"
	accountsvc "storefront/internal/service/account"
	cartsvc "storefront/internal/service/cart"
	checkoutsvc "storefront/internal/service/checkout"
	ordersvc "storefront/internal/service/order"
	productsvc "storefront/internal/service/product"
	wishlistsvc "storefront/internal/service/wishlist"
	"storefront/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/schema"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type AccountService interface {
	Signup(ctx context.Context, in accountsvc.SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, string, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.User, string, error)
	LookupByToken(ctx context.Context, token string) (*domain.User, error)
	Logout(ctx context.Context, userID string, tokens ...string) error
	UpdateProfile(ctx context.Context, userID string, in accountsvc.ProfileInput) (*domain.User, error)
	AccessTTLSeconds() int
}

type GuestService interface {
	Issue(ctx context.Context) (string, string, string, error)
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
	LookupByToken(ctx context.Context, token string) (string, error)
	Logout(ctx context.Context, guestID string, tokens ...string) error
	AccessTTLSeconds() int
}

type ProductService interface {
	List(ctx context.Context, viewer domain.Viewer, q productsvc.Query) ([]productsvc.View, error)
	Get(ctx context.Context, viewer domain.Viewer, id string) (*productsvc.View, error)
	Stats(ctx context.Context) (*domain.ProductStats, error)
}

type CategoryService interface {
	List(ctx context.Context) ([]domain.Category, error)
}

type CartService interface {
	Get(ctx context.Context, viewer domain.Viewer) (*cartsvc.View, error)
	Add(ctx context.Context, viewer domain.Viewer, productID string, qty int) (*cartsvc.View, error)
	UpdateQuantity(ctx context.Context, viewer domain.Viewer, productID string, qty int) (*cartsvc.View, error)
	Remove(ctx context.Context, viewer domain.Viewer, productID string) (*cartsvc.View, error)
	Clear(ctx context.Context, viewer domain.Viewer) error
	Discard(ctx context.Context, viewer domain.Viewer) error
}

type WishlistService interface {
	Get(ctx context.Context, viewer domain.Viewer) (*wishlistsvc.View, error)
	Add(ctx context.Context, viewer domain.Viewer, productID string) (*wishlistsvc.View, error)
	Remove(ctx context.Context, viewer domain.Viewer, productID string) (*wishlistsvc.View, error)
	Contains(ctx context.Context, viewer domain.Viewer, productID string) (bool, error)
	Discard(ctx context.Context, viewer domain.Viewer) error
}

type CheckoutService interface {
	PlaceOrder(ctx context.Context, viewer domain.Viewer, in checkoutsvc.PlaceOrderInput) (string, error)
}

type OrderService interface {
	Get(ctx context.Context, viewer domain.Viewer, id string) (*domain.Order, error)
	ListForViewer(ctx context.Context, viewer domain.Viewer) ([]domain.Order, error)
	List(ctx context.Context, p ordersvc.ListParams) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error)
	Stats(ctx context.Context) (*domain.OrderStats, error)
}

// Deps are the services the routes delegate to.
type Deps struct {
	AccountSvc  AccountService
	GuestSvc    GuestService
	ProductSvc  ProductService
	CategorySvc CategoryService
	CartSvc     CartService
	WishlistSvc WishlistService
	CheckoutSvc CheckoutService
	OrderSvc    OrderService
}

// Options tune the HTTP surface.
type Options struct {
	CORSOrigins []string
	// FileDir is served under /files when photos are stored on disk.
	FileDir          string
	MaxPhotoBytes    int64
	MaxCheckoutBytes int64
}

func (d Deps) validate() error {
	switch {
	case d.AccountSvc == nil:
		return errors.New("account service required")
	case d.GuestSvc == nil:
		return errors.New("guest service required")
	case d.ProductSvc == nil:
		return errors.New("product service required")
	case d.CategorySvc == nil:
		return errors.New("category service required")
	case d.CartSvc == nil:
		return errors.New("cart service required")
	case d.WishlistSvc == nil:
		return errors.New("wishlist service required")
	case d.CheckoutSvc == nil:
		return errors.New("checkout service required")
	case d.OrderSvc == nil:
		return errors.New("order service required")
	}
	return nil
}

type handlers struct {
	deps    Deps
	opts    Options
	logger  zerolog.Logger
	decoder *schema.Decoder
}

// buildRouter wires routes for the API.
func buildRouter(logger zerolog.Logger, db *pgxpool.Pool, deps Deps, opts Options) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if opts.MaxPhotoBytes <= 0 {
		opts.MaxPhotoBytes = 10 << 20
	}
	if opts.MaxCheckoutBytes <= 0 {
		opts.MaxCheckoutBytes = 64 << 20
	}

	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	h := &handlers{deps: deps, opts: opts, logger: logger, decoder: decoder}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery())
	if len(opts.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:  opts.CORSOrigins,
			AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Authorization", "Content-Type"},
			ExposeHeaders: []string{"Content-Length"},
			MaxAge:        12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))
	if opts.FileDir != "" {
		router.Static(storage.PublicPrefix, opts.FileDir)
	}

	auth := router.Group("/auth")
	auth.POST("/signup", h.signup)
	auth.POST("/token", h.token)
	auth.POST("/anonymous/token", h.anonymousToken)

	api := router.Group("/", h.viewerMiddleware())
	api.GET("/products", h.listProducts)
	api.GET("/products/:id", h.getProduct)
	api.GET("/categories", h.listCategories)
	api.GET("/orders/:id", h.getOrder)
	api.POST("/auth/logout", requireSession(), h.logout)

	me := api.Group("/me", requireUser())
	me.GET("", h.me)
	me.PUT("/profile", h.updateProfile)
	me.GET("/orders", h.myOrders)

	cart := api.Group("/cart", requireSession())
	cart.GET("", h.getCart)
	cart.DELETE("", h.clearCart)
	cart.POST("/items", h.addCartItem)
	cart.PUT("/items/:productId", h.updateCartItem)
	cart.DELETE("/items/:productId", h.removeCartItem)

	wishlist := api.Group("/wishlist", requireSession())
	wishlist.GET("", h.getWishlist)
	wishlist.POST("", h.addWishlistItem)
	wishlist.GET("/:productId", h.wishlistContains)
	wishlist.DELETE("/:productId", h.removeWishlistItem)

	api.POST("/checkout", requireSession(), h.checkout)

	admin := api.Group("/admin", requireRole(domain.RoleAdmin))
	admin.GET("/orders", h.adminListOrders)
	admin.GET("/orders/stats", h.orderStats)
	admin.GET("/products/stats", h.productStats)
	admin.PATCH("/orders/:id/status", h.updateOrderStatus)

	return router, nil
}

func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := logger.Info()
		switch {
		case status >= 500:
			ev = logger.Error()
		case status >= 400:
			ev = logger.Warn()
		}
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		ev.Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}
