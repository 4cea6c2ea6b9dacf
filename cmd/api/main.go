package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/httpserver"
	"storefront/internal/logging"
	cartrepo "storefront/internal/repository/cart"
	categoryrepo "storefront/internal/repository/category"
	orderrepo "storefront/internal/repository/order"
	productrepo "storefront/internal/repository/product"
	tokenrepo "storefront/internal/repository/token"
	userrepo "storefront/internal/repository/user"
	wishlistrepo "storefront/internal/repository/wishlist"
	accountsvc "storefront/internal/service/account"
	anonymoussvc "storefront/internal/service/anonymous"
	cartsvc "storefront/internal/service/cart"
	categorysvc "storefront/internal/service/category"
	checkoutsvc "storefront/internal/service/checkout"
	ordersvc "storefront/internal/service/order"
	productsvc "storefront/internal/service/product"
	wishlistsvc "storefront/internal/service/wishlist"
	"storefront/internal/storage"

	"github.com/rs/zerolog"
)

const tokenPurgeInterval = time.Hour

func main() {
	cfg, err := config.Load(".env")
	logger := logging.New("api", cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbpool, err := db.Connect(ctx, cfg.DBConnString, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect to db")
	}
	defer dbpool.Close()

	store, fileDir, err := photoStore(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("init photo storage")
	}

	productRepo := productrepo.NewPostgres(dbpool, logger)
	productService := productsvc.New(productRepo, cfg.Pricing.BadgeMode)
	categoryService := categorysvc.New(categoryrepo.NewPostgres(dbpool))
	cartService := cartsvc.New(cartrepo.NewPostgres(dbpool), cartrepo.NewMemory(), productService, cfg.Pricing, logger)
	wishlistService := wishlistsvc.New(wishlistrepo.NewPostgres(dbpool), wishlistrepo.NewMemory(), productService, logger)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	orderService := ordersvc.New(orderRepo, logger)
	checkoutService := checkoutsvc.New(cartService, orderRepo, store, checkoutsvc.Options{
		UploadConcurrency: cfg.UploadConcurrency,
		PhotoMaxDimension: cfg.PhotoMaxDimension,
	}, logger)
	accountService := accountsvc.New(userrepo.NewPostgres(dbpool, logger), tokenrepo.NewPostgres(dbpool), logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		AccountSvc:  accountService,
		GuestSvc:    anonymoussvc.New(),
		ProductSvc:  productService,
		CategorySvc: categoryService,
		CartSvc:     cartService,
		WishlistSvc: wishlistService,
		CheckoutSvc: checkoutService,
		OrderSvc:    orderService,
	}, httpserver.Options{
		CORSOrigins:   cfg.CORSOrigins,
		FileDir:       fileDir,
		MaxPhotoBytes: cfg.MaxPhotoBytes,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("init server")
	}

	go purgeTokens(ctx, accountService, logger)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("starting http server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-serverErr:
		logger.Error().Err(err).Msg("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
	logger.Info().Msg("server stopped")
}

// photoStore picks Cloudinary when configured and local disk otherwise.
// The returned directory is non-empty only for disk storage and is served by the API.
func photoStore(cfg config.Config, logger zerolog.Logger) (checkoutsvc.Uploader, string, error) {
	if cfg.CloudinaryURL != "" {
		c, err := storage.NewCloudinary(cfg.CloudinaryURL, cfg.CloudinaryFolder, logger)
		return c, "", err
	}
	d, err := storage.NewDisk(cfg.UploadDir, cfg.FileURLHost, logger)
	if err != nil {
		return nil, "", err
	}
	return d, cfg.UploadDir, nil
}

func purgeTokens(ctx context.Context, svc *accountsvc.Service, logger zerolog.Logger) {
	ticker := time.NewTicker(tokenPurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := svc.PurgeExpiredTokens(ctx)
			if err != nil {
				logger.Warn().Err(err).Msg("purge expired tokens")
				continue
			}
			if n > 0 {
				logger.Info().Int64("deleted", n).Msg("expired tokens purged")
			}
		}
	}
}
