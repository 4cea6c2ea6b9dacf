package main

import (
	"context"
	"flag"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/domain"
	"storefront/internal/logging"
	categoryrepo "storefront/internal/repository/category"
	productrepo "storefront/internal/repository/product"
	userrepo "storefront/internal/repository/user"
	"storefront/internal/seed"
)

func main() {
	var adminEmail, adminPassword, resellerEmail, resellerPassword string
	flag.StringVar(&adminEmail, "admin-email", "admin@example.com", "Admin account email")
	flag.StringVar(&adminPassword, "admin-password", "Admin123!", "Admin account password")
	flag.StringVar(&resellerEmail, "reseller-email", "reseller@example.com", "Reseller account email")
	flag.StringVar(&resellerPassword, "reseller-password", "Resell123!", "Reseller account password")
	flag.Parse()

	cfg, err := config.Load(".env")
	logger := logging.New("seed", cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect db")
	}
	defer pool.Close()

	accounts := []seed.Account{
		{Email: adminEmail, Password: adminPassword, Role: domain.RoleAdmin},
		{Email: resellerEmail, Password: resellerPassword, Role: domain.RoleReseller},
	}
	err = seed.Apply(ctx,
		categoryrepo.NewPostgres(pool),
		productrepo.NewPostgres(pool, logger),
		userrepo.NewPostgres(pool, logger),
		accounts,
		logger,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("seed apply")
	}
}
