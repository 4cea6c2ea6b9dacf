package user

import (
	"context"
	"os"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/migrate"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

func TestPostgres_CreateGetAndUpdate(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, zerolog.Nop())
	created, err := repo.Create(ctx, domain.User{Email: "Asha@Example.com", PasswordHash: "hash", FirstName: "Asha"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Email != "asha@example.com" || created.Role != domain.RoleCustomer {
		t.Fatalf("unexpected user %+v", created)
	}

	if _, err := repo.Create(ctx, domain.User{Email: "ASHA@example.com", PasswordHash: "hash"}); err != domain.ErrAlreadyExists {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	byEmail, err := repo.GetByEmail(ctx, "asha@EXAMPLE.com")
	if err != nil || byEmail.ID != created.ID {
		t.Fatalf("GetByEmail: %+v err=%v", byEmail, err)
	}

	created.LastName = "Rao"
	created.Phone = "9876543210"
	created.Addresses = []domain.Address{{ID: "addr-1", Name: "Asha Rao", City: "Pune", Pincode: "411001"}}
	updated, err := repo.UpdateProfile(ctx, *created)
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.LastName != "Rao" || len(updated.Addresses) != 1 || updated.Addresses[0].City != "Pune" {
		t.Fatalf("unexpected updated user %+v", updated)
	}

	if _, err := repo.GetByID(ctx, "missing"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE orders, carts, products, categories, tokens, users RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}
