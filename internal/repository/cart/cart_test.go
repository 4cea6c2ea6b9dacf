package cart

import (
	"context"
	"os"
	"testing"
	"time"

	"storefront/internal/domain"
	"storefront/internal/migrate"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

func sampleCart(owner string) domain.Cart {
	c := domain.NewCart(owner)
	_, _ = c.Add(domain.ProductSnapshot{
		ID:            "p1",
		Name:          "Mug",
		RetailPrice:   decimal.NewFromInt(300),
		ResellerPrice: decimal.NewFromInt(200),
		DiscountPrice: decimal.NewNullDecimal(decimal.RequireFromString("249.99")),
		OnOffer:       true,
		Stock:         5,
	}, 2, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	return *c
}

func TestMemory_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()

	if _, err := repo.Get(ctx, "anon:1"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	c := sampleCart("anon:1")
	if err := repo.Save(ctx, c); err != nil {
		t.Fatalf("save: %v", err)
	}
	c.Lines[0].Quantity = 5

	got, err := repo.Get(ctx, "anon:1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Lines[0].Quantity != 2 {
		t.Fatalf("stored cart shares lines with caller: %+v", got.Lines)
	}
	got.Lines[0].Quantity = 4
	again, _ := repo.Get(ctx, "anon:1")
	if again.Lines[0].Quantity != 2 {
		t.Fatalf("returned cart shares lines with store: %+v", again.Lines)
	}

	if err := repo.Delete(ctx, "anon:1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, "anon:1"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestPostgres_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool)
	c := sampleCart("user-1")
	if err := repo.Save(ctx, c); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Lines) != 1 || got.Lines[0].Quantity != 2 {
		t.Fatalf("unexpected cart %+v", got)
	}
	if !got.Lines[0].Product.DiscountPrice.Decimal.Equal(decimal.RequireFromString("249.99")) {
		t.Fatalf("discount price lost in round trip: %+v", got.Lines[0].Product)
	}

	c.Clear(time.Now())
	if err := repo.Save(ctx, c); err != nil {
		t.Fatalf("Save cleared: %v", err)
	}
	got, err = repo.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("Get cleared: %v", err)
	}
	if !got.IsEmpty() {
		t.Fatalf("expected empty cart, got %+v", got)
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
