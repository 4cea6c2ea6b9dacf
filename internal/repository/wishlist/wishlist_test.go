package wishlist

import (
	"context"
	"os"
	"slices"
	"testing"

	"storefront/internal/migrate"

	"github.com/jackc/pgx/v5/pgxpool"
)

func exercise(ctx context.Context, t *testing.T, repo Repository, owner string) {
	t.Helper()
	ids, err := repo.List(ctx, owner)
	if err != nil || ids == nil || len(ids) != 0 {
		t.Fatalf("expected empty non-nil list, got %v err=%v", ids, err)
	}

	for _, id := range []string{"p1", "p2", "p1"} {
		if err := repo.Add(ctx, owner, id); err != nil {
			t.Fatalf("add %s: %v", id, err)
		}
	}
	ids, err = repo.List(ctx, owner)
	if err != nil || !slices.Equal(ids, []string{"p1", "p2"}) {
		t.Fatalf("unexpected list %v err=%v", ids, err)
	}

	removed, err := repo.Remove(ctx, owner, "p1")
	if err != nil || !removed {
		t.Fatalf("remove p1: removed=%v err=%v", removed, err)
	}
	removed, err = repo.Remove(ctx, owner, "p1")
	if err != nil || removed {
		t.Fatalf("second remove should report false: removed=%v err=%v", removed, err)
	}

	if err := repo.Add(ctx, "someone-else", "p9"); err != nil {
		t.Fatalf("add other owner: %v", err)
	}
	if err := repo.Delete(ctx, owner); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if ids, _ := repo.List(ctx, owner); len(ids) != 0 {
		t.Fatalf("expected empty list after delete, got %v", ids)
	}
	if ids, _ := repo.List(ctx, "someone-else"); !slices.Equal(ids, []string{"p9"}) {
		t.Fatalf("other owner affected by delete: %v", ids)
	}
}

func TestMemory(t *testing.T) {
	exercise(context.Background(), t, NewMemory(), "anon:g1")
}

func TestMemory_ListIsACopy(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()
	_ = repo.Add(ctx, "anon:g1", "p1")
	_ = repo.Add(ctx, "anon:g1", "p2")

	ids, _ := repo.List(ctx, "anon:g1")
	ids[0] = "changed"
	if _, err := repo.Remove(ctx, "anon:g1", "p2"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	again, _ := repo.List(ctx, "anon:g1")
	if !slices.Equal(again, []string{"p1"}) {
		t.Fatalf("stored list shares memory with caller: %v", again)
	}
}

func TestPostgres(t *testing.T) {
	ctx := context.Background()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE wishlist_items`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	exercise(ctx, t, NewPostgres(pool), "user-1")
}
