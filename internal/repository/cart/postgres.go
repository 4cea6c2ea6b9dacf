package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"storefront/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

// NewPostgres mirrors signed-in users' carts into the carts table.
func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Get(ctx context.Context, ownerKey string) (*domain.Cart, error) {
	const q = `
SELECT owner_key, lines, updated_at
FROM carts
WHERE owner_key = $1
`
	var (
		c         domain.Cart
		linesJSON []byte
	)
	if err := r.pool.QueryRow(ctx, q, ownerKey).Scan(&c.OwnerKey, &linesJSON, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(linesJSON, &c.Lines); err != nil {
		return nil, fmt.Errorf("decode cart lines for %s: %w", ownerKey, err)
	}
	if c.Lines == nil {
		c.Lines = []domain.CartLine{}
	}
	return &c, nil
}

func (r *postgresRepo) Save(ctx context.Context, c domain.Cart) error {
	lines := c.Lines
	if lines == nil {
		lines = []domain.CartLine{}
	}
	linesJSON, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO carts (owner_key, lines, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (owner_key) DO UPDATE
SET lines = EXCLUDED.lines,
    updated_at = EXCLUDED.updated_at
`
	_, err = r.pool.Exec(ctx, q, c.OwnerKey, linesJSON, c.UpdatedAt)
	return err
}

func (r *postgresRepo) Delete(ctx context.Context, ownerKey string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM carts WHERE owner_key = $1`, ownerKey)
	return err
}
