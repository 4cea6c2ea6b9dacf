package wishlist

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

// NewPostgres stores signed-in users' wishlists in wishlist_items.
func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) List(ctx context.Context, ownerKey string) ([]string, error) {
	const q = `
SELECT product_id
FROM wishlist_items
WHERE owner_key = $1
ORDER BY added_at, product_id
`
	rows, err := r.pool.Query(ctx, q, ownerKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *postgresRepo) Add(ctx context.Context, ownerKey, productID string) error {
	const q = `
INSERT INTO wishlist_items (owner_key, product_id)
VALUES ($1, $2)
ON CONFLICT (owner_key, product_id) DO NOTHING
`
	_, err := r.pool.Exec(ctx, q, ownerKey, productID)
	return err
}

func (r *postgresRepo) Remove(ctx context.Context, ownerKey, productID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM wishlist_items WHERE owner_key = $1 AND product_id = $2`, ownerKey, productID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *postgresRepo) Delete(ctx context.Context, ownerKey string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM wishlist_items WHERE owner_key = $1`, ownerKey)
	return err
}
