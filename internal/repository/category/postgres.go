package category

import (
	"context"
	"strings"

	"storefront/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

// List returns categories with the number of products filed under each name.
func (r *postgresRepo) List(ctx context.Context) ([]domain.Category, error) {
	const q = `
SELECT c.id::text, c.name, c.slug, c.image, COUNT(p.id), c.created_at
FROM categories c
LEFT JOIN products p ON p.category = c.name
GROUP BY c.id
ORDER BY c.name ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Image, &c.ProductCount, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, c domain.Category) (*domain.Category, error) {
	const q = `
INSERT INTO categories (name, slug, image)
VALUES ($1, $2, $3)
ON CONFLICT (name) DO UPDATE
SET slug = EXCLUDED.slug,
    image = COALESCE(NULLIF(EXCLUDED.image, ''), categories.image)
RETURNING id::text, name, slug, image, created_at
`
	slug := c.Slug
	if slug == "" {
		slug = Slugify(c.Name)
	}
	var out domain.Category
	err := r.pool.QueryRow(ctx, q, c.Name, slug, c.Image).
		Scan(&out.ID, &out.Name, &out.Slug, &out.Image, &out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Slugify lowercases name and joins its words with dashes.
func Slugify(name string) string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	return strings.Join(fields, "-")
}
