package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"storefront/internal/db"
	"storefront/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const productColumns = `
id::text, name, category, COALESCE(sku, ''), image, description, tags, rating, reviews,
retail_price::text, reseller_price::text, selling_price::text, discount_price::text, cost_price::text,
discount, on_offer, stock, needs_customer_name, needs_customer_photo, number_of_images_required, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger zerolog.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logger.With().Str("repo", "product").Logger()}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	q := `SELECT ` + productColumns + `
FROM products
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Error().Err(err).Msg("list products")
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("list products rows")
		return nil, err
	}
	r.logger.Debug().Int("count", len(result)).Msg("listed products")
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	q := `SELECT ` + productColumns + `
FROM products
WHERE id::text = $1
`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			r.logger.Debug().Str("id", id).Msg("product not found")
			return nil, err
		}
		r.logger.Error().Err(err).Str("id", id).Msg("get product")
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return nil, err
	}
	var sku *string
	if p.SKU != "" {
		sku = &p.SKU
	}

	q := `
INSERT INTO products (
    id, name, category, sku, image, description, tags, rating, reviews,
    retail_price, reseller_price, selling_price, discount_price, cost_price,
    discount, on_offer, stock, needs_customer_name, needs_customer_photo, number_of_images_required
) VALUES (
    COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, $6, $7, $8, $9,
    $10::numeric, $11::numeric, $12::numeric, $13::numeric, $14::numeric,
    $15, $16, $17, $18, $19, $20
)
ON CONFLICT (sku) DO UPDATE SET
    name = EXCLUDED.name,
    category = EXCLUDED.category,
    image = EXCLUDED.image,
    description = EXCLUDED.description,
    tags = EXCLUDED.tags,
    rating = EXCLUDED.rating,
    reviews = EXCLUDED.reviews,
    retail_price = EXCLUDED.retail_price,
    reseller_price = EXCLUDED.reseller_price,
    selling_price = EXCLUDED.selling_price,
    discount_price = EXCLUDED.discount_price,
    cost_price = EXCLUDED.cost_price,
    discount = EXCLUDED.discount,
    on_offer = EXCLUDED.on_offer,
    stock = EXCLUDED.stock,
    needs_customer_name = EXCLUDED.needs_customer_name,
    needs_customer_photo = EXCLUDED.needs_customer_photo,
    number_of_images_required = EXCLUDED.number_of_images_required
RETURNING ` + productColumns

	res, err := scanProduct(r.pool.QueryRow(ctx, q,
		p.ID,
		p.Name,
		p.Category,
		sku,
		p.Image,
		p.Description,
		tagsJSON,
		p.Rating,
		p.Reviews,
		db.NumericArg(p.RetailPrice),
		db.NumericArg(p.ResellerPrice),
		db.NullNumericArg(p.SellingPrice),
		db.NullNumericArg(p.DiscountPrice),
		db.NullNumericArg(p.CostPrice),
		p.Discount,
		p.OnOffer,
		p.Stock,
		p.NeedsCustomerName,
		p.NeedsCustomerPhoto,
		p.NumberOfImagesRequired,
	))
	if err != nil {
		r.logger.Error().Err(err).Str("sku", p.SKU).Msg("upsert product")
		return nil, err
	}
	if p.ID != "" && res.ID != p.ID {
		return nil, fmt.Errorf("product repo: id mismatch for sku=%s existing_id=%s import_id=%s", p.SKU, res.ID, p.ID)
	}
	r.logger.Debug().Str("sku", res.SKU).Str("id", res.ID).Msg("upserted product")
	return res, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p                                 domain.Product
		tagsJSON                          []byte
		retail, reseller                  string
		selling, discountPrice, costPrice *string
	)
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Category,
		&p.SKU,
		&p.Image,
		&p.Description,
		&tagsJSON,
		&p.Rating,
		&p.Reviews,
		&retail,
		&reseller,
		&selling,
		&discountPrice,
		&costPrice,
		&p.Discount,
		&p.OnOffer,
		&p.Stock,
		&p.NeedsCustomerName,
		&p.NeedsCustomerPhoto,
		&p.NumberOfImagesRequired,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if len(tagsJSON) > 0 {
		if err := json.Unmarshal(tagsJSON, &p.Tags); err != nil {
			return nil, fmt.Errorf("decode tags for product %s: %w", p.ID, err)
		}
	}
	if p.RetailPrice, err = db.ParseNumeric(retail); err != nil {
		return nil, err
	}
	if p.ResellerPrice, err = db.ParseNumeric(reseller); err != nil {
		return nil, err
	}
	if p.SellingPrice, err = db.ParseNullNumeric(selling); err != nil {
		return nil, err
	}
	if p.DiscountPrice, err = db.ParseNullNumeric(discountPrice); err != nil {
		return nil, err
	}
	if p.CostPrice, err = db.ParseNullNumeric(costPrice); err != nil {
		return nil, err
	}
	return &p, nil
}
