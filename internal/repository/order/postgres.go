package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/db"
	"storefront/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const orderColumns = `
id::text, customer_id, owner_key, customer_name, customer_email, customer_phone, items,
subtotal::text, shipping::text, tax::text, total::text, status, payment_method,
shipping_address, order_type, has_customizations, created_at, updated_at`

const defaultListLimit = 100

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger zerolog.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logger.With().Str("repo", "order").Logger()}
}

func (r *postgresRepo) Create(ctx context.Context, o domain.Order) (string, error) {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return "", fmt.Errorf("encode items: %w", err)
	}
	addrJSON, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return "", fmt.Errorf("encode shipping address: %w", err)
	}
	status := o.Status
	if status == "" {
		status = domain.OrderPending
	}

	const q = `
INSERT INTO orders (
    customer_id, owner_key, customer_name, customer_email, customer_phone, items,
    subtotal, shipping, tax, total, status, payment_method,
    shipping_address, order_type, has_customizations
) VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8::numeric, $9::numeric, $10::numeric, $11, $12, $13, $14, $15)
RETURNING id::text
`
	var id string
	err = r.pool.QueryRow(ctx, q,
		o.CustomerID,
		o.OwnerKey,
		o.CustomerName,
		o.CustomerEmail,
		o.CustomerPhone,
		itemsJSON,
		db.NumericArg(o.Subtotal),
		db.NumericArg(o.Shipping),
		db.NumericArg(o.Tax),
		db.NumericArg(o.Total),
		string(status),
		o.PaymentMethod,
		addrJSON,
		string(o.OrderType),
		o.HasCustomizations,
	).Scan(&id)
	if err != nil {
		r.logger.Error().Err(err).Str("customer_id", o.CustomerID).Msg("create order")
		return "", err
	}
	r.logger.Info().Str("id", id).Str("customer_id", o.CustomerID).Str("total", o.Total.String()).Msg("order created")
	return id, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	q := `SELECT ` + orderColumns + `
FROM orders
WHERE id::text = $1
`
	return scanOrder(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	q := `SELECT ` + orderColumns + `
FROM orders
WHERE customer_id = $1
ORDER BY created_at DESC
`
	return r.query(ctx, q, customerID)
}

func (r *postgresRepo) List(ctx context.Context, f Filter) ([]domain.Order, error) {
	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		args = append(args, string(f.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.OrderType != "" {
		args = append(args, string(f.OrderType))
		where = append(where, fmt.Sprintf("order_type = $%d", len(args)))
	}
	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	var b strings.Builder
	b.WriteString(`SELECT ` + orderColumns + "\nFROM orders\n")
	if len(where) > 0 {
		b.WriteString("WHERE " + strings.Join(where, " AND ") + "\n")
	}
	args = append(args, limit, offset)
	fmt.Fprintf(&b, "ORDER BY created_at DESC\nLIMIT $%d OFFSET $%d\n", len(args)-1, len(args))
	return r.query(ctx, b.String(), args...)
}

// UpdateStatus moves an order from one status to another. It fails with ErrInvalidTransition
// when the stored status is no longer from.
func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) (*domain.Order, error) {
	q := `
UPDATE orders
SET status = $3, updated_at = now()
WHERE id::text = $1 AND status = $2
RETURNING ` + orderColumns
	o, err := scanOrder(r.pool.QueryRow(ctx, q, id, string(from), string(to)))
	if errors.Is(err, domain.ErrNotFound) {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, domain.ErrInvalidTransition
	}
	if err != nil {
		r.logger.Error().Err(err).Str("id", id).Msg("update order status")
		return nil, err
	}
	r.logger.Info().Str("id", id).Str("from", string(from)).Str("to", string(to)).Msg("order status updated")
	return o, nil
}

// Stats sums revenue over every stored order, cancelled ones included, and
// reports a count for each status even when it is zero.
func (r *postgresRepo) Stats(ctx context.Context) (*domain.OrderStats, error) {
	const q = `
SELECT status, COUNT(*), COALESCE(SUM(total), 0)::text
FROM orders
GROUP BY status
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &domain.OrderStats{
		TotalRevenue:      decimal.Zero,
		AverageOrderValue: decimal.Zero,
		ByStatus:          domain.EmptyStatusCounts(),
	}
	for rows.Next() {
		var (
			status string
			count  int
			sum    string
		)
		if err := rows.Scan(&status, &count, &sum); err != nil {
			return nil, err
		}
		total, err := db.ParseNumeric(sum)
		if err != nil {
			return nil, err
		}
		stats.ByStatus[domain.OrderStatus(status)] = count
		stats.TotalOrders += count
		stats.TotalRevenue = stats.TotalRevenue.Add(total)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if stats.TotalOrders > 0 {
		stats.AverageOrderValue = stats.TotalRevenue.DivRound(decimal.NewFromInt(int64(stats.TotalOrders)), 2)
	}
	return stats, nil
}

func (r *postgresRepo) query(ctx context.Context, q string, args ...any) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("list orders")
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o                              domain.Order
		itemsJSON, addrJSON            []byte
		subtotal, shipping, tax, total string
		status, orderType              string
	)
	err := row.Scan(
		&o.ID,
		&o.CustomerID,
		&o.OwnerKey,
		&o.CustomerName,
		&o.CustomerEmail,
		&o.CustomerPhone,
		&itemsJSON,
		&subtotal,
		&shipping,
		&tax,
		&total,
		&status,
		&o.PaymentMethod,
		&addrJSON,
		&orderType,
		&o.HasCustomizations,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return nil, fmt.Errorf("decode items for order %s: %w", o.ID, err)
	}
	if err := json.Unmarshal(addrJSON, &o.ShippingAddress); err != nil {
		return nil, fmt.Errorf("decode address for order %s: %w", o.ID, err)
	}
	if o.Subtotal, err = db.ParseNumeric(subtotal); err != nil {
		return nil, err
	}
	if o.Shipping, err = db.ParseNumeric(shipping); err != nil {
		return nil, err
	}
	if o.Tax, err = db.ParseNumeric(tax); err != nil {
		return nil, err
	}
	if o.Total, err = db.ParseNumeric(total); err != nil {
		return nil, err
	}
	o.Status = domain.OrderStatus(status)
	o.OrderType = domain.OrderType(orderType)
	return &o, nil
}
