package user

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"storefront/internal/domain"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const userColumns = `id::text, email, password_hash, name, first_name, last_name, phone, date_of_birth, role, addresses, created_at, updated_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger zerolog.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logger.With().Str("repo", "user").Logger()}
}

func (r *postgresRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	addrJSON, err := marshalAddresses(u.Addresses)
	if err != nil {
		return nil, err
	}
	role := u.Role
	if role == "" {
		role = domain.RoleCustomer
	}

	const q = `
INSERT INTO users (email, password_hash, name, first_name, last_name, phone, date_of_birth, role, addresses)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + userColumns
	return r.scanUser(r.pool.QueryRow(
		ctx,
		q,
		strings.ToLower(u.Email),
		u.PasswordHash,
		u.Name,
		u.FirstName,
		u.LastName,
		u.Phone,
		u.DateOfBirth,
		string(role),
		addrJSON,
	))
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `
SELECT ` + userColumns + `
FROM users
WHERE lower(email) = lower($1)
LIMIT 1
`
	return r.scanUser(r.pool.QueryRow(ctx, q, email))
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const q = `
SELECT ` + userColumns + `
FROM users
WHERE id::text = $1
LIMIT 1
`
	return r.scanUser(r.pool.QueryRow(ctx, q, id))
}

// UpdateProfile overwrites the editable profile fields. Email, password and role are left alone.
func (r *postgresRepo) UpdateProfile(ctx context.Context, u domain.User) (*domain.User, error) {
	addrJSON, err := marshalAddresses(u.Addresses)
	if err != nil {
		return nil, err
	}
	const q = `
UPDATE users
SET name = $2,
    first_name = $3,
    last_name = $4,
    phone = $5,
    date_of_birth = $6,
    addresses = $7,
    updated_at = now()
WHERE id::text = $1
RETURNING ` + userColumns
	return r.scanUser(r.pool.QueryRow(ctx, q, u.ID, u.Name, u.FirstName, u.LastName, u.Phone, u.DateOfBirth, addrJSON))
}

func (r *postgresRepo) scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var role string
	var addrJSON []byte
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.FirstName,
		&u.LastName,
		&u.Phone,
		&u.DateOfBirth,
		&role,
		&addrJSON,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Error().Err(err).Msg("scan user")
		return nil, err
	}
	u.Role = domain.ParseRole(role)
	if len(addrJSON) > 0 {
		if err := json.Unmarshal(addrJSON, &u.Addresses); err != nil {
			r.logger.Error().Err(err).Str("id", u.ID).Msg("decode addresses")
			return nil, err
		}
	}
	return &u, nil
}

func marshalAddresses(addrs []domain.Address) ([]byte, error) {
	if addrs == nil {
		addrs = []domain.Address{}
	}
	return json.Marshal(addrs)
}
