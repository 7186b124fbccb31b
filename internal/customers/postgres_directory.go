package customers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the directory needs.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresDirectory persists profiles in the customers table.
type PostgresDirectory struct {
	db DB
}

// NewPostgresDirectory initializes a directory backed by Postgres.
func NewPostgresDirectory(db DB) *PostgresDirectory {
	if db == nil {
		panic("customers: db required")
	}
	return &PostgresDirectory{db: db}
}

// Find returns the profile or ErrNotFound.
func (d *PostgresDirectory) Find(ctx context.Context, customerID int64) (*Profile, error) {
	query := `
		SELECT customer_id, name, phone, address, last_order_at
		FROM customers
		WHERE customer_id = $1
	`
	var profile Profile
	err := d.db.QueryRow(ctx, query, customerID).Scan(
		&profile.CustomerID,
		&profile.Name,
		&profile.Phone,
		&profile.Address,
		&profile.LastOrderAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("customers: select failed: %w", err)
	}
	return &profile, nil
}

// Upsert creates or replaces the profile keyed by customer_id.
func (d *PostgresDirectory) Upsert(ctx context.Context, profile *Profile) error {
	lastOrderAt := profile.LastOrderAt
	if lastOrderAt.IsZero() {
		lastOrderAt = time.Now().UTC()
	}
	query := `
		INSERT INTO customers (customer_id, name, phone, address, last_order_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (customer_id) DO UPDATE
		SET name = EXCLUDED.name,
		    phone = EXCLUDED.phone,
		    address = EXCLUDED.address,
		    last_order_at = EXCLUDED.last_order_at
	`
	if _, err := d.db.Exec(ctx, query,
		profile.CustomerID,
		profile.Name,
		profile.Phone,
		profile.Address,
		lastOrderAt,
	); err != nil {
		return fmt.Errorf("customers: upsert failed: %w", err)
	}
	return nil
}

var _ Directory = (*PostgresDirectory)(nil)
