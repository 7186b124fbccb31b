package orders

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the store needs; pgxmock satisfies it too.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore persists the ledger in the orders table.
type PostgresStore struct {
	db DB
}

// NewPostgresStore initializes a ledger backed by Postgres.
func NewPostgresStore(db DB) *PostgresStore {
	if db == nil {
		panic("orders: db required")
	}
	return &PostgresStore{db: db}
}

// NextOrderID returns max(order_seq)+1, or 1 for an empty table.
func (s *PostgresStore) NextOrderID(ctx context.Context) (int64, error) {
	var next int64
	query := `SELECT COALESCE(MAX(order_seq), 0) + 1 FROM orders`
	if err := s.db.QueryRow(ctx, query).Scan(&next); err != nil {
		return 0, fmt.Errorf("orders: next id query failed: %w", err)
	}
	return next, nil
}

// Append inserts one order line.
func (s *PostgresStore) Append(ctx context.Context, rec Record) error {
	query := `
		INSERT INTO orders (order_seq, customer_id, display_name, product, quantity, unit_price, line_total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	if _, err := s.db.Exec(ctx, query,
		rec.OrderSeq,
		rec.CustomerID,
		rec.DisplayName,
		rec.Product,
		rec.Quantity,
		rec.UnitPrice,
		rec.LineTotal,
		rec.CreatedAt,
	); err != nil {
		return fmt.Errorf("orders: insert failed: %w", err)
	}
	return nil
}

var _ Store = (*PostgresStore)(nil)
