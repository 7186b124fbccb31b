package customers

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresFind(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	lastOrder := time.Date(2025, 5, 20, 9, 30, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT customer_id, name, phone, address, last_order_at`)).
		WithArgs(int64(1001)).
		WillReturnRows(pgxmock.NewRows([]string{"customer_id", "name", "phone", "address", "last_order_at"}).
			AddRow(int64(1001), "Meera", "+91-98-0000-1111", "12 MG Road", lastOrder))

	dir := NewPostgresDirectory(mock)
	got, err := dir.Find(context.Background(), 1001)
	require.NoError(t, err)
	assert.Equal(t, "Meera", got.Name)
	assert.Equal(t, lastOrder, got.LastOrderAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindMissing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT customer_id, name, phone, address, last_order_at`)).
		WithArgs(int64(404)).
		WillReturnError(pgx.ErrNoRows)

	dir := NewPostgresDirectory(mock)
	_, err = dir.Find(context.Background(), 404)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPostgresUpsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO customers`)).
		WithArgs(int64(1001), "Meera", "+91-98-0000-1111", "12 MG Road", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	dir := NewPostgresDirectory(mock)
	err = dir.Upsert(context.Background(), &Profile{
		CustomerID: 1001,
		Name:       "Meera",
		Phone:      "+91-98-0000-1111",
		Address:    "12 MG Road",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
