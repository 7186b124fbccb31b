package customers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDirectoryFindMissing(t *testing.T) {
	dir := NewMemoryDirectory()
	_, err := dir.Find(context.Background(), 5)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemoryDirectoryUpsertReplacesAllFields(t *testing.T) {
	dir := NewMemoryDirectory()
	ctx := context.Background()

	require.NoError(t, dir.Upsert(ctx, &Profile{CustomerID: 5, Name: "Meera", Phone: "111", Address: "Old Town"}))
	require.NoError(t, dir.Upsert(ctx, &Profile{CustomerID: 5, Name: "Meera S", Phone: "222", Address: "New Town"}))

	got, err := dir.Find(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "Meera S", got.Name)
	assert.Equal(t, "222", got.Phone)
	assert.Equal(t, "New Town", got.Address)
	assert.WithinDuration(t, time.Now().UTC(), got.LastOrderAt, time.Minute)
}

func TestMemoryDirectoryReturnsCopies(t *testing.T) {
	dir := NewMemoryDirectory()
	ctx := context.Background()
	require.NoError(t, dir.Upsert(ctx, &Profile{CustomerID: 1, Name: "A"}))

	got, err := dir.Find(ctx, 1)
	require.NoError(t, err)
	got.Name = "mutated"

	again, err := dir.Find(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "A", again.Name)
}
