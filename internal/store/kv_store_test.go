package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/foodlens/internal/db"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestKVStoreGetMissing(t *testing.T) {
	store := NewKVStore(openTestDB(t))

	value, ok, err := store.Get(context.Background(), "foodHistory")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestKVStoreSetAndGet(t *testing.T) {
	store := NewKVStore(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "recentFoodSearches", `["banana"]`))

	value, ok, err := store.Get(ctx, "recentFoodSearches")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `["banana"]`, value)
}

func TestKVStoreSetOverwrites(t *testing.T) {
	store := NewKVStore(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "one"))
	require.NoError(t, store.Set(ctx, "k", "two"))

	value, _, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "two", value)
}

func TestKVStoreDelete(t *testing.T) {
	store := NewKVStore(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v"))
	require.NoError(t, store.Delete(ctx, "k"))
	require.NoError(t, store.Delete(ctx, "k"), "deleting a missing key is a no-op")

	_, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKVStoreKeysAreIndependent(t *testing.T) {
	store := NewKVStore(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", "1"))
	require.NoError(t, store.Set(ctx, "b", "2"))
	require.NoError(t, store.Delete(ctx, "a"))

	value, ok, err := store.Get(ctx, "b")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2", value)
}
