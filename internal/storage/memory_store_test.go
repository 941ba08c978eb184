package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetMissingKey(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "cart:local")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemoryStore_PutGetRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "cart:local", []byte(`[{"id":"a"}]`)))

	got, err := store.Get(ctx, "cart:local")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"id":"a"}]`), got)
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "k", []byte("abc")))

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	got[0] = 'x'

	again, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "k", []byte("v")))
	require.NoError(t, store.Delete(ctx, "k"))

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	// Deleting a missing key is a no-op.
	assert.NoError(t, store.Delete(ctx, "k"))
}

func TestMemoryStore_IncrIsMonotonic(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		n, err := store.Incr(ctx, "orders:counter")
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
}
