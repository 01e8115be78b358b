package offline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorageWritesAfterDeleteDoNotResurrect(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStorage()

	stale, err := st.Open(ctx, "v1")
	require.NoError(t, err)
	require.NoError(t, stale.Put(ctx, "k", &Response{Status: 200}))

	removed, err := st.Delete(ctx, "v1")
	require.NoError(t, err)
	require.True(t, removed)

	assert.ErrorIs(t, stale.Put(ctx, "k2", &Response{Status: 200}), ErrStoreDeleted)
	assert.ErrorIs(t, stale.PutAll(ctx, []Entry{{Key: "k3", Response: &Response{Status: 200}}}), ErrStoreDeleted)

	names, err := st.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	has, err := st.Has(ctx, "v1")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestMemoryStorageMatchReturnsCopies(t *testing.T) {
	ctx := context.Background()
	cache, err := NewMemoryStorage().Open(ctx, "v1")
	require.NoError(t, err)
	require.NoError(t, cache.Put(ctx, "k", &Response{Status: 200, Body: []byte("abc")}))

	first, err := cache.Match(ctx, "k")
	require.NoError(t, err)
	first.Body[0] = 'x'

	second, err := cache.Match(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(second.Body))
}
