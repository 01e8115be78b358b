package offline

import (
	"context"
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStorage(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisStorage(rdb, "test:"), mr
}

func TestRedisStoragePutMatchRoundTrip(t *testing.T) {
	ctx := context.Background()
	st, _ := newRedisStorage(t)

	cache, err := st.Open(ctx, "v1")
	require.NoError(t, err)

	miss, err := cache.Match(ctx, origin+"/")
	require.NoError(t, err)
	assert.Nil(t, miss)

	want := &Response{
		URL:    origin + "/",
		Status: 200,
		Header: http.Header{"Content-Type": []string{"text/html"}},
		Body:   []byte("<html>shell</html>"),
		Type:   TypeBasic,
	}
	require.NoError(t, cache.Put(ctx, origin+"/", want))

	got, err := cache.Match(ctx, origin+"/")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRedisStoragePutAllAndKeys(t *testing.T) {
	ctx := context.Background()
	st, mr := newRedisStorage(t)

	cache, err := st.Open(ctx, "v2")
	require.NoError(t, err)
	require.NoError(t, cache.PutAll(ctx, []Entry{
		{Key: "b", Response: &Response{Status: 200, Body: []byte("b")}},
		{Key: "a", Response: &Response{Status: 200, Body: []byte("a")}},
	}))

	keys, err := cache.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)
	assert.True(t, mr.Exists("test:cache:v2"))

	has, err := st.Has(ctx, "v2")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestRedisStorageDelete(t *testing.T) {
	ctx := context.Background()
	st, mr := newRedisStorage(t)

	for _, name := range []string{"v1", "v2"} {
		c, err := st.Open(ctx, name)
		require.NoError(t, err)
		require.NoError(t, c.Put(ctx, "k", &Response{Status: 200}))
	}

	removed, err := st.Delete(ctx, "v1")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.False(t, mr.Exists("test:cache:v1"))

	removed, err = st.Delete(ctx, "v1")
	require.NoError(t, err)
	assert.False(t, removed)

	names, err := st.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"v2"}, names)
}

func TestRedisStorageWritesAfterDeleteDoNotResurrect(t *testing.T) {
	ctx := context.Background()
	st, mr := newRedisStorage(t)

	stale, err := st.Open(ctx, "v1")
	require.NoError(t, err)
	require.NoError(t, stale.Put(ctx, "k", &Response{Status: 200}))

	_, err = st.Delete(ctx, "v1")
	require.NoError(t, err)

	assert.ErrorIs(t, stale.Put(ctx, "k2", &Response{Status: 200}), ErrStoreDeleted)

	names, err := st.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.False(t, mr.Exists("test:cache:v1"))
}

func TestRedisRestartWithOriginDownServesPreviousStore(t *testing.T) {
	ctx := context.Background()
	st, _ := newRedisStorage(t)

	net := newFakeNetwork()
	net.serve("/", 200, TypeBasic, "<html>shell</html>")
	require.NoError(t, newTestManager(t, "v1", st, net).Start(ctx))
	net.setDown(true)

	m := newTestManager(t, "v2", st, net)
	assert.ErrorIs(t, m.Start(ctx), ErrInstallFailed)

	resp, err := m.Handle(ctx, get("/?mode=overview", ModeNavigate))
	require.NoError(t, err)
	assert.Equal(t, "<html>shell</html>", string(resp.Body))

	has, err := st.Has(ctx, "v2")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestManagerOverRedisStorage(t *testing.T) {
	ctx := context.Background()
	st, _ := newRedisStorage(t)

	stale, err := st.Open(ctx, "panduan-shalat-v0")
	require.NoError(t, err)
	require.NoError(t, stale.Put(ctx, "k", &Response{Status: 200}))

	net := newFakeNetwork()
	net.serve("/", 200, TypeBasic, "<html>shell</html>")
	m := newTestManager(t, DefaultVersion, st, net)
	require.NoError(t, m.Start(ctx))

	names, err := st.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultVersion}, names)

	net.setDown(true)
	resp, err := m.Handle(ctx, get("/anything", ModeNavigate))
	require.NoError(t, err)
	assert.Equal(t, []byte("<html>shell</html>"), resp.Body)
}

func TestRedisStorageSurfacesConnectionErrors(t *testing.T) {
	ctx := context.Background()
	st, mr := newRedisStorage(t)
	mr.Close()

	_, err := st.Keys(ctx)
	assert.Error(t, err)
}
