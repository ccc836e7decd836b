package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_ExpiresLazily(t *testing.T) {
	clk := &clock{t: time.Unix(1_700_000_000, 0)}
	c := NewMemoryCacheWithClock(time.Minute, clk.now)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "genres", []byte(`[]`)))
	got, ok, err := c.Get(ctx, "genres")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte(`[]`), got)

	clk.advance(time.Minute)
	_, ok, err = c.Get(ctx, "genres")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len(), "expired entries stay until overwritten")

	_, ok, _ = c.Get(ctx, "missing")
	assert.False(t, ok)
}

func TestMemoryCache_CopiesValue(t *testing.T) {
	c := NewMemoryCache(0)
	ctx := context.Background()
	v := []byte("abc")
	require.NoError(t, c.Set(ctx, "k", v))
	v[0] = 'x'

	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "abc", string(got))
}

func TestRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	c := NewRedisCache(rdb, "catalog", time.Minute)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "movie_1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "movie_1", []byte(`{"movieId":1}`)))
	assert.True(t, mr.Exists("catalog:movie_1"))
	assert.Equal(t, time.Minute, mr.TTL("catalog:movie_1"))

	got, ok, err := c.Get(ctx, "movie_1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"movieId":1}`, string(got))

	mr.FastForward(time.Minute)
	_, ok, err = c.Get(ctx, "movie_1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClientOverRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	fake := newFakeCatalog(t, map[string]string{"/api/genre": `[{"genreId":1,"name":"Drama"}]`})
	c := newTestClient(fake, NewRedisCache(rdb, "catalog", DefaultTTL), nil)
	ctx := context.Background()

	assert.Len(t, c.ListGenres(ctx), 1)
	assert.Len(t, c.ListGenres(ctx), 1)
	assert.Equal(t, 1, fake.count("/api/genre"))

	mr.FastForward(DefaultTTL)
	assert.Len(t, c.ListGenres(ctx), 1)
	assert.Equal(t, 2, fake.count("/api/genre"))
}
