package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseKV runs the behavior every backend must share.
func exerciseKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	_, err := kv.Get(ctx, "users")
	require.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, kv.Set(ctx, "users", []byte(`[{"email":"a@b.c"}]`)))
	got, err := kv.Get(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, `[{"email":"a@b.c"}]`, string(got))

	require.NoError(t, kv.Set(ctx, "users", []byte(`[]`)))
	got, err = kv.Get(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	require.NoError(t, kv.Delete(ctx, "users"))
	_, err = kv.Get(ctx, "users")
	require.ErrorIs(t, err, ErrKeyNotFound)

	assert.NoError(t, kv.Delete(ctx, "users"), "deleting a missing key is not an error")
}

func TestMemoryKV(t *testing.T) {
	exerciseKV(t, NewMemoryKV())
}

func TestMemoryKV_ReturnsCopies(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	in := []byte("abc")
	require.NoError(t, kv.Set(ctx, "k", in))
	in[0] = 'x'

	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	got[1] = 'y'

	again, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestFileKV(t *testing.T) {
	kv, err := NewFileKV(t.TempDir())
	require.NoError(t, err)
	exerciseKV(t, kv)
}

func TestFileKV_WritesOneFilePerKey(t *testing.T) {
	dir := t.TempDir()
	kv, err := NewFileKV(dir)
	require.NoError(t, err)

	require.NoError(t, kv.Set(context.Background(), "active", []byte("user@example.com")))

	b, err := os.ReadFile(filepath.Join(dir, "active.json"))
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", string(b))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestFileKV_RejectsPathKeys(t *testing.T) {
	kv, err := NewFileKV(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "..", "a/b", `a\b`} {
		assert.Error(t, kv.Set(context.Background(), key, []byte("x")), key)
	}
}

func TestRedisKV(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	kv := NewRedisKV(rdb, "ticketing")
	exerciseKV(t, kv)

	require.NoError(t, kv.Set(context.Background(), "active", []byte("user@example.com")))
	v, err := mr.Get("ticketing:active")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", v)
	assert.Zero(t, mr.TTL("ticketing:active"), "store values never expire")
}
