package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseKV runs the behaviour every backend must share.
func exerciseKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := kv.Get(ctx, "lumina_test_missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "lumina_test_key", `[{"id":"1"}]`))
	v, ok, err := kv.Get(ctx, "lumina_test_key")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[{"id":"1"}]`, v)

	require.NoError(t, kv.Set(ctx, "lumina_test_key", `[]`))
	v, ok, err = kv.Get(ctx, "lumina_test_key")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[]`, v)

	require.NoError(t, kv.Set(ctx, "lumina_test_empty", ""))
	v, ok, err = kv.Get(ctx, "lumina_test_empty")
	require.NoError(t, err)
	assert.True(t, ok, "an empty value is still present")
	assert.Empty(t, v)
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	exerciseKV(t, m)

	require.NoError(t, m.Close())
	_, _, err := m.Get(context.Background(), "x")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, m.Set(context.Background(), "x", "y"), ErrClosed)
}

func TestMemoryHonoursCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := NewMemory()
	assert.ErrorIs(t, m.Set(ctx, "k", "v"), context.Canceled)
	_, _, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "lumina.db")
	s, err := OpenSQLite(context.Background(), path)
	require.NoError(t, err)
	exerciseKV(t, s)
	require.NoError(t, s.Close())

	// Data survives reopening the file.
	s, err = OpenSQLite(context.Background(), path)
	require.NoError(t, err)
	defer s.Close()
	v, ok, err := s.Get(context.Background(), "lumina_test_key")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[]`, v)
}

func TestRedis(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	r := NewRedis(rdb, "lumina:test:", 0)
	defer r.Close()
	exerciseKV(t, r)
}

func TestPostgres(t *testing.T) {
	dsn := os.Getenv("TEST_PG_DSN")
	if dsn == "" {
		t.Skip("TEST_PG_DSN not set")
	}
	p, err := OpenPostgres(context.Background(), dsn)
	require.NoError(t, err)
	defer p.Close()
	exerciseKV(t, p)
}
