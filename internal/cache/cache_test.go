package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return &Redis{Client: client, Prefix: "rental"}, mr
}

func TestRedisRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.Set(ctx, "r1", []byte(`{"id":"r1"}`), time.Minute))
	raw, ok, err := c.Get(ctx, "r1")
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"id":"r1"}`, string(raw))
}

func TestRedisInvalidate(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "r1", []byte("x"), time.Minute))
	require.NoError(t, c.Invalidate(ctx, "r1"))
	_, ok, err := c.Get(ctx, "r1")
	require.NoError(t, err)
	require.False(t, ok)

	// Invalidating an absent key is fine.
	require.NoError(t, c.Invalidate(ctx, "never-set"))
}

func TestRedisExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "r1", []byte("x"), time.Second))
	mr.FastForward(2 * time.Second)
	_, ok, err := c.Get(ctx, "r1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedisPrefixing(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, c.Set(context.Background(), "r1", []byte("x"), time.Minute))
	require.True(t, mr.Exists("rental:r1"))
}

func TestNilClientDegradesToMiss(t *testing.T) {
	var c *Redis
	_, ok, err := c.Get(context.Background(), "anything")
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, c.Set(context.Background(), "k", []byte("v"), time.Minute))
	require.NoError(t, c.Invalidate(context.Background(), "k"))
}
