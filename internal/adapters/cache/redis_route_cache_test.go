package cache

import (
	"context"
	"poi-route-service/internal/domain"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisRouteCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisRouteCache(client), mr
}

func TestRedisRouteCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "route:abc:direct|A|B")
	require.NoError(t, err)
	assert.False(t, ok)

	want := domain.Path{Nodes: []domain.NodeID{"A", "Y", "B"}, Cost: 8.5, LengthMeters: 8.5}
	require.NoError(t, c.Set(ctx, "route:abc:direct|A|B", want, time.Minute))

	got, ok, err := c.Get(ctx, "route:abc:direct|A|B")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestRedisRouteCacheExpires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", domain.Path{Nodes: []domain.NodeID{"A"}}, time.Minute))
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisRouteCacheErrors(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("garbage", "not json"))
	_, _, err := c.Get(ctx, "garbage")
	assert.Error(t, err)

	addr := mr.Addr()
	mr.Close()
	_, _, err = c.Get(ctx, "k")
	assert.Error(t, err)
	assert.Error(t, c.Set(ctx, "k", domain.Path{}, time.Minute))

	_, err = Dial(ctx, addr)
	assert.Error(t, err)
}

func TestDialPingsServer(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := Dial(context.Background(), mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	c := NewRedisRouteCache(client)
	require.NoError(t, c.Set(context.Background(), "k", domain.Path{Nodes: []domain.NodeID{"A"}}, time.Minute))
	assert.True(t, mr.Exists("k"))
}
