package services

import (
	"context"
	"errors"
	"poi-route-service/internal/domain"
	"poi-route-service/internal/graph"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCache struct {
	mu       sync.Mutex
	items    map[string]domain.Path
	gets     int
	sets     int
	getErr   error
	setErr   error
	setCtxOK bool
}

func newMemCache() *memCache { return &memCache{items: map[string]domain.Path{}} }

func (c *memCache) Get(_ context.Context, key string) (domain.Path, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return domain.Path{}, false, c.getErr
	}
	p, ok := c.items[key]
	return p, ok, nil
}

func (c *memCache) Set(ctx context.Context, key string, p domain.Path, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.setCtxOK = ctx.Err() == nil
	if c.setErr != nil {
		return c.setErr
	}
	c.items[key] = p
	return nil
}

func TestCachedRouterCachesSuccessfulPaths(t *testing.T) {
	svc := newTestService(t)
	cache := newMemCache()
	r := NewCachedRouter(svc, cache, time.Minute, nil)
	req := RouteRequest{Mode: ModeDirect, Source: "A", Target: "B"}

	first, err := r.Route(context.Background(), req)
	require.NoError(t, err)
	second, err := r.Route(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.sets)
	assert.Contains(t, cache.items, r.key(req))
}

func TestCachedRouterDoesNotCacheErrors(t *testing.T) {
	svc := newTestService(t)
	cache := newMemCache()
	r := NewCachedRouter(svc, cache, time.Minute, nil)

	_, err := r.Route(context.Background(), RouteRequest{Mode: ModeDirect, Source: "A", Target: "Q"})
	assert.ErrorIs(t, err, domain.ErrNoPath)
	assert.Zero(t, cache.sets)
}

func TestCachedRouterFallsThroughOnCacheFailure(t *testing.T) {
	svc := newTestService(t)
	cache := newMemCache()
	cache.getErr = errors.New("connection refused")
	cache.setErr = errors.New("connection refused")
	r := NewCachedRouter(svc, cache, time.Minute, nil)

	p, err := r.Route(context.Background(), RouteRequest{Mode: ModeDirect, Source: "A", Target: "B"})
	require.NoError(t, err)
	assert.Equal(t, 8.0, p.Cost)
}

func TestCachedRouterSharedSearchSurvivesCanceledCaller(t *testing.T) {
	svc := newTestService(t)
	cache := newMemCache()
	r := NewCachedRouter(svc, cache, time.Minute, nil)

	started := make(chan struct{}, 4)
	release := make(chan struct{})
	r.route = func(ctx context.Context, req RouteRequest) (domain.Path, error) {
		started <- struct{}{}
		<-release
		if err := ctx.Err(); err != nil {
			return domain.Path{}, err
		}
		return svc.Route(ctx, req)
	}
	req := RouteRequest{Mode: ModeDirect, Source: "A", Target: "B"}

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := r.Route(firstCtx, req)
		firstErr <- err
	}()
	<-started

	type result struct {
		p   domain.Path
		err error
	}
	second := make(chan result, 1)
	go func() {
		p, err := r.Route(context.Background(), req)
		second <- result{p, err}
	}()

	// The canceled caller stops waiting without the search finishing.
	cancel()
	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("canceled caller still waiting")
	}

	time.Sleep(20 * time.Millisecond)
	close(release)

	res := <-second
	require.NoError(t, res.err)
	assert.Equal(t, []domain.NodeID{"A", "Y", "B"}, res.p.Nodes)
	assert.Equal(t, 8.0, res.p.Cost)

	cache.mu.Lock()
	defer cache.mu.Unlock()
	assert.True(t, cache.setCtxOK)
	assert.Contains(t, cache.items, r.key(req))
}

func TestCachedRouterKeysAreScopedByGraph(t *testing.T) {
	a := NewCachedRouter(newTestService(t), newMemCache(), time.Minute, nil)
	b := NewCachedRouter(newTestService(t), newMemCache(), time.Minute, nil)
	req := RouteRequest{Mode: ModeDirect, Source: "A", Target: "B"}
	assert.Equal(t, a.key(req), b.key(req))

	c := NewCachedRouter(newTestService(t, func(g *graph.Store) {
		require.NoError(t, g.AddEdge("A", "B", 1))
	}), newMemCache(), time.Minute, nil)
	assert.NotEqual(t, a.key(req), c.key(req))
}
