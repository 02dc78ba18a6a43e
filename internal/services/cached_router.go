package services

import (
	"context"
	"fmt"
	"poi-route-service/internal/domain"
	"poi-route-service/internal/platform/obs"
	"poi-route-service/internal/ports"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CachedRouter fronts a RouteService with a shared cache. Concurrent identical
// requests share one computation. Only successful paths are cached, and cache
// failures fall through to computation.
//
// The shared computation runs detached from any single caller's cancellation;
// each caller stops waiting when its own context ends.
type CachedRouter struct {
	svc    *RouteService
	route  func(context.Context, RouteRequest) (domain.Path, error)
	cache  ports.RouteCache
	ttl    time.Duration
	prefix string
	group  singleflight.Group
	logger *zap.Logger
}

// NewCachedRouter scopes keys by the graph fingerprint so a rebuilt graph
// never serves paths computed on an older one.
func NewCachedRouter(svc *RouteService, cache ports.RouteCache, ttl time.Duration, logger *zap.Logger) *CachedRouter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedRouter{
		svc:    svc,
		route:  svc.Route,
		cache:  cache,
		ttl:    ttl,
		prefix: "route:" + svc.Graph().Fingerprint() + ":",
		logger: logger,
	}
}

func (r *CachedRouter) key(req RouteRequest) string { return r.prefix + req.Key() }

func (r *CachedRouter) Route(ctx context.Context, req RouteRequest) (domain.Path, error) {
	key := r.key(req)

	p, ok, err := r.cache.Get(ctx, key)
	if err != nil {
		r.logger.Warn("route cache get failed", zap.String("req_id", obs.RequestID(ctx)), zap.String("key", key), zap.Error(err))
	} else if ok {
		return p, nil
	}

	shared := context.WithoutCancel(ctx)
	ch := r.group.DoChan(key, func() (any, error) {
		p, err := r.route(shared, req)
		if err != nil {
			return domain.Path{}, err
		}
		if err := r.cache.Set(shared, key, p, r.ttl); err != nil {
			r.logger.Warn("route cache set failed", zap.String("req_id", obs.RequestID(shared)), zap.String("key", key), zap.Error(err))
		}
		return p, nil
	})

	select {
	case <-ctx.Done():
		return domain.Path{}, fmt.Errorf("cached route: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return domain.Path{}, res.Err
		}
		return res.Val.(domain.Path), nil
	}
}
