package ports

import (
	"context"
	"poi-route-service/internal/domain"
	"time"
)

// Port: a shared store for computed paths.
type RouteCache interface {
	// Return the cached path for key. ok is false on a miss.
	Get(ctx context.Context, key string) (p domain.Path, ok bool, err error)
	// Store a path under key for ttl.
	Set(ctx context.Context, key string, p domain.Path, ttl time.Duration) error
}
