package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"poi-route-service/internal/domain"
	"poi-route-service/internal/platform/obs"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRouteCache stores computed paths in Redis as JSON.
type RedisRouteCache struct {
	Client *redis.Client
}

func NewRedisRouteCache(client *redis.Client) *RedisRouteCache {
	return &RedisRouteCache{Client: client}
}

// Dial connects to Redis at addr and verifies the connection.
func Dial(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("route cache: ping %s: %w", addr, err)
	}
	return client, nil
}

type cachedPath struct {
	Nodes        []domain.NodeID `json:"nodes"`
	Cost         float64         `json:"cost"`
	LengthMeters float64         `json:"length_meters"`
}

func (c *RedisRouteCache) Get(ctx context.Context, key string) (_ domain.Path, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.Get")(&err)

	if c.Client == nil {
		return domain.Path{}, false, errors.New("route cache: client is nil")
	}

	raw, err := c.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Path{}, false, nil
	}
	if err != nil {
		return domain.Path{}, false, fmt.Errorf("route cache: get %q: %w", key, err)
	}

	var cp cachedPath
	if err := json.Unmarshal(raw, &cp); err != nil {
		return domain.Path{}, false, fmt.Errorf("route cache: decode %q: %w", key, err)
	}
	return domain.Path{Nodes: cp.Nodes, Cost: cp.Cost, LengthMeters: cp.LengthMeters}, true, nil
}

func (c *RedisRouteCache) Set(ctx context.Context, key string, p domain.Path, ttl time.Duration) (err error) {
	defer obs.Time(ctx, "route.cache.Set")(&err)

	if c.Client == nil {
		return errors.New("route cache: client is nil")
	}

	raw, err := json.Marshal(cachedPath{Nodes: p.Nodes, Cost: p.Cost, LengthMeters: p.LengthMeters})
	if err != nil {
		return fmt.Errorf("route cache: encode %q: %w", key, err)
	}
	if err := c.Client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("route cache: set %q: %w", key, err)
	}
	return nil
}
