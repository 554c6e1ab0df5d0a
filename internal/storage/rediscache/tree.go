// Package rediscache provides a Redis-backed cache for the rendered
// category forest.
package rediscache

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"

	"github.com/Yaseer123/etc-ecommerce-sub001/internal/domain/category"
)

const treeKey = "store:categories:tree"

var _ category.Cache = (*TreeCache)(nil)

// TreeCache stores the serialized category forest under a single key with a
// TTL, invalidated explicitly on category writes.
type TreeCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects a TreeCache to the Redis instance at addr.
func New(addr string, ttl time.Duration) *TreeCache {
	return &TreeCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

// Ping verifies connectivity, for readiness checks.
func (c *TreeCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Get returns the cached forest payload. A cache miss is (nil, false, nil).
func (c *TreeCache) Get(ctx context.Context) ([]byte, bool, error) {
	payload, err := c.client.Get(ctx, treeKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return payload, true, nil
}

// Set stores the forest payload with the configured TTL.
func (c *TreeCache) Set(ctx context.Context, payload []byte) error {
	return c.client.Set(ctx, treeKey, payload, c.ttl).Err()
}

// Invalidate drops the cached forest.
func (c *TreeCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, treeKey).Err()
}

// Close releases the underlying client.
func (c *TreeCache) Close() error {
	return c.client.Close()
}
