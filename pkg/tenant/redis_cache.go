package tenant

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisCache stores tenants in Redis so resolution survives process
// restarts and is shared across instances.
type redisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache creates a Redis-backed tenant cache. Keys are stored
// under "tenant:<slug>".
func NewRedisCache(client *redis.Client) Cache {
	return &redisCache{client: client, prefix: "tenant:"}
}

func (c *redisCache) Get(ctx context.Context, slug string) (*Tenant, bool) {
	data, err := c.client.Get(ctx, c.prefix+slug).Bytes()
	if err != nil {
		return nil, false
	}

	var t Tenant
	if err := json.Unmarshal(data, &t); err != nil {
		// Corrupt entry; drop it so the provider repopulates.
		_ = c.client.Del(ctx, c.prefix+slug).Err()
		return nil, false
	}
	return &t, true
}

func (c *redisCache) Set(ctx context.Context, slug string, t *Tenant, ttl time.Duration) {
	data, err := json.Marshal(t)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, c.prefix+slug, data, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, slug string) {
	_ = c.client.Del(ctx, c.prefix+slug).Err()
}

func (c *redisCache) Close() error {
	return nil
}
