package tenant

import (
	"context"
	"sync"
	"time"
)

// Cache is the interface for tenant caching implementations.
type Cache interface {
	// Get retrieves a tenant from cache by slug.
	Get(ctx context.Context, slug string) (*Tenant, bool)

	// Set stores a tenant in cache with the given TTL.
	Set(ctx context.Context, slug string, t *Tenant, ttl time.Duration)

	// Delete removes a tenant from cache.
	Delete(ctx context.Context, slug string)

	// Close releases any resources held by the cache.
	Close() error
}

// DefaultCacheSize is the default maximum number of items in the
// in-memory cache.
const DefaultCacheSize = 1000

type cacheItem struct {
	tenant    *Tenant
	expiresAt time.Time
}

// inMemoryCache is the default in-memory cache implementation with TTL
// expiry and a simple LRU bound.
type inMemoryCache struct {
	mu      sync.Mutex
	items   map[string]cacheItem
	order   []string
	maxSize int
	stop    chan struct{}
	closed  bool
}

// NewInMemoryCache creates an in-memory cache with periodic cleanup of
// expired entries.
func NewInMemoryCache() Cache {
	return NewInMemoryCacheWithSize(DefaultCacheSize)
}

// NewInMemoryCacheWithSize creates an in-memory cache with the given
// size limit.
func NewInMemoryCacheWithSize(maxSize int) Cache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}

	c := &inMemoryCache{
		items:   make(map[string]cacheItem),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		stop:    make(chan struct{}),
	}
	go c.cleanupLoop()
	return c
}

func (c *inMemoryCache) Get(ctx context.Context, slug string) (*Tenant, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[slug]
	if !ok {
		return nil, false
	}
	if time.Now().After(item.expiresAt) {
		delete(c.items, slug)
		c.removeOrder(slug)
		return nil, false
	}

	c.touch(slug)
	return item.tenant, true
}

func (c *inMemoryCache) Set(ctx context.Context, slug string, t *Tenant, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[slug]; !exists && len(c.items) >= c.maxSize {
		// Evict least recently used entry.
		if len(c.order) > 0 {
			evict := c.order[0]
			c.order = c.order[1:]
			delete(c.items, evict)
		}
	}

	c.items[slug] = cacheItem{tenant: t, expiresAt: time.Now().Add(ttl)}
	c.touch(slug)
}

func (c *inMemoryCache) Delete(ctx context.Context, slug string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, slug)
	c.removeOrder(slug)
}

func (c *inMemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.stop)
	}
	return nil
}

// touch moves slug to the most-recently-used position. Caller holds the lock.
func (c *inMemoryCache) touch(slug string) {
	c.removeOrder(slug)
	c.order = append(c.order, slug)
}

func (c *inMemoryCache) removeOrder(slug string) {
	for i, k := range c.order {
		if k == slug {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

func (c *inMemoryCache) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for slug, item := range c.items {
				if now.After(item.expiresAt) {
					delete(c.items, slug)
					c.removeOrder(slug)
				}
			}
			c.mu.Unlock()
		}
	}
}
