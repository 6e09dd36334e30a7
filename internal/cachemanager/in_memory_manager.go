package cachemanager

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/zjrosen/slotmenu/internal/log"
)

const DefaultExpiration = 10 * time.Minute
const DefaultCleanupInterval = 30 * time.Second

// NewInMemoryCacheManager creates a cache whose expired entries are swept
// every cleanupInterval.
func NewInMemoryCacheManager[K ~string, V any](useCase string, defaultExpiration, cleanupInterval time.Duration) *InMemoryCacheManager[K, V] {
	c := &InMemoryCacheManager[K, V]{
		useCase: useCase,
		cache:   gocache.New(defaultExpiration, cleanupInterval),
	}
	c.cache.OnEvicted(c.evicted)
	return c
}

// InMemoryCacheManager is the go-cache backed CacheManager.
type InMemoryCacheManager[K ~string, V any] struct {
	useCase string
	cache   *gocache.Cache

	mu        sync.RWMutex
	onExpired func(key K, value V)
	// taken marks keys removed on purpose so evicted does not report them
	taken map[string]struct{}
}

// OnExpired sets the callback run when an entry is dropped without being
// taken or deleted, i.e. its TTL ran out. go-cache runs it from its
// janitor goroutine or from the call that noticed the expiry.
func (c *InMemoryCacheManager[K, V]) OnExpired(fn func(key K, value V)) {
	c.mu.Lock()
	c.onExpired = fn
	c.mu.Unlock()
}

func (c *InMemoryCacheManager[K, V]) evicted(key string, value any) {
	c.mu.Lock()
	if _, ok := c.taken[key]; ok {
		delete(c.taken, key)
		c.mu.Unlock()
		return
	}
	fn := c.onExpired
	c.mu.Unlock()

	v, ok := value.(V)
	if !ok {
		log.Error(log.CatListen, "wrong type assertion when evicting value", "cache", c.useCase, "key", key)
		return
	}
	log.Debug(log.CatListen, "cache entry expired", "cache", c.useCase, "key", key)
	if fn != nil {
		fn(K(key), v)
	}
}

// Get retrieves an unexpired item.
func (c *InMemoryCacheManager[K, V]) Get(ctx context.Context, key K) (V, bool) {
	var zeroValue V

	value, found := c.cache.Get(string(key))
	if !found {
		return zeroValue, false
	}

	// Type assertion check to ensure the type is correct
	v, ok := value.(V)
	if !ok {
		log.Error(log.CatListen, "wrong type assertion when getting value", "cache", c.useCase, "key", key)
		return zeroValue, false
	}
	return v, true
}

// Take retrieves and removes an unexpired item. The expiry callback does
// not run for it.
func (c *InMemoryCacheManager[K, V]) Take(ctx context.Context, key K) (V, bool) {
	v, ok := c.Get(ctx, key)
	if !ok {
		return v, false
	}
	c.remove(string(key))
	return v, true
}

// Set stores value for ttl. Replacing an entry does not report it expired.
func (c *InMemoryCacheManager[K, V]) Set(ctx context.Context, key K, value V, ttl time.Duration) {
	c.cache.Set(string(key), value, ttl)
}

// Delete removes items without reporting them expired.
func (c *InMemoryCacheManager[K, V]) Delete(ctx context.Context, keys ...K) error {
	for _, key := range keys {
		if _, found := c.cache.Get(string(key)); found {
			c.remove(string(key))
		}
	}
	return nil
}

func (c *InMemoryCacheManager[K, V]) remove(key string) {
	c.mu.Lock()
	if c.taken == nil {
		c.taken = make(map[string]struct{})
	}
	c.taken[key] = struct{}{}
	c.mu.Unlock()
	c.cache.Delete(key)
}

// Flush drops everything. No expiry callbacks run.
func (c *InMemoryCacheManager[K, V]) Flush(ctx context.Context) error {
	c.cache.Flush()
	c.mu.Lock()
	clear(c.taken)
	c.mu.Unlock()
	return nil
}

// Len returns the number of entries, expired ones included until swept.
func (c *InMemoryCacheManager[K, V]) Len() int {
	return c.cache.ItemCount()
}

// DeleteExpired sweeps expired entries now, running expiry callbacks.
func (c *InMemoryCacheManager[K, V]) DeleteExpired() {
	c.cache.DeleteExpired()
}
