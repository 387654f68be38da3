package cache

import (
	"context"
	"sync"
	"time"

	"github.com/giftguide/backend/internal/domain"
)

// EvictFunc is called for every entry removed because it expired
type EvictFunc func(key string, value interface{})

// cacheItem represents a single item in the cache with expiration
type cacheItem struct {
	Value      interface{}
	Expiration time.Time
}

// MemoryCache is a thread-safe in-memory session store with TTL support.
// Values are stored by reference so live objects (modals) can be kept.
type MemoryCache struct {
	data    map[string]cacheItem
	mutex   sync.RWMutex
	onEvict EvictFunc
	stop    chan struct{}
	once    sync.Once
}

// NewMemoryCache creates a new in-memory cache that sweeps expired entries
// every cleanupInterval
func NewMemoryCache(cleanupInterval time.Duration, onEvict EvictFunc) *MemoryCache {
	if cleanupInterval <= 0 {
		cleanupInterval = 5 * time.Minute
	}

	cache := &MemoryCache{
		data:    make(map[string]cacheItem),
		onEvict: onEvict,
		stop:    make(chan struct{}),
	}

	go cache.cleanupExpired(cleanupInterval)

	return cache
}

// Get retrieves a value from the cache. An expired entry is evicted on the
// spot so its hook runs without waiting for the next sweep.
func (c *MemoryCache) Get(ctx context.Context, key string) (interface{}, error) {
	c.mutex.RLock()
	item, exists := c.data[key]
	c.mutex.RUnlock()

	if !exists {
		return nil, domain.ErrCacheMiss
	}

	// Check if expired
	if time.Now().After(item.Expiration) {
		c.evictExpired(key)
		return nil, domain.ErrCacheMiss
	}

	return item.Value, nil
}

// evictExpired removes key if it is still expired. A concurrent Set may have
// refreshed it, and a concurrent sweep may already have evicted it.
func (c *MemoryCache) evictExpired(key string) {
	c.mutex.Lock()
	item, exists := c.data[key]
	if !exists || !time.Now().After(item.Expiration) {
		c.mutex.Unlock()
		return
	}
	delete(c.data, key)
	c.mutex.Unlock()

	if c.onEvict != nil {
		c.onEvict(key, item.Value)
	}
}

// Set stores a value in the cache with TTL
func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = cacheItem{
		Value:      value,
		Expiration: time.Now().Add(ttl),
	}

	return nil
}

// Delete removes a value from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// cleanupExpired removes expired entries from the cache periodically
func (c *MemoryCache) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Sweep()
		case <-c.stop:
			return
		}
	}
}

// Sweep removes expired entries now and runs the eviction hook on them.
// The hook runs outside the lock.
func (c *MemoryCache) Sweep() int {
	type evicted struct {
		key   string
		value interface{}
	}

	c.mutex.Lock()
	now := time.Now()
	var expired []evicted
	for key, item := range c.data {
		if now.After(item.Expiration) {
			expired = append(expired, evicted{key: key, value: item.Value})
			delete(c.data, key)
		}
	}
	c.mutex.Unlock()

	if c.onEvict != nil {
		for _, e := range expired {
			c.onEvict(e.key, e.value)
		}
	}

	return len(expired)
}

// Close stops the cleanup goroutine
func (c *MemoryCache) Close() {
	c.once.Do(func() {
		close(c.stop)
	})
}
