// Package cache holds the read cache that sits in front of the data store.
// Entries are grouped by record kind so a write can drop everything it made
// stale with a single Invalidate call.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/Veraticus/shop-diary/internal/model"
)

// Fetcher loads a fresh value on a cache miss.
type Fetcher func(ctx context.Context) (any, error)

type entryKey struct {
	kind   model.Kind
	params string
}

type cacheEntry struct {
	expiry time.Time
	value  any
}

// Cache is a thread-safe read cache keyed by kind and query params.
type Cache struct {
	now     func() time.Time
	entries map[entryKey]cacheEntry
	stopCh  chan struct{}
	ttl     time.Duration
	mu      sync.RWMutex
	closed  bool
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL expires entries after ttl. Zero keeps entries until invalidated.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[entryKey]cacheEntry),
		stopCh:  make(chan struct{}),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	// Only expiring caches need sweeping
	if c.ttl > 0 {
		go c.cleanup(sweepInterval(c.ttl))
	}

	return c
}

func sweepInterval(ttl time.Duration) time.Duration {
	return max(ttl, time.Minute)
}

// Get returns the cached value for kind and params if present and fresh.
func (c *Cache) Get(kind model.Kind, params string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[entryKey{kind: kind, params: params}]
	if !exists || c.expired(entry) {
		return nil, false
	}
	return entry.value, true
}

// Set stores value under kind and params.
func (c *Cache) Set(kind model.Kind, params string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := cacheEntry{value: value}
	if c.ttl > 0 {
		entry.expiry = c.now().Add(c.ttl)
	}
	c.entries[entryKey{kind: kind, params: params}] = entry
}

// GetOrFetch returns the cached value or calls fetch and caches its result.
// Errors are returned as-is and never cached.
func (c *Cache) GetOrFetch(ctx context.Context, kind model.Kind, params string, fetch Fetcher) (any, error) {
	if value, ok := c.Get(kind, params); ok {
		return value, nil
	}

	value, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.Set(kind, params, value)
	return value, nil
}

// Invalidate drops every entry of kind regardless of params.
func (c *Cache) Invalidate(kind model.Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if key.kind == kind {
			delete(c.entries, key)
		}
	}
}

// Clear removes all entries from the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[entryKey]cacheEntry)
}

// Len returns the number of entries in the cache, stale ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		close(c.stopCh)
		c.closed = true
	}
}

func (c *Cache) expired(entry cacheEntry) bool {
	return !entry.expiry.IsZero() && c.now().After(entry.expiry)
}

// cleanup periodically removes expired entries.
func (c *Cache) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.mu.Lock()
			for key, entry := range c.entries {
				if c.expired(entry) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

// Fetch is a typed wrapper around GetOrFetch.
func Fetch[T any](ctx context.Context, c *Cache, kind model.Kind, params string, fetch func(context.Context) (T, error)) (T, error) {
	value, err := c.GetOrFetch(ctx, kind, params, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}

	typed, ok := value.(T)
	if !ok {
		// A different type under the same key means a caller bug; refetch
		// and overwrite rather than panic.
		fresh, ferr := fetch(ctx)
		if ferr != nil {
			var zero T
			return zero, ferr
		}
		c.Set(kind, params, fresh)
		return fresh, nil
	}
	return typed, nil
}
