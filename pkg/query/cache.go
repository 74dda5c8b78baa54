// Package query caches fetched resources and runs mutations that invalidate
// them. It is the server-side counterpart of a client query cache: reads are
// coalesced, writes never patch cached data, they only mark it stale.
package query

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Fetcher loads the current value of a key.
type Fetcher func(ctx context.Context) (any, error)

// CacheObserver is notified about cache reads.
type CacheObserver interface {
	CacheHit(key string)
	CacheMiss(key string)
}

// CacheOption customises a Cache.
type CacheOption func(*Cache)

// WithCacheObserver reports hits and misses.
func WithCacheObserver(observer CacheObserver) CacheOption {
	return func(c *Cache) {
		c.observer = observer
	}
}

// WithCacheLogger routes cache logs to logger.
func WithCacheLogger(logger zerolog.Logger) CacheOption {
	return func(c *Cache) {
		c.logger = logger
	}
}

type entry struct {
	value any
	fresh bool
}

// Cache stores one value per key. Concurrent misses for the same key share a
// single fetch. Each key carries a generation bumped by Invalidate; a fetch
// that started under an older generation never overwrites the entry.
type Cache struct {
	mu          sync.Mutex
	entries     map[string]entry
	generations map[string]uint64
	group       singleflight.Group
	observer    CacheObserver
	logger      zerolog.Logger
}

// NewCache returns an empty cache.
func NewCache(opts ...CacheOption) *Cache {
	c := &Cache{
		entries:     make(map[string]entry),
		generations: make(map[string]uint64),
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Get returns the fresh cached value for key or runs fetch. The fetch itself
// is detached from ctx cancellation so one caller giving up does not fail
// the others sharing it; ctx still bounds how long this caller waits.
func (c *Cache) Get(ctx context.Context, key string, fetch Fetcher) (any, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && e.fresh {
		c.mu.Unlock()
		c.hit(key)
		return e.value, nil
	}
	generation := c.generations[key]
	c.mu.Unlock()
	c.miss(key)

	flightKey := key + "#" + strconv.FormatUint(generation, 10)
	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(flightKey, func() (any, error) {
		value, err := fetch(detached)
		if err != nil {
			return nil, err
		}
		c.store(key, generation, value)
		return value, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("query: fetch %q: %w", key, res.Err)
		}
		return res.Val, nil
	}
}

// Invalidate marks key stale and bumps its generation so the next Get
// refetches.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[key]++
	if e, ok := c.entries[key]; ok {
		e.fresh = false
		c.entries[key] = e
	}
	c.logger.Debug().Str("key", key).Uint64("generation", c.generations[key]).Msg("cache invalidated")
}

// Peek returns the last stored value, fresh or stale, without fetching.
func (c *Cache) Peek(key string) (value any, fresh bool, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return e.value, e.fresh, ok
}

// Generation reports how many times key has been invalidated.
func (c *Cache) Generation(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[key]
}

func (c *Cache) store(key string, generation uint64, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[key] != generation {
		c.logger.Debug().Str("key", key).Msg("discarding stale fetch")
		return
	}
	c.entries[key] = entry{value: value, fresh: true}
}

func (c *Cache) hit(key string) {
	if c.observer != nil {
		c.observer.CacheHit(key)
	}
}

func (c *Cache) miss(key string) {
	if c.observer != nil {
		c.observer.CacheMiss(key)
	}
}

// Get is a typed wrapper around Cache.Get.
func Get[T any](ctx context.Context, c *Cache, key string, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	value, err := c.Get(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("query: cached %q holds %T", key, value)
	}
	return typed, nil
}
