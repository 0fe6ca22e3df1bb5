package cache

import (
	"context"
	"errors"
	"sync"

	"nesswear/internal/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrDisposed is returned by Query once the cache has been disposed
var ErrDisposed = errors.New("cache disposed")

type entry struct {
	key   Key
	value any
}

// flight tracks one in-flight fetch. A stale flight still answers the
// callers already waiting on it but its result is not retained.
type flight struct {
	key   Key
	stale bool
}

// Cache retains successful query results until they are invalidated and
// shares one fetch between concurrent queries for the same key. Values are
// shared between callers and must be treated as read-only.
type Cache struct {
	mu       sync.Mutex
	entries  map[string]entry
	flights  map[string]*flight
	group    singleflight.Group
	disposed bool

	metrics *metrics.Metrics
	logger  *zap.Logger
}

// New creates an empty cache
func New(m *metrics.Metrics, logger *zap.Logger) *Cache {
	if m == nil {
		m = metrics.New(nil)
	}
	return &Cache{
		entries: make(map[string]entry),
		flights: make(map[string]*flight),
		metrics: m,
		logger:  logger,
	}
}

// Query returns the retained value for key, or runs fetch to produce it.
// Concurrent queries for an equal key share a single fetch and its outcome.
// The fetch itself is not cancelled when one caller's ctx ends; that caller
// simply stops waiting. Errors are returned to every waiter and never
// retained.
func Query[T any](ctx context.Context, c *Cache, key Key, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	id := key.String()

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return zero, ErrDisposed
	}
	if e, ok := c.entries[id]; ok {
		if v, ok := e.value.(T); ok {
			c.mu.Unlock()
			c.metrics.CacheHits.Inc()
			c.logger.Debug("Cache hit", zap.Strings("key", key))
			return v, nil
		}
	}
	f, shared := c.flights[id]
	if !shared {
		f = &flight{key: key}
		c.flights[id] = f
	}
	c.mu.Unlock()

	if shared {
		c.metrics.CacheShared.Inc()
		c.logger.Debug("Cache joined in-flight fetch", zap.Strings("key", key))
	} else {
		c.metrics.CacheMisses.Inc()
		c.logger.Debug("Cache miss", zap.Strings("key", key))
	}

	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(id, func() (any, error) {
		// A joiner can arrive after the flight it saw has already settled
		if v, ok := Lookup[T](c, key); ok {
			c.release(id, f)
			return v, nil
		}
		v, err := fetch(detached)
		c.complete(id, f, v, err)
		return v, err
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		v, _ := res.Val.(T)
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Lookup returns a retained value without fetching
func Lookup[T any](c *Cache, key Key) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	e, ok := c.entries[key.String()]
	if !ok {
		return zero, false
	}
	v, ok := e.value.(T)
	return v, ok
}

func (c *Cache) release(id string, f *flight) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.flights[id] == f {
		delete(c.flights, id)
	}
}

func (c *Cache) complete(id string, f *flight, v any, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.flights[id] == f {
		delete(c.flights, id)
	}
	if err != nil || f.stale || c.disposed {
		return
	}
	c.entries[id] = entry{key: f.key, value: v}
	c.metrics.CacheEntries.Set(float64(len(c.entries)))
}

// Invalidate removes every entry whose key starts with prefix and detaches
// matching in-flight fetches so the next query fetches again. It returns
// the number of retained entries removed.
func (c *Cache) Invalidate(prefix Key) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for id, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			delete(c.entries, id)
			removed++
		}
	}
	for id, f := range c.flights {
		if f.key.HasPrefix(prefix) {
			f.stale = true
			delete(c.flights, id)
			c.group.Forget(id)
		}
	}

	c.metrics.CacheInvalidations.Add(float64(removed))
	c.metrics.CacheEntries.Set(float64(len(c.entries)))
	c.logger.Debug("Cache invalidated",
		zap.Strings("prefix", prefix),
		zap.Int("removed", removed),
	)
	return removed
}

// retained returns the number of retained entries
func (c *Cache) retained() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Dispose drops every entry. Subsequent queries fail with ErrDisposed.
func (c *Cache) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return
	}
	c.disposed = true
	for id, f := range c.flights {
		f.stale = true
		c.group.Forget(id)
	}
	c.entries = make(map[string]entry)
	c.flights = make(map[string]*flight)
	c.metrics.CacheEntries.Set(0)
	c.logger.Info("Catalog cache disposed")
}
