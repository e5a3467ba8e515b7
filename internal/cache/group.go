// Package cache provides a small read-through cache that coalesces concurrent
// loads of the same key into a single in-flight fetch.
package cache

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// Loader fetches the value for a key on a cache miss.
type Loader[V any] func(ctx context.Context) (V, error)

// Observer is notified of hits and misses. It may be nil.
type Observer interface {
	CacheHit(name string)
	CacheMiss(name string)
}

// Group maps a key to either a resolved value or an in-flight shared fetch.
// Resolved values expire after the configured TTL; errors are never cached.
// Values are shared between callers and must be treated as read-only.
type Group[V any] struct {
	name   string
	values *gocache.Cache
	flight singleflight.Group
	obs    Observer

	mu  sync.Mutex
	gen map[string]uint64
}

// New creates a Group whose resolved values live for ttl.
func New[V any](name string, ttl time.Duration, obs Observer) *Group[V] {
	cleanup := 2 * ttl
	if cleanup <= 0 {
		cleanup = time.Minute
	}
	return &Group[V]{
		name:   name,
		values: gocache.New(ttl, cleanup),
		obs:    obs,
		gen:    make(map[string]uint64),
	}
}

// Get returns the cached value for key or runs load once for all concurrent
// callers of the same key. The shared fetch is detached from the caller's
// cancellation so one caller giving up does not fail the others; a caller
// whose ctx is done returns ctx.Err() without waiting.
func (g *Group[V]) Get(ctx context.Context, key string, load Loader[V]) (V, error) {
	if v, ok := g.values.Get(key); ok {
		g.hit()
		return v.(V), nil
	}
	g.miss()

	shared := context.WithoutCancel(ctx)
	ch := g.flight.DoChan(key, func() (any, error) {
		if v, ok := g.values.Get(key); ok {
			return v, nil
		}
		started := g.generation(key)
		v, err := load(shared)
		if err != nil {
			return nil, err
		}
		g.store(key, started, v)
		return v, nil
	})

	var zero V
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(V), nil
	}
}

// Invalidate drops the cached value for key. A load already in flight for
// key still answers its own callers but neither stores its result nor serves
// callers that arrive after Invalidate.
func (g *Group[V]) Invalidate(key string) {
	g.mu.Lock()
	g.gen[key]++
	g.values.Delete(key)
	g.mu.Unlock()
	g.flight.Forget(key)
}

func (g *Group[V]) generation(key string) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gen[key]
}

// store caches v unless key was invalidated after the load started.
func (g *Group[V]) store(key string, started uint64, v V) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.gen[key] != started {
		return
	}
	g.values.SetDefault(key, v)
}

func (g *Group[V]) hit() {
	if g.obs != nil {
		g.obs.CacheHit(g.name)
	}
}

func (g *Group[V]) miss() {
	if g.obs != nil {
		g.obs.CacheMiss(g.name)
	}
}
