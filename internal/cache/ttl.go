// Package cache keeps the most recent result of an expensive load for a
// fixed time-to-live.
package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const defaultLoadTimeout = time.Minute

// TTL caches the last successful result of Load. Errors are never cached.
// Concurrent callers that miss share a single Load call, which runs detached
// from any one caller's cancellation.
type TTL[T any] struct {
	load        func(ctx context.Context) (T, error)
	ttl         time.Duration
	loadTimeout time.Duration
	now         func() time.Time
	group       singleflight.Group

	mu       sync.Mutex
	value    T
	loadedAt time.Time
	valid    bool
	// gen changes on every Invalidate; loads started under an older gen
	// are not stored.
	gen uint64
}

func NewTTL[T any](ttl time.Duration, load func(ctx context.Context) (T, error)) *TTL[T] {
	return &TTL[T]{load: load, ttl: ttl, loadTimeout: defaultLoadTimeout, now: time.Now}
}

// Get returns the cached value while it is fresh and reloads otherwise.
// A caller whose ctx ends stops waiting; the shared load keeps going for the
// others.
func (c *TTL[T]) Get(ctx context.Context) (T, error) {
	var zero T
	v, ok, gen := c.fresh()
	if ok {
		return v, nil
	}
	ch := c.group.DoChan(loadKey(gen), func() (any, error) {
		if v, ok, _ := c.fresh(); ok {
			return v, nil
		}
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.loadTimeout)
		defer cancel()
		v, err := c.load(loadCtx)
		if err != nil {
			return v, err
		}
		c.mu.Lock()
		if c.gen == gen {
			c.value, c.loadedAt, c.valid = v, c.now(), true
		}
		c.mu.Unlock()
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Invalidate drops the cached value. The next Get starts a new load even if
// one is already running; that older load's result is not cached.
func (c *TTL[T]) Invalidate() {
	c.mu.Lock()
	old := c.gen
	var zero T
	c.value, c.valid = zero, false
	c.gen++
	c.mu.Unlock()
	c.group.Forget(loadKey(old))
}

func (c *TTL[T]) fresh() (T, bool, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid && c.now().Sub(c.loadedAt) < c.ttl {
		return c.value, true, c.gen
	}
	var zero T
	return zero, false, c.gen
}

func loadKey(gen uint64) string {
	return "load-" + strconv.FormatUint(gen, 10)
}
