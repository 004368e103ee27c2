package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"fxconvert-service/internal/domain"

	"go.uber.org/zap"
)

// RateCache is a two-tier read-through cache of pair rates. The durable
// tier is consulted first when it was reachable at startup; the memory tier
// is only read or written when the durable call misses or fails.
type RateCache struct {
	durable   RateStore
	available bool
	ttl       time.Duration
	opts      options

	mu  sync.Mutex
	mem map[string]domain.RateCacheEntry
}

// NewRateCache builds a cache. available is the result of the startup probe
// and never changes afterwards.
func NewRateCache(durable RateStore, available bool, ttl time.Duration, opts ...Option) *RateCache {
	o := buildOptions(opts)
	o.log = o.log.With(zap.String("component", "rate_cache"))
	return &RateCache{
		durable:   durable,
		available: available && durable != nil,
		ttl:       ttl,
		opts:      o,
		mem:       map[string]domain.RateCacheEntry{},
	}
}

func (c *RateCache) DurableAvailable() bool { return c.available }

// Get returns the cached rate for the pair, if any tier holds a live entry.
func (c *RateCache) Get(ctx context.Context, from, to string) (float64, bool) {
	key := domain.PairKey(from, to)
	if c.available {
		sctx, cancel := c.opts.storeCtx(ctx)
		e, err := c.durable.Get(sctx, key)
		cancel()
		switch {
		case err == nil:
			// the store applies its own expiry
			return e.Rate, true
		case errors.Is(err, domain.ErrNotFound):
			c.opts.log.Debug("rate_cache.durable_miss", zap.String("key", key))
		default:
			c.opts.log.Warn("rate_cache.durable_get_failed", zap.String("key", key), zap.Error(err))
			c.opts.metrics.DependencyDegraded("rate_cache", "get")
		}
	}
	return c.memGet(key)
}

// Put stores rate for the pair with a fresh creation time.
func (c *RateCache) Put(ctx context.Context, from, to string, rate float64) {
	e := domain.RateCacheEntry{
		Key:       domain.PairKey(from, to),
		Rate:      rate,
		CreatedAt: c.opts.clock.Now(),
	}
	if c.available {
		sctx, cancel := c.opts.storeCtx(ctx)
		err := c.durable.Upsert(sctx, e)
		cancel()
		if err == nil {
			return
		}
		c.opts.log.Warn("rate_cache.durable_put_failed", zap.String("key", e.Key), zap.Error(err))
		c.opts.metrics.DependencyDegraded("rate_cache", "put")
	}
	c.mu.Lock()
	c.mem[e.Key] = e
	c.mu.Unlock()
}

func (c *RateCache) memGet(key string) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.mem[key]
	if !ok {
		return 0, false
	}
	if !e.Live(c.opts.clock.Now(), c.ttl) {
		delete(c.mem, key)
		return 0, false
	}
	return e.Rate, true
}

func (c *RateCache) memLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.mem)
}
