package cache

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/comitanigiacomo/circle-leader-engine/internal/core/domain"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache is an in-process memo table with lazy expiry. Concurrent misses on
// the same key share a single computation. A computation overlapped by an
// invalidation is returned to its callers but never stored.
type TTLCache[V any] struct {
	mu       sync.Mutex
	entries  map[string]entry[V]
	ttl      time.Duration
	clock    domain.Clock
	group    singleflight.Group
	gen      uint64
	inflight map[string]int
}

func NewTTLCache[V any](ttl time.Duration, clock domain.Clock) *TTLCache[V] {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &TTLCache[V]{
		entries:  make(map[string]entry[V]),
		ttl:      ttl,
		clock:    clock,
		inflight: make(map[string]int),
	}
}

func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if !c.clock.Now().Before(e.expiresAt) {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *TTLCache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{value: value, expiresAt: c.clock.Now().Add(c.ttl)}
}

// GetOrCompute returns the cached value or stores the result of compute.
// Errors are returned to every waiting caller and never cached.
func (c *TTLCache[V]) GetOrCompute(key string, compute func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	res, err, _ := c.group.Do(key, func() (interface{}, error) {
		if v, ok := c.Get(key); ok {
			return v, nil
		}

		gen := c.begin(key)
		defer c.end(key)

		v, err := compute()
		if err != nil {
			return v, err
		}
		c.setIfCurrent(key, v, gen)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}

func (c *TTLCache[V]) begin(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.inflight[key]++
	return c.gen
}

func (c *TTLCache[V]) end(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inflight[key]--; c.inflight[key] <= 0 {
		delete(c.inflight, key)
	}
}

func (c *TTLCache[V]) setIfCurrent(key string, value V, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != gen {
		return
	}
	c.entries[key] = entry[V]{value: value, expiresAt: c.clock.Now().Add(c.ttl)}
}

func (c *TTLCache[V]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	delete(c.entries, key)
	if c.inflight[key] > 0 {
		c.group.Forget(key)
	}
}

// InvalidatePrefix drops matching entries and detaches matching in-flight
// computations, so later callers recompute against fresh data.
func (c *TTLCache[V]) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	for k := range c.inflight {
		if strings.HasPrefix(k, prefix) {
			c.group.Forget(k)
		}
	}
}

func (c *TTLCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}
