package venue

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/speelbreaker12/opus-trader-sub000/pkg/types"
)

// CacheMetrics aggregates instrument-cache observability counters.
type CacheMetrics struct {
	InstrumentCacheStaleTotal atomic.Uint64
}

// entry pairs a cached value with the instant it was stored.
type entry[T any] struct {
	value     T
	updatedAt time.Time
}

// InstrumentCache stores venue metadata with a TTL. A read past TTL does
// not refuse outright — it returns the stale value tagged RiskState =
// Degraded, so the caller can still fall back on last-known metadata
// instead of rejecting every OPEN intent the instant a poll loop falls
// behind.
type InstrumentCache[T any] struct {
	mu      sync.RWMutex
	entries map[string]entry[T]
	ttl     time.Duration
}

// NewInstrumentCache creates an empty cache with the given TTL.
func NewInstrumentCache[T any](ttl time.Duration) *InstrumentCache[T] {
	return &InstrumentCache[T]{entries: make(map[string]entry[T]), ttl: ttl}
}

// Put stores or replaces the cached value for key, stamped with now.
func (c *InstrumentCache[T]) Put(key string, value T, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[T]{value: value, updatedAt: now}
}

// CacheReadResult is the outcome of a Get call.
type CacheReadResult[T any] struct {
	Found     bool
	Value     T
	Stale     bool
	RiskState types.RiskState
}

// Get reads the cached value for key as of now. A value older than the
// cache's TTL is still returned, tagged Stale with RiskState Degraded, and
// bumps instrument_cache_stale_total.
func (c *InstrumentCache[T]) Get(key string, now time.Time, m *CacheMetrics) CacheReadResult[T] {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return CacheReadResult[T]{Found: false}
	}

	if now.Sub(e.updatedAt) > c.ttl {
		if m != nil {
			m.InstrumentCacheStaleTotal.Add(1)
		}
		return CacheReadResult[T]{Found: true, Value: e.value, Stale: true, RiskState: types.RiskDegraded}
	}

	return CacheReadResult[T]{Found: true, Value: e.value, Stale: false, RiskState: types.RiskHealthy}
}
