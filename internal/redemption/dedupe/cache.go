// Package dedupe suppresses redundant record calls when a station's scanner
// fires twice for one physical scan. The cache is advisory only: correctness
// always rests on the store's uniqueness constraint, never on this layer.
package dedupe

import (
	"context"
	"sync"
	"time"

	"eventops/internal/redemption"
	"eventops/pkg/domain"
)

// DefaultTTL is how long an identical scan tuple is suppressed.
const DefaultTTL = 3 * time.Second

// defaultMaxEntries bounds the in-process cache; one station produces scans
// at human speed so this is generous.
const defaultMaxEntries = 256

// Key identifies one scan submission.
type Key struct {
	EventID  domain.EventID
	Type     domain.ResourceType
	OptionID domain.OptionID
	Code     string
}

func (k Key) String() string {
	return k.EventID.String() + ":" + k.Type.String() + ":" + k.OptionID.String() + ":" + k.Code
}

// Cache is the station-local scan dedupe contract. Lookup returns the
// remembered outcome for an identical recent scan so the operator sees the
// same result instead of a spurious error.
type Cache interface {
	Lookup(ctx context.Context, key Key) (*redemption.RecordResult, bool)
	Remember(ctx context.Context, key Key, result *redemption.RecordResult)
}

type entry struct {
	result    *redemption.RecordResult
	expiresAt time.Time
}

// MemoryCache is an explicit, injectable, bounded TTL cache owned by one
// station instance. It is deliberately not process-wide shared state, so
// stations cannot interfere with each other and the cache is independently
// testable.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]entry
	ttl        time.Duration
	maxEntries int
	clock      func() time.Time
}

// Option configures a MemoryCache.
type Option func(*MemoryCache)

// WithTTL overrides the suppression window.
func WithTTL(ttl time.Duration) Option {
	return func(c *MemoryCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock sets the clock function for testability.
func WithClock(clock func() time.Time) Option {
	return func(c *MemoryCache) {
		if clock != nil {
			c.clock = clock
		}
	}
}

func NewMemoryCache(opts ...Option) *MemoryCache {
	c := &MemoryCache{
		entries:    make(map[string]entry),
		ttl:        DefaultTTL,
		maxEntries: defaultMaxEntries,
		clock:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func (c *MemoryCache) Lookup(ctx context.Context, key Key) (*redemption.RecordResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.String()]
	if !ok || c.clock().After(e.expiresAt) {
		return nil, false
	}
	return e.result, true
}

func (c *MemoryCache) Remember(ctx context.Context, key Key, result *redemption.RecordResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.clock()
	c.sweep(now)
	if len(c.entries) >= c.maxEntries {
		// Bounded: drop everything rather than track LRU order; entries are
		// only ever seconds old.
		c.entries = make(map[string]entry)
	}
	c.entries[key.String()] = entry{result: result, expiresAt: now.Add(c.ttl)}
}

// sweep removes expired entries. Must be called while holding c.mu.
func (c *MemoryCache) sweep(now time.Time) {
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}
