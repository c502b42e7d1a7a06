// Package pricing - Session cache for resolved rate policies.
// The whole cache empties at once when its TTL lapses; entries never expire individually.
package pricing

import (
	"sync"
	"time"

	"tariffcheck/core/classify"
	"tariffcheck/core/rules"
	"tariffcheck/core/types"
)

// DefaultTTL is the lifetime of a cache generation
const DefaultTTL = 24 * time.Hour

// Clock returns the current time
type Clock func() time.Time

// CacheKey identifies a cached policy
type CacheKey struct {
	Country   types.NormalizedCountry
	Category  types.CategoryCode
	Signature string
}

// NewCacheKey builds the key for a country and query
func NewCacheKey(country types.NormalizedCountry, q rules.Query) CacheKey {
	return CacheKey{
		Country:   country,
		Category:  q.Category,
		Signature: classify.AttributeSignature(q.Attributes, q.Channel),
	}
}

// String returns a string representation for logging
func (k CacheKey) String() string {
	return string(k.Country) + "/" + string(k.Category) + "/" + k.Signature
}

// CacheStats contains cache statistics
type CacheStats struct {
	Entries   int       `json:"entries"`
	Hits      int       `json:"hits"`
	Misses    int       `json:"misses"`
	Resets    int       `json:"resets"`
	LastReset time.Time `json:"lastReset"`
}

// Cache memoizes policy templates per (country, category, attribute signature)
type Cache struct {
	ttl   time.Duration
	clock Clock

	entries   map[CacheKey]types.RatePolicy
	lastReset time.Time
	stats     CacheStats

	mu sync.Mutex
}

// NewCache creates a cache. A non-positive ttl means DefaultTTL; a nil clock means time.Now.
func NewCache(ttl time.Duration, clock Clock) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clock == nil {
		clock = time.Now
	}
	return &Cache{
		ttl:       ttl,
		clock:     clock,
		entries:   make(map[CacheKey]types.RatePolicy),
		lastReset: clock(),
	}
}

// Get returns the cached policy. If the TTL has lapsed since the last reset the whole
// cache is emptied first, so a stale entry is never returned.
func (c *Cache) Get(key CacheKey) (types.RatePolicy, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()
	if now.Sub(c.lastReset) > c.ttl {
		c.entries = make(map[CacheKey]types.RatePolicy)
		c.lastReset = now
		c.stats.Resets++
	}

	policy, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		return types.RatePolicy{}, false
	}
	c.stats.Hits++
	return policy, true
}

// Put stores a policy
func (c *Cache) Put(key CacheKey, policy types.RatePolicy) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = policy
}

// Clear empties the cache ahead of its TTL and starts a new generation
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[CacheKey]types.RatePolicy)
	c.lastReset = c.clock()
	c.stats.Resets++
}

// Size returns the number of cached entries
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns cache statistics
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Entries = len(c.entries)
	s.LastReset = c.lastReset
	return s
}
