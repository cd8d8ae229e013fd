// Package cache holds fetched feed responses in memory for a fixed TTL.
// The cache owns its entries exclusively: responses are stored full-size
// (up to the fetch cap) and callers slice copies to their own limits.
package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/larusv/frettavakt/app/feed"
)

type entry struct {
	response  *feed.Response
	createdAt time.Time
	expiresAt time.Time
}

// Cache is a TTL keyed store of per-(source, feed) fetch results with
// hit/miss accounting. Expiry is evaluated lazily at lookup time; expired
// entries count as misses and are removed when observed.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	hits    int64
	misses  int64
	now     func() time.Time
}

func New(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func key(sourceID, feedID string) string {
	return fmt.Sprintf("%s:%s", sourceID, feedID)
}

// Get returns the cached response for a feed, or false on a miss. A fresh
// hit and a miss both bump their counter exactly once.
func (c *Cache) Get(sourceID, feedID string) (*feed.Response, bool) {
	k := key(sourceID, feedID)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[k]
	if !ok {
		c.misses++
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, k)
		c.misses++
		return nil, false
	}

	c.hits++
	return e.response, true
}

// Put stores a response, replacing any previous entry wholesale.
func (c *Cache) Put(sourceID, feedID string, response *feed.Response) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key(sourceID, feedID)] = entry{
		response:  response,
		createdAt: now,
		expiresAt: now.Add(c.ttl),
	}
}

// Stats is a snapshot of the cache counters and contents.
type Stats struct {
	Hits        int64      `json:"hits"`
	Misses      int64      `json:"misses"`
	Entries     int        `json:"entries"`
	TTLSeconds  int        `json:"ttlSeconds"`
	OldestEntry *time.Time `json:"oldestEntry,omitempty"`
	NewestEntry *time.Time `json:"newestEntry,omitempty"`
}

// Stats computes a consistent snapshot: counters and entry ages are read
// under the same lock, so a concurrent Clear can never show through
// half-applied.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := Stats{
		Hits:       c.hits,
		Misses:     c.misses,
		Entries:    len(c.entries),
		TTLSeconds: int(c.ttl / time.Second),
	}

	for _, e := range c.entries {
		createdAt := e.createdAt
		if stats.OldestEntry == nil || createdAt.Before(*stats.OldestEntry) {
			stats.OldestEntry = &createdAt
		}
		if stats.NewestEntry == nil || createdAt.After(*stats.NewestEntry) {
			stats.NewestEntry = &createdAt
		}
	}

	return stats
}

// Clear removes all entries and zeroes the counters as one atomic step.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry)
	c.hits = 0
	c.misses = 0
}
