package subscription

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultCacheTTL is the default freshness window for cached subscriptions
const DefaultCacheTTL = time.Hour

type cachedEntry struct {
	sub       Subscription
	expiresAt time.Time
}

func (e cachedEntry) expired() bool {
	return time.Now().After(e.expiresAt)
}

/* Cache is a read-through cache in front of a subscription Reader.
 * A miss always falls back to the inner reader, so the cache is purely
 * an optimization: disabling it never affects correctness.
 * Safe for concurrent use
 */
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cachedEntry
	ttl     time.Duration
	inner   Reader
}

// NewCache creates a read-through cache over the given reader
func NewCache(inner Reader, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		entries: make(map[string]cachedEntry),
		ttl:     ttl,
		inner:   inner,
	}
}

// Get returns a subscription, from cache when fresh, from the inner reader otherwise
func (c *Cache) Get(ctx context.Context, id string) (Subscription, error) {
	c.mu.RLock()
	entry, ok := c.entries[id]
	c.mu.RUnlock()

	if ok && !entry.expired() {
		return entry.sub, nil
	}

	sub, err := c.inner.Get(ctx, id)
	if err != nil {
		return Subscription{}, fmt.Errorf("reading through subscription cache: %w", err)
	}

	c.mu.Lock()
	c.entries[id] = cachedEntry{sub: sub, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()

	return sub, nil
}

// Invalidate drops a cached subscription after an administrative update or delete
func (c *Cache) Invalidate(id string) {
	c.mu.Lock()
	delete(c.entries, id)
	c.mu.Unlock()
}

// Len returns the number of cached entries, fresh or not
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
