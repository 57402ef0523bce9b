package cache

import (
	"encoding/json"
	"sort"
	"sync"
	"time"
)

const DefaultTTL = 5 * time.Minute

// Entry is a cached response payload.
// It is fresh while now <= ExpiresAt; afterwards it is kept around as a
// stale fallback until it is overwritten, invalidated or the cache is cleared.
type Entry struct {
	Payload   json.RawMessage
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (e Entry) Fresh(now time.Time) bool {
	return !now.After(e.ExpiresAt)
}

type Stats struct {
	Size int      `json:"size"`
	Keys []string `json:"keys"`
}

// ResponseCache is an in-process map of response payloads with per-entry expiry.
// There is no background eviction. It is safe for concurrent use.
type ResponseCache struct {
	mutex   sync.RWMutex
	entries map[string]Entry

	// Now can be swapped in tests.
	Now func() time.Time
}

func NewResponseCache() *ResponseCache {
	return &ResponseCache{
		entries: make(map[string]Entry),
		Now:     time.Now,
	}
}

// Get returns the entry for key, fresh or stale.
func (c *ResponseCache) Get(key string) (Entry, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	entry, ok := c.entries[key]
	return entry, ok
}

// GetFresh returns the entry only while it has not expired.
func (c *ResponseCache) GetFresh(key string) (Entry, bool) {
	entry, ok := c.Get(key)
	if !ok || !entry.Fresh(c.Now()) {
		return Entry{}, false
	}
	return entry, true
}

// Set replaces the entry for key. A non-positive ttl means DefaultTTL.
func (c *ResponseCache) Set(key string, payload []byte, ttl time.Duration) Entry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	now := c.Now()
	entry := Entry{
		Payload:   append(json.RawMessage(nil), payload...),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	c.mutex.Lock()
	c.entries[key] = entry
	c.mutex.Unlock()

	return entry
}

func (c *ResponseCache) Invalidate(key string) {
	c.mutex.Lock()
	delete(c.entries, key)
	c.mutex.Unlock()
}

func (c *ResponseCache) Clear() {
	c.mutex.Lock()
	c.entries = make(map[string]Entry)
	c.mutex.Unlock()
}

func (c *ResponseCache) Stats() Stats {
	c.mutex.RLock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	c.mutex.RUnlock()

	sort.Strings(keys)
	return Stats{
		Size: len(keys),
		Keys: keys,
	}
}
