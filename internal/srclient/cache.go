// ABOUTME: Bounded in-memory response cache keyed by request URL.
// ABOUTME: Evicts in insertion order (FIFO) and keeps expired entries for stale fallback.

package srclient

import (
	"container/list"
	"encoding/json"
	"sync"
	"time"
)

// Entry is a cached upstream response for one URL.
type Entry struct {
	Data      json.RawMessage
	ETag      string
	ExpiresAt time.Time
}

// expiredAt reports whether the entry is past its freshness window at now.
func (e Entry) expiredAt(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// Stats partitions the cache by freshness.
type Stats struct {
	Total   int `json:"total"`
	Valid   int `json:"valid"`
	Expired int `json:"expired"`
}

// cacheSlot stores the entry and its position in the insertion queue.
type cacheSlot struct {
	entry   Entry
	element *list.Element
}

// cache is a thread-safe, size-limited FIFO cache. Expired entries are never
// removed on read; they are only dropped by eviction or Clear.
type cache struct {
	mu      sync.Mutex
	entries map[string]*cacheSlot
	order   *list.List // keys in insertion order (oldest at front)
	maxSize int
	now     func() time.Time
}

func newCache(maxSize int, now func() time.Time) *cache {
	return &cache{
		entries: make(map[string]*cacheSlot),
		order:   list.New(),
		maxSize: maxSize,
		now:     now,
	}
}

// Get returns a snapshot of the entry for key, fresh or not.
func (c *cache) Get(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	slot, ok := c.entries[key]
	if !ok {
		return Entry{}, false
	}
	return slot.entry, true
}

// Set stores entry under key. Replacing an existing key keeps its original
// queue position. Returns the evicted key, if any.
func (c *cache) Set(key string, entry Entry) (evicted string, didEvict bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if slot, exists := c.entries[key]; exists {
		slot.entry = entry
		return "", false
	}

	elem := c.order.PushBack(key)
	c.entries[key] = &cacheSlot{entry: entry, element: elem}

	if c.maxSize > 0 && len(c.entries) > c.maxSize {
		return c.evictOldest()
	}
	return "", false
}

// Touch moves the expiry of an existing entry. Returns false when the key is
// no longer cached (evicted or cleared since it was read).
func (c *cache) Touch(key string, expiresAt time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	slot, ok := c.entries[key]
	if !ok {
		return false
	}
	slot.entry.ExpiresAt = expiresAt
	return true
}

// evictOldest removes the front of the queue. Must be called with mu held.
func (c *cache) evictOldest() (string, bool) {
	front := c.order.Front()
	if front == nil {
		return "", false
	}

	key, _ := front.Value.(string)
	c.order.Remove(front)
	delete(c.entries, key)
	return key, true
}

// Clear drops every entry.
func (c *cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheSlot)
	c.order.Init()
}

// Len returns the number of cached entries.
func (c *cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats counts entries by freshness at the current time.
func (c *cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	stats := Stats{Total: len(c.entries)}
	for _, slot := range c.entries {
		if slot.entry.expiredAt(now) {
			stats.Expired++
		} else {
			stats.Valid++
		}
	}
	return stats
}

// keys returns cached keys oldest first.
func (c *cache) keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, c.order.Len())
	for e := c.order.Front(); e != nil; e = e.Next() {
		key, _ := e.Value.(string)
		keys = append(keys, key)
	}
	return keys
}
