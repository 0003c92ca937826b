package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	models    []string
	expiresAt time.Time
	touchedAt time.Time
}

// MemoryCache is an in-process TTL cache with a size cap. When full, the
// least recently used entry is evicted.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]*memoryEntry
	maxEntries int
}

func NewMemoryCache(maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = 128
	}

	return &MemoryCache{
		entries:    make(map[string]*memoryEntry),
		maxEntries: maxEntries,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, ErrMiss
	}

	if time.Now().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, ErrMiss
	}

	entry.touchedAt = time.Now()

	models := make([]string, len(entry.models))
	copy(models, entry.models)

	return models, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, models []string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}

	stored := make([]string, len(models))
	copy(stored, models)

	now := time.Now()
	c.entries[key] = &memoryEntry{
		models:    stored,
		expiresAt: now.Add(ttl),
		touchedAt: now,
	}

	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)

	return nil
}

func (c *MemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*memoryEntry)

	return nil
}

// evictOldest drops the least recently touched entry. Caller must hold c.mu.
func (c *MemoryCache) evictOldest() {
	var (
		oldestKey  string
		oldestTime time.Time
	)

	for key, entry := range c.entries {
		if oldestKey == "" || entry.touchedAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.touchedAt
		}
	}

	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
