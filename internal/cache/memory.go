package cache

import (
	"context"
	"sync"

	"bank_transactions/internal/domain"
)

const backendMemory = "memory"

// MemoryPageCache is the process-local cache. Entries live until the next Clear.
// With maxEntries > 0, pages past the bound are not stored until the cache is cleared.
type MemoryPageCache struct {
	mu         sync.RWMutex
	generation uint64
	maxEntries int
	pages      map[Key]domain.Page
}

func NewMemoryPageCache(maxEntries int) *MemoryPageCache {
	return &MemoryPageCache{
		maxEntries: maxEntries,
		pages:      make(map[Key]domain.Page),
	}
}

func (c *MemoryPageCache) Get(_ context.Context, key Key) (domain.Page, bool) {
	c.mu.RLock()
	page, ok := c.pages[key]
	c.mu.RUnlock()

	if ok {
		PageHits.WithLabelValues(backendMemory).Inc()
	} else {
		PageMisses.WithLabelValues(backendMemory).Inc()
	}
	return page, ok
}

func (c *MemoryPageCache) Put(_ context.Context, key Key, page domain.Page, generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generation {
		PageStores.WithLabelValues(backendMemory, "stale").Inc()
		return
	}
	if _, exists := c.pages[key]; !exists && c.maxEntries > 0 && len(c.pages) >= c.maxEntries {
		PageStores.WithLabelValues(backendMemory, "full").Inc()
		return
	}

	c.pages[key] = page
	PageStores.WithLabelValues(backendMemory, "stored").Inc()
}

func (c *MemoryPageCache) Clear(_ context.Context) error {
	c.mu.Lock()
	c.generation++
	c.pages = make(map[Key]domain.Page)
	c.mu.Unlock()

	Invalidations.WithLabelValues(backendMemory).Inc()
	return nil
}

func (c *MemoryPageCache) Generation(_ context.Context) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// Len reports the number of cached pages
func (c *MemoryPageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pages)
}
