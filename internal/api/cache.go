package api

import (
	"os"
	"strconv"
	"sync"

	"github.com/driftscope/driftscope/pkg/lineage"
)

// GraphCache is a thread-safe LRU cache for loaded lineage graphs.
type GraphCache struct {
	mu      sync.Mutex
	maxSize int
	entries map[string]*cacheEntry
	order   []string // oldest first
}

type cacheEntry struct {
	graph *lineage.Graph
}

// NewGraphCache creates a cache with the given maximum number of entries.
// If maxSize <= 0, it defaults to 20.
func NewGraphCache(maxSize int) *GraphCache {
	if maxSize <= 0 {
		maxSize = 20
	}
	return &GraphCache{
		maxSize: maxSize,
		entries: make(map[string]*cacheEntry),
	}
}

// NewGraphCacheFromEnv creates a cache with size from GRAPH_CACHE_SIZE env var.
func NewGraphCacheFromEnv() *GraphCache {
	size := 20
	if v := os.Getenv("GRAPH_CACHE_SIZE"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			size = parsed
		}
	}
	return NewGraphCache(size)
}

// Get retrieves a graph from the cache, or nil if not found.
func (c *GraphCache) Get(id string) *lineage.Graph {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[id]
	if !ok {
		return nil
	}

	// Move to end (most recently used)
	c.moveToEnd(id)
	return entry.graph
}

// Put adds a graph to the cache, evicting the oldest if full.
func (c *GraphCache) Put(id string, g *lineage.Graph) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[id]; ok {
		c.entries[id] = &cacheEntry{graph: g}
		c.moveToEnd(id)
		return
	}

	// Evict oldest if at capacity
	for len(c.entries) >= c.maxSize && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[id] = &cacheEntry{graph: g}
	c.order = append(c.order, id)
}

func (c *GraphCache) moveToEnd(id string) {
	for i, k := range c.order {
		if k == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			c.order = append(c.order, id)
			return
		}
	}
}
