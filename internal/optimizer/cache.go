package optimizer

import (
	"sync"

	"rp-optimizer/internal/resource"
)

// modelCache holds the models selected for this run. A model can belong to
// several texture groups; edits made while processing one group must be
// visible to later groups, and mutation of a given model must be serialized
// while extraction reads stay concurrent. Each entry carries its own
// RWMutex for that.
type modelCache struct {
	mu      sync.RWMutex
	entries map[resource.Key]*modelEntry
}

type modelEntry struct {
	mu    sync.RWMutex
	model *resource.Model
}

func newModelCache() *modelCache {
	return &modelCache{entries: make(map[resource.Key]*modelEntry)}
}

func (c *modelCache) put(key resource.Key, m *resource.Model) {
	c.mu.Lock()
	c.entries[key] = &modelEntry{model: m}
	c.mu.Unlock()
}

// entry returns the cached entry for key, or nil.
func (c *modelCache) entry(key resource.Key) *modelEntry {
	c.mu.RLock()
	e := c.entries[key]
	c.mu.RUnlock()
	return e
}
