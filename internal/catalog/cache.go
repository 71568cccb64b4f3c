package catalog

import (
	"context"
	"sync"

	"media-catalog/internal/logging"
	"media-catalog/internal/metrics"
)

// Cache is the in-memory read-through item cache. Lookups hit the map
// first and fall back to the repository, registering what they find so
// repeated parent lookups during a scan stay cheap.
//
// Only kinds that are fetched repeatedly are admitted: folder kinds,
// video kinds, persons, and channel leaves. Plain leaf kinds (audio)
// stay out so cache growth is bounded by the folder count, not the
// library size.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*Item
	repo  Repository
}

// NewCache builds a cache backed by the given repository.
func NewCache(repo Repository) *Cache {
	return &Cache{
		items: make(map[string]*Item),
		repo:  repo,
	}
}

func cacheable(k Kind) bool {
	if k.IsFolder() || k.IsVideo() {
		return true
	}
	return k == KindPerson || k == KindChannel
}

// Register admits an item into the cache if its kind qualifies.
// Re-registering an ID replaces the cached value.
func (c *Cache) Register(item *Item) {
	if item == nil || item.ID == "" {
		return
	}
	if !cacheable(item.Kind) {
		return
	}
	c.mu.Lock()
	c.items[item.ID] = item
	size := len(c.items)
	c.mu.Unlock()
	metrics.ItemCacheSize.Set(float64(size))
}

// Peek returns the cached item or nil without touching the repository.
func (c *Cache) Peek(id string) *Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.items[id]
}

// Get returns the item with the given ID, reading through to the
// repository on a cache miss. A repository miss returns (nil, nil).
func (c *Cache) Get(ctx context.Context, id string) (*Item, error) {
	if id == "" {
		return nil, nil
	}

	c.mu.RLock()
	item, ok := c.items[id]
	c.mu.RUnlock()
	if ok {
		metrics.ItemCacheHits.Inc()
		return item, nil
	}
	metrics.ItemCacheMisses.Inc()

	if c.repo == nil {
		return nil, nil
	}
	item, err := c.repo.RetrieveItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	logging.Debug("Cache miss for %s filled from repository (%s)", id, item.Kind)
	c.Register(item)
	return item, nil
}

// Evict drops an item from the cache. Unknown IDs are ignored.
func (c *Cache) Evict(id string) {
	c.mu.Lock()
	delete(c.items, id)
	size := len(c.items)
	c.mu.Unlock()
	metrics.ItemCacheSize.Set(float64(size))
}

// Len returns the number of cached items.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
