package label

import "sync"

// ConcurrentCache wraps Cache with a mutex so tiles from different
// goroutines can be processed against one shared dependency cache.
// Concurrent callers still race on *which* tile claims a disputed
// border region first; the mutex only protects the cache's internal
// bookkeeping, not placement order between goroutines.
type ConcurrentCache struct {
	mu    sync.Mutex
	cache *Cache
}

// NewConcurrentCache returns a concurrency-safe wrapper around a new Cache.
func NewConcurrentCache() *ConcurrentCache {
	return &ConcurrentCache{cache: NewCache()}
}

// ProcessTile runs the Cache's seven-step protocol under lock.
func (c *ConcurrentCache) ProcessTile(tile Tile, pois []PointTextContainer, symbols []SymbolContainer, areaLabels []PointTextContainer, mode CandidateMode) PlacementResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.ProcessTile(tile, pois, symbols, areaLabels, mode)
}

// MarkDrawn marks tile drawn under lock.
func (c *ConcurrentCache) MarkDrawn(tile Tile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.MarkDrawn(tile)
}
