package mapsforge

import (
	"container/list"
	"sync"
)

// cacheKey identifies one cached tile read: a map file path plus the
// requested tile. Two readers opened on the same path are
// interchangeable for caching purposes, so the key is string+Tile, not
// a *Reader pointer.
type cacheKey struct {
	path string
	tile Tile
}

type cacheEntry struct {
	key     cacheKey
	result  *MapReadResult
	element *list.Element
}

// Cache is an LRU cache of decoded tile reads, keyed by (map file
// path, tile), sized by entry count rather than an estimated memory
// footprint.
type Cache struct {
	maxEntries int
	entries    map[cacheKey]*cacheEntry
	lru        *list.List
	mu         sync.Mutex
}

// NewCache creates an LRU cache holding at most maxEntries tile reads.
// maxEntries <= 0 disables caching: Get always calls the loader.
func NewCache(maxEntries int) *Cache {
	return &Cache{
		maxEntries: maxEntries,
		entries:    make(map[cacheKey]*cacheEntry),
		lru:        list.New(),
	}
}

// Get returns the cached read for (path, tile), calling load and
// caching its result on a miss. load errors are never cached.
func (c *Cache) Get(path string, tile Tile, load func() (*MapReadResult, error)) (*MapReadResult, error) {
	if c.maxEntries <= 0 {
		return load()
	}

	key := cacheKey{path: path, tile: tile}

	c.mu.Lock()
	if entry, ok := c.entries[key]; ok {
		c.lru.MoveToFront(entry.element)
		result := entry.result
		c.mu.Unlock()
		return result, nil
	}
	c.mu.Unlock()

	result, err := load()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.entries[key]; ok {
		entry.result = result
		c.lru.MoveToFront(entry.element)
		return result, nil
	}
	entry := &cacheEntry{key: key, result: result}
	entry.element = c.lru.PushFront(entry)
	c.entries[key] = entry
	for len(c.entries) > c.maxEntries {
		c.evictLRU()
	}
	return result, nil
}

// evictLRU removes the least-recently-used entry. Must be called with
// c.mu held.
func (c *Cache) evictLRU() {
	elem := c.lru.Back()
	if elem == nil {
		return
	}
	entry := elem.Value.(*cacheEntry)
	c.lru.Remove(elem)
	delete(c.entries, entry.key)
}

// Len reports the current number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Purge clears every entry, e.g. after a map file on disk changes.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]*cacheEntry)
	c.lru.Init()
}
