package mapsforge

import (
	"io"
	"runtime"
)

// LoadOptions controls how a Catalog opens a directory of map files
// (spec §6 Catalog).
type LoadOptions struct {
	// Parallel enables concurrent map-file opens across worker goroutines.
	Parallel bool

	// Workers caps the number of parallel opener goroutines. 0 defaults
	// to runtime.NumCPU().
	Workers int

	// SkipErrors continues loading past a map file that fails to open,
	// collecting its error instead of aborting the whole catalog build.
	SkipErrors bool

	// Progress, if set, is called after each map file is processed
	// (successfully or not) with (loaded, total).
	Progress func(loaded, total int)

	// ErrorLog, if set, receives a line per failed map file.
	ErrorLog io.Writer
}

// DefaultLoadOptions returns sensible defaults: parallel loading across
// all CPUs, tolerant of individual file failures.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		Parallel:   true,
		Workers:    runtime.NumCPU(),
		SkipErrors: true,
	}
}

// CacheOptions configures the tile-read LRU cache (spec §6).
type CacheOptions struct {
	// MaxEntries bounds the number of cached MapReadResults. 0 disables
	// the cache: every ReadMapData call goes straight to the MapFile.
	MaxEntries int
}

// DefaultCacheOptions returns a moderate default cache size, large
// enough to hold a typical viewport's worth of tiles plus their
// immediate dependency neighbours.
func DefaultCacheOptions() CacheOptions {
	return CacheOptions{MaxEntries: 256}
}
