package mapsforge

import (
	"fmt"
	"math"
	"os"
	"sync"

	"github.com/go-kit/log"
)

var logger log.Logger

func init() {
	logger = log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "component", "mapsforge")
}

// SetLogger overrides the package-level logger, e.g. so cmd/mapforge
// can route these messages through its own configured writer.
func SetLogger(l log.Logger) {
	logger = l
}

// Provider serves tile reads across a whole Catalog of map files,
// keeping a small pool of open Readers (file handles are not free)
// and an LRU Cache of decoded results in front of them.
type Provider struct {
	catalog *Catalog
	cache   *Cache

	mu      sync.Mutex
	readers map[string]*Reader
}

// NewProvider wires a Catalog and cache options into a ready-to-query
// Provider.
func NewProvider(catalog *Catalog, cacheOpts CacheOptions) *Provider {
	return &Provider{
		catalog: catalog,
		cache:   NewCache(cacheOpts.MaxEntries),
		readers: make(map[string]*Reader),
	}
}

// ReadTile resolves tile to the best-matching map file via the
// Catalog, serves it through the Cache, opening (and caching) a
// Reader for that file on first use. A tile that no catalog entry
// covers returns an empty result. A tile that fails to decode logs the
// failure and returns an empty result rather than propagating the
// error: per spec §7, tile-level failures never abort a caller
// iterating many tiles.
func (p *Provider) ReadTile(tile Tile) *MapReadResult {
	tileBounds := tileBoundingBox(tile)
	candidates := p.catalog.Query(tile, tileBounds)
	if len(candidates) == 0 {
		return &MapReadResult{}
	}

	entry := candidates[0]

	result, err := p.cache.Get(entry.Path, tile, func() (*MapReadResult, error) {
		reader, err := p.readerFor(entry.Path)
		if err != nil {
			return nil, err
		}
		return reader.ReadTile(tile)
	})
	if err != nil {
		logger.Log("level", "warn", "event", "tile_read_failed", "path", entry.Path,
			"tileX", tile.TileX, "tileY", tile.TileY, "zoom", tile.ZoomLevel, "err", err)
		return &MapReadResult{}
	}
	return result
}

func (p *Provider) readerFor(path string) (*Reader, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if r, ok := p.readers[path]; ok {
		return r, nil
	}
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	p.readers[path] = r
	return r, nil
}

// Close closes every Reader this Provider has opened.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for path, r := range p.readers {
		if err := r.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close %s: %w", path, err)
		}
	}
	p.readers = make(map[string]*Reader)
	return firstErr
}

// tileBoundingBox converts a tile identifier into its geographic
// coverage, matching the label engine's need to know a tile's own
// extent (spec §3 Tile).
func tileBoundingBox(tile Tile) BoundingBox {
	n := float64(int64(1) << uint(tile.ZoomLevel))

	lonLeft := float64(tile.TileX)/n*360.0 - 180.0
	lonRight := float64(tile.TileX+1)/n*360.0 - 180.0

	latTop := tileYToLatitude(tile.TileY, n)
	latBottom := tileYToLatitude(tile.TileY+1, n)

	return BoundingBox{
		MinLatitude:  int32(latBottom * 1_000_000),
		MinLongitude: int32(lonLeft * 1_000_000),
		MaxLatitude:  int32(latTop * 1_000_000),
		MaxLongitude: int32(lonRight * 1_000_000),
	}
}

func tileYToLatitude(tileY int64, n float64) float64 {
	latRad := math.Atan(math.Sinh(math.Pi * (1.0 - 2.0*float64(tileY)/n)))
	return latRad * 180.0 / math.Pi
}
