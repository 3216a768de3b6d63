package mapsforge

import (
	"fmt"
	"sort"

	"github.com/dhconnelly/rtreego"
)

// CatalogEntry is one map file indexed by a Catalog: its path, the
// geographic area it covers, and the zoom range its sub-files serve.
type CatalogEntry struct {
	Path    string
	Bounds  BoundingBox
	ZoomMin int
	ZoomMax int
}

// catalogEntrySpatial adapts a CatalogEntry to rtreego.Spatial. The
// adapter method lives here, rather than directly on CatalogEntry,
// because CatalogEntry already has an exported Bounds field and Go
// does not allow a field and method of the same name on one type.
type catalogEntrySpatial struct {
	CatalogEntry
}

// Bounds satisfies rtreego.Spatial so catalogEntrySpatial values can be
// inserted directly into the R-tree.
func (s catalogEntrySpatial) Bounds() rtreego.Rect {
	e := s.CatalogEntry
	minLon := float64(e.Bounds.MinLongitude) / 1_000_000
	minLat := float64(e.Bounds.MinLatitude) / 1_000_000
	maxLon := float64(e.Bounds.MaxLongitude) / 1_000_000
	maxLat := float64(e.Bounds.MaxLatitude) / 1_000_000

	// rtreego requires strictly positive extents; a degenerate
	// point-sized box gets nudged open by a hair.
	const epsilon = 1e-9
	if maxLon <= minLon {
		maxLon = minLon + epsilon
	}
	if maxLat <= minLat {
		maxLat = minLat + epsilon
	}

	point := rtreego.Point{minLon, minLat}
	lengths := []float64{maxLon - minLon, maxLat - minLat}
	rect, _ := rtreego.NewRect(point, lengths)
	return rect
}

// Catalog spatially indexes many map files so a tile request can be
// routed to the right file(s) without opening every file on every
// query (spec §6 Catalog).
type Catalog struct {
	entries []CatalogEntry
	rtree   *rtreego.Rtree
}

// BuildCatalog opens (and closes) each path just to read its header,
// then indexes the results. opts controls parallelism and error
// tolerance; SkipErrors=true (the default) means unreadable map files
// are dropped from the catalog rather than aborting the whole build.
func BuildCatalog(paths []string, opts LoadOptions) (*Catalog, []error) {
	headers, errs := openHeadersParallel(paths, opts)
	if len(headers) == 0 {
		return &Catalog{rtree: rtreego.NewTree(2, 5, 20)}, errs
	}

	rtree := rtreego.NewTree(2, 5, 20)
	entries := make([]CatalogEntry, len(headers))
	for i, h := range headers {
		entries[i] = CatalogEntry{
			Path:    h.Path,
			Bounds:  h.Info.BoundingBox,
			ZoomMin: h.ZoomMin,
			ZoomMax: h.ZoomMax,
		}
		rtree.Insert(catalogEntrySpatial{entries[i]})
	}

	return &Catalog{entries: entries, rtree: rtree}, errs
}

// Query returns catalog entries whose bounds intersect tile's
// geographic area and whose zoom range covers tile's zoom level,
// nearest (smallest zoom span, i.e. most specialized) first.
func (c *Catalog) Query(tile Tile, tileBounds BoundingBox) []CatalogEntry {
	minLon := float64(tileBounds.MinLongitude) / 1_000_000
	minLat := float64(tileBounds.MinLatitude) / 1_000_000
	maxLon := float64(tileBounds.MaxLongitude) / 1_000_000
	maxLat := float64(tileBounds.MaxLatitude) / 1_000_000

	const epsilon = 1e-9
	if maxLon <= minLon {
		maxLon = minLon + epsilon
	}
	if maxLat <= minLat {
		maxLat = minLat + epsilon
	}

	point := rtreego.Point{minLon, minLat}
	lengths := []float64{maxLon - minLon, maxLat - minLat}
	rect, err := rtreego.NewRect(point, lengths)
	if err != nil {
		return nil
	}

	var result []CatalogEntry
	for _, spatial := range c.rtree.SearchIntersect(rect) {
		entry := spatial.(catalogEntrySpatial).CatalogEntry
		if tile.ZoomLevel < entry.ZoomMin || tile.ZoomLevel > entry.ZoomMax {
			continue
		}
		result = append(result, entry)
	}

	sort.Slice(result, func(i, j int) bool {
		spanI := result[i].ZoomMax - result[i].ZoomMin
		spanJ := result[j].ZoomMax - result[j].ZoomMin
		return spanI < spanJ
	})
	return result
}

// All returns every indexed entry.
func (c *Catalog) All() []CatalogEntry {
	return c.entries
}

// Count returns the number of indexed map files.
func (c *Catalog) Count() int {
	return len(c.entries)
}

// String implements fmt.Stringer for log-friendly summaries.
func (c *Catalog) String() string {
	return fmt.Sprintf("Catalog{files=%d}", len(c.entries))
}
