package label

import (
	"sort"

	"github.com/google/hilbert"
)

// TraversalOrder sorts tiles along a Hilbert curve so that
// spatially-adjacent tiles are also adjacent in the returned slice.
// The dependency cache benefits from this ordering: a tile's
// neighbours are far more likely to have already been processed (and
// so already hold useful entries in the Cache) when tiles are walked
// this way than in row-major order.
//
// All tiles must share the same zoom level; TraversalOrder panics
// otherwise, since a Hilbert curve is only defined over a single
// square grid.
func TraversalOrder(tiles []Tile) []Tile {
	if len(tiles) == 0 {
		return nil
	}
	zoom := tiles[0].ZoomLevel
	side := 1 << uint(zoom)

	h, err := hilbert.NewHilbert(side)
	if err != nil {
		// side is always a power of two >= 1, so NewHilbert cannot fail.
		panic(err)
	}

	codes := make([]uint64, len(tiles))
	for i, t := range tiles {
		if t.ZoomLevel != zoom {
			panic("label: TraversalOrder requires all tiles to share a zoom level")
		}
		code, err := h.MapInverse(int(t.TileX), int(t.TileY))
		if err != nil {
			// out-of-range tile coordinates for this zoom's grid.
			panic(err)
		}
		codes[i] = uint64(code)
	}

	type indexed struct {
		tile Tile
		code uint64
	}
	pairs := make([]indexed, len(tiles))
	for i, t := range tiles {
		pairs[i] = indexed{tile: t, code: codes[i]}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].code < pairs[j].code })

	ordered := make([]Tile, len(pairs))
	for i, p := range pairs {
		ordered[i] = p.tile
	}
	return ordered
}
