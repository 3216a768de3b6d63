package label

import (
	"math"

	"github.com/go-mapsforge/mapforge/internal/mapfile"
)

// Minimal re-derivation of the Web Mercator tile math already used
// internally by the reader (internal/mapfile/mercator.go), exposed
// here because the placement engine's callers need to turn a
// geographic position into the same local pixel space Rectangle
// already operates in, and internal/mapfile's version is
// unexported.
const (
	maxMercatorLat = 85.0511287798
	minMercatorLat = -85.0511287798
)

// LatLon is a microdegree-encoded geographic position, matching
// internal/mapfile's own representation.
type LatLon = mapfile.LatLon

// ProjectToTilePixel converts a geographic position into pixel
// coordinates local to tile (0,0 at its top-left corner). A position
// outside the tile projects to a coordinate outside [0, TileSize) on
// the corresponding axis, which is exactly what border-crossing
// detection in dependency.go expects.
func ProjectToTilePixel(pos LatLon, tile Tile) (x, y float64) {
	n := math.Exp2(float64(tile.ZoomLevel))
	fracX := longitudeToFractionalTileX(pos.Longitude, n)
	fracY := latitudeToFractionalTileY(pos.Latitude, n)
	x = (fracX - float64(tile.TileX)) * TileSize
	y = (fracY - float64(tile.TileY)) * TileSize
	return x, y
}

func longitudeToFractionalTileX(lonMicro int32, n float64) float64 {
	lon := float64(lonMicro) / 1_000_000
	return (lon + 180.0) / 360.0 * n
}

func latitudeToFractionalTileY(latMicro int32, n float64) float64 {
	lat := float64(latMicro) / 1_000_000
	if lat > maxMercatorLat {
		lat = maxMercatorLat
	} else if lat < minMercatorLat {
		lat = minMercatorLat
	}
	latRad := lat * math.Pi / 180.0
	return (1.0 - math.Log(math.Tan(latRad)+1.0/math.Cos(latRad))/math.Pi) / 2.0 * n
}
