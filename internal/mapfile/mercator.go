package mapfile

import "math"

// Minimal Web Mercator tile projection, just enough to turn a global
// bounding box into a sub-file's base-zoom boundary rectangle (spec
// §4.B clause 13). Full projection math for rendering is explicitly
// out of scope (spec §1 Non-goals); this is the one conversion the
// header decoder itself needs.

const (
	maxMercatorLat = 85.0511287798
	minMercatorLat = -85.0511287798
)

// longitudeToTileX converts a longitude in microdegrees to a fractional
// tile X coordinate at the given zoom level.
func longitudeToTileX(lonMicro int32, zoom int) float64 {
	lon := float64(lonMicro) / 1_000_000
	n := math.Exp2(float64(zoom))
	return (lon + 180.0) / 360.0 * n
}

// latitudeToTileY converts a latitude in microdegrees to a fractional
// tile Y coordinate at the given zoom level.
func latitudeToTileY(latMicro int32, zoom int) float64 {
	lat := float64(latMicro) / 1_000_000
	if lat > maxMercatorLat {
		lat = maxMercatorLat
	} else if lat < minMercatorLat {
		lat = minMercatorLat
	}
	latRad := lat * math.Pi / 180.0
	n := math.Exp2(float64(zoom))
	return (1.0 - math.Log(math.Tan(latRad)+1.0/math.Cos(latRad))/math.Pi) / 2.0 * n
}

// boundaryTileGrid projects bbox onto the tile grid at baseZoomLevel,
// producing the inclusive [left,right] x [top,bottom] rectangle of
// tiles the sub-file's flat index covers.
func boundaryTileGrid(bbox BoundingBox, baseZoomLevel int) TileGridRect {
	left := int64(longitudeToTileX(bbox.MinLongitude, baseZoomLevel))
	right := int64(longitudeToTileX(bbox.MaxLongitude, baseZoomLevel))
	// Latitude and tile-Y are inversely related (Y grows downward/south).
	top := int64(latitudeToTileY(bbox.MaxLatitude, baseZoomLevel))
	bottom := int64(latitudeToTileY(bbox.MinLatitude, baseZoomLevel))
	return TileGridRect{Left: left, Top: top, Right: right, Bottom: bottom}
}
