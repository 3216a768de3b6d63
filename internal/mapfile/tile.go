package mapfile

// TileSize is the fixed raster tile edge in pixels (spec §3).
const TileSize = 256

// Tile identifies a single tile on the Mercator pyramid by its
// (tileX, tileY, zoomLevel) triple. Equality and hashing are by value,
// which makes Tile a usable map key directly (mirrors the Java
// implementation's Tile equals()/hashCode() pair).
type Tile struct {
	TileX     int64
	TileY     int64
	ZoomLevel int
}

// Neighbour identifies one of the eight unit-offset neighbours of a
// tile plus the tile itself (offset 0,0).
type Neighbour int

const (
	NeighbourSelf Neighbour = iota
	NeighbourUp
	NeighbourDown
	NeighbourLeft
	NeighbourRight
	NeighbourUpLeft
	NeighbourUpRight
	NeighbourDownLeft
	NeighbourDownRight
)

var neighbourOffsets = map[Neighbour][2]int64{
	NeighbourSelf:      {0, 0},
	NeighbourUp:        {0, -1},
	NeighbourDown:      {0, 1},
	NeighbourLeft:      {-1, 0},
	NeighbourRight:     {1, 0},
	NeighbourUpLeft:    {-1, -1},
	NeighbourUpRight:   {1, -1},
	NeighbourDownLeft:  {-1, 1},
	NeighbourDownRight: {1, 1},
}

// At returns the neighbour tile of t for the given offset.
func (t Tile) At(n Neighbour) Tile {
	off := neighbourOffsets[n]
	return Tile{TileX: t.TileX + off[0], TileY: t.TileY + off[1], ZoomLevel: t.ZoomLevel}
}

// Neighbours returns the eight unit-offset neighbours of t, in a fixed
// order (up, down, left, right, then the four diagonals).
func (t Tile) Neighbours() [8]Tile {
	order := [8]Neighbour{NeighbourUp, NeighbourDown, NeighbourLeft, NeighbourRight,
		NeighbourUpLeft, NeighbourUpRight, NeighbourDownLeft, NeighbourDownRight}
	var out [8]Tile
	for i, n := range order {
		out[i] = t.At(n)
	}
	return out
}

// BoundingBox is four microdegree-scaled integers describing a
// geographic rectangle. Latitude ranges over [-90_000_000, 90_000_000],
// longitude over [-180_000_000, 180_000_000], and MinLat<=MaxLat,
// MinLon<=MaxLon.
type BoundingBox struct {
	MinLatitude  int32
	MinLongitude int32
	MaxLatitude  int32
	MaxLongitude int32
}

const (
	LatitudeMax  int32 = 90_000_000
	LatitudeMin  int32 = -90_000_000
	LongitudeMax int32 = 180_000_000
	LongitudeMin int32 = -180_000_000
)

// Intersects reports whether b and other share any area.
func (b BoundingBox) Intersects(other BoundingBox) bool {
	return b.MinLatitude <= other.MaxLatitude && b.MaxLatitude >= other.MinLatitude &&
		b.MinLongitude <= other.MaxLongitude && b.MaxLongitude >= other.MinLongitude
}

// TileGridRect is a base-zoom tile-index rectangle: the four tile
// boundary coordinates a sub-file's flat tile index is addressed by.
type TileGridRect struct {
	Left, Top, Right, Bottom int64
}

// Width is the number of tile columns covered.
func (r TileGridRect) Width() int64 { return r.Right - r.Left + 1 }

// Height is the number of tile rows covered.
func (r TileGridRect) Height() int64 { return r.Bottom - r.Top + 1 }

// Contains reports whether (tileX, tileY) falls inside the rectangle.
func (r TileGridRect) Contains(tileX, tileY int64) bool {
	return tileX >= r.Left && tileX <= r.Right && tileY >= r.Top && tileY <= r.Bottom
}
