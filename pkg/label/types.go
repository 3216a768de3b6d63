// Package label implements the per-tile label and symbol placement
// engine (component E) and its cross-tile dependency cache (component
// F) — the second of the two hardest subsystems this repository
// covers. Geometry here is plain pixel rectangles; no paint/canvas
// library is imported (spec §1 Non-goals: "no rendering backend"),
// so paint identity is represented by an opaque PaintKey pair instead
// of a real ShapePaintContainer.
package label

import "github.com/go-mapsforge/mapforge/internal/mapfile"

// Tile re-exports the shared tile coordinate type so callers don't
// need to import internal/mapfile directly for it.
type Tile = mapfile.Tile

// TileSize is the raster tile edge in pixels, shared with the reader.
const TileSize = mapfile.TileSize

// PaintKey is an opaque handle standing in for a real paint/canvas
// object (spec §9 Design Notes: "ShapePaintContainer"). Two labels
// sharing the same (text, PaintFront, PaintBack) triple are considered
// the same drawable, exactly the original's three-field identity
// check, without this package depending on a graphics library.
type PaintKey uintptr

// Rectangle is an axis-aligned pixel boundary in a tile's local
// coordinate space (origin top-left, +x right, +y down).
type Rectangle struct {
	X, Y, Width, Height float64
}

// Right returns the rectangle's right edge.
func (r Rectangle) Right() float64 { return r.X + r.Width }

// Bottom returns the rectangle's bottom edge.
func (r Rectangle) Bottom() float64 { return r.Y + r.Height }

// Intersects reports whether r and other share any area.
func (r Rectangle) Intersects(other Rectangle) bool {
	return r.X < other.Right() && r.Right() > other.X &&
		r.Y < other.Bottom() && r.Bottom() > other.Y
}

// Inflate returns r expanded by margin on every side.
func (r Rectangle) Inflate(margin float64) Rectangle {
	return Rectangle{
		X:      r.X - margin,
		Y:      r.Y - margin,
		Width:  r.Width + 2*margin,
		Height: r.Height + 2*margin,
	}
}

// PointTextContainer is a candidate (or placed) text label: its
// content, anchor position, paint identity, and pixel boundary.
// Symbol is the optional associated icon it was positioned relative
// to (nil for a free-standing label).
type PointTextContainer struct {
	Text       string
	X, Y       float64
	PaintFront PaintKey
	PaintBack  PaintKey
	Boundary   Rectangle
	Symbol     *SymbolContainer
}

// identity is the (text, paintFront, paintBack) triple the original
// uses for label-identity comparisons (SPEC_FULL.md §9).
func (p PointTextContainer) identity() (string, PaintKey, PaintKey) {
	return p.Text, p.PaintFront, p.PaintBack
}

// SymbolContainer is a candidate (or placed) map icon.
type SymbolContainer struct {
	X, Y          float64
	Width, Height float64
	AlphaSymbol   bool
}

// Boundary returns the symbol's pixel rectangle.
func (s SymbolContainer) Boundary() Rectangle {
	return Rectangle{X: s.X, Y: s.Y, Width: s.Width, Height: s.Height}
}
