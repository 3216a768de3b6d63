// Package mapsforge is the public, cached, multi-file-aware wrapper
// around internal/mapfile's binary decoder. A Reader serves tiles from
// a single map file; a Catalog indexes many map files spatially and
// picks the right one per query; Cache adds an LRU layer in front of
// either so repeat reads (a label engine's dependency lookups on
// neighbouring tiles, a slippy-map pan) don't re-hit disk.
package mapsforge

import (
	"github.com/go-mapsforge/mapforge/internal/mapfile"
)

// Re-exported decode types: callers of pkg/mapsforge never need to
// import internal/mapfile directly.
type (
	Tile            = mapfile.Tile
	LatLon          = mapfile.LatLon
	BoundingBox     = mapfile.BoundingBox
	MapFileInfo     = mapfile.MapFileInfo
	MapReadResult   = mapfile.MapReadResult
	PointOfInterest = mapfile.PointOfInterest
	Way             = mapfile.Way
	Tag             = mapfile.Tag
)

// Reader serves tile reads from a single opened map file. Not safe for
// concurrent use. Cache's mutex guards only its own entries (the loader
// runs outside it) and Catalog holds no Reader, so nothing in this
// package serializes tile reads on a shared Reader.
type Reader struct {
	mf   *mapfile.MapFile
	path string
}

// Open validates and opens the map file at path.
func Open(path string) (*Reader, error) {
	mf, _, err := mapfile.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{mf: mf, path: path}, nil
}

// Info returns the decoded header metadata.
func (r *Reader) Info() *MapFileInfo {
	return r.mf.GetMapFileInfo()
}

// Path returns the file path this Reader was opened from.
func (r *Reader) Path() string {
	return r.path
}

// ReadTile decodes the POIs and ways visible at tile.
func (r *Reader) ReadTile(tile Tile) (*MapReadResult, error) {
	return r.mf.ReadMapData(tile)
}

// Close releases the underlying file handle.
func (r *Reader) Close() error {
	return r.mf.Close()
}
