// Package mapfile decodes the Mapsforge binary map-file format: the
// fixed header (component B), a sub-file's flat tile index (component
// C), and per-tile POI/way payloads (component D), against a bounded
// ReadBuffer (component A). It is the internal decode layer; pkg/mapsforge
// is the public, cached, multi-file-aware wrapper around it.
package mapfile

import (
	"math"
	"os"
)

const payloadMaxLen = 4 * 1024 * 1024

// MapFile is a single opened map file, positioned to serve tile reads
// against its own file handle. Not safe for concurrent use from
// multiple goroutines without external synchronization; pkg/mapsforge
// adds no per-file lock around tile reads.
type MapFile struct {
	file *os.File
	info *MapFileInfo
}

// Open validates and decodes path's header, returning the MapFile ready
// to serve ReadMapData calls alongside the human-readable open result
// (spec §6). The file is left open on success; callers must Close it.
func Open(path string) (*MapFile, *FileOpenResult, error) {
	f, err := os.Open(path)
	if err != nil {
		e := &ErrIOError{Op: "open", Err: err}
		res, _ := openResultFromError(e)
		return nil, res, e
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		e := &ErrIOError{Op: "stat", Err: err}
		res, _ := openResultFromError(e)
		return nil, res, e
	}

	info, res, err := decodeHeader(f, stat.Size())
	if err != nil {
		f.Close()
		return nil, res, err
	}

	return &MapFile{file: f, info: info}, res, nil
}

// GetMapFileInfo returns the decoded header metadata.
func (m *MapFile) GetMapFileInfo() *MapFileInfo {
	return m.info
}

// ReadMapData decodes the POIs and ways visible at tile (spec §6). A
// tile outside every sub-file's boundary, or one with no tile index
// entry, returns an empty, non-nil result with no error — that's a
// legitimate "nothing here", not a failure. A malformed tile block
// (truncated read, a tag id out of range, a way overrunning its
// declared size) returns the decode error instead of silently
// swallowing it: this package stays logging-free (spec §5), so it's
// pkg/mapsforge's job, as the wrapping layer, to log it at level=warn
// and fall back to an empty result (spec §7).
func (m *MapFile) ReadMapData(tile Tile) (*MapReadResult, error) {
	sf, ok := selectSubFile(m.info.SubFiles, tile.ZoomLevel)
	if !ok {
		return &MapReadResult{}, nil
	}

	baseX, baseY := projectToBaseZoom(tile.TileX, tile.TileY, tile.ZoomLevel, sf.BaseZoomLevel)

	indexBuf := NewReadBuffer(m.file, indexEntrySize)
	entry, ok, err := lookupTileIndex(indexBuf, sf, baseX, baseY)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &MapReadResult{}, nil
	}
	if entry.Water {
		return &MapReadResult{Water: true}, nil
	}

	tileTopLeft := tileTopLeftCorner(baseX, baseY, sf.BaseZoomLevel)

	payloadBuf := NewReadBuffer(m.file, payloadMaxLen)
	result, err := readTileBlock(payloadBuf, m.info, sf, entry.Offset, tile, tileTopLeft)
	if err != nil {
		return nil, err
	}
	result.Water = entry.Water
	return result, nil
}

// Close releases the underlying file handle.
func (m *MapFile) Close() error {
	if err := m.file.Close(); err != nil {
		return &ErrIOError{Op: "close", Err: err}
	}
	return nil
}

// tileTopLeftCorner converts a base-zoom tile coordinate back to its
// top-left geographic corner, the delta origin for every coordinate
// decoded from that tile's payload.
func tileTopLeftCorner(tileX, tileY int64, zoom int) LatLon {
	n := float64(int64(1) << uint(zoom))
	lon := float64(tileX)/n*360.0 - 180.0
	latRad := math.Atan(math.Sinh(math.Pi * (1.0 - 2.0*float64(tileY)/n)))
	lat := latRad * 180.0 / math.Pi

	return LatLon{
		Latitude:  int32(lat * 1_000_000),
		Longitude: int32(lon * 1_000_000),
	}
}
