package mapfile

// indexEntrySize is the width in bytes of one tile-index entry: top bit
// is the water-tile flag, the remaining 39 bits are a byte offset.
const indexEntrySize = 5

// indexHeaderSize is the fixed-size prelude before a sub-file's tile
// index begins (spec §4.C: "startAddress + 16 (header) + index*5").
const indexHeaderSize = 16

// selectSubFile picks the sub-file whose [ZoomLevelMin, ZoomLevelMax]
// covers zoom, preferring the first match in descriptor order (spec
// §4.C). Returns false if no sub-file covers the zoom level.
func selectSubFile(subFiles []SubFileDescriptor, zoom int) (SubFileDescriptor, bool) {
	for _, sf := range subFiles {
		if sf.CoversZoom(zoom) {
			return sf, true
		}
	}
	return SubFileDescriptor{}, false
}

// projectToBaseZoom shifts a (tileX, tileY) pair at zoom into the
// sub-file's base zoom grid.
func projectToBaseZoom(tileX, tileY int64, zoom, baseZoomLevel int) (int64, int64) {
	diff := baseZoomLevel - zoom
	if diff >= 0 {
		return tileX << uint(diff), tileY << uint(diff)
	}
	return tileX >> uint(-diff), tileY >> uint(-diff)
}

// tileIndexEntry is one decoded 5-byte tile-index record.
type tileIndexEntry struct {
	Water  bool
	Offset int64
}

// decodeIndexEntry decodes one 5-byte entry: the top
// bit of the first byte is the water flag, and the remaining 39 bits
// (big-endian across the 5 bytes once the flag bit is masked off) are
// the byte offset.
func decodeIndexEntry(b [indexEntrySize]byte) tileIndexEntry {
	water := b[0]&0x80 != 0
	var offset int64
	offset = int64(b[0]&0x7f)<<32 | int64(b[1])<<24 | int64(b[2])<<16 | int64(b[3])<<8 | int64(b[4])
	return tileIndexEntry{Water: water, Offset: offset}
}

// lookupTileIndex reads the tile-index entry for (tileX, tileY) within
// sf, returning the water flag and the absolute file offset of the
// tile's data block. ok is false if the tile falls outside sf's
// boundary rectangle.
func lookupTileIndex(rb *ReadBuffer, sf SubFileDescriptor, tileX, tileY int64) (tileIndexEntry, bool, error) {
	if !sf.Boundary.Contains(tileX, tileY) {
		return tileIndexEntry{}, false, nil
	}
	row := tileY - sf.Boundary.Top
	col := tileX - sf.Boundary.Left
	index := row*sf.Boundary.Width() + col

	entryOffset := sf.StartAddress + indexHeaderSize + index*indexEntrySize
	if err := rb.SeekTo(entryOffset); err != nil {
		return tileIndexEntry{}, false, err
	}
	if err := rb.ReadFromFile(indexEntrySize); err != nil {
		return tileIndexEntry{}, false, err
	}
	var raw [indexEntrySize]byte
	for i := range raw {
		b, err := rb.ReadByte()
		if err != nil {
			return tileIndexEntry{}, false, err
		}
		raw[i] = b
	}
	entry := decodeIndexEntry(raw)
	return entry, true, nil
}
