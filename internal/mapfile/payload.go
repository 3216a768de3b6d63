package mapfile

const (
	debugSignatureLength = 16

	poiFlagHasName        = 0x80
	poiFlagHasHouseNumber = 0x40
	poiFlagHasElevation   = 0x20

	wayFlagHasName           = 0x80
	wayFlagHasHouseNumber    = 0x40
	wayFlagHasRef            = 0x20
	wayFlagHasLabelPosition  = 0x10
	wayFlagHasDataBlocksByte = 0x08
	wayFlagDoubleDelta       = 0x04
)

// PointOfInterest is a decoded POI record (spec §3).
type PointOfInterest struct {
	Position     LatLon
	Layer        int
	Tags         []Tag
	Name         *string
	HouseNumber  *string
	Elevation    *int64
}

// WayDataBlock is one or more coordinate blocks (rings) belonging to a
// single way data block.
type WayDataBlock struct {
	CoordinateBlocks [][]LatLon
}

// Way is a decoded way record (spec §3).
type Way struct {
	Layer         int
	Tags          []Tag
	Name          *string
	HouseNumber   *string
	Ref           *string
	LabelPosition *LatLon
	DataBlocks    []WayDataBlock
}

// MapReadResult is the output of a single tile read: decoded POIs and
// ways, plus whether the tile index marked the tile water.
type MapReadResult struct {
	POIs  []PointOfInterest
	Ways  []Way
	Water bool
}

type zoomTableRow struct {
	CumulativePOIs int64
	CumulativeWays int64
}

// readTileBlock decodes a single tile's payload at the given absolute
// file offset. tile/zoom identify the request so subtile filtering and
// the zoom-table cumulative-count cutoffs can be applied; tileTopLeft
// is the tile's own top-left corner in microdegrees, the delta origin
// for every coordinate in the block.
func readTileBlock(rb *ReadBuffer, info *MapFileInfo, sf SubFileDescriptor, offset int64,
	tile Tile, tileTopLeft LatLon) (*MapReadResult, error) {

	if err := rb.SeekTo(offset); err != nil {
		return nil, err
	}
	// Tile blocks are read incrementally; size is not known up front, so
	// refill generously and rely on bounds checks on every typed read.
	// A short read at EOF is expected for a file's final tile block.
	if err := rb.ReadFromFileTolerant(rb.maxLen); err != nil {
		return nil, err
	}

	if info.DebugFile {
		if err := rb.SkipBytes(debugSignatureLength); err != nil {
			return nil, &ErrTruncatedTileBlock{Reason: "debug signature"}
		}
	}

	numZoomRows := sf.ZoomLevelMax - sf.ZoomLevelMin + 1
	if numZoomRows < 1 {
		return nil, &ErrTruncatedTileBlock{Reason: "empty zoom range"}
	}
	zoomTable := make([]zoomTableRow, numZoomRows)
	for i := range zoomTable {
		pois, err := rb.ReadUnsignedInt()
		if err != nil {
			return nil, &ErrTruncatedTileBlock{Reason: "zoom table POI count"}
		}
		ways, err := rb.ReadUnsignedInt()
		if err != nil {
			return nil, &ErrTruncatedTileBlock{Reason: "zoom table way count"}
		}
		zoomTable[i] = zoomTableRow{CumulativePOIs: pois, CumulativeWays: ways}
	}

	firstWayOffset, err := rb.ReadUnsignedInt()
	if err != nil {
		return nil, &ErrTruncatedTileBlock{Reason: "first-way offset"}
	}
	poiSectionStart := rb.pos

	requestedZoom := tile.ZoomLevel
	if requestedZoom < sf.ZoomLevelMin {
		requestedZoom = sf.ZoomLevelMin
	}
	if requestedZoom > sf.ZoomLevelMax {
		requestedZoom = sf.ZoomLevelMax
	}
	row := requestedZoom - sf.ZoomLevelMin
	poiCount := zoomTable[row].CumulativePOIs
	wayCount := zoomTable[row].CumulativeWays

	result := &MapReadResult{}

	for i := int64(0); i < poiCount; i++ {
		poi, err := readPOI(rb, info, tileTopLeft)
		if err != nil {
			// A truncated POI mid-block invalidates the whole tile per
			// spec §7: partial records are never emitted. The error
			// still propagates to the caller, which logs it.
			return nil, err
		}
		result.POIs = append(result.POIs, *poi)
	}

	// Skip whatever POI bytes remain (higher-zoom POIs we don't need)
	// by jumping straight to the recorded way-section start rather than
	// continuing to structurally decode them.
	waySectionStart := poiSectionStart + int(firstWayOffset)
	if waySectionStart < rb.pos || waySectionStart > len(rb.buffer) {
		return nil, &ErrTruncatedTileBlock{Reason: "way section offset out of bounds"}
	}
	rb.pos = waySectionStart

	subtileBit, hasSubtile := subtileBitIndex(tile, sf)

	for i := int64(0); i < wayCount; i++ {
		way, skip, err := readWay(rb, info, tileTopLeft, subtileBit, hasSubtile)
		if err != nil {
			return nil, err
		}
		if skip {
			continue
		}
		result.Ways = append(result.Ways, *way)
	}

	return result, nil
}

func readPOI(rb *ReadBuffer, info *MapFileInfo, tileTopLeft LatLon) (*PointOfInterest, error) {
	latDelta, err := rb.ReadSignedInt()
	if err != nil {
		return nil, err
	}
	lonDelta, err := rb.ReadSignedInt()
	if err != nil {
		return nil, err
	}

	layerAndTags, err := rb.ReadByte()
	if err != nil {
		return nil, err
	}
	layer := int(layerAndTags>>4) - 5
	numberOfTags := int(layerAndTags & 0x0f)

	tags := make([]Tag, 0, numberOfTags)
	for i := 0; i < numberOfTags; i++ {
		id, err := rb.ReadUnsignedInt()
		if err != nil {
			return nil, err
		}
		if int(id) >= len(info.PoiTags) {
			return nil, &ErrInvalidTagCount{Kind: "POI", Count: int16(id)}
		}
		tags = append(tags, info.PoiTags[id])
	}

	flags, err := rb.ReadByte()
	if err != nil {
		return nil, err
	}

	poi := &PointOfInterest{
		Position: LatLon{
			Latitude:  tileTopLeft.Latitude + int32(latDelta),
			Longitude: tileTopLeft.Longitude + int32(lonDelta),
		},
		Layer: layer,
		Tags:  tags,
	}

	if flags&poiFlagHasName != 0 {
		s, err := rb.ReadUTF8EncodedString()
		if err != nil {
			return nil, err
		}
		poi.Name = &s
	}
	if flags&poiFlagHasHouseNumber != 0 {
		s, err := rb.ReadUTF8EncodedString()
		if err != nil {
			return nil, err
		}
		poi.HouseNumber = &s
	}
	if flags&poiFlagHasElevation != 0 {
		e, err := rb.ReadSignedInt()
		if err != nil {
			return nil, err
		}
		poi.Elevation = &e
	}

	return poi, nil
}

// readWay decodes one way record. skip is true when the subtile-bitmap
// check excludes this way from the requested tile.
func readWay(rb *ReadBuffer, info *MapFileInfo, tileTopLeft LatLon, subtileBit int, hasSubtile bool) (*Way, bool, error) {
	dataSize, err := rb.ReadUnsignedInt()
	if err != nil {
		return nil, false, err
	}
	wayStart := rb.pos

	subtileBitmap, err := rb.ReadShort()
	if err != nil {
		return nil, false, err
	}

	skip := false
	if hasSubtile {
		bit := uint16(subtileBitmap) & (1 << uint(subtileBit))
		if bit == 0 {
			skip = true
		}
	}

	layerAndTags, err := rb.ReadByte()
	if err != nil {
		return nil, false, err
	}
	layer := int(layerAndTags>>4) - 5
	numberOfTags := int(layerAndTags & 0x0f)

	tags := make([]Tag, 0, numberOfTags)
	for i := 0; i < numberOfTags; i++ {
		id, err := rb.ReadUnsignedInt()
		if err != nil {
			return nil, false, err
		}
		if int(id) >= len(info.WayTags) {
			return nil, false, &ErrInvalidTagCount{Kind: "way", Count: int16(id)}
		}
		tags = append(tags, info.WayTags[id])
	}

	flags, err := rb.ReadByte()
	if err != nil {
		return nil, false, err
	}

	way := &Way{Layer: layer, Tags: tags}

	if flags&wayFlagHasName != 0 {
		s, err := rb.ReadUTF8EncodedString()
		if err != nil {
			return nil, false, err
		}
		way.Name = &s
	}
	if flags&wayFlagHasHouseNumber != 0 {
		s, err := rb.ReadUTF8EncodedString()
		if err != nil {
			return nil, false, err
		}
		way.HouseNumber = &s
	}
	if flags&wayFlagHasRef != 0 {
		s, err := rb.ReadUTF8EncodedString()
		if err != nil {
			return nil, false, err
		}
		way.Ref = &s
	}
	if flags&wayFlagHasLabelPosition != 0 {
		latDelta, err := rb.ReadSignedInt()
		if err != nil {
			return nil, false, err
		}
		lonDelta, err := rb.ReadSignedInt()
		if err != nil {
			return nil, false, err
		}
		way.LabelPosition = &LatLon{
			Latitude:  tileTopLeft.Latitude + int32(latDelta),
			Longitude: tileTopLeft.Longitude + int32(lonDelta),
		}
	}

	numberOfBlocks := int64(1)
	if flags&wayFlagHasDataBlocksByte != 0 {
		n, err := rb.ReadUnsignedInt()
		if err != nil {
			return nil, false, err
		}
		numberOfBlocks = n
	}

	doubleDelta := flags&wayFlagDoubleDelta != 0

	for b := int64(0); b < numberOfBlocks; b++ {
		block, err := readWayDataBlock(rb, tileTopLeft, doubleDelta)
		if err != nil {
			return nil, false, err
		}
		way.DataBlocks = append(way.DataBlocks, *block)
	}

	// dataSize bounds the whole record; if decoding ran past it the
	// block is malformed and the tile is dropped by the caller.
	if int64(rb.pos-wayStart) > dataSize {
		return nil, false, &ErrTruncatedTileBlock{Reason: "way data exceeds declared size"}
	}

	return way, skip, nil
}

func readWayDataBlock(rb *ReadBuffer, tileTopLeft LatLon, doubleDelta bool) (*WayDataBlock, error) {
	numberOfCoordinateBlocks, err := rb.ReadUnsignedInt()
	if err != nil {
		return nil, err
	}
	block := &WayDataBlock{}
	for i := int64(0); i < numberOfCoordinateBlocks; i++ {
		coords, err := readCoordinateBlock(rb, tileTopLeft, doubleDelta)
		if err != nil {
			return nil, err
		}
		block.CoordinateBlocks = append(block.CoordinateBlocks, coords)
	}
	return block, nil
}

func readCoordinateBlock(rb *ReadBuffer, tileTopLeft LatLon, doubleDelta bool) ([]LatLon, error) {
	numberOfCoordinates, err := rb.ReadUnsignedInt()
	if err != nil {
		return nil, err
	}
	if numberOfCoordinates < 1 {
		return nil, nil
	}

	firstLatDelta, err := rb.ReadSignedInt()
	if err != nil {
		return nil, err
	}
	firstLonDelta, err := rb.ReadSignedInt()
	if err != nil {
		return nil, err
	}

	coords := make([]LatLon, 0, numberOfCoordinates)
	lat := tileTopLeft.Latitude + int32(firstLatDelta)
	lon := tileTopLeft.Longitude + int32(firstLonDelta)
	coords = append(coords, LatLon{Latitude: lat, Longitude: lon})

	var prevLatDelta, prevLonDelta int64

	for i := int64(1); i < numberOfCoordinates; i++ {
		latDelta, err := rb.ReadSignedInt()
		if err != nil {
			return nil, err
		}
		lonDelta, err := rb.ReadSignedInt()
		if err != nil {
			return nil, err
		}

		if doubleDelta {
			latDelta += prevLatDelta
			lonDelta += prevLonDelta
		}
		prevLatDelta = latDelta
		prevLonDelta = lonDelta

		lat += int32(latDelta)
		lon += int32(lonDelta)
		coords = append(coords, LatLon{Latitude: lat, Longitude: lon})
	}

	return coords, nil
}

// subtileBitIndex computes the bit position within a way's 4x4
// subtile-coverage bitmap for the requested tile, relative to sf's
// base zoom. hasSubtile is false when the base zoom already matches
// (or exceeds) zoomLevelMax, in which case no subtile filtering
// applies (the whole bitmap is implicitly "covered").
func subtileBitIndex(tile Tile, sf SubFileDescriptor) (int, bool) {
	zoomDiff := sf.ZoomLevelMax - sf.BaseZoomLevel
	if zoomDiff <= 0 {
		return 0, false
	}
	if zoomDiff > 2 {
		zoomDiff = 2 // bitmap only encodes a 4x4 (2^2) grid
	}

	baseX, baseY := projectToBaseZoom(tile.TileX, tile.TileY, tile.ZoomLevel, sf.BaseZoomLevel)
	maxX, maxY := projectToBaseZoom(baseX, baseY, sf.BaseZoomLevel, sf.BaseZoomLevel+zoomDiff)
	reqX, reqY := projectToBaseZoom(tile.TileX, tile.TileY, tile.ZoomLevel, sf.BaseZoomLevel+zoomDiff)

	subX := reqX - maxX
	subY := reqY - maxY
	if subX < 0 || subX > 3 || subY < 0 || subY > 3 {
		return 0, false
	}
	return int(subY*4 + subX), true
}
