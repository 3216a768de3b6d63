package mapfile

import "os"

const (
	binaryOSMMagic       = "mapsforge binary OSM"
	headerSizeMin        = 70
	headerSizeMax        = 1_000_000
	supportedFileVersion = 3
	mercatorProjection   = "Mercator"
	minMapDateMillis     = 1_200_000_000_000
)

// MapFileInfo is the fully decoded, immutable header metadata for an
// open map file (spec §3).
type MapFileInfo struct {
	FileSize            int64
	FileVersion          int32
	MapDate              int64
	ProjectionName       string
	TilePixelSize        int16
	BoundingBox          BoundingBox
	PoiTags              []Tag
	WayTags              []Tag
	NumberOfSubFiles     byte
	DebugFile            bool
	StartPosition        *LatLon
	StartZoomLevel       *int
	LanguagePreference   *string
	Comment              *string
	CreatedBy            *string
	SubFiles             []SubFileDescriptor
}

// LatLon is a microdegree-scaled geographic point.
type LatLon struct {
	Latitude  int32
	Longitude int32
}

// SubFileDescriptor describes one zoom-interval region of the map file
// (spec §3, §4.B clause 13).
type SubFileDescriptor struct {
	BaseZoomLevel int
	ZoomLevelMin  int
	ZoomLevelMax  int
	StartAddress  int64
	SubFileSize   int64
	Boundary      TileGridRect
}

// CoversZoom reports whether zoom falls within [ZoomLevelMin, ZoomLevelMax].
func (s SubFileDescriptor) CoversZoom(zoom int) bool {
	return zoom >= s.ZoomLevelMin && zoom <= s.ZoomLevelMax
}

// FileOpenResult is the human-readable open outcome, kept for API
// parity with the original Java reader: the Message is always derived
// from the returned error (never built independently), closing the
// "mixed sentinel errors" gap the design notes call out.
type FileOpenResult struct {
	OK      bool
	Message string
}

func openResultFromError(err error) (*FileOpenResult, error) {
	if err == nil {
		return &FileOpenResult{OK: true}, nil
	}
	return &FileOpenResult{OK: false, Message: err.Error()}, err
}

// flag bits in the header's single flag byte (spec §4.B clause 9).
const (
	flagDebugFile            = 0x80
	flagHasStartPosition     = 0x40
	flagHasStartZoomLevel    = 0x20
	flagHasLanguagePreference = 0x10
	flagHasComment           = 0x08
	flagHasCreatedBy         = 0x04
)

// decodeHeader runs the thirteen ordered clauses of spec §4.B against
// an already-open file, atomically: the first failing clause aborts
// with its verbatim message.
func decodeHeader(f *os.File, fileSize int64) (*MapFileInfo, *FileOpenResult, error) {
	rb := NewReadBuffer(f, headerSizeMax)

	// Clause 1: magic byte, read together with the remaining-header-size
	// word in one buffer fill (mirrors RequiredFields.readMagicByte,
	// which sizes its readFromFile call as magicByteLength+4).
	if err := rb.ReadFromFile(len(binaryOSMMagic) + 4); err != nil {
		res, _ := openResultFromError(err)
		return nil, res, err
	}
	magic, err := rb.ReadUTF8FixedString(len(binaryOSMMagic))
	if err != nil {
		res, _ := openResultFromError(err)
		return nil, res, err
	}
	if magic != binaryOSMMagic {
		e := &ErrInvalidMagic{Got: magic}
		res, _ := openResultFromError(e)
		return nil, res, e
	}

	// Clause 2: remaining-header-size, then refill the buffer with the
	// full header body.
	remaining, err := rb.ReadInt()
	if err != nil {
		res, _ := openResultFromError(err)
		return nil, res, err
	}
	if remaining < headerSizeMin || remaining > headerSizeMax {
		e := &ErrInvalidHeaderSize{Size: remaining}
		res, _ := openResultFromError(e)
		return nil, res, e
	}
	if err := rb.ReadFromFile(int(remaining)); err != nil {
		res, _ := openResultFromError(err)
		return nil, res, err
	}

	info := &MapFileInfo{}

	// Clause 3: file version.
	version, err := rb.ReadInt()
	if err != nil {
		res, _ := mustResult(err)
		return nil, res, err
	}
	if version != supportedFileVersion {
		e := &ErrUnsupportedVersion{Version: version}
		res, _ := mustResult(e)
		return nil, res, e
	}
	info.FileVersion = version

	// Clause 4: file size.
	headerFileSize, err := rb.ReadLong()
	if err != nil {
		res, _ := mustResult(err)
		return nil, res, err
	}
	if headerFileSize != fileSize {
		e := &ErrInvalidFileSize{Declared: headerFileSize}
		res, _ := mustResult(e)
		return nil, res, e
	}
	info.FileSize = fileSize

	// Clause 5: map date.
	mapDate, err := rb.ReadLong()
	if err != nil {
		res, _ := mustResult(err)
		return nil, res, err
	}
	if mapDate < minMapDateMillis {
		e := &ErrInvalidMapDate{MapDate: mapDate}
		res, _ := mustResult(e)
		return nil, res, e
	}
	info.MapDate = mapDate

	// Clause 6: bounding box.
	bbox, err := readBoundingBox(rb)
	if err != nil {
		res, _ := mustResult(err)
		return nil, res, err
	}
	info.BoundingBox = bbox

	// Clause 7: tile pixel size.
	tilePixelSize, err := rb.ReadShort()
	if err != nil {
		res, _ := mustResult(err)
		return nil, res, err
	}
	if tilePixelSize != TileSize {
		e := &ErrInvalidTilePixelSize{Size: tilePixelSize}
		res, _ := mustResult(e)
		return nil, res, e
	}
	info.TilePixelSize = tilePixelSize

	// Clause 8: projection name.
	projection, err := rb.ReadUTF8EncodedString()
	if err != nil {
		res, _ := mustResult(err)
		return nil, res, err
	}
	if projection != mercatorProjection {
		e := &ErrUnsupportedProjection{Name: projection}
		res, _ := mustResult(e)
		return nil, res, e
	}
	info.ProjectionName = projection

	// Clause 9: flag byte.
	flags, err := rb.ReadByte()
	if err != nil {
		res, _ := mustResult(err)
		return nil, res, err
	}
	info.DebugFile = flags&flagDebugFile != 0

	// Clause 10: optional fields gated by the flag bits.
	if flags&flagHasStartPosition != 0 {
		lat, err := rb.ReadInt()
		if err != nil {
			res, _ := mustResult(err)
			return nil, res, err
		}
		lon, err := rb.ReadInt()
		if err != nil {
			res, _ := mustResult(err)
			return nil, res, err
		}
		info.StartPosition = &LatLon{Latitude: lat, Longitude: lon}
	}
	if flags&flagHasStartZoomLevel != 0 {
		b, err := rb.ReadByte()
		if err != nil {
			res, _ := mustResult(err)
			return nil, res, err
		}
		z := int(b)
		info.StartZoomLevel = &z
	}
	if flags&flagHasLanguagePreference != 0 {
		s, err := rb.ReadUTF8EncodedString()
		if err != nil {
			res, _ := mustResult(err)
			return nil, res, err
		}
		info.LanguagePreference = &s
	}
	if flags&flagHasComment != 0 {
		s, err := rb.ReadUTF8EncodedString()
		if err != nil {
			res, _ := mustResult(err)
			return nil, res, err
		}
		info.Comment = &s
	}
	if flags&flagHasCreatedBy != 0 {
		s, err := rb.ReadUTF8EncodedString()
		if err != nil {
			res, _ := mustResult(err)
			return nil, res, err
		}
		info.CreatedBy = &s
	}

	// Clause 11: POI tags.
	poiTags, err := readTagList(rb, "POI")
	if err != nil {
		res, _ := mustResult(err)
		return nil, res, err
	}
	info.PoiTags = poiTags

	// Clause 12: way tags.
	wayTags, err := readTagList(rb, "way")
	if err != nil {
		res, _ := mustResult(err)
		return nil, res, err
	}
	info.WayTags = wayTags

	// Clause 13: sub-file descriptors.
	numberOfSubFiles, err := rb.ReadByte()
	if err != nil {
		res, _ := mustResult(err)
		return nil, res, err
	}
	if numberOfSubFiles < 1 {
		e := &ErrInvalidHeaderSize{Size: int32(numberOfSubFiles)}
		res, _ := mustResult(e)
		return nil, res, e
	}
	info.NumberOfSubFiles = numberOfSubFiles

	subFiles := make([]SubFileDescriptor, 0, numberOfSubFiles)
	for i := byte(0); i < numberOfSubFiles; i++ {
		sf, err := readSubFileDescriptor(rb, info.BoundingBox)
		if err != nil {
			res, _ := mustResult(err)
			return nil, res, err
		}
		subFiles = append(subFiles, sf)
	}
	info.SubFiles = subFiles

	return info, &FileOpenResult{OK: true}, nil
}

func mustResult(err error) (*FileOpenResult, error) {
	res, _ := openResultFromError(err)
	return res, err
}

func readBoundingBox(rb *ReadBuffer) (BoundingBox, error) {
	minLat, err := rb.ReadInt()
	if err != nil {
		return BoundingBox{}, err
	}
	if minLat < LatitudeMin || minLat > LatitudeMax {
		return BoundingBox{}, &ErrInvalidBoundingBox{Reason: "invalid minimum latitude"}
	}
	minLon, err := rb.ReadInt()
	if err != nil {
		return BoundingBox{}, err
	}
	if minLon < LongitudeMin || minLon > LongitudeMax {
		return BoundingBox{}, &ErrInvalidBoundingBox{Reason: "invalid minimum longitude"}
	}
	maxLat, err := rb.ReadInt()
	if err != nil {
		return BoundingBox{}, err
	}
	if maxLat < LatitudeMin || maxLat > LatitudeMax {
		return BoundingBox{}, &ErrInvalidBoundingBox{Reason: "invalid maximum latitude"}
	}
	maxLon, err := rb.ReadInt()
	if err != nil {
		return BoundingBox{}, err
	}
	if maxLon < LongitudeMin || maxLon > LongitudeMax {
		return BoundingBox{}, &ErrInvalidBoundingBox{Reason: "invalid maximum longitude"}
	}
	if minLat > maxLat {
		return BoundingBox{}, &ErrInvalidBoundingBox{Reason: "invalid latitude range"}
	}
	if minLon > maxLon {
		return BoundingBox{}, &ErrInvalidBoundingBox{Reason: "invalid longitude range"}
	}
	return BoundingBox{MinLatitude: minLat, MinLongitude: minLon, MaxLatitude: maxLat, MaxLongitude: maxLon}, nil
}

func readTagList(rb *ReadBuffer, kind string) ([]Tag, error) {
	count, err := rb.ReadShort()
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, &ErrInvalidTagCount{Kind: kind, Count: count}
	}
	tags := make([]Tag, count)
	for i := 0; i < int(count); i++ {
		s, err := rb.ReadUTF8EncodedString()
		if err != nil {
			return nil, err
		}
		if s == "" {
			return nil, &ErrNullTag{Kind: kind, Index: i}
		}
		tags[i] = NewTag(s)
	}
	return tags, nil
}

func readSubFileDescriptor(rb *ReadBuffer, globalBBox BoundingBox) (SubFileDescriptor, error) {
	baseZoomLevel, err := rb.ReadByte()
	if err != nil {
		return SubFileDescriptor{}, err
	}
	zoomMin, err := rb.ReadByte()
	if err != nil {
		return SubFileDescriptor{}, err
	}
	zoomMax, err := rb.ReadByte()
	if err != nil {
		return SubFileDescriptor{}, err
	}
	startAddress, err := rb.ReadLong()
	if err != nil {
		return SubFileDescriptor{}, err
	}
	// index start address follows in the original layout; this reader
	// only needs the sub-file data start address and size to serve
	// tiles, so the dedicated index-start field is skipped here and
	// re-derived as startAddress+16 by the index reader (spec §4.C).
	if err := rb.SkipBytes(8); err != nil {
		return SubFileDescriptor{}, err
	}
	subFileSize, err := rb.ReadLong()
	if err != nil {
		return SubFileDescriptor{}, err
	}

	boundary := boundaryTileGrid(globalBBox, int(baseZoomLevel))

	return SubFileDescriptor{
		BaseZoomLevel: int(baseZoomLevel),
		ZoomLevelMin:  int(zoomMin),
		ZoomLevelMax:  int(zoomMax),
		StartAddress:  startAddress,
		SubFileSize:   subFileSize,
		Boundary:      boundary,
	}, nil
}
