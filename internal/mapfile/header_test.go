package mapfile

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func encodeUnsignedVarint(n int64) []byte {
	var out []byte
	for {
		b := byte(n & 0x7f)
		n >>= 7
		if n != 0 {
			out = append(out, b|0x80)
			continue
		}
		out = append(out, b)
		return out
	}
}

func encodeSignedVarint(v int64) []byte {
	neg := v < 0
	if neg {
		v = -v
	}
	var out []byte
	for v >= 0x40 {
		out = append(out, byte(v&0x7f)|0x80)
		v >>= 7
	}
	last := byte(v & 0x3f)
	if neg {
		last |= 0x40
	}
	return append(out, last)
}

func encodeVarintString(s string) []byte {
	var out []byte
	out = append(out, encodeUnsignedVarint(int64(len(s)))...)
	out = append(out, []byte(s)...)
	return out
}

// goldenFileSize is file_header.map's size from spec §8 scenario 1.
// No such binary travels with this repository, so the fixture is
// built programmatically byte-for-byte instead (SPEC_FULL.md §9).
const goldenFileSize = 709

// buildGoldenHeader assembles the exact header fields spec §8 scenario
// 1 names: three sub-files, every optional flag-byte field present,
// no POI/way tags, padded with trailing filler to land on
// goldenFileSize bytes (the real file's tile indices and data, which
// this fixture has no need to contain structured content for).
func buildGoldenHeader(t *testing.T) []byte {
	t.Helper()

	var body bytes.Buffer
	write := func(v interface{}) {
		if err := binary.Write(&body, binary.BigEndian, v); err != nil {
			t.Fatalf("binary.Write: %v", err)
		}
	}

	write(int32(supportedFileVersion)) // fileVersion = 3

	fileSizeOffset := body.Len()
	write(int64(0)) // patched to goldenFileSize below

	write(int64(1_332_081_126_944)) // mapDate

	write(int32(100000)) // minLat
	write(int32(200000)) // minLon
	write(int32(300000)) // maxLat
	write(int32(400000)) // maxLon

	write(int16(TileSize)) // tilePixelSize

	body.Write(encodeVarintString(mercatorProjection)) // "Mercator"

	write(byte(flagHasStartPosition | flagHasStartZoomLevel |
		flagHasLanguagePreference | flagHasComment | flagHasCreatedBy)) // flags, debugFile unset

	write(int32(150000)) // startPosition.lat
	write(int32(250000)) // startPosition.lon
	write(byte(16))       // startZoomLevel

	body.Write(encodeVarintString("en"))
	body.Write(encodeVarintString("testcomment"))
	body.Write(encodeVarintString("mapsforge-map-writer-0.3.0-SNAPSHOT"))

	write(int16(0)) // poiTags.length
	write(int16(0)) // wayTags.length

	write(byte(3)) // numberOfSubFiles

	zoomRanges := [3][3]byte{{0, 0, 7}, {8, 8, 11}, {12, 12, 21}}
	for _, zr := range zoomRanges {
		write(zr[0])                // baseZoomLevel
		write(zr[1])                // zoomLevelMin
		write(zr[2])                // zoomLevelMax
		write(int64(0))             // startAddress
		body.Write(make([]byte, 8)) // skipped index-start-address field
		write(int64(0))             // subFileSize
	}

	bodyBytes := body.Bytes()

	var full bytes.Buffer
	full.WriteString(binaryOSMMagic)
	var sizeBuf [4]byte
	binary.BigEndian.PutUint32(sizeBuf[:], uint32(len(bodyBytes)))
	full.Write(sizeBuf[:])
	full.Write(bodyBytes)

	if full.Len() > goldenFileSize {
		t.Fatalf("assembled header (%d bytes) exceeds goldenFileSize (%d)", full.Len(), goldenFileSize)
	}
	full.Write(make([]byte, goldenFileSize-full.Len()))

	out := full.Bytes()
	fileSizeAbsOffset := len(binaryOSMMagic) + 4 + fileSizeOffset
	binary.BigEndian.PutUint64(out[fileSizeAbsOffset:fileSizeAbsOffset+8], uint64(goldenFileSize))

	return out
}

func TestDecodeHeaderGolden(t *testing.T) {
	data := buildGoldenHeader(t)
	if len(data) != goldenFileSize {
		t.Fatalf("buildGoldenHeader() len = %d, want %d", len(data), goldenFileSize)
	}
	f := writeTempFile(t, data)

	info, res, err := decodeHeader(f, int64(len(data)))
	if err != nil {
		t.Fatalf("decodeHeader: %v", err)
	}
	if !res.OK {
		t.Fatalf("FileOpenResult.OK = false, message %q", res.Message)
	}

	wantBBox := BoundingBox{MinLatitude: 100000, MinLongitude: 200000, MaxLatitude: 300000, MaxLongitude: 400000}
	if info.BoundingBox != wantBBox {
		t.Errorf("BoundingBox = %+v, want %+v", info.BoundingBox, wantBBox)
	}
	if info.FileSize != goldenFileSize {
		t.Errorf("FileSize = %d, want %d", info.FileSize, goldenFileSize)
	}
	if info.FileVersion != supportedFileVersion {
		t.Errorf("FileVersion = %d, want %d", info.FileVersion, supportedFileVersion)
	}
	if info.MapDate != 1_332_081_126_944 {
		t.Errorf("MapDate = %d, want %d", info.MapDate, 1_332_081_126_944)
	}
	if len(info.SubFiles) != 3 {
		t.Fatalf("len(SubFiles) = %d, want 3", len(info.SubFiles))
	}
	if info.ProjectionName != mercatorProjection {
		t.Errorf("ProjectionName = %q, want %q", info.ProjectionName, mercatorProjection)
	}
	if len(info.PoiTags) != 0 {
		t.Errorf("len(PoiTags) = %d, want 0", len(info.PoiTags))
	}
	if len(info.WayTags) != 0 {
		t.Errorf("len(WayTags) = %d, want 0", len(info.WayTags))
	}
	if info.DebugFile {
		t.Errorf("DebugFile = true, want false")
	}
	if info.TilePixelSize != TileSize {
		t.Errorf("TilePixelSize = %d, want %d", info.TilePixelSize, TileSize)
	}
	if info.StartPosition == nil || *info.StartPosition != (LatLon{Latitude: 150000, Longitude: 250000}) {
		t.Errorf("StartPosition = %+v, want {150000 250000}", info.StartPosition)
	}
	if info.StartZoomLevel == nil || *info.StartZoomLevel != 16 {
		t.Errorf("StartZoomLevel = %v, want 16", info.StartZoomLevel)
	}
	if info.LanguagePreference == nil || *info.LanguagePreference != "en" {
		t.Errorf("LanguagePreference = %v, want \"en\"", info.LanguagePreference)
	}
	if info.Comment == nil || *info.Comment != "testcomment" {
		t.Errorf("Comment = %v, want \"testcomment\"", info.Comment)
	}
	if info.CreatedBy == nil || *info.CreatedBy != "mapsforge-map-writer-0.3.0-SNAPSHOT" {
		t.Errorf("CreatedBy = %v, want \"mapsforge-map-writer-0.3.0-SNAPSHOT\"", info.CreatedBy)
	}
}

func TestDecodeHeaderWrongMagic(t *testing.T) {
	data := buildGoldenHeader(t)
	data[0] = 'X'
	f := writeTempFile(t, data)

	_, res, err := decodeHeader(f, int64(len(data)))
	if err == nil {
		t.Fatalf("decodeHeader with corrupted magic: want error, got nil")
	}
	if _, ok := err.(*ErrInvalidMagic); !ok {
		t.Errorf("error type = %T, want *ErrInvalidMagic", err)
	}
	if res.OK {
		t.Errorf("FileOpenResult.OK = true, want false")
	}
}

func TestDecodeHeaderUnsupportedVersion(t *testing.T) {
	data := buildGoldenHeader(t)
	// version field is the first 4 bytes of body, right after the
	// magic + remaining-header-size prelude.
	versionOffset := len(binaryOSMMagic) + 4
	binary.BigEndian.PutUint32(data[versionOffset:versionOffset+4], 99)
	f := writeTempFile(t, data)

	_, _, err := decodeHeader(f, int64(len(data)))
	if err == nil {
		t.Fatalf("decodeHeader with bad version: want error, got nil")
	}
	if _, ok := err.(*ErrUnsupportedVersion); !ok {
		t.Errorf("error type = %T, want *ErrUnsupportedVersion", err)
	}
}

func TestDecodeHeaderFileSizeMismatch(t *testing.T) {
	data := buildGoldenHeader(t)
	f := writeTempFile(t, data)

	_, _, err := decodeHeader(f, int64(len(data))+1)
	if err == nil {
		t.Fatalf("decodeHeader with mismatched file size: want error, got nil")
	}
	if _, ok := err.(*ErrInvalidFileSize); !ok {
		t.Errorf("error type = %T, want *ErrInvalidFileSize", err)
	}
}
