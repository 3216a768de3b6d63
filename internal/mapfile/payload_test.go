package mapfile

import "testing"

func TestReadTileBlockSinglePOI(t *testing.T) {
	// zoom table: one row (zoom 10 only), 1 cumulative POI, 0 ways.
	zoomTable := append(encodeUnsignedVarint(1), encodeUnsignedVarint(0)...)
	firstWayOffset := encodeUnsignedVarint(5) // exact length of the one POI record below

	var poi []byte
	poi = append(poi, encodeSignedVarint(0)...)  // lat delta
	poi = append(poi, encodeSignedVarint(0)...)  // lon delta
	poi = append(poi, byte((5<<4)|1))             // layer=0, 1 tag
	poi = append(poi, encodeUnsignedVarint(0)...) // tag id 0
	poi = append(poi, byte(0))                    // flags: no optional fields

	data := append(zoomTable, firstWayOffset...)
	data = append(data, poi...)

	f := writeTempFile(t, data)
	rb := NewReadBuffer(f, 1024)

	info := &MapFileInfo{
		PoiTags: []Tag{{Key: "amenity", Value: "cafe"}},
	}
	sf := SubFileDescriptor{BaseZoomLevel: 10, ZoomLevelMin: 10, ZoomLevelMax: 10}
	tile := Tile{TileX: 0, TileY: 0, ZoomLevel: 10}

	result, err := readTileBlock(rb, info, sf, 0, tile, LatLon{})
	if err != nil {
		t.Fatalf("readTileBlock: %v", err)
	}
	if len(result.POIs) != 1 {
		t.Fatalf("len(POIs) = %d, want 1", len(result.POIs))
	}
	if len(result.Ways) != 0 {
		t.Fatalf("len(Ways) = %d, want 0", len(result.Ways))
	}
	poiResult := result.POIs[0]
	if len(poiResult.Tags) != 1 || poiResult.Tags[0].Key != "amenity" {
		t.Errorf("POIs[0].Tags = %+v, want [{amenity cafe}]", poiResult.Tags)
	}
	if poiResult.Layer != 0 {
		t.Errorf("POIs[0].Layer = %d, want 0", poiResult.Layer)
	}
}

// TestReadTileBlockTruncatedPOIPropagatesError covers spec §7: a
// malformed tile block (here, a POI record cut off before its
// declared tag count can be read) must surface as an error rather
// than silently resolving to an empty result, so the wrapping layer
// can log it.
func TestReadTileBlockTruncatedPOIPropagatesError(t *testing.T) {
	zoomTable := append(encodeUnsignedVarint(1), encodeUnsignedVarint(0)...)
	firstWayOffset := encodeUnsignedVarint(5)

	var poi []byte
	poi = append(poi, encodeSignedVarint(0)...) // lat delta
	poi = append(poi, encodeSignedVarint(0)...) // lon delta
	// cut off here: no layer/tag-count byte, no flags byte.

	data := append(zoomTable, firstWayOffset...)
	data = append(data, poi...)

	f := writeTempFile(t, data)
	rb := NewReadBuffer(f, 1024)

	info := &MapFileInfo{}
	sf := SubFileDescriptor{BaseZoomLevel: 10, ZoomLevelMin: 10, ZoomLevelMax: 10}
	tile := Tile{TileX: 0, TileY: 0, ZoomLevel: 10}

	result, err := readTileBlock(rb, info, sf, 0, tile, LatLon{})
	if err == nil {
		t.Fatalf("readTileBlock: want error for truncated POI, got nil (result = %+v)", result)
	}
	if result != nil {
		t.Errorf("readTileBlock: result = %+v, want nil alongside the error", result)
	}
}

func TestSubtileBitIndexNoSubdivision(t *testing.T) {
	sf := SubFileDescriptor{BaseZoomLevel: 10, ZoomLevelMax: 10}
	tile := Tile{TileX: 1, TileY: 1, ZoomLevel: 10}

	_, has := subtileBitIndex(tile, sf)
	if has {
		t.Errorf("subtileBitIndex with zoomDiff=0: hasSubtile = true, want false")
	}
}

func TestSubtileBitIndexWithinGrid(t *testing.T) {
	sf := SubFileDescriptor{BaseZoomLevel: 10, ZoomLevelMax: 12}
	base := Tile{TileX: 4, TileY: 4, ZoomLevel: 10}
	// at zoom 12 the base tile (4,4) expands to a 4x4 block starting at (16,16)
	tile := Tile{TileX: 17, TileY: 18, ZoomLevel: 12}

	bit, has := subtileBitIndex(tile, sf)
	if !has {
		t.Fatalf("subtileBitIndex: hasSubtile = false, want true")
	}
	want := 2*4 + 1 // subY=2, subX=1
	if bit != want {
		t.Errorf("subtileBitIndex() = %d, want %d", bit, want)
	}
	_ = base
}
