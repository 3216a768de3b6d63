package mapsforge

import (
	"testing"

	"github.com/dhconnelly/rtreego"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func newTestCatalog(entries []CatalogEntry) *Catalog {
	rtree := rtreego.NewTree(2, 5, 20)
	for _, e := range entries {
		rtree.Insert(catalogEntrySpatial{e})
	}
	return &Catalog{entries: entries, rtree: rtree}
}

func TestCatalogQueryFiltersByZoomAndBounds(t *testing.T) {
	world := CatalogEntry{
		Path:    "world.map",
		Bounds:  BoundingBox{MinLatitude: -90_000_000, MinLongitude: -180_000_000, MaxLatitude: 90_000_000, MaxLongitude: 180_000_000},
		ZoomMin: 0,
		ZoomMax: 8,
	}
	city := CatalogEntry{
		Path:    "city.map",
		Bounds:  BoundingBox{MinLatitude: 10_000_000, MinLongitude: 10_000_000, MaxLatitude: 11_000_000, MaxLongitude: 11_000_000},
		ZoomMin: 9,
		ZoomMax: 17,
	}
	elsewhere := CatalogEntry{
		Path:    "elsewhere.map",
		Bounds:  BoundingBox{MinLatitude: -50_000_000, MinLongitude: -50_000_000, MaxLatitude: -40_000_000, MaxLongitude: -40_000_000},
		ZoomMin: 0,
		ZoomMax: 17,
	}
	catalog := newTestCatalog([]CatalogEntry{world, city, elsewhere})

	tile := Tile{TileX: 10, TileY: 10, ZoomLevel: 12}
	tileBounds := BoundingBox{MinLatitude: 10_100_000, MinLongitude: 10_100_000, MaxLatitude: 10_200_000, MaxLongitude: 10_200_000}

	got := catalog.Query(tile, tileBounds)

	found := make(map[string]bool)
	for _, e := range got {
		found[e.Path] = true
	}
	if !found["city.map"] {
		t.Errorf("Query() missing city.map, got %+v", got)
	}
	if found["world.map"] {
		t.Errorf("Query() should exclude world.map (zoom 12 outside [0,8]), got %+v", got)
	}
	if found["elsewhere.map"] {
		t.Errorf("Query() should exclude elsewhere.map (disjoint bounds), got %+v", got)
	}
}

func TestCatalogQueryOrdersBySpecificity(t *testing.T) {
	broad := CatalogEntry{
		Path:    "broad.map",
		Bounds:  BoundingBox{MinLatitude: 0, MinLongitude: 0, MaxLatitude: 10_000_000, MaxLongitude: 10_000_000},
		ZoomMin: 0,
		ZoomMax: 17,
	}
	narrow := CatalogEntry{
		Path:    "narrow.map",
		Bounds:  BoundingBox{MinLatitude: 0, MinLongitude: 0, MaxLatitude: 10_000_000, MaxLongitude: 10_000_000},
		ZoomMin: 10,
		ZoomMax: 12,
	}
	catalog := newTestCatalog([]CatalogEntry{broad, narrow})

	tile := Tile{TileX: 1, TileY: 1, ZoomLevel: 11}
	tileBounds := BoundingBox{MinLatitude: 1_000_000, MinLongitude: 1_000_000, MaxLatitude: 2_000_000, MaxLongitude: 2_000_000}

	got := catalog.Query(tile, tileBounds)
	if len(got) != 2 {
		t.Fatalf("len(Query()) = %d, want 2", len(got))
	}
	if got[0].Path != "narrow.map" {
		t.Errorf("Query()[0].Path = %q, want %q (narrower zoom span first)", got[0].Path, "narrow.map")
	}
}

func TestCatalogQueryMatchesExpectedSet(t *testing.T) {
	a := CatalogEntry{Path: "a.map", Bounds: BoundingBox{MinLatitude: 0, MinLongitude: 0, MaxLatitude: 5_000_000, MaxLongitude: 5_000_000}, ZoomMin: 5, ZoomMax: 15}
	b := CatalogEntry{Path: "b.map", Bounds: BoundingBox{MinLatitude: 0, MinLongitude: 0, MaxLatitude: 5_000_000, MaxLongitude: 5_000_000}, ZoomMin: 6, ZoomMax: 9}
	catalog := newTestCatalog([]CatalogEntry{a, b})

	tile := Tile{TileX: 1, TileY: 1, ZoomLevel: 8}
	tileBounds := BoundingBox{MinLatitude: 1_000_000, MinLongitude: 1_000_000, MaxLatitude: 2_000_000, MaxLongitude: 2_000_000}

	got := catalog.Query(tile, tileBounds)
	want := []CatalogEntry{b, a} // narrower zoom span (b) first

	// cmpopts.EquateEmpty lets a nil result compare equal to an empty
	// slice, which sort.Slice on zero matches can otherwise produce.
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Query() mismatch (-want +got):\n%s", diff)
	}
}

func TestCatalogCount(t *testing.T) {
	catalog := newTestCatalog([]CatalogEntry{{Path: "a"}, {Path: "b"}})
	if catalog.Count() != 2 {
		t.Errorf("Count() = %d, want 2", catalog.Count())
	}
}
