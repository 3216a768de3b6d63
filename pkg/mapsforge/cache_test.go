package mapsforge

import "testing"

func TestCacheBasic(t *testing.T) {
	cache := NewCache(4)

	if cache.Len() != 0 {
		t.Errorf("new cache Len() = %d, want 0", cache.Len())
	}

	loadCount := 0
	tile := Tile{TileX: 1, TileY: 1, ZoomLevel: 10}
	result, err := cache.Get("a.map", tile, func() (*MapReadResult, error) {
		loadCount++
		return &MapReadResult{POIs: []PointOfInterest{{Layer: 1}}}, nil
	})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(result.POIs) != 1 {
		t.Fatalf("len(POIs) = %d, want 1", len(result.POIs))
	}
	if loadCount != 1 {
		t.Errorf("loadCount = %d, want 1", loadCount)
	}

	// second Get on the same key is a cache hit, loader not called again.
	_, err = cache.Get("a.map", tile, func() (*MapReadResult, error) {
		loadCount++
		return nil, nil
	})
	if err != nil {
		t.Fatalf("Get (cache hit): %v", err)
	}
	if loadCount != 1 {
		t.Errorf("loadCount after cache hit = %d, want 1", loadCount)
	}
}

func TestCacheEviction(t *testing.T) {
	cache := NewCache(2)

	for i := int64(0); i < 4; i++ {
		tile := Tile{TileX: i, TileY: 0, ZoomLevel: 5}
		_, err := cache.Get("a.map", tile, func() (*MapReadResult, error) {
			return &MapReadResult{}, nil
		})
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
	}

	if cache.Len() != 2 {
		t.Errorf("Len() after 4 inserts into a size-2 cache = %d, want 2", cache.Len())
	}
}

func TestCacheDisabled(t *testing.T) {
	cache := NewCache(0)
	loadCount := 0
	tile := Tile{TileX: 0, TileY: 0, ZoomLevel: 1}

	for i := 0; i < 3; i++ {
		_, err := cache.Get("a.map", tile, func() (*MapReadResult, error) {
			loadCount++
			return &MapReadResult{}, nil
		})
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
	}
	if loadCount != 3 {
		t.Errorf("loadCount with disabled cache = %d, want 3 (every call reloads)", loadCount)
	}
}

func TestCacheLoadErrorNotCached(t *testing.T) {
	cache := NewCache(4)
	tile := Tile{TileX: 0, TileY: 0, ZoomLevel: 1}
	wantErr := &ErrTestLoad{}

	_, err := cache.Get("a.map", tile, func() (*MapReadResult, error) {
		return nil, wantErr
	})
	if err != wantErr {
		t.Fatalf("Get() error = %v, want %v", err, wantErr)
	}
	if cache.Len() != 0 {
		t.Errorf("Len() after a failed load = %d, want 0", cache.Len())
	}
}

// ErrTestLoad is a sentinel used only to assert identity in
// TestCacheLoadErrorNotCached.
type ErrTestLoad struct{}

func (e *ErrTestLoad) Error() string { return "test load error" }
