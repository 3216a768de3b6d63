package main

import (
	"fmt"

	"github.com/go-mapsforge/mapforge/pkg/label"
	"github.com/go-mapsforge/mapforge/pkg/mapsforge"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var tilesCmd = &cobra.Command{
	Use:   "tiles <mapfile>",
	Short: "Walk a rectangle of tiles, placing named POI labels through a shared dependency cache",
	Args:  cobra.ExactArgs(1),
	RunE:  runTiles,
}

var (
	tilesZoom int
	tilesMinX int64
	tilesMaxX int64
	tilesMinY int64
	tilesMaxY int64
)

func init() {
	tilesCmd.Flags().IntVar(&tilesZoom, "zoom", 12, "zoom level to walk")
	tilesCmd.Flags().Int64Var(&tilesMinX, "min-x", 0, "minimum tile X")
	tilesCmd.Flags().Int64Var(&tilesMaxX, "max-x", 0, "maximum tile X")
	tilesCmd.Flags().Int64Var(&tilesMinY, "min-y", 0, "minimum tile Y")
	tilesCmd.Flags().Int64Var(&tilesMaxY, "max-y", 0, "maximum tile Y")
}

func runTiles(cmd *cobra.Command, args []string) error {
	reader, err := mapsforge.Open(args[0])
	if err != nil {
		return err
	}
	defer reader.Close()

	var tiles []label.Tile
	for x := tilesMinX; x <= tilesMaxX; x++ {
		for y := tilesMinY; y <= tilesMaxY; y++ {
			tiles = append(tiles, label.Tile{TileX: x, TileY: y, ZoomLevel: tilesZoom})
		}
	}
	if len(tiles) == 0 {
		return fmt.Errorf("tiles: empty range (min-x=%d max-x=%d min-y=%d max-y=%d)", tilesMinX, tilesMaxX, tilesMinY, tilesMaxY)
	}

	// Hilbert order visits spatially adjacent tiles back to back, which
	// is also the order the dependency cache benefits most from.
	ordered := label.TraversalOrder(tiles)

	cache := label.NewCache()
	bar := progressbar.Default(int64(len(ordered)))
	var totalPOIs, totalWays, totalPlaced int
	for _, tile := range ordered {
		result, err := reader.ReadTile(tile)
		if err != nil {
			logger.Log("level", "warn", "event", "tile_read_failed", "tileX", tile.TileX, "tileY", tile.TileY, "zoom", tile.ZoomLevel, "err", err)
			_ = bar.Add(1)
			continue
		}
		totalPOIs += len(result.POIs)
		totalWays += len(result.Ways)

		var candidates []label.PointTextContainer
		for _, poi := range result.POIs {
			if poi.Name == nil || *poi.Name == "" {
				continue
			}
			x, y := label.ProjectToTilePixel(poi.Position, tile)
			candidates = append(candidates, label.PointTextContainer{
				Text:     *poi.Name,
				X:        x,
				Y:        y,
				Boundary: label.EstimateTextBoundary(*poi.Name, x, y),
			})
		}

		placed := cache.ProcessTile(tile, candidates, nil, nil, label.FourPoint)
		totalPlaced += len(placed.Labels)
		logger.Log("event", "tile_placed", "tileX", tile.TileX, "tileY", tile.TileY, "zoom", tile.ZoomLevel,
			"candidates", len(candidates), "placed", len(placed.Labels))
		_ = bar.Add(1)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nvisited %d tiles: %d POIs, %d ways, %d labels placed\n", len(ordered), totalPOIs, totalWays, totalPlaced)
	return nil
}
