package main

import (
	"fmt"

	"github.com/go-mapsforge/mapforge/pkg/mapsforge"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <mapfile>",
	Short: "Print a map file's header fields",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	reader, err := mapsforge.Open(args[0])
	if err != nil {
		return err
	}
	defer reader.Close()

	info := reader.Info()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "file version:    %d\n", info.FileVersion)
	fmt.Fprintf(out, "file size:       %d\n", info.FileSize)
	fmt.Fprintf(out, "map date:        %d\n", info.MapDate)
	fmt.Fprintf(out, "projection:      %s\n", info.ProjectionName)
	fmt.Fprintf(out, "tile pixel size: %d\n", info.TilePixelSize)
	fmt.Fprintf(out, "bounding box:    %+v\n", info.BoundingBox)
	fmt.Fprintf(out, "sub-files:       %d\n", len(info.SubFiles))
	for i, sf := range info.SubFiles {
		fmt.Fprintf(out, "  [%d] base zoom %d, range %d-%d\n", i, sf.BaseZoomLevel, sf.ZoomLevelMin, sf.ZoomLevelMax)
	}
	if info.CreatedBy != nil {
		fmt.Fprintf(out, "created by:      %s\n", *info.CreatedBy)
	}
	if info.Comment != nil {
		fmt.Fprintf(out, "comment:         %s\n", *info.Comment)
	}
	return nil
}
