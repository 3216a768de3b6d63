// Command mapforge inspects Mapsforge binary map files and walks
// their tiles, exercising the reader in pkg/mapsforge from the
// command line.
package main

import (
	"fmt"
	"os"

	"github.com/go-kit/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var logger log.Logger

func main() {
	_ = godotenv.Load()
	logger = log.With(log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr)), "ts", log.DefaultTimestampUTC)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mapforge",
	Short: "Inspect and walk Mapsforge binary map files",
}

func init() {
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(tilesCmd)
}
