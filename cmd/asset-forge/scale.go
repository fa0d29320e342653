// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/asset-forge/internal/pipeline"
)

var scaleCmd = &cobra.Command{
	Use:   "scale [files...]",
	Short: "Scale raster sources to the target width",
	Long: `Scale runs only the second sweep. With no arguments it processes
every raster source in the configured source directory; with arguments it
processes the given files. Each stale source is resized to the target
width (height follows the aspect ratio) in the assets directory, one
level up from the source.`,
	RunE: runScale,
}

func init() {
	scaleCmd.Flags().String("assets-dir", "", "directory receiving final scaled targets")
	scaleCmd.Flags().String("source-dir", "", "subdirectory of assets-dir holding authored sources")
	scaleCmd.Flags().Int("width", 0, "pixel width of final targets")
	scaleCmd.Flags().String("scaler", "", "scale backend: imaging or magick")
	scaleCmd.Flags().Bool("force", false, "regenerate every target regardless of freshness")
	scaleCmd.Flags().Bool("dry-run", false, "log planned conversions without writing anything")
	scaleCmd.Flags().Bool("keep-going", false, "count failures and continue instead of aborting")

	rootCmd.AddCommand(scaleCmd)
}

func runScale(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)
	opts := syncOptions(cmd, cfg)

	return withPipeline(cfg, opts, func(p *pipeline.Pipeline) (pipeline.RunResult, error) {
		if len(args) > 0 {
			return p.ScaleFiles(context.Background(), args, opts, os.Stdout)
		}
		return p.SyncRasters(context.Background(), opts, os.Stdout)
	})
}
