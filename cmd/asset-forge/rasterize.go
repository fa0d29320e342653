// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/asset-forge/internal/pipeline"
)

var rasterizeCmd = &cobra.Command{
	Use:   "rasterize [files...]",
	Short: "Rasterize vector sources to natural-size PNG intermediates",
	Long: `Rasterize runs only the first sweep. With no arguments it processes
every vector source in the configured source directory; with arguments it
processes the given files. Each stale source is rendered to a PNG at its
natural (ViewBox) size next to it.`,
	RunE: runRasterize,
}

func init() {
	rasterizeCmd.Flags().String("assets-dir", "", "directory receiving final scaled targets")
	rasterizeCmd.Flags().String("source-dir", "", "subdirectory of assets-dir holding authored sources")
	rasterizeCmd.Flags().String("rasterizer", "", "rasterize backend: oksvg, rsvg, or inkscape")
	rasterizeCmd.Flags().Bool("force", false, "regenerate every intermediate regardless of freshness")
	rasterizeCmd.Flags().Bool("dry-run", false, "log planned conversions without writing anything")
	rasterizeCmd.Flags().Bool("keep-going", false, "count failures and continue instead of aborting")

	rootCmd.AddCommand(rasterizeCmd)
}

func runRasterize(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)
	opts := syncOptions(cmd, cfg)

	return withPipeline(cfg, opts, func(p *pipeline.Pipeline) (pipeline.RunResult, error) {
		if len(args) > 0 {
			return p.RasterizeFiles(context.Background(), args, opts, os.Stdout)
		}
		return p.SyncVectors(context.Background(), opts, os.Stdout)
	})
}
