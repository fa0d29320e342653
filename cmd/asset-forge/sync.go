// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/pdiddy/asset-forge/internal/assets"
	"github.com/pdiddy/asset-forge/internal/manifest"
	"github.com/pdiddy/asset-forge/internal/pipeline"
	"github.com/pdiddy/asset-forge/internal/ui"
	"github.com/pdiddy/asset-forge/pkg/types"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run both sweeps: rasterize vector sources, then scale rasters",
	Long: `Sync runs the full two-stage pipeline over the configured assets
directory. The first sweep rasterizes stale vector sources to natural-size
PNG intermediates next to them; the second sweep re-scans the source
directory and scales every stale raster source to the target width in the
assets directory.

The run aborts on the first conversion failure unless --keep-going is set.
With --watch, asset-forge stays running and re-syncs whenever a source file
changes.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().String("assets-dir", "", "directory receiving final scaled targets")
	syncCmd.Flags().String("source-dir", "", "subdirectory of assets-dir holding authored sources")
	syncCmd.Flags().Int("width", 0, "pixel width of final targets")
	syncCmd.Flags().String("rasterizer", "", "rasterize backend: oksvg, rsvg, or inkscape")
	syncCmd.Flags().String("scaler", "", "scale backend: imaging or magick")
	syncCmd.Flags().Bool("force", false, "regenerate every target regardless of freshness")
	syncCmd.Flags().Bool("dry-run", false, "log planned conversions without writing anything")
	syncCmd.Flags().Bool("keep-going", false, "count failures and continue instead of aborting")
	syncCmd.Flags().Bool("watch", false, "stay running and re-sync on source changes")

	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)
	opts := syncOptions(cmd, cfg)

	watch, _ := cmd.Flags().GetBool("watch")
	if !watch {
		return syncOnce(context.Background(), cfg, opts)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := syncOnce(ctx, cfg, opts); err != nil {
		// In watch mode a failed sync is not fatal: report it and keep
		// watching so a source fix triggers the retry.
		fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
	}
	return watchSources(ctx, cfg, opts)
}

// syncOptions builds pipeline options from the resolved config plus the
// run-mode flags.
func syncOptions(cmd *cobra.Command, cfg types.PipelineConfig) pipeline.Options {
	force, _ := cmd.Flags().GetBool("force")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	keepGoing, _ := cmd.Flags().GetBool("keep-going")

	return pipeline.Options{
		SourceDir: cfg.Assets.SourcePath(),
		Width:     cfg.Scale.TargetWidth,
		Force:     force,
		DryRun:    dryRun,
		KeepGoing: keepGoing,
	}
}

// syncOnce runs both sweeps once, recording the run in the manifest when
// enabled.
func syncOnce(ctx context.Context, cfg types.PipelineConfig, opts pipeline.Options) error {
	return withPipeline(cfg, opts, func(p *pipeline.Pipeline) (pipeline.RunResult, error) {
		return p.Run(ctx, opts, os.Stdout)
	})
}

// withPipeline builds the backends, opens the manifest, runs fn, and
// closes out the manifest run. A manifest problem degrades to a warning;
// the audit log must never fail a conversion run.
func withPipeline(cfg types.PipelineConfig, opts pipeline.Options, fn func(*pipeline.Pipeline) (pipeline.RunResult, error)) error {
	rasterizer, err := buildRasterizer(cfg.Rasterize.Backend)
	if err != nil {
		return err
	}
	scaler, err := buildScaler(cfg.Scale.Backend)
	if err != nil {
		return err
	}
	p := pipeline.New(rasterizer, scaler)

	var store *manifest.Store
	var runID int64
	if cfg.Manifest.Enabled && !opts.DryRun {
		store, err = manifest.Open(cfg.Manifest)
		if err != nil {
			fmt.Fprintln(os.Stderr, ui.Muted("warning: manifest unavailable: "+err.Error()))
			store = nil
		} else {
			defer store.Close()
			runID, err = store.BeginRun(time.Now())
			if err != nil {
				fmt.Fprintln(os.Stderr, ui.Muted("warning: manifest unavailable: "+err.Error()))
				store = nil
			} else {
				p.WithRecorder(store.Recorder(runID))
			}
		}
	}

	result, runErr := fn(p)

	if store != nil {
		if err := store.FinishRun(runID, time.Now(), result.Converted, result.Skipped, result.Failed); err != nil {
			fmt.Fprintln(os.Stderr, ui.Muted("warning: "+err.Error()))
		}
	}

	if runErr != nil {
		return runErr
	}
	if result.HasFailures() {
		return fmt.Errorf("%d conversion(s) failed", result.Failed)
	}
	// Success stays silent beyond the per-file log lines.
	return nil
}

// watchSources re-runs the sync whenever a recognized source file changes.
// Events are debounced so a burst of editor writes triggers one sync.
func watchSources(ctx context.Context, cfg types.PipelineConfig, opts pipeline.Options) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	sourceDir := cfg.Assets.SourcePath()
	if err := watcher.Add(sourceDir); err != nil {
		return fmt.Errorf("watching %s: %w", sourceDir, err)
	}

	fmt.Fprintln(os.Stderr, ui.Info("Watching: "+sourceDir))
	fmt.Fprintln(os.Stderr, ui.Muted("Press Ctrl+C to stop"))

	const debounce = 500 * time.Millisecond
	var timer *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if _, recognized := assets.KindOf(event.Name); !recognized {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			fmt.Fprintln(os.Stderr, ui.Info("Source changes detected, syncing..."))
			if err := syncOnce(ctx, cfg, opts); err != nil {
				fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stderr, ui.Error("watch error: "+err.Error()))
		}
	}
}
