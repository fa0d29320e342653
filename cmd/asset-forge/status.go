// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/asset-forge/internal/manifest"
	"github.com/pdiddy/asset-forge/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show recent sync runs from the manifest",
	Long: `Status reads the manifest audit log and prints recent sync runs with
their per-file conversion entries. The manifest is informational only;
staleness decisions always come from file modification times.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().String("assets-dir", "", "directory receiving final scaled targets")
	statusCmd.Flags().Int("limit", 0, "maximum number of runs to show")
	statusCmd.Flags().String("format", "table", "output format: table, yaml, or json")

	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)
	limit, _ := cmd.Flags().GetInt("limit")
	format, _ := cmd.Flags().GetString("format")

	store, err := manifest.Open(cfg.Manifest)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	runs, err := store.ExportRuns(ctx, limit)
	if err != nil {
		return err
	}

	switch format {
	case "yaml":
		return manifest.WriteYAML(os.Stdout, runs)
	case "json":
		return manifest.WriteJSON(os.Stdout, runs)
	case "table":
		printRuns(runs)
		return nil
	}
	return fmt.Errorf("unknown format %q (want table, yaml, or json)", format)
}

func printRuns(runs []manifest.ExportRun) {
	if len(runs) == 0 {
		fmt.Println(ui.Muted("No runs recorded."))
		return
	}

	for _, r := range runs {
		header := fmt.Sprintf("run %d  %s  %d converted, %d fresh, %d failed",
			r.ID, r.StartedAt.Local().Format(time.DateTime),
			r.Converted, r.Skipped, r.Failed)
		if r.Failed > 0 {
			fmt.Println(ui.Error(header))
		} else {
			fmt.Println(ui.Success(header))
		}

		for _, c := range r.Conversions {
			line := fmt.Sprintf("  %-9s %-10s %s -> %s", c.Stage, c.Status, c.Source, c.Target)
			if c.Error != "" {
				line += " (" + c.Error + ")"
			}
			fmt.Println(ui.Muted(line))
		}
	}
}
