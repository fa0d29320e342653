// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the asset-forge CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/asset-forge/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the asset-forge CLI.
var rootCmd = &cobra.Command{
	Use:   "asset-forge",
	Short: "Keep generated raster assets in sync with their sources",
	Long: `asset-forge keeps a directory of generated raster textures in sync with
their authored sources. Vector sources are rasterized to natural-size PNG
intermediates, then every raster source (including fresh intermediates) is
scaled to the target width one directory level up.

Targets are regenerated only when missing or older than their source, so
repeated runs with unchanged sources do nothing.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./asset-forge.yaml or ~/.config/asset-forge/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("asset-forge")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "asset-forge"))
		}
	}

	viper.SetEnvPrefix("ASSET_FORGE")
	viper.AutomaticEnv()

	viper.SetDefault("assets.dir", "assets/textures")
	viper.SetDefault("assets.source_dir", "src")
	viper.SetDefault("rasterize.backend", string(types.BackendOksvg))
	viper.SetDefault("scale.backend", string(types.BackendImaging))
	viper.SetDefault("scale.target_width", 64)
	viper.SetDefault("manifest.enabled", true)
	viper.SetDefault("manifest.max_results", 20)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// pipelineConfig resolves the effective configuration: config file and
// environment via viper, overridden by any flag set on the command.
func pipelineConfig(cmd *cobra.Command) types.PipelineConfig {
	cfg := types.PipelineConfig{
		Assets: types.AssetsConfig{
			AssetsDir: viper.GetString("assets.dir"),
			SourceDir: viper.GetString("assets.source_dir"),
		},
		Rasterize: types.RasterizeConfig{
			Backend: types.RasterizeBackend(viper.GetString("rasterize.backend")),
		},
		Scale: types.ScaleConfig{
			Backend:     types.ScaleBackend(viper.GetString("scale.backend")),
			TargetWidth: viper.GetInt("scale.target_width"),
		},
		Manifest: types.ManifestConfig{
			Enabled:    viper.GetBool("manifest.enabled"),
			Dir:        viper.GetString("manifest.dir"),
			MaxResults: viper.GetInt("manifest.max_results"),
		},
	}

	f := cmd.Flags()
	if f.Changed("assets-dir") {
		cfg.Assets.AssetsDir, _ = f.GetString("assets-dir")
	}
	if f.Changed("source-dir") {
		cfg.Assets.SourceDir, _ = f.GetString("source-dir")
	}
	if f.Changed("width") {
		cfg.Scale.TargetWidth, _ = f.GetInt("width")
	}
	if f.Changed("rasterizer") {
		backend, _ := f.GetString("rasterizer")
		cfg.Rasterize.Backend = types.RasterizeBackend(backend)
	}
	if f.Changed("scaler") {
		backend, _ := f.GetString("scaler")
		cfg.Scale.Backend = types.ScaleBackend(backend)
	}

	if cfg.Manifest.Dir == "" {
		cfg.Manifest.Dir = filepath.Join(cfg.Assets.AssetsDir, ".forge")
	}
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
