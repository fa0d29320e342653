// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "path/filepath"

// AssetsConfig describes the on-disk layout the pipeline operates on.
// Authored sources live in a subdirectory of the assets directory;
// generated targets are written one directory level up, next to it.
type AssetsConfig struct {
	// AssetsDir is the directory that receives the final scaled targets
	// (e.g. "assets/textures").
	AssetsDir string `json:"assets_dir" yaml:"assets_dir"`

	// SourceDir is the subdirectory of AssetsDir holding authored sources
	// (default "src").
	SourceDir string `json:"source_dir" yaml:"source_dir"`
}

// SourcePath returns the directory containing authored sources.
func (c AssetsConfig) SourcePath() string {
	src := c.SourceDir
	if src == "" {
		src = "src"
	}
	return filepath.Join(c.AssetsDir, src)
}

// RasterizeBackend selects the SVG rasterization implementation.
type RasterizeBackend string

const (
	// BackendOksvg renders in-process and needs no system tools.
	BackendOksvg    RasterizeBackend = "oksvg"
	BackendRsvg     RasterizeBackend = "rsvg"
	BackendInkscape RasterizeBackend = "inkscape"
)

// ScaleBackend selects the raster resize implementation.
type ScaleBackend string

const (
	// BackendImaging resizes in-process with a Lanczos filter.
	BackendImaging ScaleBackend = "imaging"
	BackendMagick  ScaleBackend = "magick"
)

// RasterizeConfig holds settings for the vector-to-raster sweep.
type RasterizeConfig struct {
	// Backend selects the rasterizer: oksvg, rsvg, or inkscape.
	Backend RasterizeBackend `json:"backend" yaml:"backend"`
}

// ScaleConfig holds settings for the raster resize sweep.
type ScaleConfig struct {
	// Backend selects the scaler: imaging or magick.
	Backend ScaleBackend `json:"backend" yaml:"backend"`

	// TargetWidth is the pixel width of final targets (default 64).
	// Height follows the source aspect ratio.
	TargetWidth int `json:"target_width" yaml:"target_width"`
}

// ManifestConfig holds settings for the conversion audit log.
type ManifestConfig struct {
	// Enabled controls whether runs are recorded. The manifest is only an
	// audit log; disabling it never changes what gets converted.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Dir is the directory holding the manifest database
	// (default "<assets_dir>/.forge").
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default maximum number of runs returned by
	// status queries (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Assets    AssetsConfig    `json:"assets" yaml:"assets"`
	Rasterize RasterizeConfig `json:"rasterize" yaml:"rasterize"`
	Scale     ScaleConfig     `json:"scale" yaml:"scale"`
	Manifest  ManifestConfig  `json:"manifest" yaml:"manifest"`
}
