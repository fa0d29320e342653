// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// AssetKind distinguishes authored vector sources from raster sources.
type AssetKind string

const (
	KindVector AssetKind = "vector"
	KindRaster AssetKind = "raster"
)

// Stage identifies which pipeline sweep produced a conversion.
type Stage string

const (
	StageRasterize Stage = "rasterize"
	StageScale     Stage = "scale"
)

// ConversionStatus indicates the outcome of a single source-to-target
// conversion attempt.
type ConversionStatus string

const (
	// ConversionDone means the target was (re)generated.
	ConversionDone ConversionStatus = "converted"

	// ConversionFresh means the target was already at least as new as the
	// source and was left untouched.
	ConversionFresh ConversionStatus = "fresh"

	// ConversionPlanned means a dry run decided the target would be
	// regenerated but no backend was invoked.
	ConversionPlanned ConversionStatus = "planned"

	ConversionFailed ConversionStatus = "failed"
)

// Asset describes one authored source file on disk. Sources are never
// written by the pipeline; only their derived targets are.
type Asset struct {
	// Path is the filesystem path to the source file.
	Path string `json:"path" yaml:"path"`

	// Kind is vector or raster, derived from the file extension.
	Kind AssetKind `json:"kind" yaml:"kind"`

	// ModTime is the source's last-modified timestamp, used for the
	// staleness decision against the derived target.
	ModTime time.Time `json:"mod_time" yaml:"mod_time"`
}

// ConversionRecord holds the audit-log entry for one conversion attempt.
type ConversionRecord struct {
	Stage  Stage            `json:"stage" yaml:"stage"`
	Source string           `json:"source" yaml:"source"`
	Target string           `json:"target" yaml:"target"`
	Width  int              `json:"width" yaml:"width"`
	Status ConversionStatus `json:"status" yaml:"status"`
	Error  string           `json:"error,omitempty" yaml:"error,omitempty"`
}
