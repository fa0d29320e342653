// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline implements the two-sweep asset sync: vector sources are
// rasterized to natural-size intermediates, then raster sources (including
// fresh intermediates) are scaled to the target width one directory level
// up. Targets are regenerated only when missing or older than their source.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/pdiddy/asset-forge/internal/assets"
	"github.com/pdiddy/asset-forge/internal/rasterize"
	"github.com/pdiddy/asset-forge/internal/scale"
	"github.com/pdiddy/asset-forge/pkg/types"
)

// Options control one pipeline run.
type Options struct {
	// SourceDir is the directory holding authored sources; scaled targets
	// go to its parent.
	SourceDir string

	// Width is the pixel width of final scaled targets.
	Width int

	// Force regenerates every target regardless of freshness.
	Force bool

	// DryRun logs the conversions that would happen without invoking any
	// backend or writing any file.
	DryRun bool

	// KeepGoing counts failures and continues instead of aborting the run
	// on the first conversion error.
	KeepGoing bool
}

// Recorder receives the audit-log entry for each conversion attempt.
// Recording is best effort: implementations must not fail the sweep.
type Recorder interface {
	Record(rec types.ConversionRecord)
}

// RunResult summarizes a sweep.
type RunResult struct {
	Converted int
	Skipped   int
	Failed    int
}

// Total returns the number of sources processed.
func (r RunResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any conversion failed.
func (r RunResult) HasFailures() bool {
	return r.Failed > 0
}

func (r *RunResult) merge(other RunResult) {
	r.Converted += other.Converted
	r.Skipped += other.Skipped
	r.Failed += other.Failed
}

func (r *RunResult) count(status types.ConversionStatus) {
	switch status {
	case types.ConversionDone, types.ConversionPlanned:
		r.Converted++
	case types.ConversionFresh:
		r.Skipped++
	case types.ConversionFailed:
		r.Failed++
	}
}

// Pipeline drives the sweeps over injected rasterize and scale backends.
type Pipeline struct {
	rasterizer rasterize.Rasterizer
	scaler     scale.Scaler
	recorder   Recorder
}

// New creates a pipeline over the given backends.
func New(r rasterize.Rasterizer, s scale.Scaler) *Pipeline {
	return &Pipeline{rasterizer: r, scaler: s}
}

// WithRecorder attaches an audit-log recorder and returns the pipeline.
func (p *Pipeline) WithRecorder(rec Recorder) *Pipeline {
	p.recorder = rec
	return p
}

// Run executes both sweeps in order: vectors first, then a fresh scan of
// the raster sources so intermediates produced by the first sweep become
// scaling inputs within the same run.
func (p *Pipeline) Run(ctx context.Context, opts Options, w io.Writer) (RunResult, error) {
	result, err := p.SyncVectors(ctx, opts, w)
	if err != nil {
		return result, err
	}

	scaled, err := p.SyncRasters(ctx, opts, w)
	result.merge(scaled)
	if err != nil {
		return result, err
	}

	if opts.KeepGoing {
		fmt.Fprintf(w, "\nSync summary: %d converted, %d fresh, %d failed (total: %d)\n",
			result.Converted, result.Skipped, result.Failed, result.Total())
	}
	return result, nil
}

// SyncVectors rasterizes every stale vector source to a natural-size
// intermediate next to it. Enumeration order is lexicographic; under the
// default fail-fast policy the first error aborts the sweep, leaving
// later sources untouched.
func (p *Pipeline) SyncVectors(ctx context.Context, opts Options, w io.Writer) (RunResult, error) {
	var result RunResult

	sources, err := assets.Scan(opts.SourceDir, types.KindVector)
	if err != nil {
		return result, err
	}

	for _, a := range sources {
		dst := assets.RasterTarget(a.Path)
		status, err := p.syncOne(ctx, types.StageRasterize, a.Path, dst, 0, opts, w)
		result.count(status)
		if err != nil && !opts.KeepGoing {
			return result, fmt.Errorf("rasterizing %s: %w", filepath.Base(a.Path), err)
		}
	}
	return result, nil
}

// SyncRasters scales every stale raster source to the target width in the
// parent directory. It scans the source directory itself, so it must run
// after SyncVectors to pick up that sweep's outputs.
func (p *Pipeline) SyncRasters(ctx context.Context, opts Options, w io.Writer) (RunResult, error) {
	var result RunResult

	sources, err := assets.Scan(opts.SourceDir, types.KindRaster)
	if err != nil {
		return result, err
	}

	for _, a := range sources {
		dst := assets.ScaleTarget(a.Path)
		status, err := p.syncOne(ctx, types.StageScale, a.Path, dst, opts.Width, opts, w)
		result.count(status)
		if err != nil && !opts.KeepGoing {
			return result, fmt.Errorf("scaling %s: %w", filepath.Base(a.Path), err)
		}
	}
	return result, nil
}

// RasterizeFiles runs the rasterize stage over an explicit path list.
// Paths without a vector extension are never handed to a backend.
func (p *Pipeline) RasterizeFiles(ctx context.Context, paths []string, opts Options, w io.Writer) (RunResult, error) {
	var result RunResult
	for _, src := range paths {
		if kind, ok := assets.KindOf(src); !ok || kind != types.KindVector {
			fmt.Fprintf(w, "ignored: %s (not a vector source)\n", filepath.Base(src))
			continue
		}
		dst := assets.RasterTarget(src)
		status, err := p.syncOne(ctx, types.StageRasterize, src, dst, 0, opts, w)
		result.count(status)
		if err != nil && !opts.KeepGoing {
			return result, fmt.Errorf("rasterizing %s: %w", filepath.Base(src), err)
		}
	}
	return result, nil
}

// ScaleFiles runs the scale stage over an explicit path list. Paths
// without a raster extension are never handed to a backend.
func (p *Pipeline) ScaleFiles(ctx context.Context, paths []string, opts Options, w io.Writer) (RunResult, error) {
	var result RunResult
	for _, src := range paths {
		if kind, ok := assets.KindOf(src); !ok || kind != types.KindRaster {
			fmt.Fprintf(w, "ignored: %s (not a raster source)\n", filepath.Base(src))
			continue
		}
		dst := assets.ScaleTarget(src)
		status, err := p.syncOne(ctx, types.StageScale, src, dst, opts.Width, opts, w)
		result.count(status)
		if err != nil && !opts.KeepGoing {
			return result, fmt.Errorf("scaling %s: %w", filepath.Base(src), err)
		}
	}
	return result, nil
}

// syncOne makes the per-file decision (convert or skip) and logs one line.
// Width is the value handed to the backend: 0 for natural-size
// rasterization, the target width for scaling.
func (p *Pipeline) syncOne(ctx context.Context, stage types.Stage, src, dst string, width int, opts Options, w io.Writer) (types.ConversionStatus, error) {
	base := filepath.Base(src)

	if !opts.Force {
		stale, err := assets.Stale(src, dst)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", base, err)
			p.record(stage, src, dst, width, types.ConversionFailed, err)
			return types.ConversionFailed, err
		}
		if !stale {
			fmt.Fprintf(w, "fresh: %s\n", base)
			p.record(stage, src, dst, width, types.ConversionFresh, nil)
			return types.ConversionFresh, nil
		}
	}

	if opts.DryRun {
		fmt.Fprintf(w, "would %s: %s -> %s\n", verb(stage), base, dst)
		p.record(stage, src, dst, width, types.ConversionPlanned, nil)
		return types.ConversionPlanned, nil
	}

	if err := p.convert(ctx, stage, src, dst, width); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", base, err)
		p.record(stage, src, dst, width, types.ConversionFailed, err)
		return types.ConversionFailed, err
	}

	fmt.Fprintf(w, "%sd: %s\n", verb(stage), base)
	p.record(stage, src, dst, width, types.ConversionDone, nil)
	return types.ConversionDone, nil
}

func (p *Pipeline) convert(ctx context.Context, stage types.Stage, src, dst string, width int) error {
	if stage == types.StageRasterize {
		return p.rasterizer.Rasterize(ctx, src, dst, width)
	}
	return p.scaler.Scale(ctx, src, dst, width)
}

func (p *Pipeline) record(stage types.Stage, src, dst string, width int, status types.ConversionStatus, convErr error) {
	if p.recorder == nil {
		return
	}
	rec := types.ConversionRecord{
		Stage:  stage,
		Source: src,
		Target: dst,
		Width:  width,
		Status: status,
	}
	if convErr != nil {
		rec.Error = convErr.Error()
	}
	p.recorder.Record(rec)
}

func verb(stage types.Stage) string {
	if stage == types.StageRasterize {
		return "rasterize"
	}
	return "scale"
}
