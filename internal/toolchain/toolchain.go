// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package toolchain implements external image tool detection and execution.
// The pipeline treats these tools as black boxes: it hands them a source
// path, a width, and a destination path, and propagates their exit status.
package toolchain

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

const (
	binRsvg     = "rsvg-convert"
	binInkscape = "inkscape"
	binMagick   = "magick"
	binConvert  = "convert"
)

// Tool runs one external image binary. The command line is echoed to the
// log writer before execution so the operator can see what was attempted.
type Tool interface {
	// Name returns the tool binary name.
	Name() string

	// Available reports whether the binary exists on PATH and responds
	// to a version probe.
	Available() bool

	// Exec runs the tool with the given arguments, echoing the command
	// line to log first. Stderr is passed through to the process stderr.
	Exec(ctx context.Context, log io.Writer, args ...string) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(name string, args ...string) error
	RunAttached(ctx context.Context, name string, args ...string) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunSilent(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (o *osExecutor) RunAttached(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// tool implements Tool for a specific binary. The tools differ only in
// binary name and the probe used to check they are operational.
type tool struct {
	bin       string
	probeArgs []string // e.g. ["--version"]
	exec      executor
}

func (t *tool) Name() string { return t.bin }

func (t *tool) Available() bool {
	if _, err := t.exec.LookPath(t.bin); err != nil {
		return false
	}
	return t.exec.RunSilent(t.bin, t.probeArgs...) == nil
}

func (t *tool) Exec(ctx context.Context, log io.Writer, args ...string) error {
	if log != nil {
		fmt.Fprintf(log, "run: %s %s\n", t.bin, strings.Join(args, " "))
	}
	if err := t.exec.RunAttached(ctx, t.bin, args...); err != nil {
		return fmt.Errorf("running %s: %w", t.bin, err)
	}
	return nil
}

func newRsvgTool(exec executor) *tool {
	return &tool{bin: binRsvg, probeArgs: []string{"--version"}, exec: exec}
}

func newInkscapeTool(exec executor) *tool {
	return &tool{bin: binInkscape, probeArgs: []string{"--version"}, exec: exec}
}

func newMagickTool(exec executor) *tool {
	return &tool{bin: binMagick, probeArgs: []string{"-version"}, exec: exec}
}

func newConvertTool(exec executor) *tool {
	return &tool{bin: binConvert, probeArgs: []string{"-version"}, exec: exec}
}

var defaultExec = &osExecutor{}

// Rasterizer returns the named external rasterizer, verifying availability.
func Rasterizer(name string) (Tool, error) {
	return rasterizerTool(name, defaultExec)
}

func rasterizerTool(name string, exec executor) (Tool, error) {
	var t *tool
	switch name {
	case binRsvg:
		t = newRsvgTool(exec)
	case binInkscape:
		t = newInkscapeTool(exec)
	default:
		return nil, fmt.Errorf("unknown rasterizer tool %q", name)
	}
	if !t.Available() {
		return nil, fmt.Errorf("%s not found or not operational", t.bin)
	}
	return t, nil
}

// DetectRasterizer tries rsvg-convert first, falls back to inkscape.
// Returns an error if neither tool is available.
func DetectRasterizer() (Tool, error) {
	return detectRasterizer(defaultExec)
}

func detectRasterizer(exec executor) (Tool, error) {
	rsvg := newRsvgTool(exec)
	if rsvg.Available() {
		return rsvg, nil
	}

	inkscape := newInkscapeTool(exec)
	if inkscape.Available() {
		return inkscape, nil
	}

	return nil, fmt.Errorf(
		"no vector rasterizer available: neither %s nor %s found or operational",
		binRsvg, binInkscape,
	)
}

// DetectScaler tries magick first, falls back to the legacy convert binary.
// Returns an error if neither tool is available.
func DetectScaler() (Tool, error) {
	return detectScaler(defaultExec)
}

func detectScaler(exec executor) (Tool, error) {
	magick := newMagickTool(exec)
	if magick.Available() {
		return magick, nil
	}

	convert := newConvertTool(exec)
	if convert.Available() {
		return convert, nil
	}

	return nil, fmt.Errorf(
		"no raster scaler available: neither %s nor %s found or operational",
		binMagick, binConvert,
	)
}
