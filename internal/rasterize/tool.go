// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rasterize

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pdiddy/asset-forge/internal/toolchain"
)

// ToolRasterizer shells out to an external vector rasterizer
// (rsvg-convert or inkscape). The command line is echoed before execution
// and a non-zero exit propagates as the conversion error.
type ToolRasterizer struct {
	Tool toolchain.Tool

	// Log receives the echoed command line; defaults to stderr.
	Log io.Writer
}

// NewToolRasterizer wraps an already-detected external tool.
func NewToolRasterizer(t toolchain.Tool) *ToolRasterizer {
	return &ToolRasterizer{Tool: t, Log: os.Stderr}
}

func (r *ToolRasterizer) Rasterize(ctx context.Context, src, dst string, width int) error {
	args, err := rasterizeArgs(r.Tool.Name(), src, dst, width)
	if err != nil {
		return err
	}
	return r.Tool.Exec(ctx, r.Log, args...)
}

// rasterizeArgs builds the argv for the given tool. Width 0 omits the
// width option so the tool renders at the document's natural size.
func rasterizeArgs(tool, src, dst string, width int) ([]string, error) {
	switch tool {
	case "rsvg-convert":
		args := []string{"-o", dst}
		if width > 0 {
			args = append(args, "-w", strconv.Itoa(width), "--keep-aspect-ratio")
		}
		return append(args, src), nil
	case "inkscape":
		args := []string{"--export-type=png", "--export-filename=" + dst}
		if width > 0 {
			args = append(args, "--export-width="+strconv.Itoa(width))
		}
		return append(args, src), nil
	}
	return nil, fmt.Errorf("no rasterize arguments known for tool %q", tool)
}
