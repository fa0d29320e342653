// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scale

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pdiddy/asset-forge/internal/toolchain"
)

// ToolScaler shells out to ImageMagick (magick, or the legacy convert
// binary). The command line is echoed before execution and a non-zero
// exit propagates as the conversion error.
type ToolScaler struct {
	Tool toolchain.Tool

	// Log receives the echoed command line; defaults to stderr.
	Log io.Writer
}

// NewToolScaler wraps an already-detected external tool.
func NewToolScaler(t toolchain.Tool) *ToolScaler {
	return &ToolScaler{Tool: t, Log: os.Stderr}
}

func (s *ToolScaler) Scale(ctx context.Context, src, dst string, width int) error {
	if width <= 0 {
		return fmt.Errorf("invalid target width %d", width)
	}
	// "64x" constrains width only; height follows the aspect ratio.
	geometry := fmt.Sprintf("%dx", width)
	return s.Tool.Exec(ctx, s.Log, src, "-resize", geometry, dst)
}
