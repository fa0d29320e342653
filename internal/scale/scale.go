// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scale resizes raster sources to the target width with pluggable
// backends. The default backend resizes in-process with a Lanczos filter;
// the tool backend shells out to ImageMagick.
package scale

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/webp"
)

// Scaler resizes the raster file at src to the given pixel width, writing
// the result to dst. Height follows the source aspect ratio.
type Scaler interface {
	Scale(ctx context.Context, src, dst string, width int) error
}

// Imaging is the in-process backend.
type Imaging struct {
	// Filter selects the resampling filter; zero value falls back to Lanczos.
	Filter imaging.ResampleFilter
}

// Scale decodes src, resizes it, and writes dst in the format implied by
// the dst extension. Partial output is removed on save failure.
func (s Imaging) Scale(ctx context.Context, src, dst string, width int) error {
	if width <= 0 {
		return fmt.Errorf("invalid target width %d", width)
	}

	img, err := decode(src)
	if err != nil {
		return err
	}

	filter := s.Filter
	if filter.Support == 0 {
		filter = imaging.Lanczos
	}
	resized := imaging.Resize(img, width, 0, filter)

	if err := imaging.Save(resized, dst); err != nil {
		os.Remove(dst)
		return fmt.Errorf("saving target %s: %w", dst, err)
	}
	return nil
}

// decode opens a raster source. imaging covers png/jpeg/bmp/gif/tiff;
// webp is decode-only via golang.org/x/image.
func decode(src string) (image.Image, error) {
	if strings.ToLower(filepath.Ext(src)) == ".webp" {
		f, err := os.Open(src)
		if err != nil {
			return nil, fmt.Errorf("opening source %s: %w", src, err)
		}
		defer f.Close()

		img, err := webp.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("decoding webp %s: %w", src, err)
		}
		return img, nil
	}

	img, err := imaging.Open(src)
	if err != nil {
		return nil, fmt.Errorf("decoding source %s: %w", src, err)
	}
	return img, nil
}
