// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rasterize converts vector sources into raster targets with
// pluggable backends. The default backend renders in-process with oksvg;
// the tool backend shells out to rsvg-convert or inkscape.
package rasterize

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// Rasterizer renders the vector file at src into a raster file at dst.
// A width of 0 means natural (ViewBox) size; a positive width scales the
// output to that pixel width, height following the aspect ratio.
type Rasterizer interface {
	Rasterize(ctx context.Context, src, dst string, width int) error
}

// Oksvg is the in-process backend. It needs no system tools.
type Oksvg struct{}

// Rasterize decodes the SVG at src, renders it, and PNG-encodes the result
// to dst. Partial output is removed on encode failure.
func (Oksvg) Rasterize(ctx context.Context, src, dst string, width int) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening SVG %s: %w", src, err)
	}
	defer f.Close()

	icon, err := oksvg.ReadIconStream(f)
	if err != nil {
		return fmt.Errorf("decoding SVG %s: %w", src, err)
	}

	w, h := renderSize(icon, width)
	if w <= 0 || h <= 0 {
		return fmt.Errorf("SVG %s has no usable ViewBox", src)
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	raster := rasterx.NewDasher(w, h, scanner)
	icon.Draw(raster, 1.0)

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating target %s: %w", dst, err)
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("encoding target %s: %w", dst, err)
	}
	return out.Close()
}

// renderSize returns the output pixel dimensions for an icon: the ViewBox
// size when width is 0, otherwise width with the ViewBox aspect ratio.
func renderSize(icon *oksvg.SvgIcon, width int) (w, h int) {
	vw, vh := icon.ViewBox.W, icon.ViewBox.H
	if width <= 0 {
		return int(math.Round(vw)), int(math.Round(vh))
	}
	if vw <= 0 {
		return width, width
	}
	return width, int(math.Round(float64(width) * vh / vw))
}
