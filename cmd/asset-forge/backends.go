// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/pdiddy/asset-forge/internal/rasterize"
	"github.com/pdiddy/asset-forge/internal/scale"
	"github.com/pdiddy/asset-forge/internal/toolchain"
	"github.com/pdiddy/asset-forge/pkg/types"
)

// buildRasterizer constructs the configured rasterize backend. External
// backends verify tool availability up front so a missing binary fails the
// run before any file is touched.
func buildRasterizer(backend types.RasterizeBackend) (rasterize.Rasterizer, error) {
	switch backend {
	case "", types.BackendOksvg:
		return rasterize.Oksvg{}, nil
	case types.BackendRsvg:
		t, err := toolchain.Rasterizer("rsvg-convert")
		if err != nil {
			return nil, err
		}
		return rasterize.NewToolRasterizer(t), nil
	case types.BackendInkscape:
		t, err := toolchain.Rasterizer("inkscape")
		if err != nil {
			return nil, err
		}
		return rasterize.NewToolRasterizer(t), nil
	}
	return nil, fmt.Errorf("unknown rasterize backend %q", backend)
}

// buildScaler constructs the configured scale backend. The magick backend
// detects the magick binary and falls back to the legacy convert binary.
func buildScaler(backend types.ScaleBackend) (scale.Scaler, error) {
	switch backend {
	case "", types.BackendImaging:
		return scale.Imaging{}, nil
	case types.BackendMagick:
		t, err := toolchain.DetectScaler()
		if err != nil {
			return nil, err
		}
		return scale.NewToolScaler(t), nil
	}
	return nil, fmt.Errorf("unknown scale backend %q", backend)
}
