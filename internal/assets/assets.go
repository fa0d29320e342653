// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assets enumerates source images and derives target paths.
// It owns the staleness decision: a target is fresh iff its modification
// time is not older than its source's.
package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/asset-forge/pkg/types"
)

// targetExt is the fixed output format for generated targets.
const targetExt = ".png"

var vectorExts = []string{".svg"}

var rasterExts = []string{".png", ".jpg", ".jpeg", ".bmp", ".gif", ".webp"}

// KindOf classifies a path by extension. The second return value is false
// for unrecognized extensions, which must never reach a conversion backend.
func KindOf(path string) (types.AssetKind, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range vectorExts {
		if e == ext {
			return types.KindVector, true
		}
	}
	for _, e := range rasterExts {
		if e == ext {
			return types.KindRaster, true
		}
	}
	return "", false
}

// Scan lists the source files of the given kind directly under dir, sorted
// lexicographically by filename. The order is part of the contract:
// enumeration must be reproducible across platforms, not an accident of
// directory-listing order.
func Scan(dir string, kind types.AssetKind) ([]types.Asset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading source directory %s: %w", dir, err)
	}

	var found []types.Asset
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		k, ok := KindOf(e.Name())
		if !ok || k != kind {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stating %s: %w", e.Name(), err)
		}
		found = append(found, types.Asset{
			Path:    filepath.Join(dir, e.Name()),
			Kind:    k,
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Path < found[j].Path })
	return found, nil
}

// RasterTarget returns the natural-size intermediate for a vector source:
// same directory, same base name, target extension.
func RasterTarget(src string) string {
	return strings.TrimSuffix(src, filepath.Ext(src)) + targetExt
}

// ScaleTarget returns the final scaled target for a raster source: the
// parent of the source directory, same base name, target extension.
// Generated assets live one directory level up from their sources.
func ScaleTarget(src string) string {
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)) + targetExt
	return filepath.Join(filepath.Dir(filepath.Dir(src)), base)
}

// Stale reports whether target must be regenerated from src: it is stale
// when missing or when its mtime predates the source's.
func Stale(src, target string) (bool, error) {
	si, err := os.Stat(src)
	if err != nil {
		return false, fmt.Errorf("stating source %s: %w", src, err)
	}
	ti, err := os.Stat(target)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("stating target %s: %w", target, err)
	}
	return ti.ModTime().Before(si.ModTime()), nil
}
