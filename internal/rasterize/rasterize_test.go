// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rasterize

import (
	"context"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const testSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="50" viewBox="0 0 100 50">
  <rect x="10" y="10" width="80" height="30" fill="#ff0000"/>
</svg>`

func writeSVG(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "icon.svg")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func decodeSize(t *testing.T, path string) (w, h int) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func TestOksvg_NaturalSize(t *testing.T) {
	src := writeSVG(t, testSVG)
	dst := filepath.Join(filepath.Dir(src), "icon.png")

	if err := (Oksvg{}).Rasterize(context.Background(), src, dst, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	w, h := decodeSize(t, dst)
	if w != 100 || h != 50 {
		t.Errorf("output is %dx%d, want the 100x50 ViewBox size", w, h)
	}
}

func TestOksvg_TargetWidth(t *testing.T) {
	src := writeSVG(t, testSVG)
	dst := filepath.Join(filepath.Dir(src), "icon.png")

	if err := (Oksvg{}).Rasterize(context.Background(), src, dst, 64); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	w, h := decodeSize(t, dst)
	if w != 64 || h != 32 {
		t.Errorf("output is %dx%d, want 64x32 (aspect preserved)", w, h)
	}
}

func TestOksvg_InvalidSource(t *testing.T) {
	src := writeSVG(t, "not an svg at all")
	dst := filepath.Join(filepath.Dir(src), "icon.png")

	if err := (Oksvg{}).Rasterize(context.Background(), src, dst, 0); err == nil {
		t.Fatal("expected error for invalid SVG")
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Error("no target should be written for invalid SVG")
	}
}

func TestOksvg_MissingSource(t *testing.T) {
	dir := t.TempDir()
	err := (Oksvg{}).Rasterize(context.Background(),
		filepath.Join(dir, "gone.svg"), filepath.Join(dir, "gone.png"), 0)
	if err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestRasterizeArgs(t *testing.T) {
	tests := []struct {
		name    string
		tool    string
		width   int
		want    []string
		wantErr bool
	}{
		{
			name:  "rsvg natural size",
			tool:  "rsvg-convert",
			width: 0,
			want:  []string{"-o", "out.png", "in.svg"},
		},
		{
			name:  "rsvg with width",
			tool:  "rsvg-convert",
			width: 64,
			want:  []string{"-o", "out.png", "-w", "64", "--keep-aspect-ratio", "in.svg"},
		},
		{
			name:  "inkscape natural size",
			tool:  "inkscape",
			width: 0,
			want:  []string{"--export-type=png", "--export-filename=out.png", "in.svg"},
		},
		{
			name:  "inkscape with width",
			tool:  "inkscape",
			width: 128,
			want:  []string{"--export-type=png", "--export-filename=out.png", "--export-width=128", "in.svg"},
		},
		{
			name:    "unknown tool",
			tool:    "gimp",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := rasterizeArgs(tt.tool, "in.svg", "out.png", tt.width)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("args = %v, want %v", got, tt.want)
			}
		})
	}
}
