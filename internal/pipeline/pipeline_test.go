// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/asset-forge/pkg/types"
)

// call records one backend invocation.
type call struct {
	stage types.Stage
	src   string
	dst   string
	width int
}

// fakeBackend implements both Rasterizer and Scaler. It records
// invocations in order and writes a placeholder target file, or fails for
// sources listed in failOn (keyed by base name).
type fakeBackend struct {
	calls  []call
	failOn map[string]error
}

func (f *fakeBackend) Rasterize(ctx context.Context, src, dst string, width int) error {
	return f.run(types.StageRasterize, src, dst, width)
}

func (f *fakeBackend) Scale(ctx context.Context, src, dst string, width int) error {
	return f.run(types.StageScale, src, dst, width)
}

func (f *fakeBackend) run(stage types.Stage, src, dst string, width int) error {
	f.calls = append(f.calls, call{stage: stage, src: src, dst: dst, width: width})
	if err, ok := f.failOn[filepath.Base(src)]; ok {
		return err
	}
	return os.WriteFile(dst, []byte("image"), 0o644)
}

// sourceNames returns the base names of the sources handed to backends.
func (f *fakeBackend) sourceNames() []string {
	names := make([]string, len(f.calls))
	for i, c := range f.calls {
		names[i] = filepath.Base(c.src)
	}
	return names
}

// setupAssets creates an assets directory with a src/ subdirectory holding
// the named source files, backdated one hour so fresh targets win the
// staleness comparison.
func setupAssets(t *testing.T, names ...string) (assetsDir, srcDir string) {
	t.Helper()
	assetsDir = t.TempDir()
	srcDir = filepath.Join(assetsDir, "src")
	if err := os.MkdirAll(srcDir, 0o755); err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-time.Hour)
	for _, n := range names {
		path := filepath.Join(srcDir, n)
		if err := os.WriteFile(path, []byte("source"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.Chtimes(path, past, past); err != nil {
			t.Fatal(err)
		}
	}
	return assetsDir, srcDir
}

func TestRun_TwoStage(t *testing.T) {
	assetsDir, srcDir := setupAssets(t, "c.svg")
	fake := &fakeBackend{}
	p := New(fake, fake)

	var log bytes.Buffer
	result, err := p.Run(context.Background(), Options{SourceDir: srcDir, Width: 64}, &log)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The vector sweep produces the natural-size intermediate, then the
	// raster sweep re-scans and scales it one directory level up.
	if len(fake.calls) != 2 {
		t.Fatalf("got %d backend calls, want 2: %v", len(fake.calls), fake.calls)
	}
	first, second := fake.calls[0], fake.calls[1]
	if first.stage != types.StageRasterize || first.width != 0 {
		t.Errorf("first call = %+v, want natural-size rasterize", first)
	}
	if first.dst != filepath.Join(srcDir, "c.png") {
		t.Errorf("intermediate path = %s", first.dst)
	}
	if second.stage != types.StageScale || second.width != 64 {
		t.Errorf("second call = %+v, want scale at width 64", second)
	}
	if second.src != filepath.Join(srcDir, "c.png") {
		t.Errorf("scale input = %s, want the fresh intermediate", second.src)
	}
	if second.dst != filepath.Join(assetsDir, "c.png") {
		t.Errorf("final target = %s, want it one level up", second.dst)
	}

	if result.Converted != 2 || result.Failed != 0 {
		t.Errorf("result = %+v", result)
	}
}

func TestRun_Idempotent(t *testing.T) {
	_, srcDir := setupAssets(t, "a.svg", "b.png")
	fake := &fakeBackend{}
	p := New(fake, fake)
	opts := Options{SourceDir: srcDir, Width: 64}

	var log bytes.Buffer
	if _, err := p.Run(context.Background(), opts, &log); err != nil {
		t.Fatalf("first run: %v", err)
	}
	firstCalls := len(fake.calls)

	result, err := p.Run(context.Background(), opts, &log)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(fake.calls) != firstCalls {
		t.Errorf("second run invoked backends %d times, want 0", len(fake.calls)-firstCalls)
	}
	if result.Converted != 0 {
		t.Errorf("second run converted = %d, want 0", result.Converted)
	}
	if result.Skipped == 0 {
		t.Error("second run should report fresh targets")
	}
}

func TestRun_FreshnessInvariant(t *testing.T) {
	assetsDir, srcDir := setupAssets(t, "icon.svg")
	fake := &fakeBackend{}
	p := New(fake, fake)

	var log bytes.Buffer
	if _, err := p.Run(context.Background(), Options{SourceDir: srcDir, Width: 64}, &log); err != nil {
		t.Fatal(err)
	}

	pairs := [][2]string{
		{filepath.Join(srcDir, "icon.svg"), filepath.Join(srcDir, "icon.png")},
		{filepath.Join(srcDir, "icon.png"), filepath.Join(assetsDir, "icon.png")},
	}
	for _, pair := range pairs {
		si, err := os.Stat(pair[0])
		if err != nil {
			t.Fatal(err)
		}
		ti, err := os.Stat(pair[1])
		if err != nil {
			t.Fatal(err)
		}
		if ti.ModTime().Before(si.ModTime()) {
			t.Errorf("target %s older than source %s", pair[1], pair[0])
		}
	}
}

func TestSyncVectors_Selective(t *testing.T) {
	_, srcDir := setupAssets(t, "a.svg", "b.svg")

	// b.png is newer than b.svg; a.svg has no intermediate yet.
	bTarget := filepath.Join(srcDir, "b.png")
	if err := os.WriteFile(bTarget, []byte("existing"), 0o644); err != nil {
		t.Fatal(err)
	}

	fake := &fakeBackend{}
	p := New(fake, fake)

	var log bytes.Buffer
	result, err := p.SyncVectors(context.Background(), Options{SourceDir: srcDir}, &log)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := fake.sourceNames(); len(got) != 1 || got[0] != "a.svg" {
		t.Errorf("backends saw %v, want only a.svg", got)
	}
	if data, err := os.ReadFile(bTarget); err != nil || string(data) != "existing" {
		t.Error("b.png should be untouched")
	}
	if result.Converted != 1 || result.Skipped != 1 {
		t.Errorf("result = %+v", result)
	}
	if !strings.Contains(log.String(), "fresh: b.svg") {
		t.Errorf("log should mark b.svg fresh, got %q", log.String())
	}
}

func TestSyncVectors_FailFast(t *testing.T) {
	_, srcDir := setupAssets(t, "a.svg", "b.svg", "c.svg")
	fake := &fakeBackend{failOn: map[string]error{"b.svg": errors.New("render crashed")}}
	p := New(fake, fake)

	var log bytes.Buffer
	result, err := p.SyncVectors(context.Background(), Options{SourceDir: srcDir}, &log)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "b.svg") {
		t.Errorf("error should name the failing source, got: %v", err)
	}

	// Enumeration is lexicographic, so c.svg comes after the failure and
	// must never reach a backend.
	for _, name := range fake.sourceNames() {
		if name == "c.svg" {
			t.Error("c.svg was processed after the failure")
		}
	}
	if _, statErr := os.Stat(filepath.Join(srcDir, "c.png")); !os.IsNotExist(statErr) {
		t.Error("no target should exist for c.svg")
	}
	if result.Converted != 1 || result.Failed != 1 {
		t.Errorf("result = %+v", result)
	}
}

func TestRun_FormatFiltering(t *testing.T) {
	_, srcDir := setupAssets(t, "icon.svg", "notes.txt", "README.md")
	fake := &fakeBackend{}
	p := New(fake, fake)

	var log bytes.Buffer
	if _, err := p.Run(context.Background(), Options{SourceDir: srcDir, Width: 64}, &log); err != nil {
		t.Fatal(err)
	}

	for _, name := range fake.sourceNames() {
		if name == "notes.txt" || name == "README.md" {
			t.Errorf("unrecognized file %s reached a backend", name)
		}
	}
}

func TestRun_DryRun(t *testing.T) {
	_, srcDir := setupAssets(t, "a.svg")
	fake := &fakeBackend{}
	p := New(fake, fake)

	var log bytes.Buffer
	result, err := p.Run(context.Background(), Options{SourceDir: srcDir, Width: 64, DryRun: true}, &log)
	if err != nil {
		t.Fatal(err)
	}
	if len(fake.calls) != 0 {
		t.Errorf("dry run invoked backends: %v", fake.calls)
	}
	if !strings.Contains(log.String(), "would rasterize: a.svg") {
		t.Errorf("log = %q", log.String())
	}
	if result.Converted != 1 {
		t.Errorf("planned conversions = %d, want 1", result.Converted)
	}
}

func TestRun_KeepGoing(t *testing.T) {
	_, srcDir := setupAssets(t, "a.svg", "b.svg", "c.svg")
	fake := &fakeBackend{failOn: map[string]error{"b.svg": errors.New("render crashed")}}
	p := New(fake, fake)

	var log bytes.Buffer
	result, err := p.Run(context.Background(), Options{SourceDir: srcDir, Width: 64, KeepGoing: true}, &log)
	if err != nil {
		t.Fatalf("keep-going run should not abort: %v", err)
	}
	if result.Failed != 1 {
		t.Errorf("failed = %d, want 1", result.Failed)
	}

	// a and c rasterized despite b failing; their intermediates then scale.
	names := fake.sourceNames()
	want := map[string]bool{"a.svg": false, "c.svg": false}
	for _, n := range names {
		if _, ok := want[n]; ok {
			want[n] = true
		}
	}
	for n, seen := range want {
		if !seen {
			t.Errorf("%s was not processed", n)
		}
	}
	if !strings.Contains(log.String(), "Sync summary:") {
		t.Error("keep-going run should print a summary line")
	}
}

func TestRun_Force(t *testing.T) {
	_, srcDir := setupAssets(t, "a.svg")
	fake := &fakeBackend{}
	p := New(fake, fake)
	opts := Options{SourceDir: srcDir, Width: 64}

	var log bytes.Buffer
	if _, err := p.Run(context.Background(), opts, &log); err != nil {
		t.Fatal(err)
	}
	calls := len(fake.calls)

	opts.Force = true
	result, err := p.Run(context.Background(), opts, &log)
	if err != nil {
		t.Fatal(err)
	}
	if len(fake.calls) == calls {
		t.Error("force run should invoke backends again")
	}
	if result.Converted == 0 {
		t.Errorf("force run converted = %d", result.Converted)
	}
}

func TestRasterizeFiles_IgnoresNonVector(t *testing.T) {
	_, srcDir := setupAssets(t, "a.svg", "b.png")
	fake := &fakeBackend{}
	p := New(fake, fake)

	paths := []string{
		filepath.Join(srcDir, "a.svg"),
		filepath.Join(srcDir, "b.png"),
	}
	var log bytes.Buffer
	result, err := p.RasterizeFiles(context.Background(), paths, Options{SourceDir: srcDir}, &log)
	if err != nil {
		t.Fatal(err)
	}
	if got := fake.sourceNames(); len(got) != 1 || got[0] != "a.svg" {
		t.Errorf("backends saw %v, want only a.svg", got)
	}
	if !strings.Contains(log.String(), "ignored: b.png") {
		t.Errorf("log = %q", log.String())
	}
	if result.Total() != 1 {
		t.Errorf("total = %d, want 1 (ignored files are not counted)", result.Total())
	}
}

// recordingRecorder collects audit entries for assertions.
type recordingRecorder struct {
	recs []types.ConversionRecord
}

func (r *recordingRecorder) Record(rec types.ConversionRecord) {
	r.recs = append(r.recs, rec)
}

func TestRun_RecordsConversions(t *testing.T) {
	_, srcDir := setupAssets(t, "a.svg")
	fake := &fakeBackend{}
	rec := &recordingRecorder{}
	p := New(fake, fake).WithRecorder(rec)

	var log bytes.Buffer
	if _, err := p.Run(context.Background(), Options{SourceDir: srcDir, Width: 64}, &log); err != nil {
		t.Fatal(err)
	}

	if len(rec.recs) != 2 {
		t.Fatalf("got %d records, want 2: %v", len(rec.recs), rec.recs)
	}
	if rec.recs[0].Stage != types.StageRasterize || rec.recs[0].Status != types.ConversionDone {
		t.Errorf("first record = %+v", rec.recs[0])
	}
	if rec.recs[1].Stage != types.StageScale || rec.recs[1].Width != 64 {
		t.Errorf("second record = %+v", rec.recs[1])
	}
}
