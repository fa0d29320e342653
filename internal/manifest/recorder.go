// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package manifest

import (
	"fmt"
	"os"

	"github.com/pdiddy/asset-forge/pkg/types"
)

// RunRecorder adapts a Store to the pipeline's Recorder interface for one
// run. Recording is best effort: a manifest write error is reported to
// stderr once and never fails a conversion.
type RunRecorder struct {
	store  *Store
	runID  int64
	warned bool
}

// Recorder returns a RunRecorder bound to the given run.
func (s *Store) Recorder(runID int64) *RunRecorder {
	return &RunRecorder{store: s, runID: runID}
}

func (r *RunRecorder) Record(rec types.ConversionRecord) {
	if err := r.store.RecordConversion(r.runID, rec); err != nil && !r.warned {
		fmt.Fprintf(os.Stderr, "warning: manifest recording disabled: %v\n", err)
		r.warned = true
	}
}
