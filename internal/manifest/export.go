// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/asset-forge/pkg/types"
)

// ExportRun pairs a run summary with its conversion entries for export.
type ExportRun struct {
	RunSummary  `yaml:",inline"`
	Conversions []types.ConversionRecord `json:"conversions" yaml:"conversions"`
}

// ExportRuns collects the most recent runs with their conversions.
func (s *Store) ExportRuns(ctx context.Context, limit int) ([]ExportRun, error) {
	runs, err := s.RecentRuns(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]ExportRun, 0, len(runs))
	for _, r := range runs {
		convs, err := s.Conversions(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, ExportRun{RunSummary: r, Conversions: convs})
	}
	return out, nil
}

// WriteYAML writes runs as a YAML document.
func WriteYAML(w io.Writer, runs []ExportRun) error {
	data, err := yaml.Marshal(runs)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// WriteJSON writes runs as indented JSON.
func WriteJSON(w io.Writer, runs []ExportRun) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(runs)
}
