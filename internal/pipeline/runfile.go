// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/repo-scout/pkg/types"
)

// WriteRunFile saves a completed run to a YAML file, so a ranking can be
// kept and re-read later without re-querying the search API or the model.
func WriteRunFile(path string, run *types.PipelineRun) error {
	data, err := yaml.Marshal(run)
	if err != nil {
		return fmt.Errorf("encoding run file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing run file %s: %w", path, err)
	}
	return nil
}

// ReadRunFile loads a previously saved run.
func ReadRunFile(path string) (*types.PipelineRun, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run file %s: %w", path, err)
	}
	var run types.PipelineRun
	if err := yaml.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("parsing run file %s: %w", path, err)
	}
	return &run, nil
}
