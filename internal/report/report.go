// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report writes a YAML record of a completed conversion run, so the
// user can locate skipped and failed files after the terminal output is gone.
package report

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/paindog/webpconv/pkg/types"
)

// RunReport is the YAML document written for a run.
type RunReport struct {
	GeneratedAt string `yaml:"generated_at"`

	SourceDir string             `yaml:"source_dir"`
	DestDir   string             `yaml:"dest_dir"`
	Format    types.TargetFormat `yaml:"format"`
	Naming    types.NamingPolicy `yaml:"naming"`

	Converted int `yaml:"converted"`
	Skipped   int `yaml:"skipped"`
	Failed    int `yaml:"failed"`
	Total     int `yaml:"total"`

	Files []types.ConversionResult `yaml:"files"`
}

// Build assembles the report document for a finished run.
func Build(req types.ConversionRequest, summary types.ConversionSummary) RunReport {
	destDir := req.DestDir
	if destDir == "" {
		destDir = req.SourceDir
	}
	return RunReport{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		SourceDir:   req.SourceDir,
		DestDir:     destDir,
		Format:      req.Format,
		Naming:      req.Naming,
		Converted:   summary.Converted,
		Skipped:     summary.Skipped,
		Failed:      summary.Failed,
		Total:       summary.Total(),
		Files:       summary.Results,
	}
}

// Write renders the run report as YAML at path.
func Write(path string, req types.ConversionRequest, summary types.ConversionSummary) error {
	data, err := yaml.Marshal(Build(req, summary))
	if err != nil {
		return fmt.Errorf("marshaling run report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing run report: %w", err)
	}
	return nil
}
