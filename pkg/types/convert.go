// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// Defaults applied by the engine when the corresponding request field is zero.
const (
	// DefaultPrefix is the filename prefix for sequential naming.
	DefaultPrefix = "image"

	// DefaultStartNumber is where sequential numbering begins.
	DefaultStartNumber = 1

	// DefaultJPEGQuality is the JPEG encoder quality setting.
	DefaultJPEGQuality = 95
)

// TargetFormat identifies the output image format.
type TargetFormat string

const (
	FormatPNG  TargetFormat = "png"
	FormatJPEG TargetFormat = "jpeg"
)

// Extension returns the filename extension written for the format.
func (f TargetFormat) Extension() string {
	if f == FormatJPEG {
		return ".jpg"
	}
	return ".png"
}

// ParseFormat maps a user-supplied format name to a TargetFormat.
// "jpg" is accepted as an alias for JPEG.
func ParseFormat(s string) (TargetFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "png":
		return FormatPNG, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	default:
		return "", fmt.Errorf("unsupported target format %q (use png or jpeg)", s)
	}
}

// NamingPolicy selects how output files are named.
type NamingPolicy string

const (
	// NamingKeepOriginal reuses the source base name with the new extension.
	NamingKeepOriginal NamingPolicy = "keep"

	// NamingSequential names outputs <prefix>_NNN with an incrementing,
	// zero-padded counter. The counter advances only on successful
	// conversions; skipped and failed files do not consume a number.
	NamingSequential NamingPolicy = "sequential"
)

// ResultStatus indicates the outcome of converting one source file.
type ResultStatus string

const (
	// StatusConverted means the output file was written.
	StatusConverted ResultStatus = "converted"

	// StatusSkipped means the file matched the extension filter but its
	// contents are not a recognized image format.
	StatusSkipped ResultStatus = "skipped_not_an_image"

	// StatusFailed means decoding, encoding, or writing failed.
	StatusFailed ResultStatus = "failed"
)

// ConversionRequest describes one batch conversion run. It is built by the
// front end (flags, config file, or prompt answers) and handed to the engine;
// the engine holds no state of its own between runs.
type ConversionRequest struct {
	// SourceDir is the folder scanned for WebP files. Must exist.
	SourceDir string `json:"source_dir" yaml:"source_dir"`

	// DestDir is where outputs are written; created if absent. When empty,
	// outputs are written back into SourceDir (in-place mode). Because the
	// output extension always differs from .webp, in-place conversion never
	// overwrites a file while it is being read.
	DestDir string `json:"dest_dir" yaml:"dest_dir"`

	// Format selects the output encoding: png or jpeg.
	Format TargetFormat `json:"format" yaml:"format"`

	// PreserveTransparency keeps the alpha channel in PNG output. It has no
	// effect for JPEG, which always flattens onto a white background.
	PreserveTransparency bool `json:"preserve_transparency" yaml:"preserve_transparency"`

	// Naming selects the output naming policy.
	Naming NamingPolicy `json:"naming" yaml:"naming"`

	// Prefix is the filename prefix used by sequential naming.
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`

	// StartNumber is where sequential numbering begins. When the destination
	// already holds files numbered with the same prefix, numbering resumes
	// above the highest existing number instead.
	StartNumber int `json:"start_number,omitempty" yaml:"start_number,omitempty"`

	// DeleteOriginals removes each source file after its output is written.
	// A failed conversion never deletes its source.
	DeleteOriginals bool `json:"delete_originals" yaml:"delete_originals"`

	// JPEGQuality is the JPEG encoder quality (1-100).
	JPEGQuality int `json:"jpeg_quality,omitempty" yaml:"jpeg_quality,omitempty"`
}

// ConversionResult records the outcome for a single source file.
type ConversionResult struct {
	// SourcePath is the full path of the source file.
	SourcePath string `json:"source_path" yaml:"source_path"`

	// OutputPath is the full path of the written output; empty unless the
	// status is StatusConverted.
	OutputPath string `json:"output_path,omitempty" yaml:"output_path,omitempty"`

	// Status is the conversion outcome.
	Status ResultStatus `json:"status" yaml:"status"`

	// ErrDetail describes the failure; set only when Status is StatusFailed.
	ErrDetail string `json:"error,omitempty" yaml:"error,omitempty"`

	// DeleteWarning is set when the conversion succeeded but the source file
	// could not be deleted afterwards. It does not downgrade the status.
	DeleteWarning string `json:"delete_warning,omitempty" yaml:"delete_warning,omitempty"`
}

// ConversionSummary holds the outcome of a batch conversion run. Nothing in
// it outlives the call that produced it.
type ConversionSummary struct {
	Converted int `json:"converted" yaml:"converted"`
	Skipped   int `json:"skipped" yaml:"skipped"`
	Failed    int `json:"failed" yaml:"failed"`

	// Results lists one entry per eligible source file, in processing order.
	Results []ConversionResult `json:"results" yaml:"results"`
}

// Total returns the total number of files processed.
func (s ConversionSummary) Total() int {
	return s.Converted + s.Skipped + s.Failed
}

// HasFailures reports whether any file failed conversion.
func (s ConversionSummary) HasFailures() bool {
	return s.Failed > 0
}
