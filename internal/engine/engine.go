// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine runs batch WebP-to-PNG/JPEG conversion over a single folder.
package engine

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/paindog/webpconv/internal/codec"
	"github.com/paindog/webpconv/pkg/types"
)

// sourceExt is the only input extension the engine considers. The filter is
// case-insensitive and applies to direct entries of the source folder only;
// subdirectories are never descended into.
const sourceExt = ".webp"

// Run executes one conversion batch described by req, streaming per-file
// progress lines to w. Per-file problems are recorded in the summary and
// never abort the batch; the returned error is reserved for run-level
// conditions (missing source folder, uncreatable destination) under which
// no file was processed.
func Run(c codec.Codec, req types.ConversionRequest, w io.Writer) (types.ConversionSummary, error) {
	var summary types.ConversionSummary

	req, err := normalize(req)
	if err != nil {
		return summary, err
	}

	info, err := os.Stat(req.SourceDir)
	if err != nil {
		return summary, fmt.Errorf("source folder: %w", err)
	}
	if !info.IsDir() {
		return summary, fmt.Errorf("source folder %s is not a directory", req.SourceDir)
	}

	sources, err := listSources(req.SourceDir)
	if err != nil {
		return summary, fmt.Errorf("reading source folder: %w", err)
	}

	if err := os.MkdirAll(req.DestDir, 0o755); err != nil {
		return summary, fmt.Errorf("creating destination folder: %w", err)
	}

	if filepath.Clean(req.SourceDir) == filepath.Clean(req.DestDir) {
		fmt.Fprintf(w, "note: converting in place in %s\n", req.SourceDir)
	}

	counter := req.StartNumber
	if req.Naming == types.NamingSequential {
		counter = nextSequence(req.DestDir, req.Prefix, req.Format.Extension(), req.StartNumber)
	}

	for _, name := range sources {
		res := convertOne(c, req, name, counter, w)
		switch res.Status {
		case types.StatusConverted:
			summary.Converted++
			counter++
		case types.StatusSkipped:
			summary.Skipped++
		case types.StatusFailed:
			summary.Failed++
		}
		summary.Results = append(summary.Results, res)
	}

	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		summary.Converted, summary.Skipped, summary.Failed, summary.Total())
	return summary, nil
}

// normalize fills request defaults and rejects unusable field values.
func normalize(req types.ConversionRequest) (types.ConversionRequest, error) {
	if req.Format != types.FormatPNG && req.Format != types.FormatJPEG {
		return req, fmt.Errorf("unsupported target format %q", req.Format)
	}
	if req.Naming != types.NamingKeepOriginal && req.Naming != types.NamingSequential {
		return req, fmt.Errorf("unsupported naming policy %q", req.Naming)
	}
	if req.DestDir == "" {
		req.DestDir = req.SourceDir
	}
	if req.Prefix == "" {
		req.Prefix = types.DefaultPrefix
	}
	if req.StartNumber <= 0 {
		req.StartNumber = types.DefaultStartNumber
	}
	if req.JPEGQuality <= 0 {
		req.JPEGQuality = types.DefaultJPEGQuality
	}
	return req, nil
}

// convertOne processes a single source file and returns its result. seq is
// the sequence number the file will claim if it converts successfully.
func convertOne(c codec.Codec, req types.ConversionRequest, name string, seq int, w io.Writer) types.ConversionResult {
	srcPath := filepath.Join(req.SourceDir, name)
	res := types.ConversionResult{SourcePath: srcPath}

	img, err := c.Decode(srcPath)
	if err != nil {
		if codec.IsUnrecognized(err) {
			res.Status = types.StatusSkipped
			fmt.Fprintf(w, "skipped: %s (not an image)\n", name)
			return res
		}
		res.Status = types.StatusFailed
		res.ErrDetail = err.Error()
		fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
		return res
	}

	outName := outputName(req, name, seq)
	outPath := filepath.Join(req.DestDir, outName)

	var buf bytes.Buffer
	opts := codec.Options{
		Format:               req.Format,
		PreserveTransparency: req.PreserveTransparency,
		JPEGQuality:          req.JPEGQuality,
	}
	if err := c.Encode(&buf, img, opts); err != nil {
		res.Status = types.StatusFailed
		res.ErrDetail = err.Error()
		fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
		return res
	}

	// Existing files at the destination are overwritten, last write wins.
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		res.Status = types.StatusFailed
		res.ErrDetail = err.Error()
		fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
		return res
	}

	res.Status = types.StatusConverted
	res.OutputPath = outPath
	fmt.Fprintf(w, "converted: %s -> %s\n", name, outName)

	if req.DeleteOriginals {
		if err := os.Remove(srcPath); err != nil {
			res.DeleteWarning = err.Error()
			fmt.Fprintf(w, "warning: could not delete %s (%v)\n", name, err)
		}
	}
	return res
}

// listSources returns the names of entries directly under dir whose
// extension matches sourceExt, sorted lexicographically ascending.
func listSources(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), sourceExt) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// outputName computes the destination filename for a source entry.
func outputName(req types.ConversionRequest, name string, seq int) string {
	ext := req.Format.Extension()
	if req.Naming == types.NamingSequential {
		return fmt.Sprintf("%s_%03d%s", req.Prefix, seq, ext)
	}
	return strings.TrimSuffix(name, filepath.Ext(name)) + ext
}

// nextSequence returns the first sequence number to use, resuming above any
// files already numbered with the same prefix and extension in destDir.
// An unreadable destination is not an error here; MkdirAll settles that.
func nextSequence(destDir, prefix, ext string, start int) int {
	entries, err := os.ReadDir(destDir)
	if err != nil {
		return start
	}

	highest := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if n, ok := sequenceNumber(entry.Name(), prefix, ext); ok && n > highest {
			highest = n
		}
	}
	if highest >= start {
		return highest + 1
	}
	return start
}

// sequenceNumber extracts N from names of the form <prefix>_N<ext>.
func sequenceNumber(name, prefix, ext string) (int, bool) {
	if !strings.EqualFold(filepath.Ext(name), ext) {
		return 0, false
	}
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	rest, ok := strings.CutPrefix(stem, prefix+"_")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
