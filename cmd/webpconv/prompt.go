package main

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paindog/webpconv/internal/codec"
	"github.com/paindog/webpconv/internal/engine"
	"github.com/paindog/webpconv/pkg/types"
)

// runPrompt drives the interactive flow used when webpconv is invoked
// without a subcommand.
func runPrompt(cmd *cobra.Command, args []string) error {
	return promptAndRun(cmd.InOrStdin(), cmd.OutOrStdout())
}

// promptAndRun collects a ConversionRequest through terminal prompts, then
// dispatches the engine on a separate goroutine and waits for the summary
// over a channel, so progress lines stream to the terminal as they happen.
func promptAndRun(in io.Reader, out io.Writer) error {
	r := bufio.NewReader(in)

	fmt.Fprintln(out, "WebP Image Converter")
	fmt.Fprintln(out, strings.Repeat("=", 40))

	req, err := promptRequest(r, out)
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	type outcome struct {
		summary types.ConversionSummary
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		summary, err := engine.Run(codec.Imaging{}, req, out)
		done <- outcome{summary, err}
	}()

	result := <-done
	if result.err != nil {
		return result.err
	}
	if result.summary.HasFailures() {
		fmt.Fprintln(out, "Some files failed; see the lines above to retry them.")
	}
	return nil
}

// promptRequest walks the question sequence and assembles the request.
func promptRequest(r *bufio.Reader, out io.Writer) (types.ConversionRequest, error) {
	var req types.ConversionRequest

	source := ask(r, out, "Source folder (Enter for current directory): ")
	if source == "" {
		source = "."
	}
	req.SourceDir = strings.Trim(source, `"'`)

	fmt.Fprintln(out, "\nOutput format:")
	fmt.Fprintln(out, "  1. PNG (preserves transparency)")
	fmt.Fprintln(out, "  2. JPEG (smaller, no transparency)")
	if ask(r, out, "Convert to (1 or 2) [1]: ") == "2" {
		req.Format = types.FormatJPEG
	} else {
		req.Format = types.FormatPNG
		req.PreserveTransparency = true
	}

	fmt.Fprintln(out, "\nNaming:")
	fmt.Fprintf(out, "  1. Sequential numbers (image_001%s, ...)\n", req.Format.Extension())
	fmt.Fprintln(out, "  2. Keep original filenames")
	if ask(r, out, "Choose option (1 or 2) [1]: ") == "2" {
		req.Naming = types.NamingKeepOriginal
	} else {
		req.Naming = types.NamingSequential
		if prefix := ask(r, out, "Filename prefix [image]: "); prefix != "" {
			req.Prefix = prefix
		}
		if raw := ask(r, out, "Starting number [1]: "); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				fmt.Fprintln(out, "Invalid number, using 1.")
			} else {
				req.StartNumber = n
			}
		}
	}

	fmt.Fprintln(out, "\nOutput folder:")
	fmt.Fprintln(out, "  1. Convert in place")
	fmt.Fprintln(out, "  2. A 'converted' subfolder of the source folder")
	fmt.Fprintln(out, "  3. Custom folder")
	switch ask(r, out, "Choose option (1, 2, or 3) [1]: ") {
	case "2":
		req.DestDir = filepath.Join(req.SourceDir, "converted")
	case "3":
		req.DestDir = strings.Trim(ask(r, out, "Destination folder: "), `"'`)
	}

	req.DeleteOriginals = askYesNo(r, out, "Delete original files after conversion? (y/N): ")

	return req, nil
}

// ask prints a prompt and returns the trimmed answer line. EOF counts as an
// empty answer so piped input falls through to the defaults.
func ask(r *bufio.Reader, out io.Writer, prompt string) string {
	fmt.Fprint(out, prompt)
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimSpace(line)
}

// askYesNo prompts for a yes/no answer, defaulting to no.
func askYesNo(r *bufio.Reader, out io.Writer, prompt string) bool {
	switch strings.ToLower(ask(r, out, prompt)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
