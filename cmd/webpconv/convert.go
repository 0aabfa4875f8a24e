package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/paindog/webpconv/internal/codec"
	"github.com/paindog/webpconv/internal/engine"
	"github.com/paindog/webpconv/internal/report"
	"github.com/paindog/webpconv/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert <source-folder>",
	Short: "Convert the WebP images in a folder",
	Long: `Convert enumerates the WebP files directly inside the source folder and
converts each one to the target format. Files that fail to convert are
reported and skipped; the batch always runs to completion. The process
exits non-zero only when the source folder is unusable or the destination
cannot be created.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("dest", "", "destination folder (default: convert in place)")
	convertCmd.Flags().String("format", "", "target format: png or jpeg (default png)")
	convertCmd.Flags().Bool("preserve-transparency", true, "keep the alpha channel in PNG output")
	convertCmd.Flags().Bool("sequential", false, "name outputs with sequential numbers instead of keeping names")
	convertCmd.Flags().String("prefix", "", "filename prefix for sequential naming (default image)")
	convertCmd.Flags().Int("start", 0, "starting number for sequential naming (default 1)")
	convertCmd.Flags().Bool("delete", false, "delete each source file after its output is written")
	convertCmd.Flags().Int("quality", 0, "JPEG quality, 1-100 (default 95)")
	convertCmd.Flags().String("report", "", "write a YAML run report to this path")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	req, err := requestFromFlags(cmd, args[0])
	if err != nil {
		return err
	}

	summary, err := engine.Run(codec.Imaging{}, req, os.Stdout)
	if err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("report"); path != "" {
		if err := report.Write(path, req, summary); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}

	// Per-file failures are already in the summary; only run-level
	// conditions fail the process.
	return nil
}

// requestFromFlags builds a ConversionRequest from the convert command's
// flags, falling back to config-file/env values for flags left unset.
func requestFromFlags(cmd *cobra.Command, source string) (types.ConversionRequest, error) {
	formatName, _ := cmd.Flags().GetString("format")
	if formatName == "" {
		formatName = viper.GetString("format")
	}
	if formatName == "" {
		formatName = string(types.FormatPNG)
	}
	format, err := types.ParseFormat(formatName)
	if err != nil {
		return types.ConversionRequest{}, err
	}

	preserve, _ := cmd.Flags().GetBool("preserve-transparency")
	if !cmd.Flags().Changed("preserve-transparency") && viper.IsSet("preserve_transparency") {
		preserve = viper.GetBool("preserve_transparency")
	}

	naming := types.NamingKeepOriginal
	if sequential, _ := cmd.Flags().GetBool("sequential"); sequential {
		naming = types.NamingSequential
	}

	prefix, _ := cmd.Flags().GetString("prefix")
	if prefix == "" {
		prefix = viper.GetString("prefix")
	}
	start, _ := cmd.Flags().GetInt("start")
	if start == 0 {
		start = viper.GetInt("start")
	}
	quality, _ := cmd.Flags().GetInt("quality")
	if quality == 0 {
		quality = viper.GetInt("quality")
	}

	dest, _ := cmd.Flags().GetString("dest")
	deleteOriginals, _ := cmd.Flags().GetBool("delete")

	return types.ConversionRequest{
		SourceDir:            source,
		DestDir:              dest,
		Format:               format,
		PreserveTransparency: preserve,
		Naming:               naming,
		Prefix:               prefix,
		StartNumber:          start,
		DeleteOriginals:      deleteOriginals,
		JPEGQuality:          quality,
	}, nil
}
