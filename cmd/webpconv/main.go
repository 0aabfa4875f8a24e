// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the webpconv CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the webpconv CLI. Invoked without a
// subcommand it runs the interactive prompt flow.
var rootCmd = &cobra.Command{
	Use:   "webpconv",
	Short: "Batch-convert WebP images to PNG or JPEG",
	Long: `webpconv converts every WebP image in a folder to PNG or JPEG,
optionally preserving transparency, renaming outputs with sequential
numbers, and deleting source files after a successful conversion.

Run with no arguments for an interactive prompt flow, or use the convert
subcommand for a flag-driven run.`,
	Args: cobra.NoArgs,
	RunE: runPrompt,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./webpconv.yaml or ~/.config/webpconv/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("webpconv")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "webpconv"))
		}
	}

	viper.SetEnvPrefix("WEBPCONV")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
