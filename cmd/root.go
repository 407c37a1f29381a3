// Package cmd implements the CLI commands for PageSimplify using Cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Persistent flag variables.
var (
	flagConfig  string
	flagState   string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "pagesimplify",
	Short: "PageSimplify rewrites web pages at a target CEFR reading level",
	Long: `PageSimplify selects the readable text fragments of a page, rewrites each one
at a CEFR level (A1-C2) through an OpenAI-compatible model, and writes the page
back with the simplified text in place of the original.

Usage:
  pagesimplify simplify <url|file> [flags]
  pagesimplify toggle <file> --show=false
  pagesimplify key set <key>
  pagesimplify serve <file>`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default ~/.pagesimplify/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagState, "state", "", "Settings and credential file (default ~/.pagesimplify/state.json)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
