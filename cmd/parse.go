// =============================================================================
// OpenHoldings - Parse Command
// =============================================================================
//
// This file defines the 'parse' command, which normalizes a holdings
// document that is already on disk. It runs the same pipeline as 'fetch'
// without the download.
//
// COMMAND USAGE:
//   holdings parse <provider> <file>
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/openholdings/internal/converter"
)

// parseCmd represents the 'parse' command.
var parseCmd = &cobra.Command{
	Use:   "parse <provider> <file>",
	Short: "Normalize a downloaded holdings document",
	Long: `The parse command reads a holdings document saved from a provider's
website and prints it as canonical holdings. The document must be in the
container format the provider publishes (CSV, XLSX or JSON).`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runParse(cmd, args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVar(
		&outFile,
		"out",
		"",
		"Write output to this file instead of stdout",
	)
}

func runParse(cmd *cobra.Command, providerName, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open holdings document: %w", err)
	}
	defer f.Close()

	res, err := current.converter.Parse(providerName, filepath.Base(path), f)
	if err != nil {
		return err
	}
	return writeResults(cmd, []converter.Result{*res})
}
