// =============================================================================
// OpenHoldings - Fetch Command
// =============================================================================
//
// This file defines the 'fetch' command, which downloads the holdings of one
// or more funds from an issuer and prints them in the canonical model.
//
// COMMAND USAGE:
//   holdings fetch <provider> <ticker>... [flags]
//
// FLAGS:
//   --out   : Write the rendered holdings to a file instead of stdout
//
// PROCESSING PIPELINE:
//   1. Sweep staged files left behind by interrupted runs
//   2. For each fund (concurrently):
//      a. Download the holdings document into the staging directory
//      b. Detect the layout and extract every record
//      c. Classify the records into holdings
//      d. Remove the staged document
//   3. Render all funds in the configured output format
//
// =============================================================================

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// staleAfter is the age at which a staged file counts as abandoned.
const staleAfter = 24 * time.Hour

// outFile is where rendered holdings go; empty means stdout.
var outFile string

// fetchCmd represents the 'fetch' command.
var fetchCmd = &cobra.Command{
	Use:   "fetch <provider> <ticker>...",
	Short: "Download and normalize fund holdings",
	Long: `The fetch command downloads the current holdings of each named fund from
the provider's website and prints them as canonical holdings.

Funds are fetched concurrently. A fund that fails does not stop the others;
its error is reported in the output and the command exits non-zero.

iShares fund tickers are resolved through the funds table
(ishares_funds_file in the configuration).`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFetch(cmd, args[0], args[1:])
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVar(
		&outFile,
		"out",
		"",
		"Write output to this file instead of stdout",
	)
}

func runFetch(cmd *cobra.Command, providerName string, tickers []string) error {
	a := current
	log := a.log.WithComponent("fetch")

	if _, err := a.registry.Lookup(providerName); err != nil {
		return err
	}

	if n, err := a.stager.Sweep(staleAfter); err != nil {
		log.WithError(err).Warn("Failed to sweep staging directory")
	} else if n > 0 {
		log.WithField("removed", n).Info("Removed abandoned staged files")
	}

	start := time.Now()
	results := a.converter.FetchAll(cmd.Context(), providerName, tickers)

	var failed int
	for _, res := range results {
		if res.Error != nil {
			failed++
		}
	}
	log.WithField("funds", len(results)).WithField("failed", failed).
		WithField("elapsed", time.Since(start).String()).Info("Fetch complete")

	if err := writeResults(cmd, results); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d funds failed", failed, len(results))
	}
	return nil
}
