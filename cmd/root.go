// =============================================================================
// OpenHoldings - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every other command
// is attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (holdings)
//   ├── fetchCmd     (holdings fetch <provider> <ticker>...)
//   ├── parseCmd     (holdings parse <provider> <file>)
//   ├── providersCmd (holdings providers)
//   ├── fundsCmd     (holdings funds [ticker])
//   └── versionCmd   (holdings version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose, --output)
//   2. Loading .env and the configuration file
//   3. Setting up logging and wiring the providers
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/openholdings/internal/config"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// outputFormat overrides the configured output format when set.
var outputFormat string

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "holdings",
	Short: "OpenHoldings - Normalize ETF holdings from issuer websites",
	Long: `OpenHoldings downloads the holdings documents ETF issuers publish and
normalizes them into one canonical model of equities, bonds, futures and cash.

Supported issuers: ETFMG, iShares, Invesco, SPDR and VanEck.

Example Usage:
  holdings fetch etfmg IPAY                  # Download and normalize one fund
  holdings fetch ishares IVV IJH --output xml
  holdings parse spdr ./holdings-daily-us-en-spy.xlsx
  holdings funds IVV                         # Show the iShares download URL`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		return setup()
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main(). An interrupt
// cancels in-flight downloads.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		config.DefaultPath,
		"Path to the configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)

	rootCmd.PersistentFlags().StringVarP(
		&outputFormat,
		"output",
		"o",
		"",
		"Output format: xml or json (default from config, json)",
	)
}
