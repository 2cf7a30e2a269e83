// =============================================================================
// OpenHoldings - Funds Command
// =============================================================================
//
// This file defines the 'funds' command, which inspects the iShares funds
// table that maps fund tickers to detail page URLs.
//
// COMMAND USAGE:
//   holdings funds            # list every fund in the table
//   holdings funds <ticker>   # show the holdings download URL of one fund
//
// =============================================================================

package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/openholdings/internal/provider/ishares"
)

// fundsCmd represents the 'funds' command.
var fundsCmd = &cobra.Command{
	Use:   "funds [ticker]",
	Short: "Inspect the iShares funds table",
	Long: `The funds command reads the iShares funds table (ishares_funds_file in
the configuration). Without arguments it lists every fund and its detail page.
With a ticker it prints the URL the fetch command would download.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return runFundURL(cmd, args[0])
		}
		return runFundList(cmd)
	},
}

func init() {
	rootCmd.AddCommand(fundsCmd)
}

func runFundList(cmd *cobra.Command) error {
	table, err := current.funds.Table()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TICKER\tURL")
	for _, ticker := range table.Tickers() {
		url, _ := table.Lookup(ticker)
		fmt.Fprintf(w, "%s\t%s\n", ticker, url)
	}
	return w.Flush()
}

func runFundURL(cmd *cobra.Command, ticker string) error {
	p, err := current.registry.Lookup(ishares.Name)
	if err != nil {
		return err
	}
	url, err := p.(*ishares.Provider).HoldingsURL(ticker)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), url)
	return nil
}
