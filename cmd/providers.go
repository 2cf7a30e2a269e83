package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// providersCmd represents the 'providers' command.
var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the supported holdings providers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range current.registry.Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(providersCmd)
}
