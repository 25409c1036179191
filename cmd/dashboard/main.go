package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the dashboard CLI. Running it without a subcommand
// starts the server.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "dashboard",
		Short:        "Marketing dashboard API for Meta Ads, Google Analytics and Google Ads",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	rootCmd.AddCommand(newServeCmd(), newStatusCmd())

	return rootCmd
}
