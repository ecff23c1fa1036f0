package root

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/zenGate-Global/wedding-marketplace/platform/go/requesttrace"
)

var rootCmd = &cobra.Command{
	Use:           "marketplace",
	Short:         "Wedding marketplace admin CLI",
	Long:          "Operator utilities for the wedding marketplace: dev tokens, account status, content caches and store bootstrap.",
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the CLI. Writes made by subcommands are attributed to "system:cli".
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(requesttrace.IntoContext(ctx, requesttrace.System("cli")))
}

// Root returns the mutable root command for wiring from subpackages.
func Root() *cobra.Command {
	return rootCmd
}
