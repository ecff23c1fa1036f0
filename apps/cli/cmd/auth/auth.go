package auth

import "github.com/spf13/cobra"

// Command groups authentication-related helpers.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication utilities",
	}

	cmd.AddCommand(devTokenCommand())
	return cmd
}
