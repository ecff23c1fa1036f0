package accounts

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zenGate-Global/wedding-marketplace/apps/cli/cmd/cliutil"
	accountsservice "github.com/zenGate-Global/wedding-marketplace/domains/accounts/be/service"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/content"
)

// Command groups account administration helpers.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Account utilities (status changes mirrored onto role profiles)",
	}

	cmd.AddCommand(setStatusCommand())
	return cmd
}

func setStatusCommand() *cobra.Command {
	var backend string

	c := &cobra.Command{
		Use:   "set-status <auth-id> <active|inactive>",
		Short: "Set an account's status and mirror it onto the linked profile",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			env, err := cliutil.Open(ctx, backend)
			if err != nil {
				return err
			}
			defer env.Close()

			svc := accountsservice.New(env.Store, content.Options{Logger: env.Logger})
			account, err := svc.UpdateAuthStatus(ctx, args[0], args[1])
			if err != nil {
				return fmt.Errorf("update account status: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(account)
		},
	}

	c.Flags().StringVar(&backend, "store", "", "override STORE_BACKEND (firestore, postgres)")
	return c
}
