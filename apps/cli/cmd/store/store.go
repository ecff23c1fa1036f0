package store

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zenGate-Global/wedding-marketplace/apps/cli/cmd/cliutil"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/persistence"
)

// Command groups document store helpers.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Document store utilities",
	}

	cmd.AddCommand(bootstrapCommand())
	return cmd
}

func bootstrapCommand() *cobra.Command {
	var (
		databaseURL string
		schema      string
	)

	c := &cobra.Command{
		Use:   "bootstrap",
		Short: "Create the Postgres documents table (idempotent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, _, err := cliutil.LoadConfig()
			if err != nil {
				return err
			}
			if databaseURL == "" {
				databaseURL = cfg.Postgres.ConnString
			}
			if schema == "" {
				schema = cfg.Postgres.Schema
			}
			if databaseURL == "" {
				return fmt.Errorf("--database-url or DATABASE_URL is required")
			}

			pool, err := persistence.NewPool(ctx, persistence.PoolConfig{ConnString: databaseURL, Schema: schema})
			if err != nil {
				return fmt.Errorf("init pool: %w", err)
			}
			defer persistence.ClosePool(pool)

			if err := persistence.BootstrapDocumentSchema(ctx, pool, schema); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Document store ready (schema %q).\n", schema)
			return nil
		},
	}

	c.Flags().StringVar(&databaseURL, "database-url", "", "PostgreSQL connection string (defaults to DATABASE_URL)")
	c.Flags().StringVar(&schema, "schema", "", "schema to create and use (defaults to DATABASE_SCHEMA)")
	return c
}
