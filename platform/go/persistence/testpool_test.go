package persistence

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// mustTestPool connects to TEST_DATABASE_URL when set and otherwise starts a throwaway Postgres
// container. The documents DDL is applied twice to prove it is idempotent.
func mustTestPool(t *testing.T) (*pgxpool.Pool, context.Context) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	t.Cleanup(cancel)

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		pgContainer, err := postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("marketplace"),
			postgres.WithUsername("postgres"),
			postgres.WithPassword("postgres"),
			testcontainers.WithWaitStrategy(wait.ForListeningPort("5432/tcp").WithStartupTimeout(2*time.Minute)),
		)
		require.NoError(t, err)
		t.Cleanup(func() {
			_ = pgContainer.Terminate(context.Background())
		})

		connString, err = pgContainer.ConnectionString(ctx, "sslmode=disable")
		require.NoError(t, err)
	}

	pool, err := NewPool(ctx, PoolConfig{ConnString: connString, MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(func() { ClosePool(pool) })

	require.NoError(t, BootstrapDocumentSchema(ctx, pool, ""))
	require.NoError(t, BootstrapDocumentSchema(ctx, pool, ""))

	return pool, ctx
}
