// Package setups turns process configuration into the document store the binaries run against.
package setups

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/zenGate-Global/wedding-marketplace/platform/go/docstore"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/gcp"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/persistence"
)

// Supported STORE_BACKEND values.
const (
	BackendFirestore = "firestore"
	BackendPostgres  = "postgres"
	BackendMemory    = "memory"
)

// StoreConfig is shared by the api server and the cli.
type StoreConfig struct {
	Backend     string `env:"STORE_BACKEND" envDefault:"firestore"`
	ProjectID   string `env:"FIREBASE_PROJECT_ID"`
	Credentials string `env:"FIREBASE_CONFIG"`
	Postgres    persistence.PoolConfig
	Bootstrap   bool `env:"STORE_BOOTSTRAP" envDefault:"false"`
}

// Firebase returns the Firebase part of the configuration.
func (c StoreConfig) Firebase() gcp.FirebaseConfig {
	return gcp.FirebaseConfig{ProjectID: c.ProjectID, CredentialsFile: c.Credentials}
}

// OpenStore connects the configured backend. The caller owns Close.
func OpenStore(ctx context.Context, cfg StoreConfig, logger *zap.Logger) (docstore.Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case BackendFirestore:
		_, client, err := gcp.InitFirestore(ctx, cfg.Firebase())
		if err != nil {
			return nil, err
		}
		logger.Info("document store ready", zap.String("backend", BackendFirestore), zap.String("project", cfg.ProjectID))
		return docstore.NewFirestoreStore(client), nil

	case BackendPostgres:
		if cfg.Postgres.ConnString == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the %s backend", BackendPostgres)
		}
		pool, err := persistence.NewPool(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		if cfg.Bootstrap {
			if err := persistence.BootstrapDocumentSchema(ctx, pool, cfg.Postgres.Schema); err != nil {
				persistence.ClosePool(pool)
				return nil, err
			}
			logger.Info("document schema bootstrapped", zap.String("schema", cfg.Postgres.Schema))
		}
		logger.Info("document store ready", zap.String("backend", BackendPostgres))
		return persistence.NewDocumentStore(pool), nil

	case BackendMemory:
		logger.Warn("using in-memory document store; data is lost on exit")
		return docstore.NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("unsupported STORE_BACKEND %q (use firestore, postgres or memory)", cfg.Backend)
	}
}
