// Package cliutil opens the document store the CLI commands operate on.
package cliutil

import (
	"context"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/zenGate-Global/wedding-marketplace/platform/go/docstore"
	platformlogging "github.com/zenGate-Global/wedding-marketplace/platform/go/logging"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/setups"
)

type config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"warn"`
	Store    setups.StoreConfig
}

// Env holds what every store-backed command needs.
type Env struct {
	Logger *zap.Logger
	Store  docstore.Store
	Config setups.StoreConfig
}

// Close releases the store and flushes the logger.
func (e *Env) Close() {
	_ = e.Store.Close()
	_ = e.Logger.Sync()
}

// LoadConfig reads the same STORE_* / FIREBASE_* / DATABASE_* variables as the api server.
func LoadConfig() (setups.StoreConfig, string, error) {
	_ = godotenv.Load()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return setups.StoreConfig{}, "", fmt.Errorf("load config: %w", err)
	}
	return cfg.Store, cfg.LogLevel, nil
}

// Open loads configuration and connects the configured store. Backend overrides STORE_BACKEND when set.
// Logs go to stderr so command output on stdout stays machine readable.
func Open(ctx context.Context, backend string) (*Env, error) {
	storeCfg, level, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	if backend != "" {
		storeCfg.Backend = backend
	}

	logger, err := platformlogging.NewLogger(platformlogging.Config{
		Component: "marketplace-cli",
		Level:     level,
		Format:    platformlogging.FormatConsole,
		Output:    os.Stderr,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	store, err := setups.OpenStore(ctx, storeCfg, logger)
	if err != nil {
		return nil, err
	}
	return &Env{Logger: logger, Store: store, Config: storeCfg}, nil
}
