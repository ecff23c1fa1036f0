package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolConfig holds the Postgres knobs of the document store backend. Zero values keep pgx defaults.
type PoolConfig struct {
	ConnString string `env:"DATABASE_URL"`
	// Schema becomes the connection search_path so documents live where BootstrapDocumentSchema put them.
	Schema      string        `env:"DATABASE_SCHEMA"`
	MaxConns    int32         `env:"DATABASE_MAX_CONNS"`
	MinConns    int32         `env:"DATABASE_MIN_CONNS"`
	MaxLifetime time.Duration `env:"DATABASE_MAX_CONN_LIFETIME"`
	MaxIdleTime time.Duration `env:"DATABASE_MAX_CONN_IDLE_TIME"`
}

// NewPool opens a pool for the document store and pings it before returning.
func NewPool(ctx context.Context, cfg PoolConfig) (*pgxpool.Pool, error) {
	if cfg.ConnString == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	pc, err := pgxpool.ParseConfig(cfg.ConnString)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}
	cfg.apply(pc)

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

func (cfg PoolConfig) apply(pc *pgxpool.Config) {
	if cfg.Schema != "" {
		pc.ConnConfig.RuntimeParams["search_path"] = cfg.Schema
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		pc.MinConns = cfg.MinConns
	}
	if cfg.MaxLifetime > 0 {
		pc.MaxConnLifetime = cfg.MaxLifetime
	}
	if cfg.MaxIdleTime > 0 {
		pc.MaxConnIdleTime = cfg.MaxIdleTime
	}
}

// ClosePool is nil-safe.
func ClosePool(pool *pgxpool.Pool) {
	if pool != nil {
		pool.Close()
	}
}
