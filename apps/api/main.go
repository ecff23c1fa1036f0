package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/zenGate-Global/wedding-marketplace/contracts"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/cache"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/content"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/docstore"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/events"
	platformlogging "github.com/zenGate-Global/wedding-marketplace/platform/go/logging"
	platformmiddleware "github.com/zenGate-Global/wedding-marketplace/platform/go/middleware"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/setups"
)

type config struct {
	Port            string        `env:"PORT" envDefault:"3000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"json"`
	AuthProvider    string        `env:"AUTH_PROVIDER" envDefault:"firebase"` // firebase | dev
	CORSOrigins     []string      `env:"CORS_ORIGINS" envSeparator:","`
	Store           setups.StoreConfig

	CacheWarm           bool          `env:"CACHE_WARM" envDefault:"true"`
	CacheLiveUpdates    bool          `env:"CACHE_LIVE_UPDATES" envDefault:"false"`
	EntitlementCacheTTL time.Duration `env:"ENTITLEMENT_CACHE_TTL" envDefault:"1m"`

	EnquiryRatePerSecond float64 `env:"ENQUIRY_RATE_PER_SECOND" envDefault:"0.2"`
	EnquiryRateBurst     int     `env:"ENQUIRY_RATE_BURST" envDefault:"5"`

	AMQPURL      string `env:"AMQP_URL"`
	AMQPExchange string `env:"AMQP_EXCHANGE" envDefault:"marketplace.events"`
}

func main() {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := platformlogging.NewLogger(platformlogging.Config{
		Component: "api-server",
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
	})
	if err != nil {
		log.Fatalf("init zap logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("api server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	store, err := setups.OpenStore(ctx, cfg.Store, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("close document store", zap.Error(err))
		}
	}()

	authMiddleware, err := buildAuthMiddleware(ctx, cfg, logger)
	if err != nil {
		return err
	}

	spec, err := contracts.Content(ctx)
	if err != nil {
		return err
	}

	publisher, err := buildPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		_ = publisher.Close()
	}()

	entitlements, err := cache.New[bool](cache.DefaultConfig(cfg.EntitlementCacheTTL))
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv := newServer(serverDeps{
		Store:          store,
		Logger:         logger,
		Registry:       registry,
		Auth:           authMiddleware,
		Spec:           spec,
		Publisher:      publisher,
		Entitlements:   entitlements,
		EnquiryLimiter: platformmiddleware.NewRateLimiter(cfg.EnquiryRatePerSecond, cfg.EnquiryRateBurst),
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
		ProjectID:      cfg.Store.ProjectID,
	})

	if cfg.CacheWarm {
		if err := warmCaches(ctx, srv.refreshers, logger); err != nil {
			// A cold cache is filled by the first request; do not refuse to start.
			logger.Warn("cache warm-up incomplete", zap.Error(err))
		}
	}

	watchCtx, cancelWatch := context.WithCancel(ctx)
	defer cancelWatch()
	if cfg.CacheLiveUpdates {
		startWatchers(watchCtx, srv.refreshers, logger)
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting api server", zap.String("port", cfg.Port), zap.String("store", cfg.Store.Backend))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	return nil
}

func buildPublisher(cfg config, logger *zap.Logger) (events.Publisher, error) {
	if cfg.AMQPURL == "" {
		logger.Info("AMQP_URL not set; enquiry events are not published")
		return events.Noop{}, nil
	}
	publisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		return nil, err
	}
	logger.Info("publishing enquiry events", zap.String("exchange", cfg.AMQPExchange))
	return publisher, nil
}

// warmCaches loads every kind concurrently.
func warmCaches(ctx context.Context, refreshers []content.Refresher, logger *zap.Logger) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, r := range refreshers {
		g.Go(func() error {
			if err := r.Refresh(gctx); err != nil {
				return err
			}
			logger.Debug("cache warmed", zap.String("kind", r.Name()))
			return nil
		})
	}
	return g.Wait()
}

// startWatchers keeps each cache current from store change notifications until ctx is done.
func startWatchers(ctx context.Context, refreshers []content.Refresher, logger *zap.Logger) {
	for _, r := range refreshers {
		go func() {
			err := r.Watch(ctx)
			switch {
			case errors.Is(err, docstore.ErrWatchUnsupported):
				logger.Warn("live cache updates unsupported by store", zap.String("kind", r.Name()))
			case err != nil && ctx.Err() == nil:
				logger.Error("cache watch stopped", zap.String("kind", r.Name()), zap.Error(err))
			}
		}()
	}
}
