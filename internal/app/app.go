// Package app wires configuration into the product page components.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"productpage/internal/config"
	"productpage/internal/handler"
	"productpage/internal/metrics"
	"productpage/internal/query"
	"productpage/internal/router"
	"productpage/internal/service"
	"productpage/internal/source"
	"productpage/internal/view"
)

// App holds the wired HTTP handler and the resources to release on exit.
type App struct {
	Handler http.Handler
	Metrics *metrics.Metrics
	closers []func() error
}

// New builds every component described by cfg.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	m := metrics.New()

	src, err := NewSource(ctx, cfg, nil, logger)
	if err != nil {
		return nil, err
	}

	store, closeStore := NewStore(ctx, cfg.Cache, logger)
	client := query.NewClient(src, store, cfg.Cache.TTL(), m, logger)
	productService := service.NewProductService(client, logger)

	renderer, err := view.NewRenderer()
	if err != nil {
		closeStore()
		return nil, err
	}

	pageHandler := handler.NewPageHandler(productService, renderer, m, cfg.Product.DefaultID, cfg.Render.Stream, logger)
	productHandler := handler.NewProductHandler(productService, logger)

	return &App{
		Handler: router.New(pageHandler, productHandler, m.Handler(), logger),
		Metrics: m,
		closers: []func() error{closeStore},
	}, nil
}

// Close releases resources held by the app.
func (a *App) Close() error {
	var firstErr error
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// NewSource builds the configured product source. An S3 source falls back
// to the local fixtures, and to fixtures only when S3 cannot be initialised.
// A nil client means http.DefaultClient.
func NewSource(ctx context.Context, cfg *config.Config, client *http.Client, logger zerolog.Logger) (source.Source, error) {
	switch cfg.Product.Source {
	case config.SourceHTTP:
		logger.Info().Str("url", cfg.Product.APIURL).Msg("using HTTP product source")
		return source.NewHTTPSource(cfg.Product.APIURL, client, logger), nil

	case config.SourceFile:
		logger.Info().Str("dir", cfg.Product.FixtureDir).Msg("using local fixtures as product source")
		return source.NewFileSource(cfg.Product.FixtureDir, logger), nil

	case config.SourceS3:
		fileSource := source.NewFileSource(cfg.Product.FixtureDir, logger)
		s3Source, err := source.NewS3Source(ctx, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Prefix, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 source, falling back to local fixtures only")
			return fileSource, nil
		}
		return source.NewFallbackSource(s3Source, fileSource, logger), nil
	}

	return nil, fmt.Errorf("unknown product source: %s", cfg.Product.Source)
}

// NewStore builds the configured cache store and its close function. When
// redis is unreachable the in-process store is used instead.
func NewStore(ctx context.Context, cfg config.CacheConfig, logger zerolog.Logger) (query.Store, func() error) {
	noop := func() error { return nil }

	if cfg.Backend == config.CacheRedis {
		store, err := query.NewRedisStoreFromURL(ctx, cfg.RedisURL)
		if err == nil {
			logger.Info().Msg("using redis product cache")
			return store, store.Close
		}
		logger.Warn().
			Err(err).
			Msg("failed to connect to redis, falling back to in-memory cache")
	}

	logger.Info().Dur("ttl", cfg.TTL()).Msg("using in-memory product cache")
	return query.NewMemoryStore(), noop
}
