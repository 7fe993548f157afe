// Package query caches product fetches and collapses concurrent requests
// for the same product into one upstream call.
package query

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"productpage/internal/metrics"
	"productpage/internal/model"
	"productpage/internal/source"
)

// DefaultTTL is how long a fetched product stays fresh.
const DefaultTTL = 5 * time.Minute

// Key returns the cache key for a product id.
func Key(id string) string {
	return "product:" + id
}

// Client fetches products through a Store.
type Client struct {
	source  source.Source
	store   Store
	ttl     time.Duration
	group   singleflight.Group
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewClient creates a client. A nil store disables caching but keeps
// in-flight deduplication; a non-positive ttl means DefaultTTL.
func NewClient(src source.Source, store Store, ttl time.Duration, m *metrics.Metrics, logger zerolog.Logger) *Client {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Client{
		source:  src,
		store:   store,
		ttl:     ttl,
		metrics: m,
		logger:  logger.With().Str("component", "query").Logger(),
	}
}

// Product returns the product for id, from the store when fresh. A nil
// product with a nil error means the source had no data. Only successful,
// non-empty results are cached.
func (c *Client) Product(ctx context.Context, id string) (*model.Product, error) {
	key := Key(id)

	if c.store != nil {
		product, ok, err := c.store.Get(ctx, key)
		switch {
		case err != nil:
			c.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		case ok:
			c.metrics.CacheHit(true)
			return product, nil
		default:
			c.metrics.CacheHit(false)
		}
	}

	// The shared fetch must outlive any single caller that gives up.
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		return c.fetch(fetchCtx, id, key)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		product, _ := res.Val.(*model.Product)
		return product, nil
	}
}

func (c *Client) fetch(ctx context.Context, id, key string) (*model.Product, error) {
	start := time.Now()
	product, err := c.source.Fetch(ctx, id)
	elapsed := time.Since(start)

	switch {
	case err != nil:
		c.metrics.ObserveFetch(metrics.OutcomeError, elapsed)
		c.logger.Error().Err(err).Str("product_id", id).Dur("elapsed", elapsed).Msg("product fetch failed")
		return nil, err
	case product == nil:
		c.metrics.ObserveFetch(metrics.OutcomeNoData, elapsed)
		c.logger.Info().Str("product_id", id).Dur("elapsed", elapsed).Msg("product fetch returned no data")
		return nil, nil
	}

	c.metrics.ObserveFetch(metrics.OutcomeSuccess, elapsed)
	c.logger.Debug().Str("product_id", id).Dur("elapsed", elapsed).Msg("product fetched")

	if c.store != nil {
		if err := c.store.Set(ctx, key, product, c.ttl); err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return product, nil
}
