package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"productpage/internal/model"
	"productpage/internal/normalize"
	"productpage/internal/source"
)

// productService implements ProductService.
type productService struct {
	fetcher ProductFetcher
	logger  zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(fetcher ProductFetcher, logger zerolog.Logger) ProductService {
	return &productService{
		fetcher: fetcher,
		logger:  logger.With().Str("service", "product").Logger(),
	}
}

// GetProduct retrieves a single product by ID. No data maps to
// ErrProductNotFound and any fetch failure to ErrUpstreamUnavailable.
func (s *productService) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	if !source.ValidID(id) {
		s.logger.Warn().Str("product_id", id).Msg("invalid product ID")
		return nil, model.ErrInvalidProductID
	}

	product, err := s.fetcher.Product(ctx, id)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to fetch product")
		return nil, fmt.Errorf("%w: %w", model.ErrUpstreamUnavailable, err)
	}

	if product == nil {
		s.logger.Info().Str("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// GetView retrieves a product and builds its display view.
func (s *productService) GetView(ctx context.Context, id string) (*model.ProductView, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	view := normalize.Build(product)
	s.logger.Debug().
		Str("product_id", id).
		Str("description", string(view.Description.Kind)).
		Bool("has_price", view.HasPrice()).
		Int("reviews", len(view.Reviews)).
		Msg("built product view")

	return view, nil
}
