package source

import (
	"context"

	"github.com/rs/zerolog"

	"productpage/internal/model"
)

// fallbackSource tries a primary source first, then a secondary one.
type fallbackSource struct {
	primary   Source
	secondary Source
	logger    zerolog.Logger
}

// NewFallbackSource creates a source that falls back to secondary when
// primary fails. A nil primary means only secondary is used.
func NewFallbackSource(primary, secondary Source, logger zerolog.Logger) Source {
	return &fallbackSource{
		primary:   primary,
		secondary: secondary,
		logger:    logger.With().Str("component", "fallback-source").Logger(),
	}
}

// Fetch returns the primary answer unless it is an error. "No data" from the
// primary is a valid answer and is not retried on the secondary.
func (s *fallbackSource) Fetch(ctx context.Context, id string) (*model.Product, error) {
	if s.primary != nil {
		product, err := s.primary.Fetch(ctx, id)
		if err == nil {
			return product, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}

		s.logger.Warn().
			Err(err).
			Str("product_id", id).
			Msg("primary source failed, falling back")
	}

	return s.secondary.Fetch(ctx, id)
}
