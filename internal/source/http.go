package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"productpage/internal/model"
)

// maxBodySize caps the product payload read from the API.
const maxBodySize = 8 << 20

// httpSource implements Source against the catalogue REST API.
type httpSource struct {
	client  *http.Client
	baseURL string
	logger  zerolog.Logger
}

// NewHTTPSource creates a source issuing GET {baseURL}/product/{id}.
// A nil client means http.DefaultClient.
func NewHTTPSource(baseURL string, client *http.Client, logger zerolog.Logger) Source {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpSource{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.With().Str("component", "http-source").Logger(),
	}
}

// Fetch performs a single GET. There is no retry; a non-2xx status, a
// transport failure or an undecodable body is returned as an error.
func (s *httpSource) Fetch(ctx context.Context, id string) (*model.Product, error) {
	endpoint := s.baseURL + "/product/" + url.PathEscape(id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("product request failed")
		return nil, fmt.Errorf("failed to fetch product %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logger.Warn().
			Str("product_id", id).
			Int("status", resp.StatusCode).
			Msg("unexpected product API status")
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read product response: %w", err)
	}

	product, err := Decode(body)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("malformed product payload")
		return nil, err
	}

	s.logger.Debug().
		Str("product_id", id).
		Bool("has_data", product != nil).
		Msg("product fetched")

	return product, nil
}
