package source

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"productpage/internal/model"
)

// fileSource implements Source for product fixtures stored on disk.
type fileSource struct {
	dir    string
	logger zerolog.Logger
}

// NewFileSource creates a source reading <dir>/<id>.json, or the gzipped
// <dir>/<id>.json.gz when the plain file does not exist.
func NewFileSource(dir string, logger zerolog.Logger) Source {
	return &fileSource{
		dir:    dir,
		logger: logger.With().Str("component", "file-source").Logger(),
	}
}

// Fetch reads the fixture for id. A missing fixture yields no product.
func (s *fileSource) Fetch(ctx context.Context, id string) (*model.Product, error) {
	if !ValidID(id) {
		return nil, fmt.Errorf("invalid product id %q", id)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, err := s.read(id)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug().Str("product_id", id).Str("dir", s.dir).Msg("no fixture for product")
		return nil, nil
	}
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to read product fixture")
		return nil, err
	}

	return Decode(body)
}

func (s *fileSource) read(id string) ([]byte, error) {
	plain := filepath.Join(s.dir, id+".json")
	body, err := os.ReadFile(plain)
	if err == nil {
		return body, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", plain, err)
	}

	compressed := plain + ".gz"
	file, err := os.Open(compressed)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", compressed, err)
	}
	defer gzipReader.Close()

	body, err = io.ReadAll(io.LimitReader(gzipReader, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", compressed, err)
	}
	return body, nil
}
