package source

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"

	"productpage/internal/model"
)

// objectGetter is the subset of the S3 client used by s3Source.
type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// s3Source implements Source for product snapshots stored in S3.
type s3Source struct {
	client objectGetter
	bucket string
	prefix string
	logger zerolog.Logger
}

// NewS3Source creates a source reading <prefix><id>.json from bucket.
func NewS3Source(ctx context.Context, bucket, region, prefix string, logger zerolog.Logger) (Source, error) {
	logger = logger.With().Str("component", "s3-source").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Str("prefix", prefix).
		Msg("S3 source initialised")

	return newS3Source(s3.NewFromConfig(cfg), bucket, prefix, logger), nil
}

func newS3Source(client objectGetter, bucket, prefix string, logger zerolog.Logger) *s3Source {
	return &s3Source{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}
}

// Fetch downloads and decodes the snapshot for id. A missing object yields
// no product.
func (s *s3Source) Fetch(ctx context.Context, id string) (*model.Product, error) {
	if !ValidID(id) {
		return nil, fmt.Errorf("invalid product id %q", id)
	}
	key := s.prefix + id + ".json"

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			s.logger.Debug().Str("bucket", s.bucket).Str("key", key).Msg("no snapshot for product")
			return nil, nil
		}
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", key).
			Msg("failed to get object from S3")
		return nil, fmt.Errorf("failed to get object from S3 (bucket=%s, key=%s): %w", s.bucket, key, err)
	}
	defer result.Body.Close()

	body, err := io.ReadAll(io.LimitReader(result.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read S3 object %s: %w", key, err)
	}

	return Decode(body)
}
