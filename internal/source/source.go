package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"

	jsoniter "github.com/json-iterator/go"

	"productpage/internal/model"
)

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrUpstreamStatus is matched by errors returned for non-2xx responses.
var ErrUpstreamStatus = errors.New("unexpected upstream status")

var validID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Source defines the interface for loading product records.
type Source interface {
	// Fetch returns the product with the given ID. A nil product with a nil
	// error means the source answered without data.
	Fetch(ctx context.Context, id string) (*model.Product, error)
}

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d", ErrUpstreamStatus, e.StatusCode)
}

// Is makes errors.Is(err, ErrUpstreamStatus) hold for any StatusError.
func (e *StatusError) Is(target error) bool {
	return target == ErrUpstreamStatus
}

// ValidID reports whether id is safe to use in URLs, file names and keys.
func ValidID(id string) bool {
	return validID.MatchString(id)
}

// Decode parses a product payload. The body is either the product itself or
// an envelope {"data": <product>}; a missing or null "data" means the body is
// the product. A JSON null body yields no product.
func Decode(body []byte) (*model.Product, error) {
	trimmed := bytes.TrimSpace(body)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var envelope map[string]jsoniter.RawMessage
	if err := codec.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode product envelope: %w", err)
	}

	payload := trimmed
	if data, ok := envelope["data"]; ok && !bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		payload = data
	}

	var product model.Product
	if err := codec.Unmarshal(payload, &product); err != nil {
		return nil, fmt.Errorf("failed to decode product: %w", err)
	}

	return &product, nil
}
