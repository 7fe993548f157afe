package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"

	"productpage/internal/middleware"
	"productpage/internal/model"
)

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := codec.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes a JSON error body carrying the request's correlation id.
func writeError(w http.ResponseWriter, r *http.Request, status int, derr *model.DomainError, logger zerolog.Logger) {
	correlationID := middleware.RequestIDFromContext(r.Context())
	logger.Warn().
		Str("request_id", correlationID).
		Str("error", derr.Code).
		Int("status", status).
		Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{
		Error:         derr.Code,
		Message:       derr.Message,
		CorrelationID: correlationID,
	})
}

var errMethodNotAllowed = model.NewDomainError(model.ErrCodeMethodNotAllowed, "method not allowed")
var errInternal = model.NewDomainError(model.ErrCodeInternalError, "internal server error")

// classify maps a service error to an HTTP status and its domain error.
func classify(err error) (int, *model.DomainError) {
	var derr *model.DomainError
	switch {
	case errors.Is(err, model.ErrInvalidProductID):
		return http.StatusBadRequest, model.ErrInvalidProductID
	case errors.Is(err, model.ErrProductNotFound):
		return http.StatusNotFound, model.ErrProductNotFound
	case errors.Is(err, model.ErrUpstreamUnavailable):
		return http.StatusBadGateway, model.ErrUpstreamUnavailable
	case errors.As(err, &derr):
		return http.StatusInternalServerError, derr
	default:
		return http.StatusInternalServerError, errInternal
	}
}

// clientGone reports whether err only says the caller stopped waiting.
func clientGone(r *http.Request, err error) bool {
	return errors.Is(err, context.Canceled) && r.Context().Err() != nil
}

// pathID extracts the id following prefix, rejecting nested paths.
func pathID(path, prefix string) string {
	id := strings.TrimPrefix(path, prefix)
	if id == path || strings.Contains(id, "/") {
		return ""
	}
	return id
}

func allowedMethod(r *http.Request) bool {
	return r.Method == http.MethodGet || r.Method == http.MethodHead
}
