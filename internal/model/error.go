package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidProductID    = "INVALID_PRODUCT_ID"
	ErrCodeProductNotFound     = "PRODUCT_NOT_FOUND"
	ErrCodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	ErrCodeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrInvalidProductID    = NewDomainError(ErrCodeInvalidProductID, "Product ID must be 1 to 64 letters, digits, '-' or '_'")
	ErrProductNotFound     = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrUpstreamUnavailable = NewDomainError(ErrCodeUpstreamUnavailable, "Product catalogue is unavailable")
)
