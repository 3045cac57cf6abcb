package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError represents a non-2xx response from a vendor API.
type APIError struct {
	StatusCode int    `json:"status_code"    yaml:"status_code"`
	Code       string `json:"code,omitempty" yaml:"code,omitempty"`
	Type       string `json:"type,omitempty" yaml:"type,omitempty"`
	Message    string `json:"message"        yaml:"message"`
	Body       []byte `json:"-"              yaml:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	message := e.Message
	if message == "" {
		message = http.StatusText(e.StatusCode)
	}

	if e.Code != "" {
		return fmt.Sprintf("%s (status: %d, code: %s)", message, e.StatusCode, e.Code)
	}

	return fmt.Sprintf("%s (status: %d)", message, e.StatusCode)
}

// ErrorDecoder turns a vendor error body into an error. Implementations
// should return an *APIError so the Is* helpers keep working.
type ErrorDecoder func(statusCode int, body []byte) error

// DefaultErrorDecoder keeps the raw body as the message.
func DefaultErrorDecoder(statusCode int, body []byte) error {
	return &APIError{
		StatusCode: statusCode,
		Message:    string(body),
		Body:       body,
	}
}

// Static errors for err113 compliance.
var (
	ErrConfigRequired    = errors.New("config is required")
	ErrBaseURLRequired   = errors.New("base URL is required")
	ErrInvalidRequest    = errors.New("invalid request")
	ErrStalledPagination = errors.New("pagination stalled: cannot advance cursor")
	ErrNilPage           = errors.New("page fetcher returned no page")
	ErrCacheMiss         = errors.New("key not found")
	ErrCacheExpired      = errors.New("entry expired")
	ErrCacheDisabled     = errors.New("cache disabled")
	ErrCircuitOpen       = errors.New("circuit breaker is open")
)

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}

	return 0
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsUnauthorized checks if the error is an unauthorized error.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// IsForbidden checks if the error is a forbidden error.
func IsForbidden(err error) bool {
	return StatusCode(err) == http.StatusForbidden
}

// IsConflict checks if the error is a conflict error.
func IsConflict(err error) bool {
	return StatusCode(err) == http.StatusConflict
}
