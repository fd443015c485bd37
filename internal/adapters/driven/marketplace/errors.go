package marketplace

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/custodia-labs/estately-cli/internal/core/domain"
)

// RateLimitError represents a rate limit exceeded error with reset time.
type RateLimitError struct {
	ResetAt   time.Time
	Remaining int
	Limit     int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("marketplace: rate limit exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// Is matches domain.ErrRateLimited and domain.ErrNetwork.
func (e *RateLimitError) Is(target error) bool {
	return target == domain.ErrRateLimited || target == domain.ErrNetwork
}

// APIError represents a non-2xx response from the marketplace API.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("marketplace: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// Is matches domain.ErrNetwork for every API error, plus the sentinel
// matching the status code.
func (e *APIError) Is(target error) bool {
	switch target {
	case domain.ErrNetwork:
		return true
	case domain.ErrUnauthenticated:
		return e.StatusCode == http.StatusUnauthorized
	case domain.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	default:
		return false
	}
}

// IsNotFound checks if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	return errors.As(err, &rateLimitErr)
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized
	}
	return false
}

// IsServerError checks if the backend failed rather than the request.
func IsServerError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= http.StatusInternalServerError
	}
	return false
}
