package crossref

import (
	"errors"
	"fmt"
)

// Common errors returned by the Crossref client.
var (
	// ErrNotFound indicates no acceptable match was found for the query.
	ErrNotFound = errors.New("not found in Crossref")

	// ErrRateLimited indicates the rate limit has been exceeded.
	ErrRateLimited = errors.New("Crossref rate limit exceeded")

	// ErrInvalidResponse indicates an unexpected API response.
	ErrInvalidResponse = errors.New("invalid response from Crossref")
)

// APIError represents an error response from the Crossref API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Crossref API error (status %d): %s", e.StatusCode, e.Message)
}

// IsNotFound returns true if the error indicates the query had no match.
// A resolution miss is non-fatal; the caller leaves the entry as-is.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}
	return false
}
