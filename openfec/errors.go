package openfec

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors returned by the OpenFEC client.
var (
	// ErrMissingAPIKey is returned when no API key is supplied.
	ErrMissingAPIKey = errors.New("missing OpenFEC API key")

	// ErrInvalidCycle is returned for cycles before 1976.
	ErrInvalidCycle = errors.New("cycle must be 1976 or later")

	// ErrMissingContributorFilter is returned when a donor activity query
	// has neither a contributor name nor an employer.
	ErrMissingContributorFilter = errors.New("contributor name or employer is required")

	// ErrMissingCommitteeFilter is returned when a committee-to-committee
	// query names neither a spender nor a recipient committee.
	ErrMissingCommitteeFilter = errors.New("spender or recipient committee id is required")
)

// APIError represents a non-2xx OpenFEC API response.
type APIError struct {
	StatusCode int
	Message    string
	Body       string
	RetryAfter string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("openfec API error: status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsRateLimited checks if the error indicates a rate-limited response
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}
