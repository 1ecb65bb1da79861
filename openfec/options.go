package openfec

import (
	"net/http"
	"time"
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	baseURL       string
	timeout       time.Duration
	retryAttempts int
	retryBackoff  float64
	userAgent     string
	httpClient    *http.Client
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		if baseURL != "" {
			o.baseURL = baseURL
		}
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// WithRetryAttempts sets the total attempt budget for a single request.
func WithRetryAttempts(attempts int) Option {
	return func(o *clientOptions) {
		if attempts > 0 {
			o.retryAttempts = attempts
		}
	}
}

// WithRetryBackoff sets the backoff factor in seconds. The delay before
// attempt n is backoff*n plus jitter.
func WithRetryBackoff(backoff float64) Option {
	return func(o *clientOptions) {
		if backoff > 0 {
			o.retryBackoff = backoff
		}
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *clientOptions) {
		if httpClient != nil {
			o.httpClient = httpClient
		}
	}
}
