package openfec

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultBaseURL is the public OpenFEC API endpoint.
	DefaultBaseURL = "https://api.open.fec.gov/v1"

	// DefaultPerPage is the API maximum page size; using it reduces the
	// request count for full scans.
	DefaultPerPage = 100

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	defaultUserAgent     = "fecfetch/1.0"
	defaultRetryAttempts = 5
	defaultRetryBackoff  = 1.5
)

// Client wraps the OpenFEC API. All calls are synchronous and sequential;
// the only shared state is the committee→candidate link cache, which lives
// for the lifetime of the client.
type Client struct {
	baseURL       string
	apiKey        string
	userAgent     string
	retryAttempts int
	retryBackoff  float64
	httpClient    *http.Client
	logger        zerolog.Logger

	linksMu   sync.Mutex
	links     map[string][]CommitteeCandidateLink
	linkGroup singleflight.Group

	// Injectable for tests.
	sleep     func(time.Duration)
	randFloat func() float64
}

// NewClient creates a new OpenFEC client. The API key is required; the
// public DEMO_KEY works but is heavily rate limited.
func NewClient(apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	options := clientOptions{
		baseURL:       DefaultBaseURL,
		timeout:       DefaultTimeout,
		retryAttempts: defaultRetryAttempts,
		retryBackoff:  defaultRetryBackoff,
		userAgent:     defaultUserAgent,
	}
	for _, opt := range opts {
		opt(&options)
	}

	httpClient := options.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: options.timeout}
	}

	return &Client{
		baseURL:       strings.TrimRight(options.baseURL, "/"),
		apiKey:        apiKey,
		userAgent:     options.userAgent,
		retryAttempts: options.retryAttempts,
		retryBackoff:  options.retryBackoff,
		httpClient:    httpClient,
		logger:        logger,
		links:         make(map[string][]CommitteeCandidateLink),
		sleep:         time.Sleep,
		randFloat:     rand.Float64,
	}, nil
}

// request performs one logical GET against the API, retrying rate limits
// and transient failures within a shared attempt budget. Exhausting the
// budget returns the last failure.
func (c *Client) request(ctx context.Context, path string, params url.Values) (*Envelope, error) {
	reqURL := c.baseURL + "/" + strings.TrimLeft(path, "/")

	query := cloneValues(params)
	if query.Get("per_page") == "" {
		query.Set("per_page", strconv.Itoa(DefaultPerPage))
	}

	var lastErr error
	for attempt := 1; attempt <= c.retryAttempts; attempt++ {
		envelope, err := c.doRequest(ctx, reqURL, query)
		if err == nil {
			return envelope, nil
		}
		lastErr = err

		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.IsRateLimited() {
			delay := c.rateLimitDelay(apiErr.RetryAfter, attempt)
			c.logger.Warn().
				Int("attempt", attempt).
				Dur("delay", delay).
				Str("path", path).
				Msg("Rate limited by OpenFEC, backing off")
			c.sleep(delay)
			continue
		}

		if attempt >= c.retryAttempts {
			break
		}
		delay := secondsToDuration(c.retryBackoff*float64(attempt) + c.randFloat()*0.2)
		c.logger.Debug().
			Err(err).
			Int("attempt", attempt).
			Dur("delay", delay).
			Str("path", path).
			Msg("Transient OpenFEC failure, retrying")
		c.sleep(delay)
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", c.retryAttempts, lastErr)
}

// doRequest performs a single HTTP GET and decodes the response envelope.
func (c *Client) doRequest(ctx context.Context, reqURL string, params url.Values) (*Envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    "rate limited",
			Body:       string(body),
			RetryAfter: resp.Header.Get("Retry-After"),
		}
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       string(body),
		}
	}

	var envelope Envelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &envelope, nil
}

// rateLimitDelay picks the sleep before retrying a 429. A numeric
// Retry-After header wins; an unparsable header falls back to plain
// backoff; no header gets backoff plus jitter.
func (c *Client) rateLimitDelay(retryAfter string, attempt int) time.Duration {
	if retryAfter != "" {
		if secs, err := strconv.ParseFloat(retryAfter, 64); err == nil {
			return secondsToDuration(secs)
		}
		return secondsToDuration(c.retryBackoff * float64(attempt))
	}
	return secondsToDuration(c.retryBackoff*float64(attempt) + c.randFloat()*0.5*float64(attempt))
}

func secondsToDuration(secs float64) time.Duration {
	return time.Duration(secs * float64(time.Second))
}

func cloneValues(params url.Values) url.Values {
	cloned := make(url.Values, len(params))
	for key, values := range params {
		cloned[key] = append([]string(nil), values...)
	}
	return cloned
}
