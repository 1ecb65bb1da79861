package openfec

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient builds a client against a mock upstream with recorded
// sleeps and zeroed jitter so backoff delays are deterministic.
func newTestClient(t *testing.T, serverURL string, opts ...Option) (*Client, *[]time.Duration) {
	t.Helper()

	sleeps := &[]time.Duration{}
	opts = append([]Option{WithBaseURL(serverURL)}, opts...)
	client, err := NewClient("test-key", zerolog.Nop(), opts...)
	require.NoError(t, err)

	client.sleep = func(d time.Duration) { *sleeps = append(*sleeps, d) }
	client.randFloat = func() float64 { return 0 }
	return client, sleeps
}

func writeEnvelope(w http.ResponseWriter, rows []map[string]any, pagination map[string]any) {
	envelope := map[string]any{
		"status":  "200",
		"results": rows,
	}
	if pagination != nil {
		envelope["pagination"] = pagination
	}
	json.NewEncoder(w).Encode(envelope)
}

func TestNewClient(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("missing API key", func(t *testing.T) {
		_, err := NewClient("", logger)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingAPIKey)
	})

	t.Run("valid config", func(t *testing.T) {
		client, err := NewClient("test-key", logger)
		require.NoError(t, err)
		assert.Equal(t, DefaultBaseURL, client.baseURL)
		assert.Equal(t, defaultRetryAttempts, client.retryAttempts)
	})

	t.Run("options", func(t *testing.T) {
		client, err := NewClient("test-key", logger,
			WithBaseURL("http://localhost:8080/"),
			WithTimeout(5*time.Second),
			WithRetryAttempts(3),
			WithRetryBackoff(0.5),
		)
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8080", client.baseURL)
		assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
		assert.Equal(t, 3, client.retryAttempts)
		assert.Equal(t, 0.5, client.retryBackoff)
	})
}

func TestRequestSendsAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		writeEnvelope(w, nil, nil)
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL)
	envelope, err := client.request(context.Background(), "efile/filings/", nil)
	require.NoError(t, err)
	assert.Empty(t, envelope.Results)
}

func TestRequestRetryAfterHeader(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "2")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		writeEnvelope(w, []map[string]any{{"committee_id": "C001"}}, nil)
	}))
	defer server.Close()

	client, sleeps := newTestClient(t, server.URL)
	envelope, err := client.request(context.Background(), "efile/filings/", nil)
	require.NoError(t, err)
	assert.Len(t, envelope.Results, 1)
	assert.Equal(t, 2, calls)
	require.Len(t, *sleeps, 1)
	assert.Equal(t, 2*time.Second, (*sleeps)[0])
}

func TestRequestRateLimitBackoff(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		writeEnvelope(w, nil, nil)
	}))
	defer server.Close()

	client, sleeps := newTestClient(t, server.URL, WithRetryBackoff(1.5))
	_, err := client.request(context.Background(), "efile/filings/", nil)
	require.NoError(t, err)

	// No Retry-After header: backoff*attempt with jitter zeroed out.
	require.Len(t, *sleeps, 2)
	assert.Equal(t, secondsToDuration(1.5), (*sleeps)[0])
	assert.Equal(t, secondsToDuration(3.0), (*sleeps)[1])
}

func TestRequestTransientRetry(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		switch calls {
		case 1:
			w.WriteHeader(http.StatusInternalServerError)
		case 2:
			w.Write([]byte("not json"))
		default:
			writeEnvelope(w, []map[string]any{{"committee_id": "C001"}}, nil)
		}
	}))
	defer server.Close()

	client, sleeps := newTestClient(t, server.URL, WithRetryBackoff(1.0))
	envelope, err := client.request(context.Background(), "efile/filings/", nil)
	require.NoError(t, err)
	assert.Len(t, envelope.Results, 1)
	assert.Equal(t, 3, calls)
	require.Len(t, *sleeps, 2)
	assert.Equal(t, secondsToDuration(1.0), (*sleeps)[0])
	assert.Equal(t, secondsToDuration(2.0), (*sleeps)[1])
}

func TestRequestExhaustion(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL, WithRetryAttempts(3))
	_, err := client.request(context.Background(), "efile/filings/", nil)
	require.Error(t, err)
	assert.Equal(t, 3, calls)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}

func TestAPIErrorClassification(t *testing.T) {
	notFound := &APIError{StatusCode: http.StatusNotFound}
	assert.True(t, notFound.IsNotFound())
	assert.False(t, notFound.IsRateLimited())

	limited := &APIError{StatusCode: http.StatusTooManyRequests}
	assert.True(t, limited.IsRateLimited())
	assert.Contains(t, limited.Error(), "429")
}
