package openfec

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagedHandler serves a fixed dataset honoring page/per_page, attaching
// page counters when withCounters is set.
func pagedHandler(t *testing.T, total int, withCounters bool, pagesSeen *[]int) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
		require.Positive(t, page)
		require.Positive(t, perPage)
		if pagesSeen != nil {
			*pagesSeen = append(*pagesSeen, page)
		}

		start := (page - 1) * perPage
		end := min(start+perPage, total)
		var rows []map[string]any
		for i := start; i < end; i++ {
			rows = append(rows, map[string]any{"committee_id": fmt.Sprintf("C%03d", i)})
		}

		var pagination map[string]any
		if withCounters {
			pages := (total + perPage - 1) / perPage
			pagination = map[string]any{"page": page, "pages": pages, "per_page": perPage, "count": total}
		}
		writeEnvelope(w, rows, pagination)
	}
}

func collectRaw(t *testing.T, client *Client, path string, perPage int) []string {
	t.Helper()
	params := map[string][]string{"per_page": {strconv.Itoa(perPage)}}
	var ids []string
	for raw, err := range client.paginate(context.Background(), path, params) {
		require.NoError(t, err)
		var row struct {
			CommitteeID string `json:"committee_id"`
		}
		require.NoError(t, json.Unmarshal(raw, &row))
		ids = append(ids, row.CommitteeID)
	}
	return ids
}

func TestPaginateWithCounters(t *testing.T) {
	var pagesSeen []int
	server := httptest.NewServer(pagedHandler(t, 25, true, &pagesSeen))
	defer server.Close()

	client, _ := newTestClient(t, server.URL)
	ids := collectRaw(t, client, "efile/filings/", 10)

	assert.Len(t, ids, 25)
	assert.Equal(t, "C000", ids[0])
	assert.Equal(t, "C024", ids[24])
	// Terminates at page >= pages; page numbers never regress.
	assert.Equal(t, []int{1, 2, 3}, pagesSeen)
}

func TestPaginateShortPageFallback(t *testing.T) {
	var pagesSeen []int
	server := httptest.NewServer(pagedHandler(t, 15, false, &pagesSeen))
	defer server.Close()

	client, _ := newTestClient(t, server.URL)
	ids := collectRaw(t, client, "efile/filings/", 10)

	// Without counters a short page ends the walk.
	assert.Len(t, ids, 15)
	assert.Equal(t, []int{1, 2}, pagesSeen)
}

func TestPaginateExactMultipleWithoutCounters(t *testing.T) {
	var pagesSeen []int
	server := httptest.NewServer(pagedHandler(t, 20, false, &pagesSeen))
	defer server.Close()

	client, _ := newTestClient(t, server.URL)
	ids := collectRaw(t, client, "efile/filings/", 10)

	// Two full pages force a third, empty fetch before termination.
	assert.Len(t, ids, 20)
	assert.Equal(t, []int{1, 2, 3}, pagesSeen)
}

func TestPaginateYieldBound(t *testing.T) {
	var pagesSeen []int
	server := httptest.NewServer(pagedHandler(t, 42, true, &pagesSeen))
	defer server.Close()

	client, _ := newTestClient(t, server.URL)
	ids := collectRaw(t, client, "efile/filings/", 10)

	assert.LessOrEqual(t, len(ids), 10*len(pagesSeen))
}

func TestPaginateConsumerBreak(t *testing.T) {
	var pagesSeen []int
	server := httptest.NewServer(pagedHandler(t, 100, true, &pagesSeen))
	defer server.Close()

	client, _ := newTestClient(t, server.URL)
	params := map[string][]string{"per_page": {"10"}}
	count := 0
	for _, err := range client.paginate(context.Background(), "efile/filings/", params) {
		require.NoError(t, err)
		count++
		if count == 3 {
			break
		}
	}

	// Breaking mid-page stops fetching; the sequence is forward-only.
	assert.Equal(t, 3, count)
	assert.Equal(t, []int{1}, pagesSeen)
}

func TestPaginateSurfacesError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL, WithRetryAttempts(2))
	var lastErr error
	for _, err := range client.paginate(context.Background(), "efile/filings/", nil) {
		lastErr = err
	}
	require.Error(t, lastErr)
}
