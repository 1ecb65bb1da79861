package openfec

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// aggServer mocks the candidate committee resolution plus the
// by-recipient aggregate endpoint.
func aggServer(t *testing.T, aggregates map[string][]map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/candidate/H0CA00001/committees/":
			writeEnvelope(w, []map[string]any{
				{"committee_id": "C101", "designation": "P"},
				{"committee_id": "C102", "designation": "A"},
				{"committee_id": "C103", "designation": "L"}, // outside the authorized cohort
			}, nil)
		case "/schedules/schedule_b/by_recipient_id/":
			recipient := r.URL.Query().Get("recipient_id")
			assert.Equal(t, "2024", r.URL.Query().Get("cycle"))
			writeEnvelope(w, aggregates[recipient], nil)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
}

func TestDonorsToCandidateAggregates(t *testing.T) {
	server := aggServer(t, map[string][]map[string]any{
		"C101": {
			{"committee_id": "C900", "committee_name": "BIG PAC", "total": 100.0, "count": 1},
			{"committee_id": "C901", "committee_name": "SMALL PAC", "total": 50.006, "count": 2},
			{"committee_id": "", "total": 999.0, "count": 1},   // missing donor id dropped
			{"committee_id": "C902", "total": 0.0, "count": 3}, // zero total dropped
		},
		"C102": {
			{"committee_id": "C900", "committee_name": "BIG PAC", "total": 100.0, "count": 1},
		},
	})
	defer server.Close()

	client, _ := newTestClient(t, server.URL)
	aggregates, err := client.DonorsToCandidateAggregates(context.Background(), "H0CA00001", 2024, DonorAggregateOptions{})
	require.NoError(t, err)

	// One donor funded both recipient committees: summed into one row,
	// sorted descending by total, rounded to cents.
	require.Len(t, aggregates, 2)
	assert.Equal(t, "C900", aggregates[0].DonorCommitteeID)
	assert.Equal(t, 200.0, aggregates[0].Total)
	assert.Equal(t, 2, aggregates[0].Count)
	assert.Equal(t, "C901", aggregates[1].DonorCommitteeID)
	assert.Equal(t, 50.01, aggregates[1].Total)
}

func TestDonorsToCandidateAggregatesNoCohort(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, nil, nil)
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL)
	aggregates, err := client.DonorsToCandidateAggregates(context.Background(), "H0CA00001", 2024, DonorAggregateOptions{})
	require.NoError(t, err)
	assert.Empty(t, aggregates)
}

// paymentServer mocks cohort resolution plus the schedule_b itemized
// endpoint, serving rowsFor(recipient filter value) and recording queries.
func paymentServer(t *testing.T, rowsFor func(q map[string]string) []map[string]any, queries *[]map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/candidate/H0CA00001/committees/":
			writeEnvelope(w, []map[string]any{
				{"committee_id": "C101", "designation": "P"},
				{"committee_id": "C102", "designation": "A"},
			}, nil)
		case "/schedules/schedule_b/":
			q := map[string]string{}
			for key := range r.URL.Query() {
				q[key] = r.URL.Query().Get(key)
			}
			if queries != nil {
				*queries = append(*queries, q)
			}
			writeEnvelope(w, rowsFor(q), nil)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
}

func collectPayments(t *testing.T, client *Client, donor, candidate string, opts PaymentOptions) []ScheduleBItem {
	t.Helper()
	var items []ScheduleBItem
	for item, err := range client.CommitteePaymentsToCandidate(context.Background(), donor, candidate, 2024, opts) {
		require.NoError(t, err)
		items = append(items, item)
	}
	return items
}

func TestPaymentsDedupAcrossSubScans(t *testing.T) {
	// Both cohort committees report the same logical disbursement.
	shared := map[string]any{
		"sub_id":              4070820221234,
		"image_number":        "20250921",
		"disbursement_amount": 500.0,
		"disbursement_date":   "2025-09-01",
	}
	server := paymentServer(t, func(q map[string]string) []map[string]any {
		return []map[string]any{shared}
	}, nil)
	defer server.Close()

	client, _ := newTestClient(t, server.URL)

	items := collectPayments(t, client, "C900", "H0CA00001", PaymentOptions{})
	assert.Len(t, items, 1, "matching sub_id collapses to one row")

	items = collectPayments(t, client, "C900", "H0CA00001", PaymentOptions{KeepDuplicates: true})
	assert.Len(t, items, 2, "dedup disabled keeps both")
}

func TestPaymentsDistinctSubIDsNeverMerge(t *testing.T) {
	calls := 0
	server := paymentServer(t, func(q map[string]string) []map[string]any {
		calls++
		// Identical except sub_id.
		return []map[string]any{{
			"sub_id":              4070820220000 + calls,
			"image_number":        "20250921",
			"disbursement_amount": 500.0,
			"disbursement_date":   "2025-09-01",
		}}
	}, nil)
	defer server.Close()

	client, _ := newTestClient(t, server.URL)
	items := collectPayments(t, client, "C900", "H0CA00001", PaymentOptions{})
	assert.Len(t, items, 2)
}

func TestPaymentsCompositeFallbackKey(t *testing.T) {
	server := paymentServer(t, func(q map[string]string) []map[string]any {
		return []map[string]any{{
			"image_number":           "20250921",
			"disbursement_amount":    500.0,
			"disbursement_date":      "2025-09-01",
			"recipient_committee_id": q["recipient_committee_id"],
		}}
	}, nil)
	defer server.Close()

	client, _ := newTestClient(t, server.URL)
	items := collectPayments(t, client, "C900", "H0CA00001", PaymentOptions{})

	// No sub_id: the composite key includes the recipient id, so the two
	// sub-scans stay distinct rows.
	assert.Len(t, items, 2)
}

func TestPaymentsNoCandidateScansHSP(t *testing.T) {
	var queries []map[string]string
	server := paymentServer(t, func(q map[string]string) []map[string]any {
		return nil
	}, &queries)
	defer server.Close()

	client, _ := newTestClient(t, server.URL)
	items := collectPayments(t, client, "C900", "", PaymentOptions{})
	assert.Empty(t, items)

	require.Len(t, queries, 3)
	var types []string
	for _, q := range queries {
		types = append(types, q["recipient_committee_type"])
		assert.Equal(t, "C900", q["committee_id"])
		assert.Equal(t, "2024", q["two_year_transaction_period"])
		assert.Equal(t, "false", q["memoed_subtotal"])
	}
	assert.Equal(t, []string{"H", "S", "P"}, types)
}

func TestPaymentsMatchAggregate(t *testing.T) {
	var queries []map[string]string
	server := paymentServer(t, func(q map[string]string) []map[string]any {
		return nil
	}, &queries)
	defer server.Close()

	client, _ := newTestClient(t, server.URL)
	collectPayments(t, client, "C900", "H0CA00001", PaymentOptions{MatchAggregate: true})

	// Single sub-scan keyed by the candidate's canonical recipient id;
	// no cohort resolution round-trip.
	require.Len(t, queries, 1)
	assert.Equal(t, "H0CA00001", queries[0]["recipient_id"])
}

func TestPaymentsIncludeMemos(t *testing.T) {
	var queries []map[string]string
	server := paymentServer(t, func(q map[string]string) []map[string]any {
		return nil
	}, &queries)
	defer server.Close()

	client, _ := newTestClient(t, server.URL)
	collectPayments(t, client, "C900", "", PaymentOptions{IncludeMemos: true, Since: "2024-01-01", Until: "2024-06-30"})

	for _, q := range queries {
		_, hasMemoFilter := q["memoed_subtotal"]
		assert.False(t, hasMemoFilter)
		assert.Equal(t, "2024-01-01", q["min_date"])
		assert.Equal(t, "2024-06-30", q["max_date"])
	}
}

func TestPaymentsScanAndYieldBounds(t *testing.T) {
	row := func(i int) map[string]any {
		return map[string]any{
			"sub_id":              4070820220000 + i,
			"disbursement_amount": 10.0,
			"disbursement_date":   "2025-09-01",
		}
	}
	serial := 0
	server := paymentServer(t, func(q map[string]string) []map[string]any {
		perPage, _ := strconv.Atoi(q["per_page"])
		rows := make([]map[string]any, perPage)
		for i := range rows {
			serial++
			rows[i] = row(serial)
		}
		return rows
	}, nil)
	defer server.Close()

	client, _ := newTestClient(t, server.URL)

	t.Run("limit bounds yielded rows", func(t *testing.T) {
		serial = 0
		items := collectPayments(t, client, "C900", "H0CA00001", PaymentOptions{PerPage: 10, Limit: 7})
		assert.Len(t, items, 7)
	})

	t.Run("scan limit bounds scanned rows", func(t *testing.T) {
		serial = 0
		items := collectPayments(t, client, "C900", "H0CA00001", PaymentOptions{PerPage: 10, Limit: -1, ScanLimit: 30})
		assert.Len(t, items, 30)
	})

	t.Run("max pages bounds each sub-scan", func(t *testing.T) {
		serial = 0
		items := collectPayments(t, client, "C900", "H0CA00001", PaymentOptions{PerPage: 10, Limit: -1, ScanLimit: -1, MaxPages: 2})
		// Two cohort committees, two pages each.
		assert.Len(t, items, 40)
	})

	t.Run("invalid cycle surfaces immediately", func(t *testing.T) {
		for _, err := range client.CommitteePaymentsToCandidate(context.Background(), "C900", "", 1902, PaymentOptions{}) {
			assert.ErrorIs(t, err, ErrInvalidCycle)
			return
		}
		t.Fatal("expected an error from the sequence")
	})
}

func TestRoundCents(t *testing.T) {
	assert.Equal(t, 200.0, roundCents(200.004))
	assert.Equal(t, 50.01, roundCents(50.006))
	assert.Equal(t, -10.5, roundCents(-10.499))
}
