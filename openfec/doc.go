// Package openfec provides a client for the OpenFEC campaign-finance API.
//
// OpenFEC is the Federal Election Commission's public REST API for
// filings, committees, candidates and itemized transactions. This package
// implements the transport (authenticated GETs with retry/backoff), a lazy
// paginator over the API's envelope format, typed accessors for each
// resource, and aggregation helpers that combine itemized records into
// committee-level and donor-level summaries.
//
// # Architecture
//
//   - Client: HTTP transport with rate-limit aware retries
//   - Paginator: lazy, forward-only iteration over paged results
//   - Accessors: one method per upstream resource, returning typed records
//   - Aggregators: multi-call summaries (donor totals, itemized payments)
//   - Cache: memoized committee→candidate link lookups
//
// # Usage
//
//	logger := zerolog.New(os.Stdout)
//	client, err := openfec.NewClient("your-api-key", logger,
//		openfec.WithTimeout(30*time.Second),
//		openfec.WithRetryAttempts(5),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	filings, err := client.LatestFilings(ctx, openfec.FilingOptions{PerPage: 10})
//
// Streaming accessors return iter.Seq2 sequences that fetch pages on
// demand. A sequence is forward-only and non-restartable; ranging over it
// a second time starts a fresh scan from page 1.
//
// # Error Handling
//
// Absence is not an error: single-row lookups return nil for unknown ids
// and list accessors return empty results. Transient upstream failures are
// retried with backoff and surface the last cause once the attempt budget
// is exhausted. Non-2xx responses are reported as *APIError with
// classification helpers (IsNotFound, IsRateLimited).
package openfec
