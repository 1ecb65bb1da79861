package openfec

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"net/url"
	"strconv"
)

// paginate walks a resource page by page and yields raw rows in upstream
// order. The sequence is lazy, forward-only and non-restartable: pages are
// fetched as the consumer advances, and ranging again starts over from the
// first page.
//
// Advance rule, in priority order: when the envelope reports both page and
// pages, stop at page >= pages, else move to page+1. Without counters a
// short page (or a non-positive page size) ends the walk. A short page
// caused by an upstream filtering quirk is indistinguishable from true
// end-of-data and terminates early; this mirrors upstream behavior.
func (c *Client) paginate(ctx context.Context, path string, params url.Values) iter.Seq2[json.RawMessage, error] {
	page := intParam(params, "page", 1)
	perPage := intParam(params, "per_page", DefaultPerPage)

	return func(yield func(json.RawMessage, error) bool) {
		for {
			query := cloneValues(params)
			query.Set("page", strconv.Itoa(page))
			query.Set("per_page", strconv.Itoa(perPage))

			envelope, err := c.request(ctx, path, query)
			if err != nil {
				yield(nil, err)
				return
			}

			for _, row := range envelope.Results {
				if !yield(row, nil) {
					return
				}
			}

			if p := envelope.Pagination; p != nil && p.Page != nil && p.Pages != nil {
				if *p.Page >= *p.Pages {
					return
				}
				page = *p.Page + 1
				continue
			}
			if len(envelope.Results) < perPage || perPage <= 0 {
				return
			}
			page++
		}
	}
}

// streamRows adapts a raw paginated scan into typed rows, stopping after
// limit yielded rows (0 means unlimited).
func streamRows[T any](ctx context.Context, c *Client, path string, params url.Values, limit int) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		yielded := 0
		for raw, err := range c.paginate(ctx, path, params) {
			if err != nil {
				yield(zero, err)
				return
			}
			var row T
			if err := json.Unmarshal(raw, &row); err != nil {
				yield(zero, fmt.Errorf("failed to parse row: %w", err))
				return
			}
			if !yield(row, nil) {
				return
			}
			yielded++
			if limit > 0 && yielded >= limit {
				return
			}
		}
	}
}

// errSeq returns a sequence that surfaces a single error.
func errSeq[T any](err error) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		yield(zero, err)
	}
}

func intParam(params url.Values, key string, fallback int) int {
	if raw := params.Get(key); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	}
	return fallback
}
