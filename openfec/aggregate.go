package openfec

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"math"
	"net/url"
	"sort"
	"strconv"
)

const (
	defaultScanLimit = 5000
	defaultMaxPages  = 50
)

// DonorAggregateOptions narrows a donor aggregate rollup.
type DonorAggregateOptions struct {
	PerPage int    // default 100
	Limit   int    // aggregate rows accumulated per recipient committee; 0 = unlimited
	Cohort  Cohort // default CohortAuthorized
}

// DonorsToCandidateAggregates resolves a candidate's committee cohort and
// sums upstream disbursement aggregates per donor committee across it. A
// donor paying multiple recipient committees is summed into one row.
// Rows with a zero total or a missing donor id are skipped. Totals are
// rounded to cents and the result sorted descending by total.
func (c *Client) DonorsToCandidateAggregates(ctx context.Context, candidateID string, cycle int, opts DonorAggregateOptions) ([]DonorAggregate, error) {
	committees, err := c.CandidateCommittees(ctx, candidateID, cycle, opts.Cohort)
	if err != nil {
		return nil, err
	}

	var recipientIDs []string
	for _, committee := range committees {
		if committee.CommitteeID != "" {
			recipientIDs = append(recipientIDs, committee.CommitteeID)
		}
	}
	if len(recipientIDs) == 0 {
		return nil, nil
	}

	totals := make(map[string]*DonorAggregate)
	for _, recipientID := range recipientIDs {
		scanned := 0
		scanOpts := ScheduleBOptions{PerPage: opts.PerPage, Limit: -1}
		for agg, err := range c.ScheduleBByRecipient(ctx, recipientID, cycle, scanOpts) {
			if err != nil {
				return nil, err
			}
			if agg.CommitteeID == "" || agg.Total == 0 {
				continue
			}
			entry, ok := totals[agg.CommitteeID]
			if !ok {
				entry = &DonorAggregate{
					DonorCommitteeID:   agg.CommitteeID,
					DonorCommitteeName: agg.CommitteeName,
				}
				totals[agg.CommitteeID] = entry
			}
			entry.Total += agg.Total
			entry.Count += agg.Count
			scanned++
			if opts.Limit > 0 && scanned >= opts.Limit {
				break
			}
		}
	}

	aggregates := make([]DonorAggregate, 0, len(totals))
	for _, entry := range totals {
		entry.Total = roundCents(entry.Total)
		aggregates = append(aggregates, *entry)
	}
	sort.Slice(aggregates, func(i, j int) bool {
		return aggregates[i].Total > aggregates[j].Total
	})
	return aggregates, nil
}

// PaymentOptions controls an itemized donor→candidate payment scan.
//
// Limit bounds yielded rows, ScanLimit bounds scanned rows across all
// sub-scans, and MaxPages bounds pages fetched per sub-scan; the three are
// independent. Zero values pick the defaults (200, 5000, 50); negative
// values lift the bound.
type PaymentOptions struct {
	PerPage        int
	Limit          int
	ScanLimit      int
	MaxPages       int
	IncludeMemos   bool   // memo rows are excluded by default so totals reconcile with upstream aggregates
	KeepDuplicates bool   // disable sub_id/composite dedup
	Since          string // YYYY-MM-DD, server-side minimum date
	Until          string // YYYY-MM-DD, server-side maximum date
	MatchAggregate bool   // with an authorized cohort, filter by the candidate's canonical recipient id
	Cohort         Cohort // default CohortAuthorized
}

// CommitteePaymentsToCandidate streams itemized payments from a donor
// committee toward a candidate's committees, most recent first.
//
// Modes:
//   - candidateID empty: all payments to candidate-authorized committee
//     types (H/S/P) in the cycle, issued as three filtered sub-scans.
//   - candidateID set with MatchAggregate on the authorized cohort: one
//     sub-scan filtered by the candidate's canonical recipient id.
//   - candidateID set otherwise: one sub-scan per resolved cohort
//     committee, concatenated in cohort order.
//
// With dedup enabled (the default) a logical item is yielded once, keyed
// by sub_id when present, else by image number, amount, date and
// recipient id. Dedup keys derive only from row payloads, so they are
// stable across retries of the same request.
func (c *Client) CommitteePaymentsToCandidate(ctx context.Context, donorCommitteeID, candidateID string, cycle int, opts PaymentOptions) iter.Seq2[ScheduleBItem, error] {
	normalized, err := NormalizeCycle(cycle)
	if err != nil {
		return errSeq[ScheduleBItem](err)
	}

	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}

	base := url.Values{}
	base.Set("committee_id", donorCommitteeID)
	base.Set("two_year_transaction_period", strconv.Itoa(normalized))
	base.Set("sort", "-disbursement_date")
	if !opts.IncludeMemos {
		base.Set("memoed_subtotal", "false")
	}
	if opts.Since != "" {
		base.Set("min_date", opts.Since)
	}
	if opts.Until != "" {
		base.Set("max_date", opts.Until)
	}

	cohort := opts.Cohort
	if cohort == "" {
		cohort = CohortAuthorized
	}

	return func(yield func(ScheduleBItem, error) bool) {
		scan := &paymentScan{
			perPage:   perPage,
			limit:     effectiveLimit(opts.Limit, defaultStreamLimit),
			scanLimit: effectiveLimit(opts.ScanLimit, defaultScanLimit),
			maxPages:  effectiveLimit(opts.MaxPages, defaultMaxPages),
			dedupe:    !opts.KeepDuplicates,
			seen:      make(map[paymentKey]struct{}),
		}

		// No candidate: scan all payments to candidate-authorized
		// committee types, one recipient type at a time to keep result
		// sizes manageable.
		if candidateID == "" {
			for _, recipientType := range []string{"H", "S", "P"} {
				params := cloneValues(base)
				params.Set("recipient_committee_type", recipientType)
				if !scan.run(ctx, c, params, yield) {
					return
				}
			}
			return
		}

		if opts.MatchAggregate && cohort == CohortAuthorized {
			params := cloneValues(base)
			params.Set("recipient_id", candidateID)
			scan.run(ctx, c, params, yield)
			return
		}

		committees, err := c.CandidateCommittees(ctx, candidateID, cycle, cohort)
		if err != nil {
			yield(ScheduleBItem{}, err)
			return
		}
		for _, committee := range committees {
			if committee.CommitteeID == "" {
				continue
			}
			params := cloneValues(base)
			params.Set("recipient_committee_id", committee.CommitteeID)
			if !scan.run(ctx, c, params, yield) {
				return
			}
		}
	}
}

// paymentKey identifies one logical disbursement. sub_id wins when
// present; the composite fallback never merges rows with differing
// sub_ids because keys of the two kinds are distinct.
type paymentKey struct {
	hasSubID    bool
	subID       int64
	imageNumber string
	amount      float64
	date        string
	recipientID string
}

func dedupKey(item ScheduleBItem) paymentKey {
	if item.SubID != nil {
		return paymentKey{hasSubID: true, subID: int64(*item.SubID)}
	}
	return paymentKey{
		imageNumber: item.ImageNumber,
		amount:      item.DisbursementAmount,
		date:        item.DisbursementDate,
		recipientID: item.RecipientCommitteeID,
	}
}

// paymentScan carries yield/scan/dedup state shared by the sub-scans of
// one payment query.
type paymentScan struct {
	perPage   int
	limit     int // yielded rows, 0 = unlimited
	scanLimit int // scanned rows across sub-scans, 0 = unlimited
	maxPages  int // pages per sub-scan, 0 = unlimited
	dedupe    bool
	seen      map[paymentKey]struct{}
	yielded   int
	scanned   int
}

// run walks one filtered sub-scan. It returns false when the whole query
// must stop: a bound was hit, an error surfaced, or the consumer broke.
func (s *paymentScan) run(ctx context.Context, c *Client, params url.Values, yield func(ScheduleBItem, error) bool) bool {
	page := 1
	for {
		if s.maxPages > 0 && page > s.maxPages {
			return true
		}

		query := cloneValues(params)
		query.Set("page", strconv.Itoa(page))
		query.Set("per_page", strconv.Itoa(s.perPage))
		envelope, err := c.request(ctx, "schedules/schedule_b/", query)
		if err != nil {
			yield(ScheduleBItem{}, err)
			return false
		}
		if len(envelope.Results) == 0 {
			return true
		}

		for _, raw := range envelope.Results {
			s.scanned++
			if s.scanLimit > 0 && s.scanned > s.scanLimit {
				return false
			}
			var item ScheduleBItem
			if err := json.Unmarshal(raw, &item); err != nil {
				yield(ScheduleBItem{}, fmt.Errorf("failed to parse disbursement: %w", err))
				return false
			}
			if s.dedupe {
				key := dedupKey(item)
				if _, ok := s.seen[key]; ok {
					continue
				}
				s.seen[key] = struct{}{}
			}
			if !yield(item, nil) {
				return false
			}
			s.yielded++
			if s.limit > 0 && s.yielded >= s.limit {
				return false
			}
		}

		if p := envelope.Pagination; p != nil && p.Page != nil && p.Pages != nil {
			if *p.Page >= *p.Pages {
				return true
			}
			page = *p.Page + 1
			continue
		}
		if len(envelope.Results) < s.perPage {
			return true
		}
		page++
	}
}

// roundCents rounds a monetary amount to two decimal places.
func roundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
