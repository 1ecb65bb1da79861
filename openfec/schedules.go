package openfec

import (
	"context"
	"iter"
	"net/url"
	"strconv"
)

// defaultStreamLimit bounds streaming accessors when the caller leaves
// the limit unset, matching the upstream-friendly default of 200 rows.
const defaultStreamLimit = 200

// effectiveLimit maps option values to an internal limit: zero picks the
// fallback, negative means unlimited.
func effectiveLimit(limit, fallback int) int {
	switch {
	case limit == 0:
		return fallback
	case limit < 0:
		return 0
	default:
		return limit
	}
}

// ScheduleAOptions narrows an itemized receipt scan.
type ScheduleAOptions struct {
	IsIndividual        *bool
	Cycle               int
	Since               string // minimum receipt date, YYYY-MM-DD
	ContributorName     string
	ContributorEmployer string
	ContributorState    string
	PerPage             int // default 50
	Limit               int // yielded rows; 0 = 200, negative = unlimited
}

func (o ScheduleAOptions) params() url.Values {
	params := url.Values{}
	params.Set("sort", "-contribution_receipt_date")
	perPage := o.PerPage
	if perPage <= 0 {
		perPage = 50
	}
	params.Set("per_page", strconv.Itoa(perPage))
	if o.IsIndividual != nil {
		params.Set("is_individual", strconv.FormatBool(*o.IsIndividual))
	}
	if o.Since != "" {
		params.Set("min_date", o.Since)
	}
	return params
}

// ContributionsToCommittee streams itemized receipts (Schedule A) for one
// recipient committee, most recent first.
func (c *Client) ContributionsToCommittee(ctx context.Context, committeeID string, opts ScheduleAOptions) iter.Seq2[ScheduleAItem, error] {
	params := opts.params()
	params.Set("committee_id", committeeID)
	if opts.Cycle != 0 {
		cycle, err := NormalizeCycle(opts.Cycle)
		if err != nil {
			return errSeq[ScheduleAItem](err)
		}
		params.Set("two_year_transaction_period", strconv.Itoa(cycle))
	}
	return streamRows[ScheduleAItem](ctx, c, "schedules/schedule_a/", params, effectiveLimit(opts.Limit, defaultStreamLimit))
}

// DonorActivity streams itemized receipts matching a contributor name or
// employer across all recipient committees. At least one of the two
// selectors is required.
func (c *Client) DonorActivity(ctx context.Context, opts ScheduleAOptions) iter.Seq2[ScheduleAItem, error] {
	if opts.ContributorName == "" && opts.ContributorEmployer == "" {
		return errSeq[ScheduleAItem](ErrMissingContributorFilter)
	}
	params := opts.params()
	if opts.ContributorName != "" {
		params.Set("contributor_name", opts.ContributorName)
	}
	if opts.ContributorEmployer != "" {
		params.Set("contributor_employer", opts.ContributorEmployer)
	}
	if opts.ContributorState != "" {
		params.Set("contributor_state", opts.ContributorState)
	}
	if opts.Cycle != 0 {
		cycle, err := NormalizeCycle(opts.Cycle)
		if err != nil {
			return errSeq[ScheduleAItem](err)
		}
		params.Set("two_year_transaction_period", strconv.Itoa(cycle))
	}
	return streamRows[ScheduleAItem](ctx, c, "schedules/schedule_a/", params, effectiveLimit(opts.Limit, defaultStreamLimit))
}

// ScheduleBOptions narrows an itemized disbursement scan.
type ScheduleBOptions struct {
	CommitteeID          string // spender (donor committee)
	RecipientCommitteeID string
	Cycle                int
	PerPage              int // default 100
	Limit                int // yielded rows; 0 = 200, negative = unlimited
}

// CommitteeToCommittee streams itemized disbursements (Schedule B)
// between committees, most recent first. A spender or a recipient
// committee id is required.
func (c *Client) CommitteeToCommittee(ctx context.Context, opts ScheduleBOptions) iter.Seq2[ScheduleBItem, error] {
	if opts.CommitteeID == "" && opts.RecipientCommitteeID == "" {
		return errSeq[ScheduleBItem](ErrMissingCommitteeFilter)
	}

	params := url.Values{}
	params.Set("sort", "-disbursement_date")
	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	params.Set("per_page", strconv.Itoa(perPage))
	if opts.CommitteeID != "" {
		params.Set("committee_id", opts.CommitteeID)
	}
	if opts.RecipientCommitteeID != "" {
		params.Set("recipient_committee_id", opts.RecipientCommitteeID)
	}
	if opts.Cycle != 0 {
		cycle, err := NormalizeCycle(opts.Cycle)
		if err != nil {
			return errSeq[ScheduleBItem](err)
		}
		params.Set("two_year_transaction_period", strconv.Itoa(cycle))
	}
	return streamRows[ScheduleBItem](ctx, c, "schedules/schedule_b/", params, effectiveLimit(opts.Limit, defaultStreamLimit))
}

// ScheduleBByRecipient streams upstream-precomputed disbursement
// aggregates for one recipient committee in a cycle.
func (c *Client) ScheduleBByRecipient(ctx context.Context, recipientCommitteeID string, cycle int, opts ScheduleBOptions) iter.Seq2[ScheduleBRecipientAggregate, error] {
	normalized, err := NormalizeCycle(cycle)
	if err != nil {
		return errSeq[ScheduleBRecipientAggregate](err)
	}

	params := url.Values{}
	params.Set("recipient_id", recipientCommitteeID)
	params.Set("cycle", strconv.Itoa(normalized))
	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	params.Set("per_page", strconv.Itoa(perPage))

	return streamRows[ScheduleBRecipientAggregate](ctx, c, "schedules/schedule_b/by_recipient_id/", params, effectiveLimit(opts.Limit, defaultStreamLimit))
}
