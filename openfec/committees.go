package openfec

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// fetchOne requests a single-row resource and decodes the first result.
// An empty result set means absence, not failure.
func fetchOne[T any](ctx context.Context, c *Client, path string, params url.Values) (*T, error) {
	query := cloneValues(params)
	query.Set("per_page", "1")

	envelope, err := c.request(ctx, path, query)
	if err != nil {
		return nil, err
	}
	if len(envelope.Results) == 0 {
		return nil, nil
	}

	var row T
	if err := json.Unmarshal(envelope.Results[0], &row); err != nil {
		return nil, fmt.Errorf("failed to parse row: %w", err)
	}
	return &row, nil
}

// CommitteeProfile fetches the registration record for a committee.
// Returns nil for an unknown committee id.
func (c *Client) CommitteeProfile(ctx context.Context, committeeID string) (*CommitteeProfile, error) {
	return fetchOne[CommitteeProfile](ctx, c, "committee/"+committeeID+"/", nil)
}

// CommitteeTotals fetches the financial aggregate for a committee.
// A zero cycle leaves the cycle unscoped. Returns nil when the upstream
// has no totals for the committee.
func (c *Client) CommitteeTotals(ctx context.Context, committeeID string, cycle int) (*CommitteeTotals, error) {
	params := url.Values{}
	if cycle != 0 {
		normalized, err := NormalizeCycle(cycle)
		if err != nil {
			return nil, err
		}
		params.Set("cycle", strconv.Itoa(normalized))
	}
	return fetchOne[CommitteeTotals](ctx, c, "committee/"+committeeID+"/totals/", params)
}

// CommitteeSummary bundles the profile, totals and latest report for a
// committee in one call. Missing parts come back nil.
func (c *Client) CommitteeSummary(ctx context.Context, committeeID string, cycle int) (*CommitteeSummary, error) {
	profile, err := c.CommitteeProfile(ctx, committeeID)
	if err != nil {
		return nil, err
	}
	totals, err := c.CommitteeTotals(ctx, committeeID, cycle)
	if err != nil {
		return nil, err
	}
	latest, err := c.LatestReport(ctx, committeeID, ReportOptions{Cycle: cycle})
	if err != nil {
		return nil, err
	}
	return &CommitteeSummary{Profile: profile, Totals: totals, LatestReport: latest}, nil
}

// ReportByFileNumber fetches processed report totals for a committee and
// file number. Returns nil if the report is not processed yet.
func (c *Client) ReportByFileNumber(ctx context.Context, committeeID string, fileNumber int) (*CommitteeReport, error) {
	params := url.Values{}
	params.Set("file_number", strconv.Itoa(fileNumber))
	return fetchOne[CommitteeReport](ctx, c, "committee/"+committeeID+"/reports/", params)
}

// ReportOptions narrows a latest-report lookup.
type ReportOptions struct {
	Cycle    int
	FormType string
}

// LatestReport fetches the committee report with the most recent coverage
// end date, relying on the upstream sort. Returns nil when the committee
// has no reports.
func (c *Client) LatestReport(ctx context.Context, committeeID string, opts ReportOptions) (*CommitteeReport, error) {
	params := url.Values{}
	params.Set("sort", "-coverage_end_date")
	if opts.Cycle != 0 {
		normalized, err := NormalizeCycle(opts.Cycle)
		if err != nil {
			return nil, err
		}
		params.Set("two_year_transaction_period", strconv.Itoa(normalized))
	}
	if opts.FormType != "" {
		params.Set("form_type", opts.FormType)
	}
	return fetchOne[CommitteeReport](ctx, c, "committee/"+committeeID+"/reports/", params)
}

// CommitteePageURL returns the public fec.gov page for a committee.
func CommitteePageURL(committeeID string) string {
	return "https://www.fec.gov/data/committee/" + committeeID + "/"
}
