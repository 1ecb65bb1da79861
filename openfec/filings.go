package openfec

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const defaultFilingsPerPage = 50

// FilingOptions narrows a latest-filings fetch. PerPage defaults to 50,
// Pages to 1; the result is capped at PerPage*Pages rows.
type FilingOptions struct {
	CommitteeID string
	FormType    string
	Since       string // minimum receipt date, YYYY-MM-DD
	Until       string // maximum receipt date, YYYY-MM-DD
	PerPage     int
	Pages       int
}

// LatestFilings fetches recent e-file filings sorted by receipt date
// descending. Callers wanting the most recent N rows rely on the upstream
// sort order plus the PerPage*Pages cap; no client-side sort is applied.
func (c *Client) LatestFilings(ctx context.Context, opts FilingOptions) ([]Filing, error) {
	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = defaultFilingsPerPage
	}
	pages := opts.Pages
	if pages < 1 {
		pages = 1
	}

	params := url.Values{}
	params.Set("sort", "-receipt_date")
	params.Set("per_page", strconv.Itoa(perPage))
	if opts.CommitteeID != "" {
		params.Set("committee_id", opts.CommitteeID)
	}
	if opts.FormType != "" {
		params.Set("form_type", opts.FormType)
	}
	if opts.Since != "" {
		params.Set("min_receipt_date", opts.Since)
	}
	if opts.Until != "" {
		params.Set("max_receipt_date", opts.Until)
	}

	maxRows := perPage * pages
	filings := make([]Filing, 0, maxRows)
	for raw, err := range c.paginate(ctx, "efile/filings/", params) {
		if err != nil {
			return nil, err
		}
		var filing Filing
		if err := json.Unmarshal(raw, &filing); err != nil {
			return nil, fmt.Errorf("failed to parse filing: %w", err)
		}
		filings = append(filings, filing)
		if len(filings) >= maxRows {
			break
		}
	}
	return filings, nil
}

// EnrichFilingTotals attaches processed report totals to F3-family
// filings that carry a committee id and file number. Filings the upstream
// has not processed yet are left untouched.
func (c *Client) EnrichFilingTotals(ctx context.Context, filings []Filing) error {
	for i := range filings {
		filing := &filings[i]
		if filing.CommitteeID == "" || filing.FileNumber == 0 {
			continue
		}
		if !strings.HasPrefix(strings.ToUpper(filing.FormType), "F3") {
			continue
		}
		report, err := c.ReportByFileNumber(ctx, filing.CommitteeID, filing.FileNumber)
		if err != nil {
			return err
		}
		if report == nil {
			continue
		}
		filing.Totals = &FilingTotals{
			TotalReceipts:       report.TotalReceipts,
			TotalDisbursements:  report.TotalDisbursements,
			CashOnHandEndPeriod: report.CashOnHandEndPeriod,
		}
	}
	return nil
}
