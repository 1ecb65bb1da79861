package openfec

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Cohort selects which of a candidate's linked committees to include.
type Cohort string

const (
	// CohortAuthorized keeps principal ('P') and authorized ('A')
	// committees only. This is the default.
	CohortAuthorized Cohort = "authorized"

	// CohortAllLinked keeps every committee the upstream links to the
	// candidate, including leadership PACs ('L') and joint fundraising
	// committees ('J').
	CohortAllLinked Cohort = "all_linked"
)

// SearchCandidates searches candidates by name, sorted by name.
// A zero cycle leaves the search unscoped; limit 0 means the default 200.
func (c *Client) SearchCandidates(ctx context.Context, query string, cycle int, limit int) ([]Candidate, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("sort", "name")
	params.Set("per_page", "50")
	if cycle != 0 {
		normalized, err := NormalizeCycle(cycle)
		if err != nil {
			return nil, err
		}
		params.Set("cycle", strconv.Itoa(normalized))
	}

	var hits []Candidate
	for hit, err := range streamRows[Candidate](ctx, c, "candidates/search/", params, effectiveLimit(limit, defaultStreamLimit)) {
		if err != nil {
			return nil, err
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// CommitteeCandidateLinks fetches the candidates linked to a committee.
// Results are memoized for the lifetime of the client; concurrent lookups
// for the same committee collapse into one upstream call.
func (c *Client) CommitteeCandidateLinks(ctx context.Context, committeeID string) ([]CommitteeCandidateLink, error) {
	c.linksMu.Lock()
	cached, ok := c.links[committeeID]
	c.linksMu.Unlock()
	if ok {
		return cached, nil
	}

	result, err, _ := c.linkGroup.Do(committeeID, func() (any, error) {
		params := url.Values{}
		params.Set("per_page", "50")
		envelope, err := c.request(ctx, "committee/"+committeeID+"/candidates/", params)
		if err != nil {
			return nil, err
		}

		links := make([]CommitteeCandidateLink, 0, len(envelope.Results))
		for _, raw := range envelope.Results {
			var link CommitteeCandidateLink
			if err := json.Unmarshal(raw, &link); err != nil {
				return nil, fmt.Errorf("failed to parse candidate link: %w", err)
			}
			links = append(links, link)
		}

		c.linksMu.Lock()
		c.links[committeeID] = links
		c.linksMu.Unlock()
		return links, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]CommitteeCandidateLink), nil
}

// ClearLinkCache drops all memoized committee→candidate links. A client
// never invalidates the cache on its own.
func (c *Client) ClearLinkCache() {
	c.linksMu.Lock()
	clear(c.links)
	c.linksMu.Unlock()
}

// CandidateCommittees fetches the committees linked to a candidate,
// optionally cycle-scoped, filtered to the requested cohort. An empty
// cohort means CohortAuthorized.
func (c *Client) CandidateCommittees(ctx context.Context, candidateID string, cycle int, cohort Cohort) ([]CandidateCommittee, error) {
	params := url.Values{}
	params.Set("per_page", "100")
	if cycle != 0 {
		normalized, err := NormalizeCycle(cycle)
		if err != nil {
			return nil, err
		}
		params.Set("cycle", strconv.Itoa(normalized))
	}

	envelope, err := c.request(ctx, "candidate/"+candidateID+"/committees/", params)
	if err != nil {
		return nil, err
	}

	committees := make([]CandidateCommittee, 0, len(envelope.Results))
	for _, raw := range envelope.Results {
		var committee CandidateCommittee
		if err := json.Unmarshal(raw, &committee); err != nil {
			return nil, fmt.Errorf("failed to parse candidate committee: %w", err)
		}
		committees = append(committees, committee)
	}

	if cohort == "" || cohort == CohortAuthorized {
		authorized := committees[:0]
		for _, committee := range committees {
			switch strings.ToUpper(committee.Designation) {
			case "P", "A":
				authorized = append(authorized, committee)
			}
		}
		committees = authorized
	}
	return committees, nil
}
