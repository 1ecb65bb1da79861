package openfec

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Upstream rows are loosely typed: no field is guaranteed present, and
// unknown keys must never fail a row. encoding/json already ignores
// unrecognized keys and leaves zero values for nulls, so records below use
// plain value fields. Pointers appear only where presence itself drives
// logic (pagination counters, sub_id).

// Pagination describes one page of an API response. It is consulted only
// to decide whether another page exists.
type Pagination struct {
	Page             *int  `json:"page"`
	Pages            *int  `json:"pages"`
	PerPage          int   `json:"per_page"`
	Count            int   `json:"count"`
	CountEstimate    int64 `json:"count_estimate"`
	IsCountExact     bool  `json:"is_count_exact"`
	CountExceedLimit bool  `json:"count_exceed_limit"`
}

// Envelope is one API response page. It is transient: results are
// extracted and the envelope discarded.
type Envelope struct {
	Status      string            `json:"status"`
	Results     []json.RawMessage `json:"results"`
	Pagination  *Pagination       `json:"pagination"`
	APIVersion  string            `json:"api_version"`
	LastUpdated string            `json:"last_updated"`
}

// SubID tolerates both numeric and quoted encodings of the upstream
// sub_id field.
type SubID int64

// UnmarshalJSON implements json.Unmarshaler.
func (s *SubID) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid sub_id %q: %w", raw, err)
	}
	*s = SubID(n)
	return nil
}

// Filing is one e-file row. Immutable once fetched.
type Filing struct {
	CommitteeID   string `json:"committee_id"`
	CommitteeName string `json:"committee_name"`
	FormType      string `json:"form_type"`
	FileNumber    int    `json:"file_number"`
	FECFileID     string `json:"fec_file_id"`

	ReceiptDate       string `json:"receipt_date"`
	FiledDate         string `json:"filed_date"`
	CoverageStartDate string `json:"coverage_start_date"`
	CoverageEndDate   string `json:"coverage_end_date"`
	LoadTimestamp     string `json:"load_timestamp"`

	AmendmentNumber      int    `json:"amendment_number"`
	AmendsFile           int    `json:"amends_file"`
	IsAmended            bool   `json:"is_amended"`
	AmendmentChain       []int  `json:"amendment_chain"`
	BeginningImageNumber string `json:"beginning_image_number"`
	EndingImageNumber    string `json:"ending_image_number"`

	FECURL  string `json:"fec_url"`
	PDFURL  string `json:"pdf_url"`
	HTMLURL string `json:"html_url"`
	CSVURL  string `json:"csv_url"`

	// Populated by enrichment, not by the e-file feed.
	Totals *FilingTotals `json:"-"`
}

// FilingTotals carries processed report totals attached to a filing when
// enrichment is requested.
type FilingTotals struct {
	TotalReceipts       float64 `json:"total_receipts"`
	TotalDisbursements  float64 `json:"total_disbursements"`
	CashOnHandEndPeriod float64 `json:"cash_on_hand_end_period"`
}

// ScheduleAItem is one itemized receipt. Amounts can be negative for
// refunds and chargebacks.
type ScheduleAItem struct {
	CommitteeID            string  `json:"committee_id"`
	CommitteeName          string  `json:"committee_name"`
	RecipientCommitteeType string  `json:"recipient_committee_type"`
	ContributorName        string  `json:"contributor_name"`
	ContributorFirstName   string  `json:"contributor_first_name"`
	ContributorLastName    string  `json:"contributor_last_name"`
	ContributorMiddleName  string  `json:"contributor_middle_name"`
	ContributorOccupation  string  `json:"contributor_occupation"`
	ContributorEmployer    string  `json:"contributor_employer"`
	ContributorCity        string  `json:"contributor_city"`
	ContributorState       string  `json:"contributor_state"`
	ContributorZip         string  `json:"contributor_zip"`
	ReceiptDate            string  `json:"contribution_receipt_date"`
	ReceiptAmount          float64 `json:"contribution_receipt_amount"`
	TransactionPeriod      int     `json:"two_year_transaction_period"`
	MemoedSubtotal         bool    `json:"memoed_subtotal"`
	IsIndividual           bool    `json:"is_individual"`
	ImageNumber            string  `json:"image_number"`
	FileNumber             int     `json:"file_number"`
}

// ScheduleBItem is one itemized disbursement. Amounts can be negative for
// refunds and voids. SubID, when present, is the stable dedup identity.
type ScheduleBItem struct {
	SubID                  *SubID  `json:"sub_id"`
	ImageNumber            string  `json:"image_number"`
	FileNumber             int     `json:"file_number"`
	CommitteeID            string  `json:"committee_id"` // spender (donor committee)
	CommitteeName          string  `json:"committee_name"`
	RecipientCommitteeID   string  `json:"recipient_committee_id"`
	RecipientName          string  `json:"recipient_name"`
	RecipientCommitteeType string  `json:"recipient_committee_type"`
	DisbursementDate       string  `json:"disbursement_date"`
	DisbursementAmount     float64 `json:"disbursement_amount"`
	DisbursementPurpose    string  `json:"disbursement_purpose"`
	MemoedSubtotal         bool    `json:"memoed_subtotal"`
	TransactionPeriod      int     `json:"two_year_transaction_period"`
}

// ScheduleBRecipientAggregate is one upstream-precomputed disbursement
// aggregate keyed by recipient.
type ScheduleBRecipientAggregate struct {
	RecipientCommitteeID string  `json:"recipient_committee_id"`
	RecipientName        string  `json:"recipient_name"`
	Total                float64 `json:"total"`
	Count                int     `json:"count"`
	Cycle                int     `json:"cycle"`
	CommitteeID          string  `json:"committee_id"` // donor committee
	CommitteeName        string  `json:"committee_name"`
}

// CommitteeReport is one processed report for a committee.
type CommitteeReport struct {
	CommitteeID          string  `json:"committee_id"`
	CommitteeName        string  `json:"committee_name"`
	FormType             string  `json:"form_type"`
	ReportType           string  `json:"report_type"`
	ReportTypeFull       string  `json:"report_type_full"`
	CoverageStartDate    string  `json:"coverage_start_date"`
	CoverageEndDate      string  `json:"coverage_end_date"`
	ReceiptDate          string  `json:"receipt_date"`
	FileNumber           int     `json:"file_number"`
	TotalReceipts        float64 `json:"total_receipts"`
	TotalDisbursements   float64 `json:"total_disbursements"`
	CashOnHandEndPeriod  float64 `json:"cash_on_hand_end_period"`
	DebtsOwedByCommittee float64 `json:"debts_owed_by_committee"`
}

// CommitteeProfile is the registration record for one committee.
type CommitteeProfile struct {
	CommitteeID       string `json:"committee_id"`
	Name              string `json:"name"`
	TreasurerName     string `json:"treasurer_name"`
	CommitteeType     string `json:"committee_type"`
	CommitteeTypeFull string `json:"committee_type_full"`
	Designation       string `json:"designation"`
	DesignationFull   string `json:"designation_full"`
	FilingFrequency   string `json:"filing_frequency"`
	Party             string `json:"party"`
	PartyFull         string `json:"party_full"`
	State             string `json:"state"`
	StateFull         string `json:"state_full"`
	City              string `json:"city"`
	Zip               string `json:"zip"`
	Street1           string `json:"street_1"`
	Street2           string `json:"street_2"`
	Website           string `json:"website"`
}

// CommitteeTotals is the cycle-scoped financial aggregate for one
// committee. The upstream record is wide; fields mirror the API names.
type CommitteeTotals struct {
	Cycle                    int    `json:"cycle"`
	CommitteeID              string `json:"committee_id"`
	CommitteeName            string `json:"committee_name"`
	TreasurerName            string `json:"treasurer_name"`
	CommitteeType            string `json:"committee_type"`
	CommitteeTypeFull        string `json:"committee_type_full"`
	CommitteeDesignation     string `json:"committee_designation"`
	CommitteeDesignationFull string `json:"committee_designation_full"`
	CommitteeState           string `json:"committee_state"`
	FilingFrequency          string `json:"filing_frequency"`
	FilingFrequencyFull      string `json:"filing_frequency_full"`
	OrganizationType         string `json:"organization_type"`
	OrganizationTypeFull     string `json:"organization_type_full"`
	PartyFull                string `json:"party_full"`

	CoverageStartDate        string `json:"coverage_start_date"`
	CoverageEndDate          string `json:"coverage_end_date"`
	TransactionCoverageDate  string `json:"transaction_coverage_date"`
	FirstF1Date              string `json:"first_f1_date"`
	FirstFileDate            string `json:"first_file_date"`
	LastReportTypeFull       string `json:"last_report_type_full"`
	LastReportYear           int    `json:"last_report_year"`
	LastBeginningImageNumber string `json:"last_beginning_image_number"`

	CashOnHandBeginningPeriod float64 `json:"cash_on_hand_beginning_period"`
	LastCashOnHandEndPeriod   float64 `json:"last_cash_on_hand_end_period"`
	CashOnHandEndPeriod       float64 `json:"cash_on_hand_end_period"`
	LastDebtsOwedByCommittee  float64 `json:"last_debts_owed_by_committee"`
	LastDebtsOwedToCommittee  float64 `json:"last_debts_owed_to_committee"`
	DebtsOwedByCommittee      float64 `json:"debts_owed_by_committee"`

	Receipts                 float64 `json:"receipts"`
	FedReceipts              float64 `json:"fed_receipts"`
	Disbursements            float64 `json:"disbursements"`
	FedDisbursements         float64 `json:"fed_disbursements"`
	NetContributions         float64 `json:"net_contributions"`
	NetOperatingExpenditures float64 `json:"net_operating_expenditures"`

	Contributions                                float64 `json:"contributions"`
	IndividualContributions                      float64 `json:"individual_contributions"`
	IndividualItemizedContributions              float64 `json:"individual_itemized_contributions"`
	IndividualUnitemizedContributions            float64 `json:"individual_unitemized_contributions"`
	PoliticalPartyCommitteeContributions         float64 `json:"political_party_committee_contributions"`
	OtherPoliticalCommitteeContributions         float64 `json:"other_political_committee_contributions"`
	ContributionRefunds                          float64 `json:"contribution_refunds"`
	RefundedIndividualContributions              float64 `json:"refunded_individual_contributions"`
	RefundedOtherPoliticalCommitteeContributions float64 `json:"refunded_other_political_committee_contributions"`
	RefundedPoliticalPartyCommitteeContributions float64 `json:"refunded_political_party_committee_contributions"`

	FederalFunds                   float64 `json:"federal_funds"`
	OtherFedReceipts               float64 `json:"other_fed_receipts"`
	OtherReceipts                  float64 `json:"other_receipts"`
	OffsetsToOperatingExpenditures float64 `json:"offsets_to_operating_expenditures"`

	TotalTransfers                 float64 `json:"total_transfers"`
	TransfersFromAffiliatedParty   float64 `json:"transfers_from_affiliated_party"`
	TransfersFromNonfedAccount     float64 `json:"transfers_from_nonfed_account"`
	TransfersFromNonfedLevin       float64 `json:"transfers_from_nonfed_levin"`
	TransfersToAffiliatedCommittee float64 `json:"transfers_to_affiliated_committee"`

	AllLoansReceived               float64 `json:"all_loans_received"`
	LoanRepaymentsMade             float64 `json:"loan_repayments_made"`
	LoanRepaymentsReceived         float64 `json:"loan_repayments_received"`
	LoansMade                      float64 `json:"loans_made"`
	LoansAndLoanRepaymentsMade     float64 `json:"loans_and_loan_repayments_made"`
	LoansAndLoanRepaymentsReceived float64 `json:"loans_and_loan_repayments_received"`

	OperatingExpenditures         float64 `json:"operating_expenditures"`
	FedOperatingExpenditures      float64 `json:"fed_operating_expenditures"`
	OtherDisbursements            float64 `json:"other_disbursements"`
	OtherFedOperatingExpenditures float64 `json:"other_fed_operating_expenditures"`
	FundraisingDisbursements      float64 `json:"fundraising_disbursements"`

	IndependentExpenditures                 float64 `json:"independent_expenditures"`
	CoordinatedExpendituresByPartyCommittee float64 `json:"coordinated_expenditures_by_party_committee"`
	FedElectionActivity                     float64 `json:"fed_election_activity"`
	NonAllocatedFedElectionActivity         float64 `json:"non_allocated_fed_election_activity"`
	SharedFedActivity                       float64 `json:"shared_fed_activity"`
	SharedFedActivityNonfed                 float64 `json:"shared_fed_activity_nonfed"`
	SharedFedOperatingExpenditures          float64 `json:"shared_fed_operating_expenditures"`
	SharedNonfedOperatingExpenditures       float64 `json:"shared_nonfed_operating_expenditures"`
	FedCandidateCommitteeContributions      float64 `json:"fed_candidate_committee_contributions"`
	FedCandidateContributionRefunds         float64 `json:"fed_candidate_contribution_refunds"`

	SponsorCandidateIDs  string   `json:"sponsor_candidate_ids"`
	SponsorCandidateList []string `json:"sponsor_candidate_list"`
}

// CommitteeCandidateLink relates a committee to a candidate it supports.
type CommitteeCandidateLink struct {
	CandidateID string `json:"candidate_id"`
	Name        string `json:"name"`
	Office      string `json:"office"`
	Party       string `json:"party"`
}

// CandidateCommittee is one committee linked to a candidate, with its
// designation ('P' principal, 'A' authorized, 'L' leadership PAC,
// 'J' joint fundraising, ...).
type CandidateCommittee struct {
	CommitteeID   string `json:"committee_id"`
	Name          string `json:"name"`
	Designation   string `json:"designation"`
	CommitteeType string `json:"committee_type"`
}

// Candidate is one candidate search hit.
type Candidate struct {
	CandidateID   string `json:"candidate_id"`
	Name          string `json:"name"`
	Office        string `json:"office"`
	Party         string `json:"party"`
	State         string `json:"state"`
	District      string `json:"district"`
	ElectionYears []int  `json:"election_years"`
}

// DonorAggregate is the accumulated total and count for one donor
// committee across a candidate's recipient committees.
type DonorAggregate struct {
	DonorCommitteeID   string  `json:"donor_committee_id"`
	DonorCommitteeName string  `json:"donor_committee_name"`
	Total              float64 `json:"total"`
	Count              int     `json:"count"`
}

// CommitteeSummary bundles the profile, cycle totals and latest report
// for one committee. Any part may be nil when the upstream has no data.
type CommitteeSummary struct {
	Profile      *CommitteeProfile `json:"profile"`
	Totals       *CommitteeTotals  `json:"totals"`
	LatestReport *CommitteeReport  `json:"latest_report"`
}
