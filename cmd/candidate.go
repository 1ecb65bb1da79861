package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fecfetch/fecfetch/openfec"
)

var (
	candidateCycle  int
	candidateLimit  int
	candidateCohort string
)

// candidateCmd represents the candidate command
var candidateCmd = &cobra.Command{
	Use:   "candidate",
	Short: "Look up candidates and their committees",
}

var candidateSearchCmd = &cobra.Command{
	Use:   "search <name>",
	Short: "Search candidates by name",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCandidateSearch,
}

var candidateCommitteesCmd = &cobra.Command{
	Use:   "committees <candidate-id>",
	Short: "List committees linked to a candidate",
	Args:  cobra.ExactArgs(1),
	RunE:  runCandidateCommittees,
}

func init() {
	rootCmd.AddCommand(candidateCmd)
	candidateCmd.AddCommand(candidateSearchCmd)
	candidateCmd.AddCommand(candidateCommitteesCmd)

	candidateSearchCmd.Flags().IntVar(&candidateCycle, "cycle", 0, "restrict to a two-year cycle")
	candidateSearchCmd.Flags().IntVar(&candidateLimit, "limit", 0, "maximum results (default 200)")

	candidateCommitteesCmd.Flags().IntVar(&candidateCycle, "cycle", 0, "two-year cycle (default: all linked cycles)")
	candidateCommitteesCmd.Flags().StringVar(&candidateCohort, "cohort", string(openfec.CohortAuthorized),
		"committee cohort: authorized or all_linked")
}

func runCandidateSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	query := strings.Join(args, " ")

	candidates, err := client.SearchCandidates(ctx, query, candidateCycle, candidateLimit)
	if err != nil {
		return fmt.Errorf("failed to search candidates: %w", err)
	}

	if len(candidates) == 0 {
		fmt.Println("No candidates found.")
		return nil
	}

	fmt.Printf("\nFound %d candidates:\n", len(candidates))
	fmt.Println(strings.Repeat("-", 80))
	for _, candidate := range candidates {
		fmt.Printf("• %s (%s)\n", candidate.Name, candidate.CandidateID)
		fmt.Printf("  Office: %s  Party: %s  State: %s", candidate.Office, candidate.Party, candidate.State)
		if candidate.District != "" && candidate.District != "00" {
			fmt.Printf("  District: %s", candidate.District)
		}
		fmt.Println()
	}

	return nil
}

func runCandidateCommittees(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	candidateID := strings.ToUpper(args[0])

	cohort, err := parseCohort(candidateCohort)
	if err != nil {
		return err
	}

	committees, err := client.CandidateCommittees(ctx, candidateID, candidateCycle, cohort)
	if err != nil {
		return fmt.Errorf("failed to fetch candidate committees: %w", err)
	}

	if len(committees) == 0 {
		fmt.Println("No committees found.")
		return nil
	}

	fmt.Printf("\nFound %d committees:\n", len(committees))
	fmt.Println(strings.Repeat("-", 80))
	for _, committee := range committees {
		fmt.Printf("• %s (%s)\n", committee.Name, committee.CommitteeID)
		fmt.Printf("  Designation: %s  Type: %s\n", committee.Designation, committee.CommitteeType)
	}

	return nil
}

// parseCohort validates a --cohort flag value.
func parseCohort(value string) (openfec.Cohort, error) {
	switch openfec.Cohort(strings.ToLower(value)) {
	case openfec.CohortAuthorized:
		return openfec.CohortAuthorized, nil
	case openfec.CohortAllLinked:
		return openfec.CohortAllLinked, nil
	default:
		return "", fmt.Errorf("invalid cohort %q (must be 'authorized' or 'all_linked')", value)
	}
}
