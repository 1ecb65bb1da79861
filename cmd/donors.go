package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fecfetch/fecfetch/openfec"
)

var (
	donorsCycle  int
	donorsLimit  int
	donorsCohort string

	paymentsCandidate      string
	paymentsCycle          int
	paymentsLimit          int
	paymentsScanLimit      int
	paymentsMaxPages       int
	paymentsMatchAggregate bool
	paymentsIncludeMemos   bool
	paymentsNoDedupe       bool
	paymentsSince          string
	paymentsUntil          string
	paymentsCohort         string
)

// donorsCmd represents the donors command
var donorsCmd = &cobra.Command{
	Use:   "donors",
	Short: "Inspect committee-to-candidate money flows",
}

var donorsAggregatesCmd = &cobra.Command{
	Use:   "aggregates <candidate-id>",
	Short: "Sum donor committee payments to a candidate's committees",
	Long: `Sum upstream disbursement aggregates per donor committee across a
candidate's committee cohort, largest total first.`,
	Args: cobra.ExactArgs(1),
	RunE: runDonorsAggregates,
}

var donorsPaymentsCmd = &cobra.Command{
	Use:   "payments <donor-committee-id>",
	Short: "Stream itemized payments from a donor committee",
	Long: `Stream itemized disbursements from a donor committee toward a
candidate's committees, most recent first.

Without --candidate the scan covers all candidate committee types (House,
Senate, Presidential). Duplicate rows reported by multiple committees are
collapsed unless --no-dedupe is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runDonorsPayments,
}

func init() {
	rootCmd.AddCommand(donorsCmd)
	donorsCmd.AddCommand(donorsAggregatesCmd)
	donorsCmd.AddCommand(donorsPaymentsCmd)

	donorsAggregatesCmd.Flags().IntVar(&donorsCycle, "cycle", 0, "two-year cycle (required)")
	donorsAggregatesCmd.Flags().IntVar(&donorsLimit, "limit", 0, "aggregate rows per recipient committee (0 = unlimited)")
	donorsAggregatesCmd.Flags().StringVar(&donorsCohort, "cohort", string(openfec.CohortAuthorized),
		"committee cohort: authorized or all_linked")
	donorsAggregatesCmd.MarkFlagRequired("cycle")

	donorsPaymentsCmd.Flags().StringVar(&paymentsCandidate, "candidate", "", "candidate ID to scope the scan")
	donorsPaymentsCmd.Flags().IntVar(&paymentsCycle, "cycle", 0, "two-year cycle (required)")
	donorsPaymentsCmd.Flags().IntVar(&paymentsLimit, "limit", 0, "maximum rows to print (default 200, -1 = unlimited)")
	donorsPaymentsCmd.Flags().IntVar(&paymentsScanLimit, "scan-limit", 0, "maximum rows to scan (default 5000, -1 = unlimited)")
	donorsPaymentsCmd.Flags().IntVar(&paymentsMaxPages, "max-pages", 0, "maximum pages per sub-scan (default 50, -1 = unlimited)")
	donorsPaymentsCmd.Flags().BoolVar(&paymentsMatchAggregate, "match-aggregate", false,
		"filter by the candidate's canonical recipient id to reconcile with aggregates")
	donorsPaymentsCmd.Flags().BoolVar(&paymentsIncludeMemos, "include-memos", false, "include memo subtotal rows")
	donorsPaymentsCmd.Flags().BoolVar(&paymentsNoDedupe, "no-dedupe", false, "keep duplicate rows reported by multiple committees")
	donorsPaymentsCmd.Flags().StringVar(&paymentsSince, "since", "", "minimum disbursement date (YYYY-MM-DD)")
	donorsPaymentsCmd.Flags().StringVar(&paymentsUntil, "until", "", "maximum disbursement date (YYYY-MM-DD)")
	donorsPaymentsCmd.Flags().StringVar(&paymentsCohort, "cohort", string(openfec.CohortAuthorized),
		"committee cohort: authorized or all_linked")
	donorsPaymentsCmd.MarkFlagRequired("cycle")
}

func runDonorsAggregates(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	candidateID := strings.ToUpper(args[0])

	cohort, err := parseCohort(donorsCohort)
	if err != nil {
		return err
	}

	aggregates, err := client.DonorsToCandidateAggregates(ctx, candidateID, donorsCycle, openfec.DonorAggregateOptions{
		Limit:  donorsLimit,
		Cohort: cohort,
	})
	if err != nil {
		return fmt.Errorf("failed to fetch donor aggregates: %w", err)
	}

	if len(aggregates) == 0 {
		fmt.Println("No donor aggregates found.")
		return nil
	}

	fmt.Printf("\nFound %d donor committees:\n", len(aggregates))
	fmt.Println(strings.Repeat("-", 80))
	var grandTotal float64
	for _, agg := range aggregates {
		name := agg.DonorCommitteeName
		if name == "" {
			name = agg.DonorCommitteeID
		}
		fmt.Printf("%-12s %-50s $%12.2f (%d)\n", agg.DonorCommitteeID, truncate(name, 50), agg.Total, agg.Count)
		grandTotal += agg.Total
	}
	fmt.Println(strings.Repeat("-", 80))
	fmt.Printf("Total: $%.2f\n", grandTotal)

	return nil
}

func runDonorsPayments(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	donorID := strings.ToUpper(args[0])

	cohort, err := parseCohort(paymentsCohort)
	if err != nil {
		return err
	}

	opts := openfec.PaymentOptions{
		Limit:          paymentsLimit,
		ScanLimit:      paymentsScanLimit,
		MaxPages:       paymentsMaxPages,
		IncludeMemos:   paymentsIncludeMemos,
		KeepDuplicates: paymentsNoDedupe,
		Since:          paymentsSince,
		Until:          paymentsUntil,
		MatchAggregate: paymentsMatchAggregate,
		Cohort:         cohort,
	}

	var count int
	var total float64
	for item, err := range client.CommitteePaymentsToCandidate(ctx, donorID, strings.ToUpper(paymentsCandidate), paymentsCycle, opts) {
		if err != nil {
			return fmt.Errorf("payment scan failed: %w", err)
		}
		if count == 0 {
			fmt.Println(strings.Repeat("-", 80))
		}
		recipient := item.RecipientName
		if recipient == "" {
			recipient = item.RecipientCommitteeID
		}
		fmt.Printf("%s  $%12.2f  %s", item.DisbursementDate, item.DisbursementAmount, truncate(recipient, 45))
		if item.DisbursementPurpose != "" {
			fmt.Printf("  (%s)", truncate(item.DisbursementPurpose, 30))
		}
		fmt.Println()
		count++
		total += item.DisbursementAmount
	}

	if count == 0 {
		fmt.Println("No payments found.")
		return nil
	}

	fmt.Println(strings.Repeat("-", 80))
	fmt.Printf("%d payments, $%.2f total\n", count, total)

	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
