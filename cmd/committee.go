package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fecfetch/fecfetch/openfec"
)

var committeeCycle int

// committeeCmd represents the committee command
var committeeCmd = &cobra.Command{
	Use:   "committee <committee-id>",
	Short: "Show a committee's profile, cycle totals and latest report",
	Args:  cobra.ExactArgs(1),
	RunE:  runCommittee,
}

func init() {
	rootCmd.AddCommand(committeeCmd)

	committeeCmd.Flags().IntVar(&committeeCycle, "cycle", 0, "two-year cycle (e.g. 2024); odd years map to the even cycle")
}

func runCommittee(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	committeeID := strings.ToUpper(args[0])

	summary, err := client.CommitteeSummary(ctx, committeeID, committeeCycle)
	if err != nil {
		return fmt.Errorf("failed to fetch committee summary: %w", err)
	}

	if summary.Profile == nil {
		fmt.Printf("No committee found for %s.\n", committeeID)
		return nil
	}

	profile := summary.Profile
	fmt.Printf("\n%s (%s)\n", profile.Name, profile.CommitteeID)
	fmt.Println(strings.Repeat("-", 80))
	fmt.Printf("Type: %s  Designation: %s\n", profile.CommitteeTypeFull, profile.DesignationFull)
	if profile.PartyFull != "" {
		fmt.Printf("Party: %s\n", profile.PartyFull)
	}
	if profile.TreasurerName != "" {
		fmt.Printf("Treasurer: %s\n", profile.TreasurerName)
	}
	if profile.State != "" {
		fmt.Printf("Location: %s, %s\n", profile.City, profile.State)
	}
	fmt.Printf("Page: %s\n", openfec.CommitteePageURL(profile.CommitteeID))

	if totals := summary.Totals; totals != nil {
		fmt.Printf("\nCycle %d totals (%s to %s):\n", totals.Cycle, totals.CoverageStartDate, totals.CoverageEndDate)
		fmt.Printf("  Receipts:          $%.2f\n", totals.Receipts)
		fmt.Printf("  Disbursements:     $%.2f\n", totals.Disbursements)
		fmt.Printf("  Cash on hand:      $%.2f\n", totals.LastCashOnHandEndPeriod)
		fmt.Printf("  Debts owed:        $%.2f\n", totals.LastDebtsOwedByCommittee)
		if totals.IndividualContributions != 0 {
			fmt.Printf("  From individuals:  $%.2f\n", totals.IndividualContributions)
		}
	} else {
		fmt.Println("\nNo cycle totals available.")
	}

	if report := summary.LatestReport; report != nil {
		fmt.Printf("\nLatest report: %s (%s)\n", report.ReportTypeFull, report.FormType)
		fmt.Printf("  Coverage: %s to %s\n", report.CoverageStartDate, report.CoverageEndDate)
		fmt.Printf("  Receipts: $%.2f  Disbursements: $%.2f  Cash: $%.2f\n",
			report.TotalReceipts, report.TotalDisbursements, report.CashOnHandEndPeriod)
	}

	return nil
}
