package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fecfetch/fecfetch/filter"
	"github.com/fecfetch/fecfetch/openfec"
)

var (
	filingsCommittee  string
	filingsFormType   string
	filingsSince      string
	filingsUntil      string
	filingsPerPage    int
	filingsPages      int
	filingsWithTotals bool
	filingsShowURLs   bool
	filingsFilterExpr string
)

// filingsCmd represents the filings command
var filingsCmd = &cobra.Command{
	Use:   "filings",
	Short: "List recent e-file filings",
	Long: `List recent electronic filings, most recent receipt date first.

Results can be narrowed by committee, form type and receipt date range,
and optionally enriched with processed report totals for F3 reports.`,
	RunE: runFilings,
}

func init() {
	rootCmd.AddCommand(filingsCmd)

	filingsCmd.Flags().StringVar(&filingsCommittee, "committee", "", "filter by committee ID (e.g. C00123456)")
	filingsCmd.Flags().StringVar(&filingsFormType, "form-type", "", "filter by form type (e.g. F3, F3X, F24)")
	filingsCmd.Flags().StringVar(&filingsSince, "since", "", "minimum receipt date (YYYY-MM-DD)")
	filingsCmd.Flags().StringVar(&filingsUntil, "until", "", "maximum receipt date (YYYY-MM-DD)")
	filingsCmd.Flags().IntVar(&filingsPerPage, "per-page", 0, "rows per page (default 50)")
	filingsCmd.Flags().IntVar(&filingsPages, "pages", 0, "pages to fetch (default 1)")
	filingsCmd.Flags().BoolVar(&filingsWithTotals, "with-totals", false, "attach processed report totals to F3 filings")
	filingsCmd.Flags().BoolVar(&filingsShowURLs, "urls", false, "show document URLs")
	filingsCmd.Flags().StringVarP(&filingsFilterExpr, "filter", "f", "", "filter expression (e.g. 'FormType == \"F3\"')")
}

func runFilings(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	filings, err := client.LatestFilings(ctx, openfec.FilingOptions{
		CommitteeID: filingsCommittee,
		FormType:    filingsFormType,
		Since:       filingsSince,
		Until:       filingsUntil,
		PerPage:     filingsPerPage,
		Pages:       filingsPages,
	})
	if err != nil {
		return fmt.Errorf("failed to fetch filings: %w", err)
	}

	if filingsFilterExpr != "" {
		f, err := filter.Compile(filingsFilterExpr)
		if err != nil {
			return err
		}
		kept := filings[:0]
		for _, filing := range filings {
			if f.Match(filingRow(filing)) {
				kept = append(kept, filing)
			}
		}
		filings = kept
	}

	if filingsWithTotals {
		if err := client.EnrichFilingTotals(ctx, filings); err != nil {
			logger.Warn().Err(err).Msg("Failed to enrich filing totals")
		}
	}

	if len(filings) == 0 {
		fmt.Println("No filings found.")
		return nil
	}

	fmt.Printf("\nFound %d filings:\n", len(filings))
	fmt.Println(strings.Repeat("-", 80))

	for _, filing := range filings {
		fmt.Printf("• %s %s", filing.FormType, filing.CommitteeName)
		if filing.IsAmended {
			fmt.Printf(" [AMENDED]")
		}
		fmt.Println()
		fmt.Printf("  Committee: %s  Received: %s\n", filing.CommitteeID, filing.ReceiptDate)
		if filing.CoverageStartDate != "" || filing.CoverageEndDate != "" {
			fmt.Printf("  Coverage: %s to %s\n", filing.CoverageStartDate, filing.CoverageEndDate)
		}
		if filing.Totals != nil {
			fmt.Printf("  Receipts: $%.2f  Disbursements: $%.2f  Cash: $%.2f\n",
				filing.Totals.TotalReceipts, filing.Totals.TotalDisbursements, filing.Totals.CashOnHandEndPeriod)
		}
		if filingsShowURLs {
			if filing.PDFURL != "" {
				fmt.Printf("  PDF: %s\n", filing.PDFURL)
			}
			if filing.CSVURL != "" {
				fmt.Printf("  CSV: %s\n", filing.CSVURL)
			}
		}
	}

	return nil
}

// filingRow flattens a filing for filter expressions.
func filingRow(filing openfec.Filing) map[string]any {
	return map[string]any{
		"CommitteeID":   filing.CommitteeID,
		"CommitteeName": filing.CommitteeName,
		"FormType":      filing.FormType,
		"FileNumber":    filing.FileNumber,
		"ReceiptDate":   filing.ReceiptDate,
		"CoverageStart": filing.CoverageStartDate,
		"CoverageEnd":   filing.CoverageEndDate,
		"IsAmended":     filing.IsAmended,
	}
}
