package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var logLimit int

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "List recently generated invoices",
	Long: `List the most recent entries of the audit log, oldest first.

Reads INVOICE_AUDIT_LOG, or the Postgres table when INVOICE_AUDIT_DSN is set.

Examples:
  invoice-generator log
  invoice-generator log --limit 100 -f json`,
	RunE: runLog,
}

func init() {
	rootCmd.AddCommand(logCmd)

	logCmd.Flags().IntVarP(&logLimit, "limit", "n", 20, "Number of entries to show (0 for all)")
}

func runLog(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	store, err := openAudit(ctx)
	if err != nil {
		return err
	}
	defer store.close()

	entries, err := store.reader.Recent(ctx, logLimit)
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		return printJSON(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No invoices recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "GENERATED\tINVOICE\tCUSTOMER\tLANG\tPAGES\tTOTAL\tFILE")
	fmt.Fprintln(tw, "---------\t-------\t--------\t----\t-----\t-----\t----")

	for _, e := range entries {
		number, customer, lang := "", "", ""
		if e.Invoice != nil {
			number = e.Invoice.Number
			customer = e.Invoice.Customer.Name
			lang = string(e.Invoice.Language)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s %s\t%s\n",
			e.GeneratedAt.Local().Format("2006-01-02 15:04:05"),
			number,
			customer,
			lang,
			e.Pages,
			e.Totals.GrandTotal.StringFixedBank(e.Totals.Currency.MinorUnits()),
			e.Totals.Currency,
			e.FileName,
		)
	}

	return tw.Flush()
}
