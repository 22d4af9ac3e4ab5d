package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rezonia/invoice-generator/internal/form"
	"github.com/rezonia/invoice-generator/internal/model"
	"github.com/rezonia/invoice-generator/internal/processor"
)

var (
	strictValidation bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Validate JSON submissions without rendering",
	Long: `Validate one or more JSON submissions and print their totals.
Nothing is rendered and nothing is recorded.

Checks performed:
  - Required parts present (number, seller, customer, items)
  - Amounts, quantities, percentages and dates well formed
  - Preset seller VAT numbers match their country format
  - Promotions larger than the order (warning)
  - Reverse charge without a customer VAT number (warning)

Examples:
  invoice-generator validate order.json
  invoice-generator validate orders/*.json --strict`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&strictValidation, "strict", false, "Treat warnings as errors")
}

// ValidationResult holds the result of validating a single submission
type ValidationResult struct {
	Source   string        `json:"source"`
	Valid    bool          `json:"valid"`
	Totals   *model.Totals `json:"totals,omitempty"`
	Errors   []string      `json:"errors,omitempty"`
	Warnings []string      `json:"warnings,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args, ".json")
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found to validate")
	}

	pipeline, err := newPipeline(nil, nil)
	if err != nil {
		return err
	}

	var results []*ValidationResult
	allValid := true

	for _, file := range files {
		reqs, err := readRequests(file)
		if err != nil {
			results = append(results, &ValidationResult{Source: file, Errors: []string{err.Error()}})
			allValid = false
			continue
		}
		for i, req := range reqs {
			source := file
			if len(reqs) > 1 {
				source = fmt.Sprintf("%s[%d]", file, i)
			}
			result := validateRequest(pipeline, source, req)
			if !result.Valid {
				allValid = false
			}
			results = append(results, result)
		}
	}

	if outputFormat == "json" {
		if err := printJSON(results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Valid {
				fmt.Printf("✓ %s: VALID", r.Source)
				if r.Totals != nil {
					fmt.Printf(" (total %s %s)", r.Totals.GrandTotal.StringFixedBank(r.Totals.Currency.MinorUnits()), r.Totals.Currency)
				}
				fmt.Println()
			} else {
				fmt.Printf("✗ %s: INVALID\n", r.Source)
				for _, e := range r.Errors {
					fmt.Printf("  - %s\n", e)
				}
			}
			for _, w := range r.Warnings {
				fmt.Printf("  ⚠ %s\n", w)
			}
		}
	}

	if !allValid {
		return fmt.Errorf("validation failed for some submissions")
	}

	return nil
}

func validateRequest(pipeline *processor.Pipeline, source string, req form.Request) *ValidationResult {
	result := &ValidationResult{Source: source, Valid: true}

	preview := pipeline.Preview(req)
	if !preview.OK() {
		result.Valid = false
		result.Errors = errorLines(preview.Error)
		return result
	}

	result.Totals = &preview.Totals
	result.Warnings = append(result.Warnings, preview.Warnings...)

	inv := preview.Invoice
	if !inv.VATApplies && inv.Customer.VAT.IsZero() {
		result.Warnings = append(result.Warnings, "VAT not applied but the customer has no VAT number")
	}
	if inv.Seller.VAT.IsZero() {
		result.Warnings = append(result.Warnings, "seller has no VAT number")
	}

	if strictValidation && len(result.Warnings) > 0 {
		result.Valid = false
		result.Errors = result.Warnings
		result.Warnings = nil
	}

	return result
}

// errorLines splits joined errors into one line each
func errorLines(err error) []string {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var lines []string
		for _, e := range joined.Unwrap() {
			lines = append(lines, errorLines(e)...)
		}
		return lines
	}

	var incomplete *model.IncompleteInvoiceError
	if errors.As(err, &incomplete) {
		lines := make([]string, len(incomplete.Missing))
		for i, m := range incomplete.Missing {
			lines[i] = "missing " + m
		}
		return lines
	}
	return []string{err.Error()}
}
