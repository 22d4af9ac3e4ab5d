package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/invoice-generator/internal/form"
	"github.com/rezonia/invoice-generator/internal/processor"
)

var (
	outputDir string
	workers   int
	timeout   time.Duration
)

var generateCmd = &cobra.Command{
	Use:   "generate [files...]",
	Short: "Generate PDF invoices from JSON submissions",
	Long: `Generate one PDF per submission. Each file holds one submission object
or an array of them, in the shape accepted by POST /api/v1/invoices.
Use "-" to read from stdin.

Every generated invoice is recorded in the audit log.

Examples:
  invoice-generator generate order.json
  invoice-generator generate orders/ -d out/ --workers 8
  cat order.json | invoice-generator generate - -f json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&outputDir, "out-dir", "d", ".", "Directory the PDFs are written to")
	generateCmd.Flags().IntVar(&workers, "workers", 4, "Invoices rendered concurrently")
	generateCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Timeout for the whole run")
}

// GenerateResult holds the outcome of one submission
type GenerateResult struct {
	Source   string   `json:"source"`
	Number   string   `json:"number,omitempty"`
	Output   string   `json:"output,omitempty"`
	Pages    int      `json:"pages,omitempty"`
	Total    string   `json:"total,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// submission is a request with the file it came from
type submission struct {
	source string
	req    form.Request
}

func runGenerate(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args, ".json")
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found to generate")
	}

	var subs []submission
	var results []*GenerateResult
	for _, file := range files {
		reqs, err := readRequests(file)
		if err != nil {
			results = append(results, &GenerateResult{Source: file, Error: err.Error()})
			continue
		}
		for i, req := range reqs {
			source := file
			if len(reqs) > 1 {
				source = fmt.Sprintf("%s[%d]", file, i)
			}
			subs = append(subs, submission{source: source, req: req})
		}
	}
	printVerbose("Found %d submissions in %d files\n", len(subs), len(files))

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	store, err := openAudit(ctx)
	if err != nil {
		return err
	}
	defer store.close()

	pipeline, err := newPipeline(store, log)
	if err != nil {
		return err
	}

	reqs := make([]form.Request, len(subs))
	for i, s := range subs {
		reqs[i] = s.req
	}

	for i, r := range pipeline.GenerateBatch(ctx, reqs, workers) {
		result := writeResult(subs[i].source, r)
		if result.Error != "" {
			printVerbose("  %s: %s\n", result.Source, result.Error)
		}
		results = append(results, result)
	}

	if err := outputGenerateResults(results); err != nil {
		return err
	}

	if n := countFailed(results); n > 0 {
		return fmt.Errorf("%d of %d submissions failed", n, len(results))
	}
	return nil
}

func writeResult(source string, r *processor.Result) *GenerateResult {
	result := &GenerateResult{Source: source, Warnings: r.Warnings}
	if r.Invoice != nil {
		result.Number = r.Invoice.Number
	}
	if !r.OK() {
		result.Error = r.Error.Error()
		return result
	}

	path := filepath.Join(outputDir, r.FileName)
	if err := os.WriteFile(path, r.Document, 0o644); err != nil {
		result.Error = fmt.Sprintf("failed to write PDF: %v", err)
		return result
	}

	result.Output = path
	result.Pages = r.Pages
	result.Total = fmt.Sprintf("%s %s", r.Totals.GrandTotal.StringFixedBank(r.Totals.Currency.MinorUnits()), r.Totals.Currency)
	return result
}

func countFailed(results []*GenerateResult) int {
	n := 0
	for _, r := range results {
		if r.Error != "" {
			n++
		}
	}
	return n
}

// readRequests decodes a file holding one submission or an array of them
func readRequests(path string) ([]form.Request, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	data = bytes.TrimSpace(data)
	if bytes.HasPrefix(data, []byte("[")) {
		var reqs []form.Request
		if err := json.Unmarshal(data, &reqs); err != nil {
			return nil, fmt.Errorf("failed to parse submissions: %w", err)
		}
		return reqs, nil
	}

	var req form.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse submission: %w", err)
	}
	return []form.Request{req}, nil
}

func outputGenerateResults(results []*GenerateResult) error {
	if outputFormat == "json" {
		return printJSON(results)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tINVOICE\tPAGES\tTOTAL\tOUTPUT")
	fmt.Fprintln(tw, "------\t-------\t-----\t-----\t------")

	for _, r := range results {
		if r.Error != "" {
			fmt.Fprintf(tw, "%s\t%s\tERROR: %s\t\t\n", r.Source, r.Number, r.Error)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", r.Source, r.Number, r.Pages, r.Total, r.Output)
		for _, w := range r.Warnings {
			fmt.Fprintf(tw, "\t  warning: %s\t\t\t\n", w)
		}
	}

	return tw.Flush()
}
