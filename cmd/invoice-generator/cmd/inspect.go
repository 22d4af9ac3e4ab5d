package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rezonia/invoice-generator/internal/render"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [files...]",
	Short: "Show information about generated PDF invoices",
	Long: `Read generated PDFs back and display what they contain.

Shows:
  - Whether the file is a valid PDF
  - Page count
  - Document properties (invoice number, currency and total when the
    invoice was generated with INVOICE_VERIFY_PDF=true)

Examples:
  invoice-generator inspect INV-001_FR.pdf
  invoice-generator inspect out/ -f json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

// InspectResult holds what was read from one PDF
type InspectResult struct {
	File  string       `json:"file"`
	Info  *render.Info `json:"info,omitempty"`
	Error string       `json:"error,omitempty"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args, ".pdf")
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found")
	}

	results := make([]*InspectResult, 0, len(files))
	for _, file := range files {
		results = append(results, inspectFile(file))
	}

	if outputFormat == "json" {
		return printJSON(results)
	}

	for _, r := range results {
		printInspectResult(r)
		fmt.Println()
	}
	return nil
}

func inspectFile(path string) *InspectResult {
	result := &InspectResult{File: path}

	data, err := readInput(path)
	if err != nil {
		result.Error = fmt.Sprintf("failed to read file: %v", err)
		return result
	}

	info, err := render.Inspect(data)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Info = info
	return result
}

func printInspectResult(r *InspectResult) {
	fmt.Printf("File: %s\n", r.File)
	if r.Error != "" {
		fmt.Printf("  Error: %s\n", r.Error)
		return
	}

	fmt.Printf("  Size:  %s\n", formatSize(r.Info.Size))
	fmt.Printf("  Pages: %d\n", r.Info.Pages)

	if len(r.Info.Properties) == 0 {
		return
	}
	keys := make([]string, 0, len(r.Info.Properties))
	for k := range r.Info.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Println("  Properties:")
	for _, k := range keys {
		fmt.Printf("    %s: %s\n", k, r.Info.Properties[k])
	}
}

func formatSize(size int) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := int64(size) / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
