package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var draftTimeout time.Duration

var draftCmd = &cobra.Command{
	Use:   "draft [file]",
	Short: "Draft a JSON submission from order confirmation text",
	Long: `Ask an LLM to turn pasted order confirmation text into a JSON
submission for the generate command. The draft is printed to stdout and
checked like any other submission; problems are reported on stderr.

Requires LLM_API_KEY (and usually LLM_BASE_URL).

Examples:
  invoice-generator draft order.txt > order.json
  pbpaste | invoice-generator draft - --api-key <key>`,
	Args: cobra.ExactArgs(1),
	RunE: runDraft,
}

func init() {
	rootCmd.AddCommand(draftCmd)

	draftCmd.Flags().DurationVar(&draftTimeout, "timeout", 2*time.Minute, "LLM request timeout")
}

func runDraft(cmd *cobra.Command, args []string) error {
	drafter := newDrafter()
	if drafter == nil {
		return fmt.Errorf("LLM_API_KEY is required. Set it via environment variable or --api-key flag")
	}

	text, err := readInput(args[0])
	if err != nil {
		return fmt.Errorf("failed to read order text: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), draftTimeout)
	defer cancel()

	printVerbose("Drafting with %s\n", newLLMClient().DefaultModel())
	req, err := drafter.Draft(ctx, string(text))
	if err != nil {
		return err
	}

	if err := printJSON(req); err != nil {
		return err
	}

	pipeline, err := newPipeline(nil, nil)
	if err != nil {
		return err
	}
	result := validateRequest(pipeline, args[0], *req)
	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "✗ %s\n", e)
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "⚠ %s\n", w)
	}
	return nil
}
