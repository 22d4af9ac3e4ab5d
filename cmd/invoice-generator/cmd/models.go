package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/invoice-generator/internal/llm"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List available LLM models from API",
	Long: `Fetch and list available LLM models from the configured API endpoint.

This command queries the /models endpoint of your LLM provider to show
all available models. Requires LLM_API_KEY to be set.

To use a specific model for drafting, set the environment variable:
  LLM_MODEL=<model-id>

Or use the CLI flag:
  --llm-model <model-id>`,
	RunE: runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, args []string) error {
	// Show current configuration first
	fmt.Println("Current Configuration:")
	fmt.Println("----------------------")

	baseURL := cfg.LLMBaseURL
	if baseURL == "" {
		baseURL = llm.DefaultBaseURL + " (default)"
	}

	client := newLLMClient()

	apiKeyStatus := "Not set"
	if cfg.LLMAPIKey != "" {
		if len(cfg.LLMAPIKey) > 8 {
			apiKeyStatus = "Set (" + cfg.LLMAPIKey[:8] + "...)"
		} else {
			apiKeyStatus = "Set"
		}
	}

	fmt.Printf("  LLM_BASE_URL: %s\n", baseURL)
	fmt.Printf("  LLM_MODEL:    %s\n", client.DefaultModel())
	fmt.Printf("  LLM_API_KEY:  %s\n", apiKeyStatus)
	fmt.Println()

	if !cfg.LLMEnabled() {
		fmt.Println("⚠️  LLM_API_KEY is required. Set it via environment variable or --api-key flag.")
		return nil
	}

	fmt.Println("Fetching models...")
	fmt.Println()

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	models, err := client.ListModels(ctx)
	if err != nil {
		fmt.Printf("⚠️  Could not fetch models: %v\n", err)
		fmt.Println()
		fmt.Println("Tip: Your API provider may not support the /models endpoint.")
		fmt.Println("     You can still use a model by setting LLM_MODEL directly.")
		return nil
	}

	if len(models) == 0 {
		fmt.Println("No models returned from API.")
		return nil
	}

	sort.Slice(models, func(i, j int) bool {
		return models[i].ID < models[j].ID
	})

	if outputFormat == "json" {
		return printJSON(models)
	}

	fmt.Printf("Available Models (%d):\n", len(models))
	fmt.Println("=====================")
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODEL ID\tOWNER\tCREATED")
	fmt.Fprintln(w, "--------\t-----\t-------")

	for _, m := range models {
		created := ""
		if m.Created > 0 {
			created = time.Unix(m.Created, 0).Format("2006-01-02")
		}
		owner := m.OwnedBy
		if owner == "" {
			owner = llm.InferProvider(m.ID)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", m.ID, owner, created)
	}
	return w.Flush()
}
