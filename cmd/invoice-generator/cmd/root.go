package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rezonia/invoice-generator/internal/audit"
	"github.com/rezonia/invoice-generator/internal/config"
	"github.com/rezonia/invoice-generator/internal/i18n"
	"github.com/rezonia/invoice-generator/internal/llm"
	"github.com/rezonia/invoice-generator/internal/logger"
	"github.com/rezonia/invoice-generator/internal/processor"
)

var (
	version = "1.0.0"

	// Global flags
	verbose          bool
	outputFormat     string
	envFile          string
	auditLogPath     string
	translationsPath string
	apiKey           string
	llmBaseURL       string
	llmModel         string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "invoice-generator",
	Short: "Generate multilingual PDF sales invoices",
	Long: `Invoice Generator turns order data into paginated PDF invoices in
French, English, Italian, Spanish or German, and records every generated
invoice in an append-only audit log.

Examples:
  # Serve the HTML form and the JSON API
  invoice-generator serve

  # Generate PDFs from JSON submissions
  invoice-generator generate order.json -d out/

  # Check submissions without rendering
  invoice-generator validate orders/*.json

  # Show the last recorded invoices
  invoice-generator log --limit 20`,
	Version:           version,
	PersistentPreRunE: initConfig,
	SilenceUsage:      true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "table", "Output format (json, table)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Load settings from this .env file (default: ./.env when present)")
	rootCmd.PersistentFlags().StringVar(&auditLogPath, "audit-log", "", "Audit log file (env: INVOICE_AUDIT_LOG)")
	rootCmd.PersistentFlags().StringVar(&translationsPath, "translations", "", "Translations JSON file (env: INVOICE_TRANSLATIONS)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "API key for LLM provider (env: LLM_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&llmBaseURL, "llm-base-url", "", "LLM API base URL (env: LLM_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&llmModel, "llm-model", "", "LLM model for order drafting (env: LLM_MODEL)")
}

// initConfig loads the environment and lets flags override it
func initConfig(cmd *cobra.Command, args []string) error {
	var err error
	if envFile != "" {
		cfg, err = config.LoadFile(envFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	if auditLogPath != "" {
		cfg.AuditLog = auditLogPath
	}
	if translationsPath != "" {
		cfg.Translations = translationsPath
	}
	if apiKey != "" {
		cfg.LLMAPIKey = apiKey
	}
	if llmBaseURL != "" {
		cfg.LLMBaseURL = llmBaseURL
	}
	if llmModel != "" {
		cfg.LLMModel = llmModel
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	switch outputFormat {
	case "json", "table":
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

func newLogger() (*zap.Logger, error) {
	return logger.New(cfg.LoggerConfig())
}

// auditStore is the configured audit trail with its cleanup
type auditStore struct {
	sink   audit.Sink
	reader audit.Reader
	close  func()
}

func openAudit(ctx context.Context) (*auditStore, error) {
	if cfg.AuditDSN != "" {
		pg, err := audit.NewPostgresLog(ctx, cfg.AuditDSN)
		if err != nil {
			return nil, err
		}
		printVerbose("Audit log: postgres\n")
		return &auditStore{sink: pg, reader: pg, close: pg.Close}, nil
	}
	log := audit.NewFileLog(cfg.AuditLog)
	printVerbose("Audit log: %s\n", log.Path())
	return &auditStore{sink: log, reader: log, close: func() {}}, nil
}

// newPipeline wires the configured catalog, audit trail and defaults
func newPipeline(store *auditStore, log *zap.Logger) (*processor.Pipeline, error) {
	opts := []processor.Option{
		processor.WithDefaults(cfg.FormDefaults()),
		processor.WithVerification(cfg.VerifyPDF),
		processor.WithLogger(log),
	}
	if store != nil {
		opts = append(opts, processor.WithAuditSink(store.sink))
	}
	if cfg.Translations != "" {
		catalog, err := i18n.LoadFile(cfg.Translations)
		if err != nil {
			return nil, err
		}
		opts = append(opts, processor.WithCatalog(catalog))
	}
	return processor.NewPipeline(opts...), nil
}

func newLLMClient() *llm.Client {
	var clientOpts []llm.ClientOption
	if cfg.LLMBaseURL != "" {
		clientOpts = append(clientOpts, llm.WithBaseURL(cfg.LLMBaseURL))
	}
	if cfg.LLMModel != "" {
		clientOpts = append(clientOpts, llm.WithDefaultModel(cfg.LLMModel))
	}
	return llm.NewClient(cfg.LLMAPIKey, clientOpts...)
}

// newDrafter returns nil when no API key is configured
func newDrafter() *llm.Drafter {
	if !cfg.LLMEnabled() {
		return nil
	}
	return llm.NewDrafter(newLLMClient())
}

func collectFiles(args []string, exts ...string) ([]string, error) {
	var files []string

	for _, arg := range args {
		if arg == "-" {
			files = append(files, arg)
			continue
		}

		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", arg, err)
		}

		if len(matches) == 0 {
			info, err := os.Stat(arg)
			if err != nil {
				return nil, fmt.Errorf("file not found: %s", arg)
			}

			if info.IsDir() {
				err := filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
					if err != nil {
						return err
					}
					if !info.IsDir() && hasExt(path, exts) {
						files = append(files, path)
					}
					return nil
				})
				if err != nil {
					return nil, err
				}
			} else {
				files = append(files, arg)
			}
			continue
		}

		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				continue
			}
			if !info.IsDir() && hasExt(match, exts) {
				files = append(files, match)
			}
		}
	}

	return files, nil
}

func hasExt(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
