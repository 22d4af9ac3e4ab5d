package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rezonia/invoice-generator/internal/server"
)

var (
	serverAddr   string
	serverDebug  bool
	readTimeout  time.Duration
	writeTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP form service",
	Long: `Start an HTTP server offering the invoice form and a JSON API.

The server provides:
  - GET  /                  - Invoice form
  - POST /invoice           - Form submission, returns the PDF
  - POST /api/v1/invoices   - JSON submission, returns the PDF (?format=json for totals + base64)
  - POST /api/v1/totals     - Totals preview
  - GET  /api/v1/options    - Languages, currencies and preset VAT numbers
  - GET  /api/v1/audit      - Recently generated invoices
  - POST /api/v1/draft      - Draft a submission from order text (needs an LLM API key)
  - GET  /health            - Health check

Examples:
  # Start server on the configured address (INVOICE_ADDR, default :8080)
  invoice-generator serve

  # Start on a custom port with drafting enabled
  invoice-generator serve --address :9090 --api-key <key>

  # Start in debug mode
  invoice-generator serve --debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverAddr, "address", "", "Server listen address (env: INVOICE_ADDR)")
	serveCmd.Flags().BoolVar(&serverDebug, "debug", false, "Enable debug mode")
	serveCmd.Flags().DurationVar(&readTimeout, "read-timeout", 30*time.Second, "HTTP read timeout")
	serveCmd.Flags().DurationVar(&writeTimeout, "write-timeout", 2*time.Minute, "HTTP write timeout")
}

func runServe(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	store, err := openAudit(ctx)
	cancel()
	if err != nil {
		return err
	}
	defer store.close()

	pipeline, err := newPipeline(store, log)
	if err != nil {
		return err
	}

	if serverAddr == "" {
		serverAddr = cfg.Addr
	}
	config := &server.Config{
		Address:      serverAddr,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		Debug:        serverDebug,
	}

	opts := []server.Option{
		server.WithAuditReader(store.reader),
		server.WithLogger(log),
	}
	if drafter := newDrafter(); drafter != nil {
		opts = append(opts, server.WithDrafter(drafter))
	}
	srv := server.NewServer(config, pipeline, opts...)

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		fmt.Println("\nShutting down server...")
		store.close()
		_ = log.Sync()
		os.Exit(0)
	}()

	log.Info("starting server",
		zap.String("address", serverAddr),
		zap.Bool("drafting", cfg.LLMEnabled()),
		zap.Bool("verify_pdf", cfg.VerifyPDF),
	)

	return srv.Run()
}
