package invoicelib

import (
	"context"
	"errors"
	"fmt"

	"github.com/rezonia/invoice-generator/internal/audit"
	dec "github.com/rezonia/invoice-generator/internal/decimal"
	"github.com/rezonia/invoice-generator/internal/form"
	"github.com/rezonia/invoice-generator/internal/i18n"
	"github.com/rezonia/invoice-generator/internal/model"
	"github.com/rezonia/invoice-generator/internal/processor"
)

// AuditEntry is one recorded invoice
type AuditEntry = audit.Entry

// Generator implements invoice generation using the internal pipeline
type Generator struct {
	pipeline *processor.Pipeline
	auditLog *audit.FileLog
	workers  int
}

// NewGenerator creates a generator with the given options
func NewGenerator(opts Options) (*Generator, error) {
	defaults := form.DefaultDefaults()
	defaults.Now = nil
	defaults.VATApplies = opts.VATApplies

	if opts.DefaultCurrency != "" {
		cur, err := model.ParseCurrency(opts.DefaultCurrency)
		if err != nil {
			return nil, fmt.Errorf("default currency: %w", err)
		}
		defaults.Currency = cur
	}
	if opts.DefaultLanguage != "" {
		lang, err := model.ParseLanguage(opts.DefaultLanguage)
		if err != nil {
			return nil, fmt.Errorf("default language: %w", err)
		}
		defaults.Language = lang
	}
	if opts.VATRate != "" {
		rate, err := dec.ParsePercentage("vat_rate", opts.VATRate, defaults.Language)
		if err != nil {
			return nil, fmt.Errorf("default VAT rate: %w", err)
		}
		defaults.VATRate = rate
	}

	pipelineOpts := []processor.Option{
		processor.WithDefaults(defaults),
		processor.WithVerification(opts.VerifyPDF),
		processor.WithLogger(opts.Logger),
	}

	if opts.TranslationsPath != "" {
		catalog, err := i18n.LoadFile(opts.TranslationsPath)
		if err != nil {
			return nil, err
		}
		pipelineOpts = append(pipelineOpts, processor.WithCatalog(catalog))
	}

	g := &Generator{workers: opts.Workers}
	if opts.AuditLogPath != "" {
		g.auditLog = audit.NewFileLog(opts.AuditLogPath)
		pipelineOpts = append(pipelineOpts, processor.WithAuditSink(g.auditLog))
	}
	g.pipeline = processor.NewPipeline(pipelineOpts...)

	return g, nil
}

// NewDefaultGenerator creates a generator with default options
func NewDefaultGenerator() *Generator {
	g, err := NewGenerator(DefaultOptions())
	if err != nil {
		// the defaults always parse
		panic(err)
	}
	return g
}

// Generate renders and records one invoice
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	return toResult(g.pipeline.Generate(ctx, req))
}

// Preview computes the invoice and its totals without rendering or recording
func (g *Generator) Preview(req Request) (*Result, error) {
	return toResult(g.pipeline.Preview(req))
}

// GenerateBatch generates several invoices concurrently. Results keep the
// order of the requests; a failed request leaves a nil result and its error
// is joined into the returned error.
func (g *Generator) GenerateBatch(ctx context.Context, reqs []Request) ([]*Result, error) {
	results := make([]*Result, len(reqs))
	var errs []error

	for i, r := range g.pipeline.GenerateBatch(ctx, reqs, g.workers) {
		res, err := toResult(r)
		if err != nil {
			errs = append(errs, fmt.Errorf("request %d: %w", i, err))
			continue
		}
		results[i] = res
	}

	return results, errors.Join(errs...)
}

// Recent returns the last limit recorded invoices
func (g *Generator) Recent(ctx context.Context, limit int) ([]AuditEntry, error) {
	if g.auditLog == nil {
		return nil, nil
	}
	return g.auditLog.Recent(ctx, limit)
}

func toResult(r *processor.Result) (*Result, error) {
	if !r.OK() {
		return nil, r.Error
	}
	return &Result{
		Invoice:    r.Invoice,
		Totals:     r.Totals,
		Document:   r.Document,
		Pages:      r.Pages,
		FileName:   r.FileName,
		Warnings:   r.Warnings,
		AuditError: r.AuditError,
	}, nil
}
