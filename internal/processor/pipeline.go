// Package processor runs a submission through the whole invoice pipeline:
// normalize, build, total, render, then record.
package processor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rezonia/invoice-generator/internal/audit"
	"github.com/rezonia/invoice-generator/internal/builder"
	"github.com/rezonia/invoice-generator/internal/form"
	"github.com/rezonia/invoice-generator/internal/i18n"
	"github.com/rezonia/invoice-generator/internal/model"
	"github.com/rezonia/invoice-generator/internal/render"
	"github.com/rezonia/invoice-generator/internal/totals"
)

// Result contains the outcome of one generation
type Result struct {
	Invoice  *model.Invoice
	Totals   model.Totals
	Document []byte
	Pages    int
	FileName string
	Warnings []string
	Error    error

	// AuditError is set when the document was produced but not recorded.
	// It is usually a *model.PersistenceError.
	AuditError error
}

// OK reports whether a document was produced
func (r *Result) OK() bool {
	return r.Error == nil
}

// Pipeline orchestrates invoice generation
type Pipeline struct {
	catalog  *i18n.Catalog
	renderer *render.Renderer
	sink     audit.Sink
	logger   *zap.Logger
	defaults form.Defaults
	verify   bool
	now      func() time.Time
}

// Option configures the pipeline
type Option func(*Pipeline)

// WithAuditSink sets where generated invoices are recorded
func WithAuditSink(s audit.Sink) Option {
	return func(p *Pipeline) {
		if s != nil {
			p.sink = s
		}
	}
}

// WithCatalog sets the translation catalog
func WithCatalog(c *i18n.Catalog) Option {
	return func(p *Pipeline) {
		if c != nil {
			p.catalog = c
		}
	}
}

// WithRenderer sets the document renderer
func WithRenderer(r *render.Renderer) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.renderer = r
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithDefaults sets the values used for fields a submission leaves out
func WithDefaults(d form.Defaults) Option {
	return func(p *Pipeline) { p.defaults = d }
}

// WithVerification re-reads every rendered document with pdfcpu and stamps
// the invoice number and total into its properties
func WithVerification(on bool) Option {
	return func(p *Pipeline) { p.verify = on }
}

// WithClock sets the time source for audit timestamps and default dates
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// NewPipeline creates a new pipeline with options
func NewPipeline(opts ...Option) *Pipeline {
	defaults := form.DefaultDefaults()
	defaults.Now = nil
	p := &Pipeline{
		catalog:  i18n.Default(),
		renderer: render.NewRenderer(),
		sink:     audit.Nop{},
		logger:   zap.NewNop(),
		defaults: defaults,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.defaults.Now == nil {
		p.defaults.Now = p.now
	}
	return p
}

// Catalog returns the translation catalog in use
func (p *Pipeline) Catalog() *i18n.Catalog {
	return p.catalog
}

// Defaults returns the defaults applied to submissions
func (p *Pipeline) Defaults() form.Defaults {
	return p.defaults
}

// Build normalizes a submission into an invoice and computes its totals
func (p *Pipeline) Build(req form.Request) (*model.Invoice, model.Totals, error) {
	in, err := req.Normalize(p.defaults)
	if err != nil {
		return nil, model.Totals{}, err
	}
	inv, err := builder.Build(in)
	if err != nil {
		return nil, model.Totals{}, err
	}
	return inv, totals.Calculate(inv), nil
}

// Preview runs a submission up to the totals without rendering or recording
func (p *Pipeline) Preview(req form.Request) *Result {
	inv, t, err := p.Build(req)
	if err != nil {
		return &Result{Error: err}
	}
	return &Result{Invoice: inv, Totals: t, FileName: inv.FileName(), Warnings: adjustments(inv, t)}
}

// Generate produces the PDF for a submission and records it. Input and
// translation errors abort with nothing recorded. A failed audit write does
// not take the document back: it is reported as a warning.
func (p *Pipeline) Generate(ctx context.Context, req form.Request) *Result {
	inv, t, err := p.Build(req)
	if err != nil {
		return &Result{Error: err}
	}
	result := &Result{Invoice: inv, Totals: t, FileName: inv.FileName(), Warnings: adjustments(inv, t)}

	labels, err := p.catalog.Labels(inv.Language, render.RequiredKeys...)
	if err != nil {
		result.Error = err
		return result
	}

	doc, err := p.renderer.Render(inv, t, labels)
	if err != nil {
		result.Error = fmt.Errorf("rendering failed: %w", err)
		return result
	}
	result.Document, result.Pages = doc.Data, doc.Pages

	if p.verify {
		if err := p.verifyDocument(result); err != nil {
			result.Error = err
			result.Document = nil
			return result
		}
	}

	entry := audit.NewEntry(inv, t, p.now())
	entry.Pages = result.Pages
	entry.Warnings = result.Warnings
	if err := p.sink.Append(ctx, entry); err != nil {
		p.logger.Warn("audit entry not recorded",
			zap.String("invoice", inv.Number),
			zap.Error(err),
		)
		result.AuditError = err
		result.Warnings = append(result.Warnings, fmt.Sprintf("audit log not written: %v", err))
	}

	p.logger.Info("invoice generated",
		zap.String("invoice", inv.Number),
		zap.String("language", string(inv.Language)),
		zap.String("currency", string(inv.Currency)),
		zap.String("grand_total", t.GrandTotal.StringFixedBank(inv.Currency.MinorUnits())),
		zap.Int("items", len(inv.Items)),
		zap.Int("pages", result.Pages),
	)
	return result
}

func (p *Pipeline) verifyDocument(result *Result) error {
	info, err := render.Inspect(result.Document)
	if err != nil {
		return fmt.Errorf("document verification failed: %w", err)
	}
	if info.Pages != result.Pages {
		return fmt.Errorf("document verification failed: rendered %d pages, read back %d", result.Pages, info.Pages)
	}

	stamped, err := render.Stamp(result.Document, map[string]string{
		"invoice_number": result.Invoice.Number,
		"currency":       string(result.Invoice.Currency),
		"grand_total":    result.Totals.GrandTotal.StringFixedBank(result.Invoice.Currency.MinorUnits()),
	})
	if err != nil {
		return err
	}
	result.Document = stamped
	return nil
}

// GenerateBatch generates several submissions with at most workers running
// at once. Results keep the order of the requests.
func (p *Pipeline) GenerateBatch(ctx context.Context, reqs []form.Request, workers int) []*Result {
	if workers < 1 {
		workers = 1
	}
	results := make([]*Result, len(reqs))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, req := range reqs {
		wg.Add(1)
		go func(idx int, req form.Request) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results[idx] = &Result{Error: ctx.Err()}
				return
			}
			defer func() { <-sem }()
			results[idx] = p.Generate(ctx, req)
		}(i, req)
	}

	wg.Wait()
	return results
}

// adjustments lists the figures the calculator had to clamp
func adjustments(inv *model.Invoice, t model.Totals) []string {
	var warnings []string
	promo := inv.Delivery.Promotion
	if promo.Kind == model.PromotionFlat && promo.Value.GreaterThan(t.Discount) {
		warnings = append(warnings, fmt.Sprintf("promotion of %s capped at %s",
			promo.Value.StringFixedBank(inv.Currency.MinorUnits()),
			t.Discount.StringFixedBank(inv.Currency.MinorUnits())))
	}
	return warnings
}
