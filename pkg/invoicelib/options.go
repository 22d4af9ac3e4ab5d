package invoicelib

import (
	"go.uber.org/zap"
)

// Options configures a Generator
type Options struct {
	// Audit log (JSON Lines); empty disables recording
	AuditLogPath string

	// Translations file (JSON); empty uses the built-in catalog
	TranslationsPath string

	// Defaults for fields a submission leaves out
	DefaultCurrency string
	DefaultLanguage string
	VATApplies      bool
	VATRate         string

	// Re-read each rendered document with pdfcpu and stamp its properties
	VerifyPDF bool

	// Concurrent renders in GenerateBatch
	Workers int

	Logger *zap.Logger
}

// DefaultOptions returns the defaults preselected on the form
func DefaultOptions() Options {
	return Options{
		AuditLogPath:    "invoices.jsonl",
		DefaultCurrency: string(CurrencyEUR),
		DefaultLanguage: string(LanguageFR),
		VATApplies:      true,
		VATRate:         "20",
		Workers:         4,
	}
}

// Result is a generated invoice
type Result struct {
	Invoice  *Invoice
	Totals   Totals
	Document []byte
	Pages    int
	FileName string
	Warnings []string

	// AuditError is set when the invoice was generated but could not be
	// recorded; errors.As finds the *PersistenceError behind it.
	AuditError error
}
