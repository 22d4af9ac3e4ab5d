// Package invoicelib provides a public API for generating sales invoices.
//
// A submission is normalized, assembled into an invoice, totalled, rendered
// to a paginated PDF in the requested language and recorded in an
// append-only audit log.
//
// Example usage:
//
//	gen, err := invoicelib.NewGenerator(invoicelib.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := gen.Generate(ctx, req)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(result.FileName, result.Document, 0o644)
package invoicelib

import (
	"github.com/rezonia/invoice-generator/internal/form"
	"github.com/rezonia/invoice-generator/internal/model"
)

// Re-export core types for public API
type (
	Invoice       = model.Invoice
	LineItem      = model.LineItem
	Party         = model.Party
	Totals        = model.Totals
	Promotion     = model.Promotion
	PromotionKind = model.PromotionKind
	DeliveryTerms = model.DeliveryTerms
	VATNumber     = model.VATNumber
	VATKind       = model.VATKind
	Currency      = model.Currency
	Language      = model.Language
)

// Re-export submission types
type (
	Request      = form.Request
	PartyRequest = form.PartyRequest
	ItemRequest  = form.ItemRequest
	Number       = form.Number
)

// Re-export languages
const (
	LanguageFR = model.LanguageFR
	LanguageEN = model.LanguageEN
	LanguageIT = model.LanguageIT
	LanguageES = model.LanguageES
	LanguageDE = model.LanguageDE
)

// Re-export currencies
const (
	CurrencyEUR = model.CurrencyEUR
	CurrencyUSD = model.CurrencyUSD
	CurrencyGBP = model.CurrencyGBP
	CurrencyCAD = model.CurrencyCAD
	CurrencyAUD = model.CurrencyAUD
)

// Re-export promotion kinds
const (
	PromotionNone    = model.PromotionNone
	PromotionFlat    = model.PromotionFlat
	PromotionPercent = model.PromotionPercent
)

// Re-export VAT number kinds
const (
	VATKindNone   = model.VATKindNone
	VATKindPreset = model.VATKindPreset
	VATKindCustom = model.VATKindCustom
)

// Re-export error types
type (
	ValidationError         = model.ValidationError
	IncompleteInvoiceError  = model.IncompleteInvoiceError
	MissingTranslationError = model.MissingTranslationError
	PersistenceError        = model.PersistenceError
)
