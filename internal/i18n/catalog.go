// Package i18n resolves localized labels and formats amounts for a language.
// A catalog never falls back to another language or to the raw key.
package i18n

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rezonia/invoice-generator/internal/model"
)

// Label keys consumed by the document renderer
const (
	KeyInvoice           = "invoice"
	KeyShippedFrom       = "shipped_from"
	KeyOrderDate         = "order_date"
	KeyOrderNumber       = "order_number"
	KeyOrderedBy         = "ordered_by"
	KeySoldBy            = "sold_by"
	KeyVAT               = "vat"
	KeyInvoiceNumber     = "invoice_number"
	KeyInvoiceDate       = "invoice_date"
	KeyBillingAddress    = "billing_address"
	KeyShippingAddress   = "shipping_address"
	KeyCommercialAddress = "commercial_address"
	KeyDescription       = "description"
	KeyASIN              = "asin"
	KeyQty               = "qty"
	KeyUnitPrice         = "unit_price"
	KeyVATRate           = "vat_rate"
	KeyLineTotal         = "line_total"
	KeyDelivery          = "delivery"
	KeyDiscount          = "discount"
	KeySubtotal          = "subtotal"
	KeyShipping          = "shipping"
	KeyVATAmount         = "vat_amount"
	KeyTotal             = "total"
	KeyPaymentReference  = "payment_reference"
	KeyCustomerService   = "customer_service"
	KeyLegal             = "legal"
	KeyPage              = "page"
)

// AllKeys lists every key a complete language table defines
var AllKeys = []string{
	KeyInvoice, KeyShippedFrom, KeyOrderDate, KeyOrderNumber, KeyOrderedBy, KeySoldBy, KeyVAT,
	KeyInvoiceNumber, KeyInvoiceDate, KeyBillingAddress, KeyShippingAddress, KeyCommercialAddress,
	KeyDescription, KeyASIN, KeyQty, KeyUnitPrice, KeyVATRate, KeyLineTotal, KeyDelivery,
	KeyDiscount, KeySubtotal, KeyShipping, KeyVATAmount, KeyTotal, KeyPaymentReference,
	KeyCustomerService, KeyLegal, KeyPage,
}

//go:embed translations.json
var defaultTranslations []byte

// Catalog maps a language to its label table
type Catalog struct {
	tables map[model.Language]map[string]string
}

// New creates a catalog from in-memory tables
func New(tables map[model.Language]map[string]string) *Catalog {
	c := &Catalog{tables: make(map[model.Language]map[string]string, len(tables))}
	for lang, table := range tables {
		copied := make(map[string]string, len(table))
		for k, v := range table {
			copied[k] = v
		}
		c.tables[lang] = copied
	}
	return c
}

// Default returns the catalog shipped with the binary
func Default() *Catalog {
	c, err := Load(bytes.NewReader(defaultTranslations))
	if err != nil {
		panic(fmt.Sprintf("embedded translations: %v", err))
	}
	return c
}

// Load reads a JSON object of language code → key → text
func Load(r io.Reader) (*Catalog, error) {
	var raw map[string]map[string]string
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode translations: %w", err)
	}

	tables := make(map[model.Language]map[string]string, len(raw))
	for code, table := range raw {
		lang, err := model.ParseLanguage(code)
		if err != nil {
			return nil, fmt.Errorf("translations: %w", err)
		}
		tables[lang] = table
	}
	return New(tables), nil
}

// LoadFile reads a translations file from disk
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open translations: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Lookup returns the text of one key. Blank text counts as missing.
func (c *Catalog) Lookup(lang model.Language, key string) (string, error) {
	text := strings.TrimSpace(c.tables[lang][key])
	if text == "" {
		return "", model.NewMissingTranslationError(lang, key)
	}
	return c.tables[lang][key], nil
}

// Labels resolves every given key for a language up front
func (c *Catalog) Labels(lang model.Language, keys ...string) (*Labels, error) {
	l := &Labels{Language: lang, text: make(map[string]string, len(keys))}
	for _, key := range keys {
		text, err := c.Lookup(lang, key)
		if err != nil {
			return nil, err
		}
		l.text[key] = text
	}
	return l, nil
}

// Languages returns the languages the catalog has a table for
func (c *Catalog) Languages() []model.Language {
	var langs []model.Language
	for _, lang := range model.Languages {
		if _, ok := c.tables[lang]; ok {
			langs = append(langs, lang)
		}
	}
	return langs
}

// Labels is a resolved, read-only label set for one language
type Labels struct {
	Language model.Language
	text     map[string]string
}

// Require checks that every key was resolved
func (l *Labels) Require(keys ...string) error {
	for _, key := range keys {
		if _, ok := l.text[key]; !ok {
			return model.NewMissingTranslationError(l.Language, key)
		}
	}
	return nil
}

// Get returns the text of a resolved key. Callers Require their keys first.
func (l *Labels) Get(key string) string {
	return l.text[key]
}
