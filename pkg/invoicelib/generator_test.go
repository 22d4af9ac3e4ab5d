package invoicelib_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/invoice-generator/pkg/invoicelib"
)

func newGenerator(t *testing.T) *invoicelib.Generator {
	t.Helper()
	opts := invoicelib.DefaultOptions()
	opts.AuditLogPath = filepath.Join(t.TempDir(), "audit.jsonl")
	gen, err := invoicelib.NewGenerator(opts)
	require.NoError(t, err)
	return gen
}

func request(number string) invoicelib.Request {
	return invoicelib.Request{
		Number:   number,
		Seller:   invoicelib.PartyRequest{Name: "Verkäufer GmbH", Address: "Hauptstr. 1\n10115 Berlin", VAT: "DE814584193"},
		Customer: invoicelib.PartyRequest{Name: "Max Mustermann", Address: "Ringstr. 5"},
		Items: []invoicelib.ItemRequest{
			{Description: "Kabel", UnitPrice: "10.00", Quantity: "2"},
			{Description: "Stecker", UnitPrice: "2.50", Quantity: "4"},
		},
		Shipping: "3.99",
		Language: "de",
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := invoicelib.DefaultOptions()

	assert.Equal(t, "EUR", opts.DefaultCurrency)
	assert.Equal(t, "fr", opts.DefaultLanguage)
	assert.Equal(t, "20", opts.VATRate)
	assert.True(t, opts.VATApplies)
	assert.False(t, opts.VerifyPDF)
}

func TestNewDefaultGenerator(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	gen := invoicelib.NewDefaultGenerator()
	require.NotNil(t, gen)
}

func TestNewGenerator_InvalidOptions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*invoicelib.Options)
	}{
		{"currency", func(o *invoicelib.Options) { o.DefaultCurrency = "XYZ" }},
		{"language", func(o *invoicelib.Options) { o.DefaultLanguage = "pt" }},
		{"vat rate", func(o *invoicelib.Options) { o.VATRate = "120" }},
		{"translations", func(o *invoicelib.Options) { o.TranslationsPath = "/nonexistent/labels.json" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := invoicelib.DefaultOptions()
			tt.mutate(&opts)
			_, err := invoicelib.NewGenerator(opts)
			assert.Error(t, err)
		})
	}
}

func TestGenerator_Generate(t *testing.T) {
	gen := newGenerator(t)

	result, err := gen.Generate(context.Background(), request("RE-1"))
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(result.Document, []byte("%PDF-")))
	assert.Equal(t, "RE-1_DE.pdf", result.FileName)
	assert.Equal(t, invoicelib.CurrencyEUR, result.Totals.Currency)
	assert.Equal(t, "30.00", result.Totals.Subtotal.StringFixed(2))
	// shipping is outside the VAT base
	assert.Equal(t, "6.00", result.Totals.VAT.StringFixed(2))
	assert.Equal(t, "39.99", result.Totals.GrandTotal.StringFixed(2))

	entries, err := gen.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "RE-1", entries[0].Invoice.Number)
}

func TestGenerator_ReverseCharge(t *testing.T) {
	opts := invoicelib.DefaultOptions()
	opts.AuditLogPath = ""
	opts.VATApplies = false
	gen, err := invoicelib.NewGenerator(opts)
	require.NoError(t, err)

	result, err := gen.Preview(request("RE-2"))
	require.NoError(t, err)
	assert.True(t, result.Totals.VAT.IsZero())
	assert.Equal(t, "33.99", result.Totals.GrandTotal.StringFixed(2))

	entries, err := gen.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGenerator_Errors(t *testing.T) {
	gen := newGenerator(t)

	req := request("RE-3")
	req.Items[1].Quantity = "-1"
	_, err := gen.Generate(context.Background(), req)

	var verr *invoicelib.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "items[1].quantity", verr.Field)

	_, err = gen.Generate(context.Background(), invoicelib.Request{})
	var incomplete *invoicelib.IncompleteInvoiceError
	assert.True(t, errors.As(err, &incomplete))
}

func TestGenerator_GenerateBatch(t *testing.T) {
	gen := newGenerator(t)

	bad := request("RE-BAD")
	bad.Currency = "XYZ"
	reqs := []invoicelib.Request{request("RE-10"), bad, request("RE-11")}

	results, err := gen.GenerateBatch(context.Background(), reqs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request 1")

	require.Len(t, results, 3)
	assert.NotNil(t, results[0])
	assert.Nil(t, results[1])
	assert.NotNil(t, results[2])

	entries, err := gen.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestGenerator_Translations(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "labels.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"en": {"invoice": "Invoice"}}`), 0o644))

	opts := invoicelib.DefaultOptions()
	opts.AuditLogPath = ""
	opts.TranslationsPath = path
	gen, err := invoicelib.NewGenerator(opts)
	require.NoError(t, err)

	req := request("RE-4")
	req.Language = "en"
	_, err = gen.Generate(context.Background(), req)

	var missing *invoicelib.MissingTranslationError
	assert.True(t, errors.As(err, &missing))
}

func TestGenerator_AuditFailureKeepsInvoice(t *testing.T) {
	opts := invoicelib.DefaultOptions()
	// a directory cannot be appended to
	opts.AuditLogPath = t.TempDir()
	gen, err := invoicelib.NewGenerator(opts)
	require.NoError(t, err)

	result, err := gen.Generate(context.Background(), request("RE-9"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(result.Document, []byte("%PDF-")))

	var perr *invoicelib.PersistenceError
	require.True(t, errors.As(result.AuditError, &perr), "got %v", result.AuditError)
	assert.Equal(t, opts.AuditLogPath, perr.Target)
	assert.NotEmpty(t, result.Warnings)
}
