package model_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/invoice-generator/internal/model"
)

func TestInvoice_Creation(t *testing.T) {
	inv := model.Invoice{
		Number:    "INV-001",
		IssueDate: time.Date(2026, 1, 18, 0, 0, 0, 0, time.UTC),
		Seller: model.Party{
			Name: "ABC Trading",
			VAT:  model.ParseVATNumber("FR12487773327"),
		},
		Customer: model.Party{
			Name: "Jane Doe",
		},
		Currency: model.CurrencyEUR,
		Language: model.LanguageFR,
	}

	assert.Equal(t, "INV-001", inv.Number)
	assert.Equal(t, model.VATKindPreset, inv.Seller.VAT.Kind)
	assert.Equal(t, "FR", inv.Seller.VAT.Country)
	assert.True(t, inv.Customer.VAT.IsZero())
	assert.Equal(t, "INV-001_FR.pdf", inv.FileName())
}

func TestInvoice_FileNameSanitized(t *testing.T) {
	inv := model.Invoice{Number: "2026/04 A", Language: model.LanguageDE}
	assert.Equal(t, "2026-04-A_DE.pdf", inv.FileName())
}

func TestLineItem_Amount(t *testing.T) {
	item := model.LineItem{
		Description: "USB cable",
		UnitPrice:   decimal.RequireFromString("19.99"),
		Quantity:    3,
	}

	assert.True(t, item.Amount().Equal(decimal.RequireFromString("59.97")),
		"Expected amount 59.97, got %s", item.Amount().String())
}

func TestParseLanguage(t *testing.T) {
	for _, lang := range model.Languages {
		parsed, err := model.ParseLanguage(string(lang))
		require.NoError(t, err)
		assert.Equal(t, lang, parsed)
	}

	parsed, err := model.ParseLanguage(" FR ")
	require.NoError(t, err)
	assert.Equal(t, model.LanguageFR, parsed)

	_, err = model.ParseLanguage("pt")
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "language", verr.Field)
}

func TestParseCurrency(t *testing.T) {
	cur, err := model.ParseCurrency("gbp")
	require.NoError(t, err)
	assert.Equal(t, model.CurrencyGBP, cur)
	assert.Equal(t, "£", cur.Symbol())

	for _, c := range model.Currencies {
		assert.Equal(t, int32(2), c.MinorUnits())
		assert.NotEmpty(t, c.Symbol())
	}

	_, err = model.ParseCurrency("JPY")
	require.Error(t, err)
}

func TestParseVATNumber(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		kind    model.VATKind
		country string
	}{
		{"empty", "  ", model.VATKindNone, ""},
		{"preset exact", "DE814584193", model.VATKindPreset, "DE"},
		{"preset with spaces", "es n0186022i", model.VATKindPreset, "ES"},
		{"custom", "CHE-123.456.789 MWST", model.VATKindCustom, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vat := model.ParseVATNumber(tt.raw)
			assert.Equal(t, tt.kind, vat.Kind)
			assert.Equal(t, tt.country, vat.Country)
		})
	}
}

func TestPresetVATNumbers_MatchCountryFormat(t *testing.T) {
	require.Len(t, model.PresetVATNumbers, 10)
	for _, vat := range model.PresetVATNumbers {
		assert.NoError(t, vat.ValidateFormat(), vat.Value)
	}
}

func TestVATNumber_ValidateFormat(t *testing.T) {
	bad := model.VATNumber{Kind: model.VATKindPreset, Value: "DE12", Country: "DE"}
	var verr *model.ValidationError
	require.ErrorAs(t, bad.ValidateFormat(), &verr)
	assert.Equal(t, "format", verr.Rule)

	custom := model.VATNumber{Kind: model.VATKindCustom, Value: "anything at all"}
	assert.NoError(t, custom.ValidateFormat())
}

func TestVATNumber_UnmarshalJSON(t *testing.T) {
	var party model.Party
	require.NoError(t, json.Unmarshal([]byte(`{"name":"ACME","vat":"IT08973230967"}`), &party))
	assert.Equal(t, model.VATKindPreset, party.VAT.Kind)

	require.NoError(t, json.Unmarshal([]byte(`{"name":"ACME","vat":{"kind":"custom","value":"X-1"}}`), &party))
	assert.Equal(t, model.VATKindCustom, party.VAT.Kind)
	assert.Equal(t, "X-1", party.VAT.Value)
}

func TestValidationError(t *testing.T) {
	err := model.NewValidationError("items[0].quantity", "0", "positive", "must be greater than zero")

	require.Contains(t, err.Error(), "items[0].quantity")
	require.Contains(t, err.Error(), "greater than zero")
	assert.Equal(t, "shipping", err.WithField("shipping").Field)
	assert.Equal(t, "items[0].quantity", err.Field)
}

func TestIncompleteInvoiceError(t *testing.T) {
	err := model.NewIncompleteInvoiceError("invoice number", "line items")
	require.Contains(t, err.Error(), "invoice number, line items")
}

func TestMissingTranslationError(t *testing.T) {
	err := model.NewMissingTranslationError(model.LanguageIT, "subtotal")
	require.Contains(t, err.Error(), "subtotal")
	require.Contains(t, err.Error(), "it")
}

func TestPersistenceError_WithCause(t *testing.T) {
	cause := errors.New("disk full")
	err := model.NewPersistenceError("append", "/var/log/invoices.jsonl", cause)

	require.Contains(t, err.Error(), "append")
	require.Contains(t, err.Error(), "/var/log/invoices.jsonl")
	require.ErrorIs(t, err, cause)
}
