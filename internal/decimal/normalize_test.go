package decimal_test

import (
	"testing"

	dec "github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/invoice-generator/internal/decimal"
	"github.com/rezonia/invoice-generator/internal/model"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{"19.99", "19.99"},
		{"19,99", "19.99"},
		{"1 234,50", "1234.5"},
		{"1.234,50", "1234.5"},
		{"1,234.50", "1234.5"},
		{"0", "0"},
		{"10.005", "10.00"},
		{"10.015", "10.02"},
		{" 7 ", "7"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			d, err := decimal.ParsePrice("unit_price", tt.raw, model.CurrencyEUR, model.LanguageEN)
			require.NoError(t, err)
			assert.True(t, d.Equal(dec.RequireFromString(tt.expected)),
				"got %s, want %s", d.String(), tt.expected)
		})
	}
}

func TestParsePrice_Rejects(t *testing.T) {
	tests := []struct {
		raw  string
		rule string
	}{
		{"", "required"},
		{"abc", "numeric"},
		{"12.3.4,5,6", "numeric"},
		{"1e3", "numeric"},
		{"-5", "non_negative"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			_, err := decimal.ParsePrice("items[2].unit_price", tt.raw, model.CurrencyUSD, model.LanguageFR)
			var verr *model.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "items[2].unit_price", verr.Field)
			assert.Equal(t, tt.rule, verr.Rule)
		})
	}
}

func TestParsePrice_LanguageSeparators(t *testing.T) {
	tests := []struct {
		lang     model.Language
		raw      string
		expected string
	}{
		{model.LanguageEN, "1,234", "1234"},
		{model.LanguageEN, "1.234", "1.23"},
		{model.LanguageEN, "12,5", "12.5"},
		{model.LanguageEN, ",500", "0.5"},
		{model.LanguageFR, "1,234", "1.23"},
		{model.LanguageDE, "1.234", "1234"},
		{model.LanguageDE, "2.50", "2.5"},
		{model.LanguageIT, "1.234.567", "1234567"},
	}

	for _, tt := range tests {
		t.Run(string(tt.lang)+" "+tt.raw, func(t *testing.T) {
			d, err := decimal.ParsePrice("unit_price", tt.raw, model.CurrencyEUR, tt.lang)
			require.NoError(t, err)
			assert.True(t, d.Equal(dec.RequireFromString(tt.expected)),
				"got %s, want %s", d.String(), tt.expected)
		})
	}
}

func TestParseQuantity_ThousandsGroup(t *testing.T) {
	q, err := decimal.ParseQuantity("qty", "1,000", model.LanguageEN)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), q)

	q, err = decimal.ParseQuantity("qty", "1.000", model.LanguageDE)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), q)

	// in French the comma is the decimal mark
	q, err = decimal.ParseQuantity("qty", "1,000", model.LanguageFR)
	require.NoError(t, err)
	assert.Equal(t, int64(1), q)
}

func TestParseNumber_AmbiguousWithoutLanguage(t *testing.T) {
	for _, raw := range []string{"1,234", "1.000"} {
		t.Run(raw, func(t *testing.T) {
			_, err := decimal.ParsePrice("unit_price", raw, model.CurrencyEUR, "")
			var verr *model.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "ambiguous", verr.Rule)

			_, err = decimal.ParseQuantity("qty", raw, "")
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "ambiguous", verr.Rule)
		})
	}

	d, err := decimal.ParsePrice("unit_price", "19,99", model.CurrencyEUR, "")
	require.NoError(t, err)
	assert.True(t, d.Equal(dec.RequireFromString("19.99")))
}

func TestParseOptionalPrice(t *testing.T) {
	d, err := decimal.ParseOptionalPrice("shipping", "", model.CurrencyGBP, model.LanguageEN)
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = decimal.ParseOptionalPrice("shipping", "-1", model.CurrencyGBP, model.LanguageEN)
	require.Error(t, err)
}

func TestParseQuantity(t *testing.T) {
	q, err := decimal.ParseQuantity("qty", "3", model.LanguageEN)
	require.NoError(t, err)
	assert.Equal(t, int64(3), q)

	q, err = decimal.ParseQuantity("qty", "2.0", model.LanguageFR)
	require.NoError(t, err)
	assert.Equal(t, int64(2), q)

	tests := []struct {
		raw  string
		rule string
	}{
		{"0", "positive"},
		{"-2", "positive"},
		{"1.5", "integer"},
		{"two", "numeric"},
		{"", "required"},
		{"99999999999", "range"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			_, err := decimal.ParseQuantity("qty", tt.raw, model.LanguageEN)
			var verr *model.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.rule, verr.Rule)
		})
	}
}

func TestParsePercentage(t *testing.T) {
	d, err := decimal.ParsePercentage("vat_rate", "20 %", model.LanguageFR)
	require.NoError(t, err)
	assert.True(t, d.Equal(dec.NewFromInt(20)))

	d, err = decimal.ParsePercentage("discount", "5,5", model.LanguageEN)
	require.NoError(t, err)
	assert.True(t, d.Equal(dec.RequireFromString("5.5")))

	d, err = decimal.ParsePercentage("discount", "100", model.LanguageDE)
	require.NoError(t, err)
	assert.True(t, d.Equal(dec.NewFromInt(100)))

	for _, raw := range []string{"101", "-1", "%", "ten"} {
		_, err := decimal.ParsePercentage("discount", raw, model.LanguageEN)
		require.Error(t, err, raw)
	}
}
