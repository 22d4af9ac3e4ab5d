package i18n_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/rezonia/invoice-generator/internal/i18n"
	"github.com/rezonia/invoice-generator/internal/model"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount   string
		currency model.Currency
		lang     model.Language
		expected string
	}{
		{"1234.5", model.CurrencyEUR, model.LanguageEN, "€1,234.50"},
		{"1234.5", model.CurrencyEUR, model.LanguageFR, "1 234,50 €"},
		{"1234.5", model.CurrencyEUR, model.LanguageDE, "1.234,50 €"},
		{"1234567.891", model.CurrencyGBP, model.LanguageIT, "1.234.567,89 £"},
		{"0", model.CurrencyUSD, model.LanguageEN, "$0.00"},
		{"59.97", model.CurrencyCAD, model.LanguageES, "59,97 CA$"},
		{"999.995", model.CurrencyAUD, model.LanguageEN, "A$1,000.00"},
		{"-12.5", model.CurrencyUSD, model.LanguageEN, "-$12.50"},
		{"100", model.CurrencyEUR, model.LanguageFR, "100,00 €"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			got := i18n.FormatMoney(decimal.RequireFromString(tt.amount), tt.currency, tt.lang)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFormatNumber_HalfToEven(t *testing.T) {
	assert.Equal(t, "10.02", i18n.FormatNumber(decimal.RequireFromString("10.025"), 2, model.LanguageEN))
	assert.Equal(t, "3", i18n.FormatNumber(decimal.NewFromInt(3), 0, model.LanguageDE))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "20%", i18n.FormatPercent(decimal.NewFromInt(20), model.LanguageEN))
	assert.Equal(t, "5,5 %", i18n.FormatPercent(decimal.RequireFromString("5.5"), model.LanguageFR))
}

func TestFormatDate(t *testing.T) {
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "2026-03-09", i18n.FormatDate(date, model.LanguageEN))
	assert.Equal(t, "09/03/2026", i18n.FormatDate(date, model.LanguageFR))
	assert.Equal(t, "09.03.2026", i18n.FormatDate(date, model.LanguageDE))
	assert.Empty(t, i18n.FormatDate(time.Time{}, model.LanguageEN))
}

func TestFormatNumber_DecimalMarkMatchesParsing(t *testing.T) {
	for _, lang := range model.Languages {
		t.Run(string(lang), func(t *testing.T) {
			s := i18n.FormatNumber(decimal.RequireFromString("1.5"), 1, lang)
			assert.Equal(t, "1"+string(lang.DecimalMark())+"5", s)
		})
	}
}
