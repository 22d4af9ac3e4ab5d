package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/invoice-generator/internal/config"
	"github.com/rezonia/invoice-generator/internal/model"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{
		"INVOICE_ADDR", "INVOICE_AUDIT_LOG", "INVOICE_AUDIT_DSN", "INVOICE_DEFAULT_CURRENCY",
		"INVOICE_DEFAULT_LANGUAGE", "INVOICE_VAT_RATE", "INVOICE_VAT_APPLIES", "INVOICE_VERIFY_PDF",
		"LLM_API_KEY",
	} {
		t.Setenv(key, "")
	}

	cfg, err := config.FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "invoices.jsonl", cfg.AuditLog)
	assert.False(t, cfg.VerifyPDF)
	assert.False(t, cfg.LLMEnabled())

	d := cfg.FormDefaults()
	assert.Equal(t, model.CurrencyEUR, d.Currency)
	assert.Equal(t, model.LanguageFR, d.Language)
	assert.True(t, d.VATApplies)
	assert.True(t, d.VATRate.Equal(decimal.NewFromInt(20)))
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("INVOICE_DEFAULT_CURRENCY", "gbp")
	t.Setenv("INVOICE_DEFAULT_LANGUAGE", "de")
	t.Setenv("INVOICE_VAT_RATE", "19")
	t.Setenv("INVOICE_VAT_APPLIES", "false")
	t.Setenv("INVOICE_VERIFY_PDF", "true")
	t.Setenv("LLM_API_KEY", "sk-test")

	cfg, err := config.FromEnv()
	require.NoError(t, err)

	d := cfg.FormDefaults()
	assert.Equal(t, model.CurrencyGBP, d.Currency)
	assert.Equal(t, model.LanguageDE, d.Language)
	assert.False(t, d.VATApplies)
	assert.True(t, d.VATRate.Equal(decimal.NewFromInt(19)))
	assert.True(t, cfg.VerifyPDF)
	assert.True(t, cfg.LLMEnabled())
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"INVOICE_DEFAULT_CURRENCY", "JPY"},
		{"INVOICE_DEFAULT_LANGUAGE", "nl"},
		{"INVOICE_VAT_RATE", "abc"},
		{"INVOICE_VAT_RATE", "150"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := config.FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("INVOICE_ADDR=:9999\n"), 0o644))
	t.Setenv("INVOICE_ADDR", "")
	// godotenv keeps variables that are already set, even when empty
	require.NoError(t, os.Unsetenv("INVOICE_ADDR"))

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Addr)

	_, err = config.LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
