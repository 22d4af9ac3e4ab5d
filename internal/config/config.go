package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/rezonia/invoice-generator/internal/form"
	"github.com/rezonia/invoice-generator/internal/logger"
	"github.com/rezonia/invoice-generator/internal/model"
)

type Config struct {
	// HTTP server
	Addr string

	// Audit trail: a JSON Lines file, or Postgres when a DSN is set
	AuditLog string
	AuditDSN string

	// Operator supplied translations replacing the embedded table
	Translations string

	// Form defaults
	DefaultCurrency string
	DefaultLanguage string
	VATRate         string
	VATApplies      bool

	// Re-read rendered documents with pdfcpu
	VerifyPDF bool

	// LLM drafting (OpenAI compatible)
	LLMAPIKey  string
	LLMBaseURL string
	LLMModel   string

	// Logging
	LogLevel string
	LogDev   bool
}

// Load reads the configuration from the environment. Values from a .env
// file in the working directory are used when present; real environment
// variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// LoadFile is Load with an explicit .env file, which must exist
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return FromEnv()
}

// FromEnv reads the configuration from the environment only
func FromEnv() (*Config, error) {
	config := &Config{
		Addr:            getEnv("INVOICE_ADDR", ":8080"),
		AuditLog:        getEnv("INVOICE_AUDIT_LOG", "invoices.jsonl"),
		AuditDSN:        getEnv("INVOICE_AUDIT_DSN", ""),
		Translations:    getEnv("INVOICE_TRANSLATIONS", ""),
		DefaultCurrency: getEnv("INVOICE_DEFAULT_CURRENCY", string(model.CurrencyEUR)),
		DefaultLanguage: getEnv("INVOICE_DEFAULT_LANGUAGE", string(model.LanguageFR)),
		VATRate:         getEnv("INVOICE_VAT_RATE", "20"),
		VATApplies:      getBool("INVOICE_VAT_APPLIES", true),
		VerifyPDF:       getBool("INVOICE_VERIFY_PDF", false),
		LLMAPIKey:       getEnv("LLM_API_KEY", ""),
		LLMBaseURL:      getEnv("LLM_BASE_URL", ""),
		LLMModel:        getEnv("LLM_MODEL", ""),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogDev:          getBool("LOG_DEV", false),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if _, err := model.ParseCurrency(c.DefaultCurrency); err != nil {
		return fmt.Errorf("INVOICE_DEFAULT_CURRENCY: %w", err)
	}
	if _, err := model.ParseLanguage(c.DefaultLanguage); err != nil {
		return fmt.Errorf("INVOICE_DEFAULT_LANGUAGE: %w", err)
	}
	rate, err := decimal.NewFromString(c.VATRate)
	if err != nil || rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("INVOICE_VAT_RATE must be a percentage between 0 and 100, got %q", c.VATRate)
	}
	return nil
}

// FormDefaults returns the defaults applied to submissions
func (c *Config) FormDefaults() form.Defaults {
	d := form.DefaultDefaults()
	d.Currency, _ = model.ParseCurrency(c.DefaultCurrency)
	d.Language, _ = model.ParseLanguage(c.DefaultLanguage)
	d.VATRate = decimal.RequireFromString(c.VATRate)
	d.VATApplies = c.VATApplies
	d.Now = nil
	return d
}

// LoggerConfig returns the logger configuration
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{Level: c.LogLevel, Development: c.LogDev}
}

// LLMEnabled reports whether order text drafting is configured
func (c *Config) LLMEnabled() bool {
	return c.LLMAPIKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
