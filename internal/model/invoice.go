package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Language is the document language chosen on the form
type Language string

const (
	LanguageFR Language = "fr"
	LanguageEN Language = "en"
	LanguageIT Language = "it"
	LanguageES Language = "es"
	LanguageDE Language = "de"
)

// Languages lists every supported language in form order
var Languages = []Language{LanguageFR, LanguageEN, LanguageIT, LanguageES, LanguageDE}

// ParseLanguage resolves a language code, case-insensitively
func ParseLanguage(s string) (Language, error) {
	lang := Language(strings.ToLower(strings.TrimSpace(s)))
	switch lang {
	case LanguageFR, LanguageEN, LanguageIT, LanguageES, LanguageDE:
		return lang, nil
	}
	return "", NewValidationError("language", s, "enum", "unsupported language")
}

// DecimalMark is the decimal separator written in the language. The other
// of '.' and ',' groups thousands. Unknown languages have none.
func (l Language) DecimalMark() byte {
	switch l {
	case LanguageEN:
		return '.'
	case LanguageFR, LanguageIT, LanguageES, LanguageDE:
		return ','
	}
	return 0
}

// Currency is the invoice currency. It is a label and format concern only,
// no conversion ever happens.
type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
	CurrencyGBP Currency = "GBP"
	CurrencyCAD Currency = "CAD"
	CurrencyAUD Currency = "AUD"
)

// Currencies lists every supported currency in form order
var Currencies = []Currency{CurrencyEUR, CurrencyUSD, CurrencyGBP, CurrencyCAD, CurrencyAUD}

// ParseCurrency resolves an ISO 4217 code, case-insensitively
func ParseCurrency(s string) (Currency, error) {
	cur := Currency(strings.ToUpper(strings.TrimSpace(s)))
	switch cur {
	case CurrencyEUR, CurrencyUSD, CurrencyGBP, CurrencyCAD, CurrencyAUD:
		return cur, nil
	}
	return "", NewValidationError("currency", s, "enum", "unsupported currency")
}

// MinorUnits returns the number of decimal places of the currency
func (c Currency) MinorUnits() int32 {
	switch c {
	case CurrencyEUR, CurrencyUSD, CurrencyGBP, CurrencyCAD, CurrencyAUD:
		return 2
	}
	return 2
}

// Symbol returns the printed currency symbol
func (c Currency) Symbol() string {
	switch c {
	case CurrencyEUR:
		return "€"
	case CurrencyUSD:
		return "$"
	case CurrencyGBP:
		return "£"
	case CurrencyCAD:
		return "CA$"
	case CurrencyAUD:
		return "A$"
	}
	return string(c)
}

// Party represents the seller, the customer or the seller's commercial representative
type Party struct {
	Name         string    `json:"name"`
	AddressLines []string  `json:"address_lines,omitempty"`
	Country      string    `json:"country,omitempty"`
	VAT          VATNumber `json:"vat"`
}

// IsZero reports whether no party data was given
func (p Party) IsZero() bool {
	return p.Name == "" && len(p.AddressLines) == 0 && p.Country == "" && p.VAT.IsZero()
}

// LineItem represents one ordered product
type LineItem struct {
	Description string          `json:"description"`
	ASIN        string          `json:"asin,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int64           `json:"quantity"`
	Currency    Currency        `json:"currency"`
}

// Amount returns unit price times quantity at full precision
func (li LineItem) Amount() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(li.Quantity))
}

// PromotionKind tells how a promotion value is interpreted
type PromotionKind string

const (
	PromotionNone    PromotionKind = ""
	PromotionFlat    PromotionKind = "flat"
	PromotionPercent PromotionKind = "percent"
)

// Promotion is an optional discount, either a flat amount or a percentage of the subtotal
type Promotion struct {
	Kind  PromotionKind   `json:"kind,omitempty"`
	Value decimal.Decimal `json:"value"`
}

// DeliveryTerms holds shipping and promotion terms
type DeliveryTerms struct {
	Shipping  decimal.Decimal `json:"shipping"`
	Promotion Promotion       `json:"promotion"`
}

// Invoice is assembled once per form submission and never mutated afterwards
type Invoice struct {
	Number      string    `json:"number"`
	OrderNumber string    `json:"order_number,omitempty"`
	IssueDate   time.Time `json:"issue_date"`
	OrderDate   time.Time `json:"order_date,omitempty"`

	Seller     Party `json:"seller"`
	Commercial Party `json:"commercial,omitempty"`
	Customer   Party `json:"customer"`

	Items    []LineItem    `json:"items"`
	Delivery DeliveryTerms `json:"delivery"`

	Currency Currency `json:"currency"`
	Language Language `json:"language"`

	// VATApplies is decided by the caller (domestic vs reverse charge), not computed here
	VATApplies bool            `json:"vat_applies"`
	VATRate    decimal.Decimal `json:"vat_rate"`

	PaymentReference string `json:"payment_reference,omitempty"`
}

// FileName returns the download name of the rendered document
func (inv *Invoice) FileName() string {
	number := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '-'
		}
		return r
	}, inv.Number)
	return fmt.Sprintf("%s_%s.pdf", number, strings.ToUpper(string(inv.Language)))
}

// Totals is derived from one Invoice and never persisted on its own
type Totals struct {
	Currency   Currency        `json:"currency"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Discount   decimal.Decimal `json:"discount"`
	Shipping   decimal.Decimal `json:"shipping"`
	VAT        decimal.Decimal `json:"vat"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}
