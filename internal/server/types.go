package server

import (
	"github.com/rezonia/invoice-generator/internal/audit"
	"github.com/rezonia/invoice-generator/internal/form"
	"github.com/rezonia/invoice-generator/internal/model"
)

// InvoiceResponse is the JSON form of a generated invoice
type InvoiceResponse struct {
	Invoice  *model.Invoice `json:"invoice"`
	Totals   model.Totals   `json:"totals"`
	FileName string         `json:"file_name"`
	Pages    int            `json:"pages"`
	Document []byte         `json:"document"`
	Warnings []string       `json:"warnings,omitempty"`
}

// TotalsResponse is the response for the totals preview
type TotalsResponse struct {
	Invoice  *model.Invoice `json:"invoice"`
	Totals   model.Totals   `json:"totals"`
	FileName string         `json:"file_name"`
	Warnings []string       `json:"warnings,omitempty"`
}

// OptionsResponse lists the choices offered by the form
type OptionsResponse struct {
	Languages  []model.Language  `json:"languages"`
	Currencies []model.Currency  `json:"currencies"`
	VATNumbers []model.VATNumber `json:"vat_numbers"`
	Defaults   DefaultsOutput    `json:"defaults"`
}

// DefaultsOutput holds the preselected form values
type DefaultsOutput struct {
	Currency   model.Currency `json:"currency"`
	Language   model.Language `json:"language"`
	VATApplies bool           `json:"vat_applies"`
	VATRate    string         `json:"vat_rate"`
}

// AuditResponse is the response for the audit listing
type AuditResponse struct {
	Entries []audit.Entry `json:"entries"`
	Count   int           `json:"count"`
}

// DraftRequest carries pasted order text
type DraftRequest struct {
	Text string `json:"text" binding:"required"`
}

// DraftResponse holds a drafted submission and what it still lacks
type DraftResponse struct {
	Draft    *form.Request `json:"draft"`
	Totals   *model.Totals `json:"totals,omitempty"`
	Errors   []FieldError  `json:"errors,omitempty"`
	Missing  []string      `json:"missing,omitempty"`
	Warnings []string      `json:"warnings,omitempty"`
}

// FieldError is one rejected field
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error    string       `json:"error"`
	Details  string       `json:"details,omitempty"`
	Fields   []FieldError `json:"fields,omitempty"`
	Missing  []string     `json:"missing,omitempty"`
	Warnings []string     `json:"warnings,omitempty"`
}
