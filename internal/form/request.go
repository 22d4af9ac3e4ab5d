// Package form is the raw input boundary: submissions arrive as strings and
// leave as normalized builder input.
package form

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Number is a numeric field as typed by the user. JSON clients may send
// either a number or a string.
type Number string

// UnmarshalJSON keeps the literal text of a JSON number or string
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Number(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("expected a number or a string: %w", err)
	}
	s := num.String()
	// a JSON number always uses a decimal point; one more digit keeps
	// "1.234" from reading as a thousands group in comma languages
	if dot := strings.IndexByte(s, '.'); dot >= 0 && len(s)-dot-1 == 3 {
		s += "0"
	}
	*n = Number(s)
	return nil
}

// PartyRequest is a party block of the form. Address is free text, one
// line per row.
type PartyRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Country string `json:"country"`
	VAT     string `json:"vat"`
}

func (p PartyRequest) isBlank() bool {
	return strings.TrimSpace(p.Name+p.Address+p.Country+p.VAT) == ""
}

// ItemRequest is one row of the item table
type ItemRequest struct {
	Description string `json:"description"`
	ASIN        string `json:"asin"`
	UnitPrice   Number `json:"unit_price"`
	Quantity    Number `json:"quantity"`
}

func (i ItemRequest) isBlank() bool {
	return strings.TrimSpace(i.Description+i.ASIN+string(i.UnitPrice)+string(i.Quantity)) == ""
}

// Request is one raw invoice submission
type Request struct {
	Number      string `json:"invoice_number" form:"invoice_number"`
	OrderNumber string `json:"order_number" form:"order_number"`
	IssueDate   string `json:"invoice_date" form:"invoice_date"`
	OrderDate   string `json:"order_date" form:"order_date"`

	Seller     PartyRequest `json:"seller"`
	Commercial PartyRequest `json:"commercial"`
	Customer   PartyRequest `json:"customer"`

	Items []ItemRequest `json:"items"`

	Shipping         Number `json:"shipping" form:"shipping"`
	PromotionAmount  Number `json:"promotion_amount" form:"promotion_amount"`
	PromotionPercent Number `json:"promotion_percent" form:"promotion_percent"`

	Currency string `json:"currency" form:"currency"`
	Language string `json:"language" form:"language"`

	// VATApplies falls back to the configured default when absent
	VATApplies *bool  `json:"vat_applies" form:"vat_applies"`
	VATRate    Number `json:"vat_rate" form:"vat_rate"`

	PaymentReference string `json:"payment_reference" form:"payment_reference"`
}
