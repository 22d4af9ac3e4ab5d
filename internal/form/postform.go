package form

import (
	"net/url"
	"strconv"
	"strings"
)

// FromPostForm reads a submission of the HTML form. Item rows arrive as
// parallel arrays: item_description[], item_asin[], item_unit_price[] and
// item_quantity[].
func FromPostForm(values url.Values) Request {
	r := Request{
		Number:           values.Get("invoice_number"),
		OrderNumber:      values.Get("order_number"),
		IssueDate:        values.Get("invoice_date"),
		OrderDate:        values.Get("order_date"),
		Seller:           partyFromForm(values, "seller"),
		Commercial:       partyFromForm(values, "commercial"),
		Customer:         partyFromForm(values, "customer"),
		Shipping:         Number(values.Get("shipping")),
		PromotionAmount:  Number(values.Get("promotion_amount")),
		PromotionPercent: Number(values.Get("promotion_percent")),
		Currency:         values.Get("currency"),
		Language:         values.Get("language"),
		VATRate:          Number(values.Get("vat_rate")),
		PaymentReference: values.Get("payment_reference"),
	}

	if raw := strings.TrimSpace(values.Get("vat_applies")); raw != "" {
		applies := parseFlag(raw)
		r.VATApplies = &applies
	}

	descriptions := values["item_description[]"]
	asins := values["item_asin[]"]
	prices := values["item_unit_price[]"]
	quantities := values["item_quantity[]"]

	n := max(len(descriptions), len(asins), len(prices), len(quantities))
	for i := 0; i < n; i++ {
		r.Items = append(r.Items, ItemRequest{
			Description: at(descriptions, i),
			ASIN:        at(asins, i),
			UnitPrice:   Number(at(prices, i)),
			Quantity:    Number(at(quantities, i)),
		})
	}
	return r
}

func partyFromForm(values url.Values, prefix string) PartyRequest {
	return PartyRequest{
		Name:    values.Get(prefix + "_name"),
		Address: values.Get(prefix + "_address"),
		Country: values.Get(prefix + "_country"),
		VAT:     values.Get(prefix + "_vat"),
	}
}

func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}

func parseFlag(raw string) bool {
	switch strings.ToLower(raw) {
	case "on", "yes", "oui", "y":
		return true
	}
	b, _ := strconv.ParseBool(raw)
	return b
}
