// Package builder assembles a validated Invoice from normalized form parts.
// It performs no monetary computation.
package builder

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rezonia/invoice-generator/internal/model"
)

// Input holds the normalized parts of one submission
type Input struct {
	Number      string
	OrderNumber string
	IssueDate   time.Time
	OrderDate   time.Time

	Seller     model.Party
	Commercial model.Party
	Customer   model.Party

	Items    []model.LineItem
	Delivery model.DeliveryTerms

	Currency model.Currency
	Language model.Language

	VATApplies bool
	VATRate    decimal.Decimal

	PaymentReference string
}

// Build assembles an Invoice. Missing required components fail with an
// IncompleteInvoiceError naming all of them; structural inconsistencies
// fail with joined ValidationErrors.
func Build(in Input) (*model.Invoice, error) {
	var missing []string
	if strings.TrimSpace(in.Number) == "" {
		missing = append(missing, "invoice number")
	}
	if len(in.Items) == 0 {
		missing = append(missing, "line items")
	}
	if strings.TrimSpace(in.Seller.Name) == "" {
		missing = append(missing, "seller")
	}
	if strings.TrimSpace(in.Customer.Name) == "" {
		missing = append(missing, "customer")
	}
	if in.Currency == "" {
		missing = append(missing, "currency")
	}
	if in.Language == "" {
		missing = append(missing, "language")
	}
	if len(missing) > 0 {
		return nil, model.NewIncompleteInvoiceError(missing...)
	}

	items := make([]model.LineItem, len(in.Items))
	var errs []error
	for i, item := range in.Items {
		if item.Currency == "" {
			item.Currency = in.Currency
		}
		if item.Currency != in.Currency {
			errs = append(errs, model.NewValidationError(
				fmt.Sprintf("items[%d].currency", i), item.Currency, "currency_match",
				"line item currency differs from invoice currency "+string(in.Currency)))
		}
		if strings.TrimSpace(item.Description) == "" {
			errs = append(errs, model.NewValidationError(
				fmt.Sprintf("items[%d].description", i), nil, "required", "description is required"))
		}
		if item.Quantity <= 0 {
			errs = append(errs, model.NewValidationError(
				fmt.Sprintf("items[%d].quantity", i), item.Quantity, "positive", "must be greater than zero"))
		}
		if item.UnitPrice.IsNegative() {
			errs = append(errs, model.NewValidationError(
				fmt.Sprintf("items[%d].unit_price", i), item.UnitPrice.String(), "non_negative", "must not be negative"))
		}
		items[i] = item
	}

	if err := checkDelivery(in.Delivery); err != nil {
		errs = append(errs, err)
	}
	if in.VATRate.IsNegative() || in.VATRate.GreaterThan(decimal.NewFromInt(100)) {
		errs = append(errs, model.NewValidationError("vat_rate", in.VATRate.String(), "range", "must be between 0 and 100"))
	}
	var verr *model.ValidationError
	if err := in.Seller.VAT.ValidateFormat(); errors.As(err, &verr) {
		errs = append(errs, verr.WithField("seller.vat"))
	}
	if err := in.Commercial.VAT.ValidateFormat(); errors.As(err, &verr) {
		errs = append(errs, verr.WithField("commercial.vat"))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &model.Invoice{
		Number:           strings.TrimSpace(in.Number),
		OrderNumber:      strings.TrimSpace(in.OrderNumber),
		IssueDate:        in.IssueDate,
		OrderDate:        in.OrderDate,
		Seller:           copyParty(in.Seller),
		Commercial:       copyParty(in.Commercial),
		Customer:         copyParty(in.Customer),
		Items:            items,
		Delivery:         in.Delivery,
		Currency:         in.Currency,
		Language:         in.Language,
		VATApplies:       in.VATApplies,
		VATRate:          in.VATRate,
		PaymentReference: strings.TrimSpace(in.PaymentReference),
	}, nil
}

func checkDelivery(d model.DeliveryTerms) error {
	if d.Shipping.IsNegative() {
		return model.NewValidationError("shipping", d.Shipping.String(), "non_negative", "must not be negative")
	}
	p := d.Promotion
	switch p.Kind {
	case model.PromotionNone:
		if !p.Value.IsZero() {
			return model.NewValidationError("promotion", p.Value.String(), "kind", "promotion value without a kind")
		}
	case model.PromotionFlat:
		if p.Value.IsNegative() {
			return model.NewValidationError("promotion", p.Value.String(), "non_negative", "must not be negative")
		}
	case model.PromotionPercent:
		if p.Value.IsNegative() || p.Value.GreaterThan(decimal.NewFromInt(100)) {
			return model.NewValidationError("promotion", p.Value.String(), "range", "must be between 0 and 100")
		}
	default:
		return model.NewValidationError("promotion", string(p.Kind), "kind", "unknown promotion kind")
	}
	return nil
}

func copyParty(p model.Party) model.Party {
	if p.AddressLines != nil {
		p.AddressLines = append([]string(nil), p.AddressLines...)
	}
	return p
}
