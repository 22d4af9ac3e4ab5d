package form

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rezonia/invoice-generator/internal/builder"
	dec "github.com/rezonia/invoice-generator/internal/decimal"
	"github.com/rezonia/invoice-generator/internal/model"
)

const dateLayout = "2006-01-02"

// Defaults fill the fields a submission may leave out
type Defaults struct {
	Currency   model.Currency
	Language   model.Language
	VATApplies bool
	VATRate    decimal.Decimal
	Now        func() time.Time
}

// DefaultDefaults mirror the choices preselected on the form
func DefaultDefaults() Defaults {
	return Defaults{
		Currency:   model.CurrencyEUR,
		Language:   model.LanguageFR,
		VATApplies: true,
		VATRate:    decimal.NewFromInt(20),
		Now:        time.Now,
	}
}

func (d Defaults) today() time.Time {
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	t := now()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Normalize validates every raw field and returns the builder input. All
// field errors are reported together, joined with errors.Join.
func (r Request) Normalize(d Defaults) (builder.Input, error) {
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	in := builder.Input{
		Number:           strings.TrimSpace(r.Number),
		OrderNumber:      strings.TrimSpace(r.OrderNumber),
		PaymentReference: strings.TrimSpace(r.PaymentReference),
		Currency:         d.Currency,
		Language:         d.Language,
		VATApplies:       d.VATApplies,
		VATRate:          d.VATRate,
	}

	if strings.TrimSpace(r.Currency) != "" {
		cur, err := model.ParseCurrency(r.Currency)
		collect(err)
		if err == nil {
			in.Currency = cur
		}
	}
	if strings.TrimSpace(r.Language) != "" {
		lang, err := model.ParseLanguage(r.Language)
		collect(err)
		if err == nil {
			in.Language = lang
		}
	}
	// amounts are read in the invoice language; prices still need a minor
	// unit when the currency was rejected
	priceCurrency := in.Currency
	if priceCurrency == "" {
		priceCurrency = model.CurrencyEUR
	}

	var err error
	if strings.TrimSpace(r.IssueDate) == "" {
		in.IssueDate = d.today()
	} else {
		in.IssueDate, err = parseDate("invoice_date", r.IssueDate)
		collect(err)
	}
	if strings.TrimSpace(r.OrderDate) != "" {
		in.OrderDate, err = parseDate("order_date", r.OrderDate)
		collect(err)
	}

	in.Seller = r.Seller.party()
	in.Customer = r.Customer.party()
	if !r.Commercial.isBlank() {
		in.Commercial = r.Commercial.party()
	}

	for i, item := range r.Items {
		if item.isBlank() {
			continue
		}
		price, err := dec.ParsePrice(fmt.Sprintf("items[%d].unit_price", i), string(item.UnitPrice), priceCurrency, in.Language)
		collect(err)
		qty, err := dec.ParseQuantity(fmt.Sprintf("items[%d].quantity", i), string(item.Quantity), in.Language)
		collect(err)
		in.Items = append(in.Items, model.LineItem{
			Description: strings.TrimSpace(item.Description),
			ASIN:        strings.ToUpper(strings.TrimSpace(item.ASIN)),
			UnitPrice:   price,
			Quantity:    qty,
			Currency:    in.Currency,
		})
	}

	in.Delivery.Shipping, err = dec.ParseOptionalPrice("shipping", string(r.Shipping), priceCurrency, in.Language)
	collect(err)

	promotion, err := r.promotion(priceCurrency, in.Language)
	collect(err)
	in.Delivery.Promotion = promotion

	if r.VATApplies != nil {
		in.VATApplies = *r.VATApplies
	}
	if strings.TrimSpace(string(r.VATRate)) != "" {
		in.VATRate, err = dec.ParsePercentage("vat_rate", string(r.VATRate), in.Language)
		collect(err)
	}

	if len(errs) > 0 {
		return builder.Input{}, errors.Join(errs...)
	}
	return in, nil
}

func (r Request) promotion(currency model.Currency, lang model.Language) (model.Promotion, error) {
	amount := strings.TrimSpace(string(r.PromotionAmount))
	percent := strings.TrimSpace(string(r.PromotionPercent))

	switch {
	case amount != "" && percent != "":
		return model.Promotion{}, model.NewValidationError("promotion", nil, "exclusive",
			"give either a promotion amount or a promotion percentage, not both")
	case amount != "":
		v, err := dec.ParsePrice("promotion_amount", amount, currency, lang)
		if err != nil || v.IsZero() {
			return model.Promotion{}, err
		}
		return model.Promotion{Kind: model.PromotionFlat, Value: v}, nil
	case percent != "":
		v, err := dec.ParsePercentage("promotion_percent", percent, lang)
		if err != nil || v.IsZero() {
			return model.Promotion{}, err
		}
		return model.Promotion{Kind: model.PromotionPercent, Value: v}, nil
	}
	return model.Promotion{}, nil
}

func (p PartyRequest) party() model.Party {
	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(p.Address, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return model.Party{
		Name:         strings.TrimSpace(p.Name),
		AddressLines: lines,
		Country:      strings.TrimSpace(p.Country),
		VAT:          model.ParseVATNumber(p.VAT),
	}
}

func parseDate(field, raw string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, model.NewValidationError(field, raw, "date", "expected a date as YYYY-MM-DD")
	}
	return t, nil
}
