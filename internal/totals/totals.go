// Package totals derives the monetary figures of an invoice.
package totals

import (
	"github.com/shopspring/decimal"

	dec "github.com/rezonia/invoice-generator/internal/decimal"
	"github.com/rezonia/invoice-generator/internal/model"
)

// Breakdown carries the figures behind Totals. Subtotal keeps full
// precision; discount and VAT are already rounded to the minor unit.
type Breakdown struct {
	Subtotal   decimal.Decimal
	Discount   decimal.Decimal
	Shipping   decimal.Decimal
	TaxBase    decimal.Decimal
	VAT        decimal.Decimal
	GrandTotal decimal.Decimal
}

// Compute returns the breakdown of an invoice.
//
//	subtotal = Σ unit price × quantity
//	discount = round(subtotal × pct/100), or the flat amount capped at subtotal + shipping
//	VAT      = round(max(subtotal − discount, 0) × rate/100) when VAT applies
//	grand    = max(round(subtotal) − discount + shipping + VAT, 0)
//
// The grand total is built from the rounded components, so the printed
// lines always add up to it.
func Compute(inv *model.Invoice) Breakdown {
	places := inv.Currency.MinorUnits()

	amounts := make([]decimal.Decimal, len(inv.Items))
	for i, item := range inv.Items {
		amounts[i] = item.Amount()
	}
	subtotal := dec.Sum(amounts)
	roundedSubtotal := dec.RoundMinor(subtotal, places)
	shipping := dec.RoundMinor(inv.Delivery.Shipping, places)

	discount := dec.Zero
	switch p := inv.Delivery.Promotion; p.Kind {
	case model.PromotionPercent:
		discount = dec.RoundMinor(dec.Percentage(subtotal, p.Value), places)
	case model.PromotionFlat:
		discount = dec.Min(dec.RoundMinor(p.Value, places), roundedSubtotal.Add(shipping))
	}

	taxBase := dec.FloorZero(subtotal.Sub(discount))
	vat := dec.Zero
	if inv.VATApplies {
		vat = dec.RoundMinor(dec.Percentage(taxBase, inv.VATRate), places)
	}

	return Breakdown{
		Subtotal:   subtotal,
		Discount:   discount,
		Shipping:   shipping,
		TaxBase:    taxBase,
		VAT:        vat,
		GrandTotal: dec.FloorZero(roundedSubtotal.Sub(discount).Add(shipping).Add(vat)),
	}
}

// Calculate computes the Totals of an invoice, every figure rounded
// half-to-even to the currency minor unit.
func Calculate(inv *model.Invoice) model.Totals {
	b := Compute(inv)
	return model.Totals{
		Currency:   inv.Currency,
		Subtotal:   dec.RoundMinor(b.Subtotal, inv.Currency.MinorUnits()),
		Discount:   b.Discount,
		Shipping:   b.Shipping,
		VAT:        b.VAT,
		GrandTotal: b.GrandTotal,
	}
}

// LineTotal is the rounded amount of one line
func LineTotal(item model.LineItem, currency model.Currency) decimal.Decimal {
	return dec.RoundMinor(item.Amount(), currency.MinorUnits())
}
