package i18n

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rezonia/invoice-generator/internal/model"
)

// numberStyle is the number convention of one language
type numberStyle struct {
	decimal      string
	group        string
	symbolBefore bool
	percentSpace bool
	dateLayout   string
}

var styles = map[model.Language]numberStyle{
	model.LanguageEN: {decimal: ".", group: ",", symbolBefore: true, dateLayout: "2006-01-02"},
	model.LanguageFR: {decimal: ",", group: " ", percentSpace: true, dateLayout: "02/01/2006"},
	model.LanguageIT: {decimal: ",", group: ".", percentSpace: true, dateLayout: "02/01/2006"},
	model.LanguageES: {decimal: ",", group: ".", percentSpace: true, dateLayout: "02/01/2006"},
	model.LanguageDE: {decimal: ",", group: ".", percentSpace: true, dateLayout: "02.01.2006"},
}

func styleOf(lang model.Language) numberStyle {
	if s, ok := styles[lang]; ok {
		return s
	}
	return styles[model.LanguageEN]
}

// FormatNumber renders d with the given number of decimals in the language convention
func FormatNumber(d decimal.Decimal, places int32, lang model.Language) string {
	style := styleOf(lang)
	s := d.StringFixedBank(places)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(style.group)
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteString(style.decimal)
		b.WriteString(frac)
	}
	return b.String()
}

// FormatMoney renders an amount with the currency symbol, e.g. "€1,234.56" in
// English and "1 234,56 €" in French.
func FormatMoney(amount decimal.Decimal, currency model.Currency, lang model.Language) string {
	number := FormatNumber(amount, currency.MinorUnits(), lang)
	if styleOf(lang).symbolBefore {
		if strings.HasPrefix(number, "-") {
			return "-" + currency.Symbol() + number[1:]
		}
		return currency.Symbol() + number
	}
	return number + " " + currency.Symbol()
}

// FormatPercent renders a rate such as "20%" or "5,5 %"
func FormatPercent(rate decimal.Decimal, lang model.Language) string {
	style := styleOf(lang)
	s := strings.Replace(rate.String(), ".", style.decimal, 1)
	if style.percentSpace {
		return s + " %"
	}
	return s + "%"
}

// FormatDate renders a calendar date in the language convention
func FormatDate(t time.Time, lang model.Language) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(styleOf(lang).dateLayout)
}
