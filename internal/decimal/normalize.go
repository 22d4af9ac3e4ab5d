package decimal

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rezonia/invoice-generator/internal/model"
)

var plainNumber = regexp.MustCompile(`^[+-]?([0-9]+\.?[0-9]*|\.[0-9]+)$`)

var groupSeparators = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "", "'", "", "_", "")

// parseNumber accepts both decimal conventions used on the form:
// "1234.5", "1,234.50", "1 234,50", "1.234,50". A lone separator followed
// by exactly three digits ("1,234") is read with the decimal mark of the
// invoice language; without one it is rejected as ambiguous. The returned
// rule is empty on success.
func parseNumber(raw string, lang model.Language) (decimal.Decimal, string) {
	s := groupSeparators.Replace(strings.TrimSpace(raw))
	if s == "" {
		return Zero, "numeric"
	}

	dot := strings.LastIndex(s, ".")
	comma := strings.LastIndex(s, ",")
	switch {
	case dot >= 0 && comma >= 0:
		if comma > dot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case comma >= 0 || dot >= 0:
		sep, at := ",", comma
		if dot >= 0 {
			sep, at = ".", dot
		}
		switch {
		case strings.Count(s, sep) > 1:
			s = strings.ReplaceAll(s, sep, "")
		case at == 0 || len(s)-at-1 != 3 || sep[0] == lang.DecimalMark():
			s = strings.Replace(s, sep, ".", 1)
		case lang.DecimalMark() == 0:
			return Zero, "ambiguous"
		default:
			s = strings.Replace(s, sep, "", 1)
		}
	}

	if !plainNumber.MatchString(s) {
		return Zero, "numeric"
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, "numeric"
	}
	return d, ""
}

func numberError(field, raw, rule string) error {
	if rule == "ambiguous" {
		return model.NewValidationError(field, raw, rule, "separator could mean thousands or decimals")
	}
	return model.NewValidationError(field, raw, rule, "not a number")
}

// ParsePrice validates a non-negative monetary amount written in the
// convention of lang and rounds it half-to-even to the minor unit of the
// currency.
func ParsePrice(field, raw string, currency model.Currency, lang model.Language) (decimal.Decimal, error) {
	if strings.TrimSpace(raw) == "" {
		return Zero, model.NewValidationError(field, nil, "required", "amount is required")
	}
	d, rule := parseNumber(raw, lang)
	if rule != "" {
		return Zero, numberError(field, raw, rule)
	}
	if d.IsNegative() {
		return Zero, model.NewValidationError(field, raw, "non_negative", "must not be negative")
	}
	return RoundMinor(d, currency.MinorUnits()), nil
}

// ParseOptionalPrice is ParsePrice with empty input meaning zero
func ParseOptionalPrice(field, raw string, currency model.Currency, lang model.Language) (decimal.Decimal, error) {
	if strings.TrimSpace(raw) == "" {
		return Zero, nil
	}
	return ParsePrice(field, raw, currency, lang)
}

// ParseQuantity validates a positive whole quantity
func ParseQuantity(field, raw string, lang model.Language) (int64, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, model.NewValidationError(field, nil, "required", "quantity is required")
	}
	d, rule := parseNumber(raw, lang)
	if rule != "" {
		return 0, numberError(field, raw, rule)
	}
	if !d.IsInteger() {
		return 0, model.NewValidationError(field, raw, "integer", "must be a whole number")
	}
	if !IsPositive(d) {
		return 0, model.NewValidationError(field, raw, "positive", "must be greater than zero")
	}
	if !d.LessThanOrEqual(decimal.NewFromInt(1_000_000_000)) {
		return 0, model.NewValidationError(field, raw, "range", "quantity too large")
	}
	return d.IntPart(), nil
}

// ParsePercentage validates a percentage in [0,100]. A trailing "%" is allowed.
func ParsePercentage(field, raw string, lang model.Language) (decimal.Decimal, error) {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	if s == "" {
		return Zero, model.NewValidationError(field, nil, "required", "percentage is required")
	}
	d, rule := parseNumber(s, lang)
	if rule != "" {
		return Zero, numberError(field, raw, rule)
	}
	if d.IsNegative() || d.GreaterThan(hundred) {
		return Zero, model.NewValidationError(field, raw, "range", "must be between 0 and 100")
	}
	return d, nil
}
