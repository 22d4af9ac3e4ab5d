package model

import (
	"encoding/json"
	"regexp"
	"strings"
)

// VATKind tags the variant held by a VATNumber
type VATKind string

const (
	VATKindNone   VATKind = ""
	VATKindPreset VATKind = "preset"
	VATKindCustom VATKind = "custom"
)

// VATNumber is either one of the pre-configured seller registrations or a
// freeform custom string. Custom values are opaque.
type VATNumber struct {
	Kind    VATKind `json:"kind,omitempty"`
	Value   string  `json:"value,omitempty"`
	Country string  `json:"country,omitempty"`
}

// PresetVATNumbers are the seller registrations offered on the form
var PresetVATNumbers = []VATNumber{
	{Kind: VATKindPreset, Value: "FR12487773327", Country: "FR"},
	{Kind: VATKindPreset, Value: "DE814584193", Country: "DE"},
	{Kind: VATKindPreset, Value: "IT08973230967", Country: "IT"},
	{Kind: VATKindPreset, Value: "ESN0186022I", Country: "ES"},
	{Kind: VATKindPreset, Value: "GB727255821", Country: "GB"},
	{Kind: VATKindPreset, Value: "NL824400641B01", Country: "NL"},
	{Kind: VATKindPreset, Value: "PL5262907815", Country: "PL"},
	{Kind: VATKindPreset, Value: "SE502070882101", Country: "SE"},
	{Kind: VATKindPreset, Value: "BE0766986227", Country: "BE"},
	{Kind: VATKindPreset, Value: "IE3336483DH", Country: "IE"},
}

// vatFormats are the national formats, without the country prefix
var vatFormats = map[string]*regexp.Regexp{
	"FR": regexp.MustCompile(`^[0-9A-Z]{2}[0-9]{9}$`),
	"DE": regexp.MustCompile(`^[0-9]{9}$`),
	"IT": regexp.MustCompile(`^[0-9]{11}$`),
	"ES": regexp.MustCompile(`^[0-9A-Z][0-9]{7}[0-9A-Z]$`),
	"GB": regexp.MustCompile(`^([0-9]{9}|[0-9]{12}|GD[0-9]{3}|HA[0-9]{3})$`),
	"NL": regexp.MustCompile(`^[0-9]{9}B[0-9]{2}$`),
	"PL": regexp.MustCompile(`^[0-9]{10}$`),
	"SE": regexp.MustCompile(`^[0-9]{10}01$`),
	"BE": regexp.MustCompile(`^[01][0-9]{9}$`),
	"IE": regexp.MustCompile(`^[0-9][0-9A-Z+*][0-9]{5}[A-Z]{1,2}$`),
}

func normalizeVAT(s string) string {
	return strings.ToUpper(strings.NewReplacer(" ", "", ".", "", "-", "").Replace(strings.TrimSpace(s)))
}

// ParseVATNumber classifies raw form input. Empty input yields the zero value,
// a known registration yields the preset, anything else is kept as custom.
func ParseVATNumber(raw string) VATNumber {
	value := normalizeVAT(raw)
	if value == "" {
		return VATNumber{}
	}
	for _, preset := range PresetVATNumbers {
		if preset.Value == value {
			return preset
		}
	}
	return VATNumber{Kind: VATKindCustom, Value: strings.TrimSpace(raw)}
}

// IsZero reports whether no VAT number was given
func (v VATNumber) IsZero() bool {
	return v.Kind == VATKindNone && v.Value == ""
}

func (v VATNumber) String() string {
	return v.Value
}

// ValidateFormat checks a preset against the format of its issuing country.
// Custom values are opaque and always pass.
func (v VATNumber) ValidateFormat() error {
	if v.Kind != VATKindPreset {
		return nil
	}
	format, ok := vatFormats[v.Country]
	if !ok || !strings.HasPrefix(v.Value, v.Country) {
		return NewValidationError("vat", v.Value, "country", "unknown issuing country")
	}
	if !format.MatchString(strings.TrimPrefix(v.Value, v.Country)) {
		return NewValidationError("vat", v.Value, "format", "does not match the "+v.Country+" VAT format")
	}
	return nil
}

// UnmarshalJSON accepts either the tagged object or a bare string
func (v *VATNumber) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		*v = ParseVATNumber(raw)
		return nil
	}
	type plain VATNumber
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*v = VATNumber(p)
	return nil
}
