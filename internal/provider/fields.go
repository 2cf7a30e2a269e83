package provider

import (
	"strings"

	"github.com/Rhymond/go-money"

	"github.com/ginjaninja78/openholdings/internal/conversion"
	"github.com/ginjaninja78/openholdings/internal/validation"
)

// The helpers below validate a raw value and convert it. Each returns nil
// when the value does not pass its validator, so an invalid field is simply
// left out of the field bag.

// Percentage converts "2.50%" to 0.025.
func Percentage(s string) *float64 {
	if !validation.IsPercentage(s) {
		return nil
	}
	v, err := conversion.PercentageToFraction(s)
	if err != nil {
		return nil
	}
	return &v
}

// PercentValue accepts a weight either as a percentage literal ("6.54%") or
// as a bare number already in percent units ("6.54"), and returns the
// fraction rounded to 4 places.
func PercentValue(s string) *float64 {
	if p := Percentage(s); p != nil {
		return p
	}
	n := Number(s)
	if n == nil {
		return nil
	}
	v := conversion.PercentToFraction(*n)
	return &v
}

// Number converts a comma-grouped number such as "1,000,000".
func Number(s string) *float64 {
	if !validation.IsNumber(s) {
		return nil
	}
	v, err := conversion.GroupedToFloat(s)
	if err != nil {
		return nil
	}
	return &v
}

// Currency converts a dollar amount such as "$1,234.50".
func Currency(s string) *float64 {
	if !validation.IsCurrency(s) {
		return nil
	}
	v, err := conversion.CurrencyToFloat(s)
	if err != nil {
		return nil
	}
	return &v
}

// Ticker returns the ticker with any exchange suffix removed, or nil when s
// is not a ticker symbol.
func Ticker(s string) *string {
	if !validation.IsTickerSymbol(s) {
		return nil
	}
	t := conversion.StripTickerSuffix(s)
	return &t
}

// Text returns the trimmed value, or nil when it is blank.
func Text(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// CurrencyCode returns the upper-case ISO 4217 code when s names a known
// currency, or nil.
func CurrencyCode(s string) *string {
	code := strings.ToUpper(strings.TrimSpace(s))
	if code == "" || money.GetCurrency(code) == nil {
		return nil
	}
	return &code
}
