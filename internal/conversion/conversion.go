// =============================================================================
// OpenHoldings - Scalar Converters
// =============================================================================
//
// This module turns validated raw strings into numeric values. Parsing goes
// through shopspring/decimal so that rounding is done on the decimal text the
// provider published rather than on a binary float approximation.
//
// CONTRACT:
//   Callers validate first (see internal/validation). A converter handed an
//   invalid string returns a parse error; it never guesses a value.
//
// ROUNDING:
//   - percentages -> fraction rounded to 4 places ("13.00%" -> 0.13)
//   - currency    -> rounded to 2 places ("$1,234.50" -> 1234.5)
//   - grouped numbers are not rounded
//
// =============================================================================

package conversion

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// =============================================================================
// PERCENTAGES
// =============================================================================

// PercentageToFraction converts "xx.xx%" to a fraction rounded to 4 decimal
// places.
func PercentageToFraction(s string) (float64, error) {
	d, err := parsePercentage(s)
	if err != nil {
		return 0, err
	}
	return d.Round(4).InexactFloat64(), nil
}

// PercentageToFractionExact converts "xx.xx%" to a fraction without rounding.
// Coupon rates published with five or more significant decimals use this.
func PercentageToFractionExact(s string) (float64, error) {
	d, err := parsePercentage(s)
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}

// PercentToFraction converts an already decoded percent value (6.54 for
// 6.54%) to a fraction rounded to 4 decimal places.
func PercentToFraction(percent float64) float64 {
	return decimal.NewFromFloat(percent).Div(hundred).Round(4).InexactFloat64()
}

// PercentToFractionExact converts an already decoded percent value without
// rounding.
func PercentToFractionExact(percent float64) float64 {
	return decimal.NewFromFloat(percent).Div(hundred).InexactFloat64()
}

func parsePercentage(s string) (decimal.Decimal, error) {
	d, err := parseDecimal(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid percentage %q: %w", s, err)
	}
	return d.Div(hundred), nil
}

// =============================================================================
// GROUPED NUMBERS AND CURRENCY
// =============================================================================

// GroupedToInt converts a comma-grouped integer such as "12,345".
func GroupedToInt(s string) (int64, error) {
	d, err := parseDecimal(stripGrouping(s))
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q: %w", s, err)
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("invalid integer %q: has a fractional part", s)
	}
	return d.IntPart(), nil
}

// GroupedToFloat converts a comma-grouped decimal such as "1,234.5678".
func GroupedToFloat(s string) (float64, error) {
	d, err := parseDecimal(stripGrouping(s))
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return d.InexactFloat64(), nil
}

// CurrencyToFloat converts "$x,xxx.xx" to a float rounded to 2 decimal places.
func CurrencyToFloat(s string) (float64, error) {
	d, err := parseDecimal(strings.Replace(stripGrouping(s), "$", "", 1))
	if err != nil {
		return 0, fmt.Errorf("invalid currency amount %q: %w", s, err)
	}
	return d.Round(2).InexactFloat64(), nil
}

func stripGrouping(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
}

// parseDecimal accepts a bare fractional part (".85", "-.5").
func parseDecimal(s string) (decimal.Decimal, error) {
	switch {
	case strings.HasPrefix(s, "."):
		s = "0" + s
	case strings.HasPrefix(s, "-."):
		s = "-0" + s[1:]
	}
	return decimal.NewFromString(s)
}

// =============================================================================
// TICKERS AND DATES
// =============================================================================

// StripTickerSuffix keeps the part of s before the first space, then trims
// trailing characters that are not letters or digits. "BRK/B US" becomes
// "BRK/B", "AAPL*" becomes "AAPL".
func StripTickerSuffix(s string) string {
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}
	return strings.TrimRightFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// ParseDate parses value with layout and returns the date at UTC midnight.
func ParseDate(layout, value string) (time.Time, error) {
	t, err := time.Parse(layout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// TrailingMonthYear reads a contract expiry from the last two words of a
// futures description, e.g. "S&P500 EMINI DEC 22" -> 2022-12-01. ok is false
// when the description does not end in a month abbreviation and a two-digit
// year.
func TrailingMonthYear(desc string) (t time.Time, ok bool) {
	words := strings.Fields(desc)
	if len(words) < 2 {
		return time.Time{}, false
	}
	month, year := words[len(words)-2], words[len(words)-1]
	if len(month) != 3 || len(year) != 2 {
		return time.Time{}, false
	}
	t, err := ParseDate("Jan 06", month+" "+year)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
