// =============================================================================
// OpenHoldings - Identifier & Literal Validators
// =============================================================================
//
// This module provides the predicates the row extractors use to decide
// whether a raw value may be stored in a FieldBag. Every predicate is total:
// it never panics and returns false for empty, blank or malformed input.
// None of them normalize their argument.
//
// VALIDATORS:
//   - IsTickerSymbol : "GOOG", "BRK/B", "263750 KS", "EMBRAC B SS"
//   - IsCUSIP        : 9 alphanumeric characters
//   - IsSEDOL        : 6 characters from digits + consonants, then a check digit
//   - IsISIN         : accepts everything (see the function comment)
//   - IsPercentage   : "0.85%", "-1.5%", ".85%"
//   - IsNumber       : "12,345.67", "-3", "0.5"
//   - IsCurrency     : "$1,234.50", "1,234.50"
//
// =============================================================================

package validation

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// =============================================================================
// PATTERNS
// =============================================================================

var (
	// tickerPattern allows a short code, an optional share class letter and
	// an optional 1-3 letter exchange suffix, each separated by whitespace.
	tickerPattern = regexp.MustCompile(`^[A-Z0-9/]{1,7}(\s+[ABC])?(\s+[A-Z]{1,3})?$`)

	// cusipPattern is issuer (6), issue (2), check (1).
	cusipPattern = regexp.MustCompile(`^[A-Za-z0-9]{6}[A-Za-z0-9]{2}[A-Za-z0-9]$`)

	// sedolPattern excludes vowels from the first six characters.
	sedolPattern = regexp.MustCompile(`^[0-9BCDFGHJKLMNPQRSTVWXYZ]{6}[0-9]$`)

	// percentagePattern requires the fractional part.
	percentagePattern = regexp.MustCompile(`^-?[0-9]*\.[0-9]+%$`)
)

// =============================================================================
// IDENTIFIER VALIDATORS
// =============================================================================

// IsTickerSymbol reports whether s looks like a stock ticker symbol.
func IsTickerSymbol(s string) bool {
	return tickerPattern.MatchString(s)
}

// IsCUSIP reports whether s has the shape of a CUSIP identifier.
// The check digit is not verified.
func IsCUSIP(s string) bool {
	return cusipPattern.MatchString(s)
}

// IsSEDOL reports whether s has the shape of a SEDOL identifier.
func IsSEDOL(s string) bool {
	return sedolPattern.MatchString(s)
}

// IsISIN always returns true. ISIN is a declared identifier kind but its
// format is not enforced: providers that publish an ISIN column have it
// stored verbatim.
func IsISIN(s string) bool {
	return true
}

// =============================================================================
// LITERAL VALIDATORS
// =============================================================================

// IsPercentage reports whether s is a percentage literal such as "13.00%".
func IsPercentage(s string) bool {
	return percentagePattern.MatchString(s)
}

// IsNumber reports whether s, once digit-group commas are removed, parses as
// a finite floating point number.
func IsNumber(s string) bool {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return false
	}
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

// IsCurrency reports whether s is a number optionally prefixed by a dollar
// sign ("$1,234.50" or "-$12.00").
func IsCurrency(s string) bool {
	return IsNumber(strings.Replace(s, "$", "", 1))
}
