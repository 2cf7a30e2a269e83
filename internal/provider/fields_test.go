package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldHelpers(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	s := func(v string) *string { return &v }

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"percentage", Percentage("2.50%"), f(0.025)},
		{"percentage without fraction", Percentage("2%"), (*float64)(nil)},
		{"percentage bare number", Percentage("2.5"), (*float64)(nil)},
		{"percent value literal", PercentValue("6.54%"), f(0.0654)},
		{"percent value bare", PercentValue("6.54321"), f(0.0654)},
		{"percent value junk", PercentValue("n/a"), (*float64)(nil)},
		{"number grouped", Number("1,000,000"), f(1000000)},
		{"number junk", Number("-"), (*float64)(nil)},
		{"currency", Currency("$1,234.50"), f(1234.5)},
		{"currency junk", Currency("USD"), (*float64)(nil)},
		{"ticker", Ticker("GOOG"), s("GOOG")},
		{"ticker with exchange", Ticker("700 HK"), s("700")},
		{"ticker junk", Ticker("not a ticker"), (*string)(nil)},
		{"text trimmed", Text("  Alphabet Inc "), s("Alphabet Inc")},
		{"text blank", Text("   "), (*string)(nil)},
		{"currency code", CurrencyCode(" eur "), s("EUR")},
		{"currency code unknown", CurrencyCode("ZZZ"), (*string)(nil)},
		{"currency code blank", CurrencyCode(""), (*string)(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}
