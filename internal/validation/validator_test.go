package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTickerSymbol(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"GOOG", true},
		{"BRK/B", true},
		{"263750 KS", true},
		{"EMBRAC B SS", true},
		{"A", true},
		{"", false},
		{"   ", false},
		{"goog", false},
		{"TOOLONGTICKER", false},
		{"ABC DEFG", false},
		{"-", false},
		{"CASH_USD", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsTickerSymbol(tt.in), "IsTickerSymbol(%q)", tt.in)
	}
}

func TestIsCUSIP(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"38259P508", true},
		{"037833100", true},
		{"38259P50", false},
		{"38259P5081", false},
		{"", false},
		{"Cash&Other", false},
		{"38259P50!", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsCUSIP(tt.in), "IsCUSIP(%q)", tt.in)
	}
}

func TestIsSEDOL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"B0YBKJ7", true},
		{"0263494", true},
		{"BAEYBK7", false},
		{"B0YBKU7", false},
		{"B0YBKJ", false},
		{"B0YBKJX", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsSEDOL(tt.in), "IsSEDOL(%q)", tt.in)
	}
}

func TestIsISINAcceptsAnything(t *testing.T) {
	for _, in := range []string{"US0378331005", "", "not an isin"} {
		assert.True(t, IsISIN(in), in)
	}
}

func TestIsPercentage(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"0.85%", true},
		{"-1.5%", true},
		{".85%", true},
		{"13.00%", true},
		{"0.41138%", true},
		{"abc%", false},
		{"1.5", false},
		{"%", false},
		{"", false},
		{"13%", false},
		{"1.5% ", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsPercentage(tt.in), "IsPercentage(%q)", tt.in)
	}
}

func TestIsNumber(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"12,345", true},
		{"1,234.56", true},
		{"-3", true},
		{"0.5", true},
		{" 42 ", true},
		{"", false},
		{",", false},
		{"--", false},
		{"12a", false},
		{"NaN", false},
		{"Inf", false},
		{"$12", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsNumber(tt.in), "IsNumber(%q)", tt.in)
	}
}

func TestIsCurrency(t *testing.T) {
	assert.True(t, IsCurrency("$1,234.50"))
	assert.True(t, IsCurrency("1,234.50"))
	assert.True(t, IsCurrency("-$12.00"))
	assert.False(t, IsCurrency("$"))
	assert.False(t, IsCurrency("$$1"))
	assert.False(t, IsCurrency(""))
}
