package conversion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentageToFraction(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"13.00%", 0.13},
		{"2.50%", 0.025},
		{"0.85%", 0.0085},
		{".85%", 0.0085},
		{"-1.5%", -0.015},
		{"0.41138%", 0.0041},
		{"6.54321%", 0.0654},
	}
	for _, tt := range tests {
		got, err := PercentageToFraction(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestPercentageToFractionExact(t *testing.T) {
	got, err := PercentageToFractionExact("0.41138%")
	require.NoError(t, err)
	assert.Equal(t, 0.0041138, got)
}

func TestPercentageToFractionRejectsGarbage(t *testing.T) {
	_, err := PercentageToFraction("abc%")
	assert.Error(t, err)
}

func TestPercentToFraction(t *testing.T) {
	assert.Equal(t, 0.0654, PercentToFraction(6.54321))
	assert.Equal(t, 0.13, PercentToFraction(13))
	assert.Equal(t, 0.00125, PercentToFractionExact(0.125))
}

func TestGroupedToInt(t *testing.T) {
	got, err := GroupedToInt("12,345")
	require.NoError(t, err)
	assert.Equal(t, int64(12345), got)

	_, err = GroupedToInt("12,345.5")
	assert.Error(t, err)

	_, err = GroupedToInt("twelve")
	assert.Error(t, err)
}

func TestGroupedToFloat(t *testing.T) {
	got, err := GroupedToFloat("1,000,000")
	require.NoError(t, err)
	assert.Equal(t, 1000000.0, got)

	got, err = GroupedToFloat("1,234.5678")
	require.NoError(t, err)
	assert.Equal(t, 1234.5678, got)
}

func TestCurrencyToFloat(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"$1,234.50", 1234.50},
		{"1,234.567", 1234.57},
		{"$0.004", 0},
		{"-$12.00", -12},
	}
	for _, tt := range tests {
		got, err := CurrencyToFloat(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := CurrencyToFloat("$")
	assert.Error(t, err)
}

func TestStripTickerSuffix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"GOOG", "GOOG"},
		{"BRK/B US", "BRK/B"},
		{"263750 KS", "263750"},
		{"AAPL*", "AAPL"},
		{"MSFT.", "MSFT"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripTickerSuffix(tt.in), tt.in)
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("01/02/2006", "08/19/2022")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2022, time.August, 19, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDate("01/02/2006", "2022-08-19")
	assert.Error(t, err)
}

func TestTrailingMonthYear(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"S&P500 EMINI DEC 22", time.Date(2022, time.December, 1, 0, 0, 0, 0, time.UTC), true},
		{"WTI CRUDE FUTURE Mar 23", time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC), true},
		{"GOLD 100 OZ FUTR", time.Time{}, false},
		{"DEC 2022", time.Time{}, false},
		{"ABC 22", time.Time{}, false},
		{"22", time.Time{}, false},
	}
	for _, tt := range tests {
		got, ok := TrailingMonthYear(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
