// Package etfmg reads ETF Managers Group holdings exports.
//
// ETFMG publishes one CSV per fund in one of two layouts. Equity funds use the
// stock layout (StockTicker, SecurityName, CUSIP, ...), and bonds held by those
// funds carry their terms inside SecurityName, e.g.
// "HONEYWELL INTL INC 0.41138% 08/19/2022". Fixed income funds use the bond
// layout (Ticker Symbol, Security Description, Coupon Rate, ...).
package etfmg

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/ginjaninja78/openholdings/internal/conversion"
	"github.com/ginjaninja78/openholdings/internal/csvparser"
	"github.com/ginjaninja78/openholdings/internal/holding"
	"github.com/ginjaninja78/openholdings/internal/provider"
	"github.com/ginjaninja78/openholdings/internal/validation"
)

const (
	// Name is the registry key.
	Name = "etfmg"

	// DefaultURLTemplate is the CSV download location of a fund.
	DefaultURLTemplate = "https://etfmg.com/holdings/{ticker}_fund_holdings.csv"

	FormatStock provider.Format = "etfmg/stock"
	FormatBond  provider.Format = "etfmg/bond"
)

const (
	cashCUSIP        = "Cash&Other"
	cashName         = "CASH AND OTHER REC PAY"
	maturityLayout   = "01/02/2006"
	stockTickerField = "StockTicker"
	couponRateField  = "Coupon Rate"
)

// Provider implements provider.Provider for ETFMG.
type Provider struct {
	stager      provider.Stager
	urlTemplate string
}

// New returns an ETFMG provider. An empty urlTemplate selects
// DefaultURLTemplate.
func New(stager provider.Stager, urlTemplate string) *Provider {
	if urlTemplate == "" {
		urlTemplate = DefaultURLTemplate
	}
	return &Provider{stager: stager, urlTemplate: urlTemplate}
}

func (p *Provider) Name() string { return Name }

func (p *Provider) Fetch(ctx context.Context, ticker string) (*provider.Batch, error) {
	if p.stager == nil {
		return nil, errors.New("etfmg: no stager configured")
	}
	url := provider.ExpandURL(p.urlTemplate, ticker)
	return provider.FetchWith(ctx, p.stager, url, "csv", ticker, p.Decode)
}

func (p *Provider) Decode(r io.Reader) (*provider.Batch, error) {
	return csvparser.Parse(r, csvparser.DefaultSettings())
}

// Detect selects the layout by column name. The stock layout wins when a
// document somehow carries both marker columns.
func (p *Provider) Detect(b *provider.Batch) provider.Format {
	switch {
	case b.HasField(stockTickerField):
		return FormatStock
	case b.HasField(couponRateField):
		return FormatBond
	default:
		return provider.FormatUnknown
	}
}

func (p *Provider) Extract(f provider.Format, b *provider.Batch) ([]holding.FieldBag, error) {
	switch f {
	case FormatStock:
		return provider.ExtractEach(b, extractStock)
	case FormatBond:
		return provider.ExtractEach(b, extractBond)
	default:
		return nil, nil
	}
}

// stockRow holds the columns the stock layout requires.
type stockRow struct {
	ticker, name, cusip, weight, marketValue, shares string
}

func readStockRow(rec provider.Record) (stockRow, error) {
	var row stockRow
	cols := []struct {
		field string
		dst   *string
	}{
		{stockTickerField, &row.ticker},
		{"SecurityName", &row.name},
		{"CUSIP", &row.cusip},
		{"Weightings", &row.weight},
		{"MarketValue", &row.marketValue},
		{"Shares", &row.shares},
	}
	for _, c := range cols {
		v, err := rec.Field(c.field)
		if err != nil {
			return stockRow{}, err
		}
		*c.dst = v
	}
	return row, nil
}

func extractStock(rec provider.Record) (holding.FieldBag, error) {
	row, err := readStockRow(rec)
	if err != nil {
		return holding.FieldBag{}, err
	}

	var bag holding.FieldBag

	isBond := strings.Contains(row.name, "%")
	if isBond {
		desc := splitBondDescription(row.name)
		bag.Name = holding.Ptr(desc.name)
		bag.CouponRate = desc.coupon
		bag.MaturityDate = desc.maturity
	} else {
		bag.Name = holding.Ptr(row.name)
	}

	// The CUSIP column sometimes holds a SEDOL.
	switch {
	case validation.IsCUSIP(row.cusip):
		bag.CUSIP = holding.Ptr(row.cusip)
	case validation.IsSEDOL(row.cusip):
		bag.SEDOL = holding.Ptr(row.cusip)
	}

	bag.PercentWeighting = provider.Percentage(row.weight)
	bag.MarketValue = provider.Number(row.marketValue)

	bag.Ticker = provider.Ticker(row.ticker)

	if isBond {
		bag.QuantityHeld = provider.Number(row.shares)
	} else {
		bag.NumShares = provider.Number(row.shares)
	}

	if row.cusip == cashCUSIP {
		bag.Currency = holding.Ptr(holding.DefaultCurrency)
	}

	return bag, nil
}

func extractBond(rec provider.Record) (holding.FieldBag, error) {
	fields, err := rec.Require(
		"Security Description", "Security Cusip", "Security ISIN", "Security Sedol",
		"% of Net Assets", "Market Value Base", "Ticker Symbol", "Shares/Par",
		couponRateField,
	)
	if err != nil {
		return holding.FieldBag{}, err
	}

	var bag holding.FieldBag
	bag.Name = holding.Ptr(fields["Security Description"])

	if v := fields["Security Cusip"]; validation.IsCUSIP(v) {
		bag.CUSIP = holding.Ptr(v)
	}
	if v := fields["Security ISIN"]; v != "" && validation.IsISIN(v) {
		bag.ISIN = holding.Ptr(v)
	}
	if v := fields["Security Sedol"]; validation.IsSEDOL(v) {
		bag.SEDOL = holding.Ptr(v)
	}

	bag.PercentWeighting = provider.Percentage(fields["% of Net Assets"])
	bag.MarketValue = provider.Number(fields["Market Value Base"])

	bag.Ticker = provider.Ticker(fields["Ticker Symbol"])

	// Coupon Rate is the layout marker; Maturity Date is optional.
	if coupon := provider.Number(fields[couponRateField]); coupon != nil {
		bag.CouponRate = holding.Ptr(conversion.PercentToFractionExact(*coupon))
	}
	if v, ok := rec.Fields["Maturity Date"]; ok {
		if t, err := conversion.ParseDate(maturityLayout, strings.TrimSpace(v)); err == nil {
			bag.MaturityDate = &t
		}
	}

	if bag.CouponRate != nil || bag.MaturityDate != nil {
		bag.QuantityHeld = provider.Number(fields["Shares/Par"])
	} else {
		bag.NumShares = provider.Number(fields["Shares/Par"])
	}

	if *bag.Name == cashName {
		currency, err := rec.Field("Trading Currency")
		if err != nil {
			return holding.FieldBag{}, err
		}
		bag.Currency = holding.Ptr(strings.TrimSpace(currency))
	}

	return bag, nil
}

// bondDescription is a free-text bond description split into its terms.
type bondDescription struct {
	name     string
	coupon   *float64
	maturity *time.Time
}

// splitBondDescription splits "ISSUER NAME 0.41138% 08/19/2022". The name is
// every word before the first percentage, the coupon is the second-to-last
// word and the maturity is the last word. Terms that do not parse are left
// nil.
func splitBondDescription(desc string) bondDescription {
	words := strings.Fields(desc)

	end := 0
	for end < len(words) && !validation.IsPercentage(words[end]) {
		end++
	}
	out := bondDescription{name: strings.Join(words[:end], " ")}

	if len(words) >= 2 {
		if coupon := words[len(words)-2]; validation.IsPercentage(coupon) {
			if v, err := conversion.PercentageToFractionExact(coupon); err == nil {
				out.coupon = &v
			}
		}
	}
	if len(words) >= 1 {
		if t, err := conversion.ParseDate(maturityLayout, words[len(words)-1]); err == nil {
			out.maturity = &t
		}
	}
	return out
}
