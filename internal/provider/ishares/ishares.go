// Package ishares reads BlackRock iShares holdings documents.
//
// iShares serves holdings as JSON: an "aaData" array whose elements are
// positional arrays of cells. Nothing in the document names its columns, so
// the layout is inferred from the number of cells in a row:
//
//	18 cells  equity funds
//	27 cells  fixed income funds
//	26 cells  commodity and futures funds
//
// The width check is the only signal available. An unrelated document whose
// rows happen to have one of these widths is read with the wrong layout.
//
// Fund detail URLs are not derivable from the ticker and come from the local
// funds table (see internal/funds).
package ishares

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ginjaninja78/openholdings/internal/conversion"
	"github.com/ginjaninja78/openholdings/internal/holding"
	"github.com/ginjaninja78/openholdings/internal/jsonparser"
	"github.com/ginjaninja78/openholdings/internal/provider"
	"github.com/ginjaninja78/openholdings/internal/validation"
)

const (
	// Name is the registry key.
	Name = "ishares"

	// DefaultURLTemplate turns a fund detail page URL ({url}) into its JSON
	// holdings download.
	DefaultURLTemplate = "{url}/1467271812596.ajax?tab=all&fileType=json"

	FormatEquity provider.Format = "ishares/equity"
	FormatBond   provider.Format = "ishares/bond"
	FormatFuture provider.Format = "ishares/future"
)

// Row widths of the three layouts.
const (
	equityWidth = 18
	bondWidth   = 27
	futureWidth = 26
)

// Cell positions shared by every layout.
const (
	colTicker      = 0
	colName        = 1
	colSector      = 2
	colAssetClass  = 3
	colMarketValue = 4
	colWeight      = 5
	colQuantity    = 7
	colCUSIP       = 8
	colISIN        = 9
	colSEDOL       = 10
	colCurrency    = 14
)

// Cell positions only present in the bond layout.
const (
	colMaturity = 18
	colCoupon   = 19
)

const (
	assetClassCash    = "Cash"
	assetClassFutures = "Futures"
)

// FundLookup resolves a fund ticker to its detail page URL.
type FundLookup interface {
	Lookup(ticker string) (string, error)
}

// Provider implements provider.Provider for iShares.
type Provider struct {
	stager      provider.Stager
	funds       FundLookup
	urlTemplate string
}

// New returns an iShares provider. An empty urlTemplate selects
// DefaultURLTemplate.
func New(stager provider.Stager, funds FundLookup, urlTemplate string) *Provider {
	if urlTemplate == "" {
		urlTemplate = DefaultURLTemplate
	}
	return &Provider{stager: stager, funds: funds, urlTemplate: urlTemplate}
}

func (p *Provider) Name() string { return Name }

// Fetch resolves the ticker through the funds table before downloading. A
// ticker with no table row fails with funds.ErrFundNotFound.
func (p *Provider) Fetch(ctx context.Context, ticker string) (*provider.Batch, error) {
	if p.stager == nil || p.funds == nil {
		return nil, errors.New("ishares: provider is not configured for fetching")
	}
	url, err := p.HoldingsURL(ticker)
	if err != nil {
		return nil, err
	}
	return provider.FetchWith(ctx, p.stager, url, "json", ticker, p.Decode)
}

// HoldingsURL returns the JSON holdings URL of a fund.
func (p *Provider) HoldingsURL(ticker string) (string, error) {
	detail, err := p.funds.Lookup(ticker)
	if err != nil {
		return "", err
	}
	url := strings.ReplaceAll(p.urlTemplate, "{url}", strings.TrimSuffix(detail, "/"))
	return provider.ExpandURL(url, ticker), nil
}

func (p *Provider) Decode(r io.Reader) (*provider.Batch, error) {
	return jsonparser.Parse(r, jsonparser.DefaultPath)
}

// Detect selects the layout from the width of the first row.
func (p *Provider) Detect(b *provider.Batch) provider.Format {
	switch b.Width() {
	case equityWidth:
		return FormatEquity
	case bondWidth:
		return FormatBond
	case futureWidth:
		return FormatFuture
	default:
		return provider.FormatUnknown
	}
}

func (p *Provider) Extract(f provider.Format, b *provider.Batch) ([]holding.FieldBag, error) {
	var extract func(*cells) holding.FieldBag
	switch f {
	case FormatEquity:
		extract = extractEquity
	case FormatBond:
		extract = extractBond
	case FormatFuture:
		extract = extractFuture
	default:
		return nil, nil
	}

	bags := make([]holding.FieldBag, 0, len(b.Records))
	for _, rec := range b.Records {
		c := &cells{rec: rec}
		bag := extract(c)
		if c.err != nil {
			return nil, c.err
		}
		bags = append(bags, bag)
	}
	return bags, nil
}

// extractCommon reads the cells every layout shares. It returns the row's
// asset class alongside the bag.
func extractCommon(c *cells) (holding.FieldBag, string) {
	var bag holding.FieldBag
	bag.Name = c.text(colName)
	bag.Sector = c.text(colSector)
	bag.MarketValue = c.number(colMarketValue)
	if w := c.number(colWeight); w != nil {
		bag.PercentWeighting = holding.Ptr(conversion.PercentToFraction(*w))
	}

	if v := c.text(colCUSIP); v != nil && validation.IsCUSIP(*v) {
		bag.CUSIP = v
	}
	if v := c.text(colISIN); v != nil && validation.IsISIN(*v) {
		bag.ISIN = v
	}
	if v := c.text(colSEDOL); v != nil && validation.IsSEDOL(*v) {
		bag.SEDOL = v
	}

	assetClass := ""
	if v := c.text(colAssetClass); v != nil {
		assetClass = *v
	}
	if assetClass == assetClassCash {
		bag.Currency = cashCurrency(c)
	}
	return bag, assetClass
}

func extractEquity(c *cells) holding.FieldBag {
	bag, assetClass := extractCommon(c)
	quantity := c.number(colQuantity)

	if assetClass == assetClassFutures {
		bag.ContractCode = c.text(colTicker)
		bag.QuantityHeld = quantity
		bag.ContractExpiryDate = expiry(bag.Name)
		return bag
	}

	if v := c.text(colTicker); v != nil {
		bag.Ticker = provider.Ticker(*v)
	}
	bag.NumShares = quantity
	return bag
}

// extractBond never sets a ticker: the ticker cell of a bond row is the
// issuer's equity ticker, not the bond's.
func extractBond(c *cells) holding.FieldBag {
	bag, _ := extractCommon(c)
	bag.QuantityHeld = c.number(colQuantity)
	bag.MaturityDate = c.date(colMaturity)
	if coupon := c.number(colCoupon); coupon != nil {
		bag.CouponRate = holding.Ptr(conversion.PercentToFractionExact(*coupon))
	}
	return bag
}

func extractFuture(c *cells) holding.FieldBag {
	bag, _ := extractCommon(c)
	bag.ContractCode = c.text(colTicker)
	bag.QuantityHeld = c.number(colQuantity)
	bag.ContractExpiryDate = expiry(bag.Name)
	return bag
}

// cashCurrency returns the row currency, or an empty code (USD) when the
// cell is not a known currency.
func cashCurrency(c *cells) *string {
	if v := c.text(colCurrency); v != nil {
		if code := provider.CurrencyCode(*v); code != nil {
			return code
		}
	}
	return holding.Ptr("")
}

func expiry(name *string) *time.Time {
	if name == nil {
		return nil
	}
	if t, ok := conversion.TrailingMonthYear(*name); ok {
		return &t
	}
	return nil
}

// =============================================================================
// CELL ACCESS
// =============================================================================

// cells reads positional values from one record and keeps the first
// structural error, so extractors can read a row without checking every
// access.
type cells struct {
	rec provider.Record
	err error
}

// text returns the display text, or nil for blank and "-" placeholders.
func (c *cells) text(i int) *string {
	if c.err != nil {
		return nil
	}
	s, err := c.rec.CellString(i)
	if err != nil {
		c.err = err
		return nil
	}
	if s == "-" {
		return nil
	}
	return provider.Text(s)
}

func (c *cells) number(i int) *float64 {
	if c.err != nil {
		return nil
	}
	f, ok, err := c.rec.CellNumber(i)
	if err != nil {
		c.err = err
		return nil
	}
	if !ok {
		return nil
	}
	return &f
}

// dateLayouts are the display forms seen in date cells.
var dateLayouts = []string{"Jan 02, 2006", "01/02/2006", "2006-01-02"}

// date reads a date cell. The raw value is a yyyymmdd number; cells without
// one fall back to the display text.
func (c *cells) date(i int) *time.Time {
	if c.err != nil {
		return nil
	}
	if raw := c.number(i); raw != nil && *raw >= 10000101 {
		t, err := conversion.ParseDate("20060102", strconv.FormatInt(int64(*raw), 10))
		if err == nil {
			return &t
		}
	}
	s := c.text(i)
	if s == nil {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := conversion.ParseDate(layout, *s); err == nil {
			return &t
		}
	}
	return nil
}

