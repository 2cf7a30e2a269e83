// Package invesco reads Invesco holdings exports (CSV, one layout).
package invesco

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/ginjaninja78/openholdings/internal/csvparser"
	"github.com/ginjaninja78/openholdings/internal/holding"
	"github.com/ginjaninja78/openholdings/internal/provider"
)

const (
	// Name is the registry key.
	Name = "invesco"

	DefaultURLTemplate = "https://www.invesco.com/us/financial-products/etfs/holdings/main/holdings/0?audienceType=Investor&action=download&ticker={ticker}"

	FormatHoldings provider.Format = "invesco/holdings"
)

const (
	colTicker      = "Holding Ticker"
	colName        = "Name"
	colShares      = "Shares/Par Value"
	colMarketValue = "MarketValue"
	colWeight      = "Weight"
)

// Provider implements provider.Provider for Invesco.
type Provider struct {
	stager      provider.Stager
	urlTemplate string
}

// New returns an Invesco provider. An empty urlTemplate selects
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
		return nil, errors.New("invesco: no stager configured")
	}
	url := provider.ExpandURL(p.urlTemplate, ticker)
	return provider.FetchWith(ctx, p.stager, url, "csv", ticker, p.Decode)
}

func (p *Provider) Decode(r io.Reader) (*provider.Batch, error) {
	return csvparser.Parse(r, csvparser.DefaultSettings())
}

func (p *Provider) Detect(b *provider.Batch) provider.Format {
	if b.HasField(colTicker) && b.HasField(colShares) {
		return FormatHoldings
	}
	return provider.FormatUnknown
}

func (p *Provider) Extract(f provider.Format, b *provider.Batch) ([]holding.FieldBag, error) {
	if f != FormatHoldings {
		return nil, nil
	}
	return provider.ExtractEach(b, extract)
}

func extract(rec provider.Record) (holding.FieldBag, error) {
	fields, err := rec.Require(colTicker, colName, colShares, colMarketValue, colWeight)
	if err != nil {
		return holding.FieldBag{}, err
	}

	var bag holding.FieldBag
	bag.Name = provider.Text(fields[colName])
	// "AAPL UW" style tickers keep only the first word.
	bag.Ticker = provider.Ticker(firstWord(fields[colTicker]))
	bag.NumShares = provider.Number(fields[colShares])
	bag.MarketValue = provider.Currency(fields[colMarketValue])
	bag.PercentWeighting = provider.PercentValue(fields[colWeight])

	if strings.Contains(strings.ToLower(fields[colName]), "cash") {
		bag.Currency = holding.Ptr("")
	}
	return bag, nil
}

func firstWord(s string) string {
	if f := strings.Fields(s); len(f) > 0 {
		return f[0]
	}
	return ""
}
