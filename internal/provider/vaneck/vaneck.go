// Package vaneck reads VanEck holdings spreadsheets.
//
// Besides holdings, the sheet carries summary and footnote rows in the same
// columns. Only rows whose weight is a percentage are holdings; every other
// row is skipped.
package vaneck

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/ginjaninja78/openholdings/internal/holding"
	"github.com/ginjaninja78/openholdings/internal/provider"
	"github.com/ginjaninja78/openholdings/internal/validation"
	"github.com/ginjaninja78/openholdings/internal/xlsxparser"
)

const (
	// Name is the registry key.
	Name = "vaneck"

	DefaultURLTemplate = "https://www.vaneck.com/etf/equity/{ticker_lower}/holdings/download/xlsx/"

	FormatHoldings provider.Format = "vaneck/holdings"
)

const (
	colTicker      = "Ticker"
	colName        = "Holding Name"
	colShares      = "Shares"
	colAssetClass  = "Asset Class"
	colMarketValue = "Market Value"
	colWeight      = "% of Net Assets"

	assetClassCash = "Cash"
)

// Provider implements provider.Provider for VanEck.
type Provider struct {
	stager      provider.Stager
	urlTemplate string
}

// New returns a VanEck provider. An empty urlTemplate selects
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
		return nil, errors.New("vaneck: no stager configured")
	}
	url := provider.ExpandURL(p.urlTemplate, ticker)
	return provider.FetchWith(ctx, p.stager, url, "xlsx", ticker, p.Decode)
}

func (p *Provider) Decode(r io.Reader) (*provider.Batch, error) {
	return xlsxparser.Parse(r, xlsxparser.Settings{HeaderMarker: colName})
}

func (p *Provider) Detect(b *provider.Batch) provider.Format {
	if b.HasField(colName) && b.HasField(colWeight) {
		return FormatHoldings
	}
	return provider.FormatUnknown
}

func (p *Provider) Extract(f provider.Format, b *provider.Batch) ([]holding.FieldBag, error) {
	if f != FormatHoldings {
		return nil, nil
	}

	var bags []holding.FieldBag
	for _, rec := range b.Records {
		weight, err := rec.Field(colWeight)
		if err != nil {
			return nil, err
		}
		if !validation.IsPercentage(weight) {
			continue
		}
		bag, err := extract(rec)
		if err != nil {
			return nil, err
		}
		bags = append(bags, bag)
	}
	return bags, nil
}

func extract(rec provider.Record) (holding.FieldBag, error) {
	fields, err := rec.Require(colTicker, colName, colShares, colAssetClass, colMarketValue, colWeight)
	if err != nil {
		return holding.FieldBag{}, err
	}

	var bag holding.FieldBag
	bag.Name = provider.Text(fields[colName])
	ticker, _, _ := strings.Cut(fields[colTicker], " ")
	bag.Ticker = provider.Ticker(ticker)
	bag.NumShares = provider.Number(fields[colShares])
	bag.MarketValue = provider.Currency(fields[colMarketValue])
	bag.PercentWeighting = provider.Percentage(fields[colWeight])

	if fields[colAssetClass] == assetClassCash {
		bag.Currency = holding.Ptr("")
	}
	return bag, nil
}
