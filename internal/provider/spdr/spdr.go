// Package spdr reads State Street SPDR daily holdings spreadsheets.
//
// The workbook opens with a fund metadata block. The holdings table starts at
// the row holding the column names and ends at the first row without a
// holding name; disclaimers follow it.
package spdr

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
	Name = "spdr"

	DefaultURLTemplate = "https://www.ssga.com/us/en/institutional/etfs/library-content/products/fund-data/etfs/us/holdings-daily-us-en-{ticker_lower}.xlsx"

	FormatDaily provider.Format = "spdr/daily"
)

const (
	colName       = "Name"
	colTicker     = "Ticker"
	colIdentifier = "Identifier"
	colSEDOL      = "SEDOL"
	colWeight     = "Weight"
	colSector     = "Sector"
	colShares     = "Shares Held"
	colCurrency   = "Local Currency"

	cashTicker   = "CASH_USD"
	cashNameMark = "INSTITUTIONAL LIQ"
)

// Provider implements provider.Provider for SPDR.
type Provider struct {
	stager      provider.Stager
	urlTemplate string
}

// New returns a SPDR provider. An empty urlTemplate selects
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
		return nil, errors.New("spdr: no stager configured")
	}
	url := provider.ExpandURL(p.urlTemplate, ticker)
	return provider.FetchWith(ctx, p.stager, url, "xlsx", ticker, p.Decode)
}

func (p *Provider) Decode(r io.Reader) (*provider.Batch, error) {
	return xlsxparser.Parse(r, xlsxparser.Settings{
		HeaderMarker: colIdentifier,
		StopColumn:   colName,
	})
}

func (p *Provider) Detect(b *provider.Batch) provider.Format {
	if b.HasField(colTicker) && b.HasField(colShares) && b.HasField(colWeight) {
		return FormatDaily
	}
	return provider.FormatUnknown
}

func (p *Provider) Extract(f provider.Format, b *provider.Batch) ([]holding.FieldBag, error) {
	if f != FormatDaily {
		return nil, nil
	}
	return provider.ExtractEach(b, extract)
}

func extract(rec provider.Record) (holding.FieldBag, error) {
	fields, err := rec.Require(colName, colTicker, colIdentifier, colSEDOL, colWeight, colSector, colShares, colCurrency)
	if err != nil {
		return holding.FieldBag{}, err
	}

	var bag holding.FieldBag
	bag.Name = provider.Text(fields[colName])
	bag.Sector = provider.Text(fields[colSector])
	bag.PercentWeighting = provider.PercentValue(fields[colWeight])

	ticker, _, _ := strings.Cut(fields[colTicker], " ")
	bag.Ticker = provider.Ticker(ticker)

	if v := fields[colIdentifier]; validation.IsCUSIP(v) {
		bag.CUSIP = holding.Ptr(v)
	}
	if v := fields[colSEDOL]; validation.IsSEDOL(v) {
		bag.SEDOL = holding.Ptr(v)
	}

	if ticker == cashTicker || strings.Contains(fields[colName], cashNameMark) {
		bag.Currency = holding.Ptr("")
		if code := provider.CurrencyCode(fields[colCurrency]); code != nil {
			bag.Currency = code
		}
		return bag, nil
	}

	bag.NumShares = provider.Number(fields[colShares])
	return bag, nil
}
