package etfmg

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/openholdings/internal/holding"
	"github.com/ginjaninja78/openholdings/internal/provider"
)

const stockCSV = `Date,Account,StockTicker,CUSIP,SecurityName,Shares,Price,MarketValue,Weightings,NetAssets,SharesOutstanding,CreationUnits,MoneyMarketFlag
01/03/2022,ETFMG,GOOG,38259P508,Alphabet Inc,500,2000,"1,000,000",2.50%,40000000,800000,16,
01/03/2022,ETFMG,,438516CB0,HONEYWELL INTL INC 0.41138% 08/19/2022,"250,000",100,"250,000",0.63%,40000000,800000,16,
01/03/2022,ETFMG,700 HK,B01CT30,TENCENT HOLDINGS LTD,"1,200",50,"60,000",0.15%,40000000,800000,16,
01/03/2022,ETFMG,,Cash&Other,Cash & Other,"12,345",1,"12,345",0.03%,40000000,800000,16,
`

const bondCSV = `Fund Ticker,Security Description,Ticker Symbol,Security Cusip,Security ISIN,Security Sedol,Shares/Par,Market Value Base,% of Net Assets,Coupon Rate,Maturity Date,Trading Currency
XYZ,US TREASURY N/B,,91282CBT7,US91282CBT71,BMGYMT1,"100,000","99,500.25",4.10%,0.75,03/31/2026,USD
XYZ,CASH AND OTHER REC PAY,,,,,"5,000","5,000",0.20%,,,EUR
`

func decode(t *testing.T, p *Provider, doc string) *provider.Batch {
	t.Helper()
	batch, err := p.Decode(strings.NewReader(doc))
	require.NoError(t, err)
	return batch
}

func classify(t *testing.T, p *Provider, doc string) []holding.Holding {
	t.Helper()
	batch := decode(t, p, doc)
	bags, err := p.Extract(p.Detect(batch), batch)
	require.NoError(t, err)
	return holding.ClassifyAll(bags)
}

func TestDetect(t *testing.T) {
	p := New(nil, "")

	assert.Equal(t, FormatStock, p.Detect(decode(t, p, stockCSV)))
	assert.Equal(t, FormatBond, p.Detect(decode(t, p, bondCSV)))
	assert.Equal(t, provider.FormatUnknown, p.Detect(decode(t, p, "Foo,Bar\n1,2\n")))
}

func TestUnknownFormatYieldsNothing(t *testing.T) {
	p := New(nil, "")
	batch := decode(t, p, "Foo,Bar\n1,2\n")

	bags, err := p.Extract(p.Detect(batch), batch)
	require.NoError(t, err)
	assert.Empty(t, bags)
}

func TestStockLayoutEquity(t *testing.T) {
	holdings := classify(t, New(nil, ""), stockCSV)
	require.Len(t, holdings, 4)

	goog := holdings[0]
	require.Equal(t, holding.KindEquity, goog.Kind)
	assert.Equal(t, "GOOG", *goog.Equity.Ticker)
	assert.Equal(t, "Alphabet Inc", *goog.Name)
	assert.Equal(t, 0.025, *goog.PercentWeighting)
	assert.Equal(t, 1000000.0, *goog.MarketValue)
	assert.Equal(t, 500.0, *goog.Equity.NumShares)
	assert.Equal(t, "38259P508", *goog.CUSIP)
	assert.Nil(t, goog.SEDOL)
}

func TestStockLayoutEmbeddedBond(t *testing.T) {
	holdings := classify(t, New(nil, ""), stockCSV)

	bond := holdings[1]
	require.Equal(t, holding.KindBond, bond.Kind)
	assert.Equal(t, "HONEYWELL INTL INC", *bond.Name)
	assert.InDelta(t, 0.0041138, *bond.Bond.CouponRate, 1e-12)
	assert.Equal(t, time.Date(2022, time.August, 19, 0, 0, 0, 0, time.UTC), *bond.Bond.MaturityDate)
	assert.Equal(t, 250000.0, *bond.Bond.QuantityHeld)
	assert.Equal(t, "438516CB0", *bond.CUSIP)
}

func TestStockLayoutSEDOLInCUSIPColumn(t *testing.T) {
	holdings := classify(t, New(nil, ""), stockCSV)

	tencent := holdings[2]
	require.Equal(t, holding.KindEquity, tencent.Kind)
	assert.Equal(t, "700", *tencent.Equity.Ticker)
	assert.Nil(t, tencent.CUSIP)
	assert.Equal(t, "B01CT30", *tencent.SEDOL)
}

func TestStockLayoutCashSentinel(t *testing.T) {
	holdings := classify(t, New(nil, ""), stockCSV)

	cash := holdings[3]
	require.Equal(t, holding.KindCash, cash.Kind)
	assert.Equal(t, "USD", cash.Cash.Currency)
	assert.Nil(t, cash.CUSIP, "the sentinel is not an identifier")
	assert.Equal(t, 12345.0, *cash.MarketValue)
}

func TestBondLayout(t *testing.T) {
	holdings := classify(t, New(nil, ""), bondCSV)
	require.Len(t, holdings, 2)

	treasury := holdings[0]
	require.Equal(t, holding.KindBond, treasury.Kind)
	assert.Equal(t, "US TREASURY N/B", *treasury.Name)
	assert.Equal(t, 0.0075, *treasury.Bond.CouponRate)
	assert.Equal(t, time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC), *treasury.Bond.MaturityDate)
	assert.Equal(t, 100000.0, *treasury.Bond.QuantityHeld)
	assert.Equal(t, "91282CBT7", *treasury.CUSIP)
	assert.Equal(t, "US91282CBT71", *treasury.ISIN)
	assert.Equal(t, "BMGYMT1", *treasury.SEDOL)
	assert.Equal(t, 0.041, *treasury.PercentWeighting)
	assert.Equal(t, 99500.25, *treasury.MarketValue)

	cash := holdings[1]
	require.Equal(t, holding.KindCash, cash.Kind)
	assert.Equal(t, "EUR", cash.Cash.Currency)
}

func TestInvalidOptionalFieldsAreOmitted(t *testing.T) {
	doc := "StockTicker,CUSIP,SecurityName,Shares,MarketValue,Weightings\n" +
		"not a ticker,???,Widget Co,n/a,-,2%\n"

	holdings := classify(t, New(nil, ""), doc)
	require.Len(t, holdings, 1)

	h := holdings[0]
	assert.Equal(t, holding.KindEquity, h.Kind)
	assert.Equal(t, "Widget Co", *h.Name)
	assert.Nil(t, h.Equity.Ticker)
	assert.Nil(t, h.CUSIP)
	assert.Nil(t, h.SEDOL)
	assert.Nil(t, h.PercentWeighting)
	assert.Nil(t, h.MarketValue)
	assert.Nil(t, h.Equity.NumShares)
}

func TestMissingRequiredColumnFailsBatch(t *testing.T) {
	p := New(nil, "")
	batch := decode(t, p, "StockTicker,CUSIP,SecurityName\nGOOG,38259P508,Alphabet Inc\n")

	bags, err := p.Extract(p.Detect(batch), batch)
	assert.Nil(t, bags)
	require.ErrorIs(t, err, provider.ErrMalformedRecord)

	var mre *provider.MalformedRecordError
	require.True(t, errors.As(err, &mre))
	assert.Equal(t, 1, mre.Row)
}

func TestSplitBondDescription(t *testing.T) {
	d := splitBondDescription("HONEYWELL INTL INC 0.41138% 08/19/2022")
	assert.Equal(t, "HONEYWELL INTL INC", d.name)
	require.NotNil(t, d.coupon)
	require.NotNil(t, d.maturity)

	d = splitBondDescription("ODD ISSUER 5% SERIES B")
	assert.Equal(t, "ODD ISSUER 5% SERIES B", d.name, "5% has no fractional part")
	assert.Nil(t, d.coupon)
	assert.Nil(t, d.maturity)
}

type staticStager struct {
	doc    string
	gotURL string
	gotExt string
}

func (s *staticStager) Stage(_ context.Context, url, ext, _ string, fn func(io.Reader) error) error {
	s.gotURL, s.gotExt = url, ext
	return fn(strings.NewReader(s.doc))
}

func TestFetch(t *testing.T) {
	stager := &staticStager{doc: stockCSV}
	p := New(stager, "")

	batch, err := p.Fetch(context.Background(), "IPAY")
	require.NoError(t, err)
	assert.Equal(t, "https://etfmg.com/holdings/IPAY_fund_holdings.csv", stager.gotURL)
	assert.Equal(t, "csv", stager.gotExt)
	assert.Len(t, batch.Records, 4)
}

func TestFetchWithoutStager(t *testing.T) {
	_, err := New(nil, "").Fetch(context.Background(), "IPAY")
	assert.Error(t, err)
}
