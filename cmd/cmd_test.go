package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/openholdings/internal/config"
	"github.com/ginjaninja78/openholdings/internal/converter"
	"github.com/ginjaninja78/openholdings/internal/logger"
)

const ipayCSV = `StockTicker,CUSIP,SecurityName,Shares,MarketValue,Weightings
GOOG,38259P508,Alphabet Inc,500,"1,000,000",2.50%
,Cash&Other,Cash & Other,"12,345","12,345",0.03%
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "absent.yaml")))
	t.Cleanup(func() {
		outputFormat, outFile, verbose = "", "", false
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestParseCommandJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ipay.csv")
	require.NoError(t, os.WriteFile(path, []byte(ipayCSV), 0o644))

	out, err := execute(t, "parse", "etfmg", path, "--output", "json")
	require.NoError(t, err)

	var fund struct {
		Provider string `json:"provider"`
		Fund     string `json:"fund"`
		Format   string `json:"format"`
		Holdings []struct {
			Kind   string `json:"kind"`
			Ticker string `json:"ticker"`
		} `json:"holdings"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &fund))
	assert.Equal(t, "etfmg", fund.Provider)
	assert.Equal(t, "ipay.csv", fund.Fund)
	assert.Equal(t, "etfmg/stock", fund.Format)
	require.Len(t, fund.Holdings, 2)
	assert.Equal(t, "equity", fund.Holdings[0].Kind)
	assert.Equal(t, "cash", fund.Holdings[1].Kind)
}

func TestParseCommandXMLToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ipay.csv")
	dest := filepath.Join(dir, "ipay.xml")
	require.NoError(t, os.WriteFile(path, []byte(ipayCSV), 0o644))

	_, err := execute(t, "parse", "etfmg", path, "-o", "xml", "--out", dest)
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<holdings provider="etfmg" fund="ipay.csv" format="etfmg/stock">`)
	assert.Contains(t, string(data), `<ticker>GOOG</ticker>`)
}

func TestParseCommandErrors(t *testing.T) {
	_, err := execute(t, "parse", "vanguard", "whatever.csv")
	assert.Error(t, err)

	_, err = execute(t, "parse", "etfmg", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)

	_, err = execute(t, "parse", "etfmg", "x.csv", "-o", "yaml")
	assert.Error(t, err)
}

func TestProvidersCommand(t *testing.T) {
	out, err := execute(t, "providers")
	require.NoError(t, err)
	assert.Equal(t, []string{"etfmg", "invesco", "ishares", "spdr", "vaneck"}, strings.Fields(out))
}

func TestFundsCommand(t *testing.T) {
	table := filepath.Join(t.TempDir(), "funds.csv")
	require.NoError(t, os.WriteFile(table, []byte(`"Ticker","URL"
"IVV","https://www.ishares.com/us/products/239726/ishares-core-sp-500-etf/"
`), 0o644))
	t.Setenv("HOLDINGS_ISHARES_FUNDS_FILE", table)

	out, err := execute(t, "funds", "IVV")
	require.NoError(t, err)
	assert.Equal(t,
		"https://www.ishares.com/us/products/239726/ishares-core-sp-500-etf/1467271812596.ajax?tab=all&fileType=json\n",
		out)

	out, err = execute(t, "funds")
	require.NoError(t, err)
	assert.Contains(t, out, "IVV")

	_, err = execute(t, "funds", "SPY")
	assert.Error(t, err)
}

func TestRenderJSONList(t *testing.T) {
	var buf bytes.Buffer
	results := []converter.Result{
		{Provider: "etfmg", Fund: "IPAY"},
		{Provider: "etfmg", Fund: "NOPE", Error: assert.AnError},
	}
	require.NoError(t, render(&buf, config.FormatJSON, results))

	var funds []fundJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &funds))
	require.Len(t, funds, 2)
	assert.NotNil(t, funds[0].Holdings)
	assert.Equal(t, assert.AnError.Error(), funds[1].Error)

	assert.Error(t, render(&buf, "csv", results))
}

func TestWire(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	cfg.Providers = map[string]config.ProviderConfig{"etfmg": {URLTemplate: "http://localhost/{ticker}.csv"}}

	a := wire(cfg, logger.Discard())
	assert.Equal(t, []string{"etfmg", "invesco", "ishares", "spdr", "vaneck"}, a.registry.Names())
	assert.Equal(t, cfg.StagingDir, a.stager.Dir())
}
