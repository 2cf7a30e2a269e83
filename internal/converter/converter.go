// =============================================================================
// OpenHoldings - Converter Module
// =============================================================================
//
// This module contains the holdings pipeline. It turns one fund's holdings
// document into an ordered sequence of canonical holdings.
//
// CONVERSION PIPELINE:
//   1. Look up the provider in the registry
//   2. Fetch the document (or decode a local one) into a Batch
//   3. Detect the layout once for the whole batch
//   4. Extract a field bag per record
//   5. Classify every bag into a Holding, preserving record order
//
// An unrecognized layout is not an error: the result simply carries no
// holdings and a warning is logged. A malformed record fails the whole fund.
//
// CONCURRENCY:
//   Funds are independent. FetchAll converts several funds in their own
//   goroutines; the Converter itself holds no mutable state.
//
// =============================================================================

package converter

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ginjaninja78/openholdings/internal/holding"
	"github.com/ginjaninja78/openholdings/internal/provider"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of converting a single fund.
type Result struct {
	// Provider is the registry name of the provider used.
	Provider string

	// Fund is the fund ticker, or the source file name for local documents.
	Fund string

	// Format is the detected layout. FormatUnknown means nothing matched.
	Format provider.Format

	// Holdings are in the order of the source records.
	Holdings []holding.Holding

	// Error is set by FetchAll when the fund failed. Holdings is then empty.
	Error error

	// Stats contains processing statistics.
	Stats Stats
}

// Stats contains statistics about one conversion.
type Stats struct {
	// RecordsRead is the number of raw records in the batch.
	RecordsRead int

	// ByKind counts holdings per variant.
	ByKind map[holding.Kind]int

	// ProcessingTime is the time taken, download included.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter runs the holdings pipeline against a provider registry.
type Converter struct {
	registry *provider.Registry
	log      *logrus.Entry
}

// New creates a new Converter.
//
// PARAMETERS:
//   - registry: The providers available by name.
//   - log: The logger entry to write pipeline events to.
//
// RETURNS:
//   - A new Converter instance.
func New(registry *provider.Registry, log *logrus.Entry) *Converter {
	return &Converter{registry: registry, log: log}
}

// =============================================================================
// PIPELINE ENTRY POINTS
// =============================================================================

// Fetch downloads and converts the holdings of one fund.
//
// PARAMETERS:
//   - ctx: Cancels the download.
//   - providerName: The registry name, e.g. "etfmg".
//   - ticker: The fund ticker.
//
// RETURNS:
//   - The conversion result.
//   - An error if the provider is unknown, the download or decoding fails,
//     or a record is malformed.
func (c *Converter) Fetch(ctx context.Context, providerName, ticker string) (*Result, error) {
	start := time.Now()
	p, err := c.registry.Lookup(providerName)
	if err != nil {
		return nil, err
	}

	c.log.WithFields(logrus.Fields{"provider": p.Name(), "fund": ticker}).Info("Fetching holdings")
	batch, err := p.Fetch(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s holdings for %s: %w", p.Name(), ticker, err)
	}
	return c.convert(p, ticker, batch, start)
}

// Parse converts a holdings document that is already on hand.
//
// PARAMETERS:
//   - providerName: The registry name of the provider that published it.
//   - fund: A label for the result, usually the ticker or file name.
//   - r: The document.
//
// RETURNS:
//   - The conversion result.
//   - An error if the provider is unknown, decoding fails, or a record is
//     malformed.
func (c *Converter) Parse(providerName, fund string, r io.Reader) (*Result, error) {
	start := time.Now()
	p, err := c.registry.Lookup(providerName)
	if err != nil {
		return nil, err
	}

	batch, err := p.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s document %s: %w", p.Name(), fund, err)
	}
	return c.convert(p, fund, batch, start)
}

// FetchAll converts several funds of one provider concurrently. Results are
// returned in the order of tickers; a failed fund carries its Error and does
// not stop the others.
func (c *Converter) FetchAll(ctx context.Context, providerName string, tickers []string) []Result {
	results := make([]Result, len(tickers))

	var wg sync.WaitGroup
	for i, ticker := range tickers {
		wg.Add(1)
		go func(i int, ticker string) {
			defer wg.Done()
			res, err := c.Fetch(ctx, providerName, ticker)
			if err != nil {
				c.log.WithError(err).WithField("fund", ticker).Error("Fund failed")
				results[i] = Result{Provider: providerName, Fund: ticker, Error: err}
				return
			}
			results[i] = *res
		}(i, ticker)
	}
	wg.Wait()

	return results
}

// convert runs detection, extraction and classification over a batch.
func (c *Converter) convert(p provider.Provider, fund string, batch *provider.Batch, start time.Time) (*Result, error) {
	log := c.log.WithFields(logrus.Fields{"provider": p.Name(), "fund": fund})

	format := p.Detect(batch)
	if format == provider.FormatUnknown {
		log.WithField("records", len(batch.Records)).Warn("Unrecognized holdings format")
	} else {
		log.WithFields(logrus.Fields{"format": format, "records": len(batch.Records)}).Debug("Detected format")
	}

	bags, err := p.Extract(format, batch)
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s holdings for %s: %w", p.Name(), fund, err)
	}
	holdings := holding.ClassifyAll(bags)

	result := &Result{
		Provider: p.Name(),
		Fund:     fund,
		Format:   format,
		Holdings: holdings,
		Stats: Stats{
			RecordsRead:    len(batch.Records),
			ByKind:         countKinds(holdings),
			ProcessingTime: time.Since(start),
		},
	}

	log.WithFields(logrus.Fields{
		"holdings": len(holdings),
		"equity":   result.Stats.ByKind[holding.KindEquity],
		"bond":     result.Stats.ByKind[holding.KindBond],
		"future":   result.Stats.ByKind[holding.KindFuture],
		"cash":     result.Stats.ByKind[holding.KindCash],
	}).Debug("Classified holdings")

	return result, nil
}

func countKinds(holdings []holding.Holding) map[holding.Kind]int {
	counts := make(map[holding.Kind]int, 4)
	for _, h := range holdings {
		counts[h.Kind]++
	}
	return counts
}
