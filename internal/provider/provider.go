// =============================================================================
// OpenHoldings - Provider Contracts
// =============================================================================
//
// This package defines what every ETF issuer integration implements and the
// raw record model they exchange with the converter.
//
// DATA FLOW:
//   Fetch/Decode -> *Batch -> Detect (once per batch) -> Format
//                           -> Extract(Format, *Batch) -> []holding.FieldBag
//
// A provider may publish more than one layout. Detect picks one by looking at
// the batch's field names or at the width of a representative record, and
// returns FormatUnknown when nothing matches. An unknown format yields zero
// field bags and is not an error.
//
// =============================================================================

package provider

import (
	"context"
	"io"
	"strings"

	"github.com/ginjaninja78/openholdings/internal/holding"
)

// Format tags one provider layout, e.g. "etfmg/stock".
type Format string

// FormatUnknown is returned by Detect when no known layout matches.
const FormatUnknown Format = ""

// Provider is one ETF issuer integration.
type Provider interface {
	// Name is the registry key, e.g. "etfmg".
	Name() string

	// Fetch retrieves the holdings document for a fund and decodes it. Any
	// downloaded file is released before Fetch returns.
	Fetch(ctx context.Context, ticker string) (*Batch, error)

	// Decode turns an already retrieved holdings document into a Batch.
	Decode(r io.Reader) (*Batch, error)

	// Detect inspects a batch and returns its layout.
	Detect(b *Batch) Format

	// Extract maps every record of a batch in the given layout to a field
	// bag. A record missing a structurally required field fails the whole
	// batch with a *MalformedRecordError.
	Extract(f Format, b *Batch) ([]holding.FieldBag, error)
}

// Stager retrieves a remote holdings document into a local staging file and
// hands it to fn. The staged file is removed on every exit path, whether fn
// succeeds or not.
type Stager interface {
	Stage(ctx context.Context, url, ext, ticker string, fn func(r io.Reader) error) error
}

// FetchWith stages url through s and decodes it with decode. Providers share
// it to implement Fetch.
func FetchWith(ctx context.Context, s Stager, url, ext, ticker string, decode func(io.Reader) (*Batch, error)) (*Batch, error) {
	var batch *Batch
	err := s.Stage(ctx, url, ext, ticker, func(r io.Reader) error {
		var err error
		batch, err = decode(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// ExpandURL fills a URL template. "{ticker}" is replaced by the ticker as
// given and "{ticker_lower}" by its lower-case form.
func ExpandURL(template, ticker string) string {
	return strings.NewReplacer(
		"{ticker}", ticker,
		"{ticker_lower}", strings.ToLower(ticker),
	).Replace(template)
}

// ExtractEach applies fn to every record in order. The first error fails the
// whole batch.
func ExtractEach(b *Batch, fn func(Record) (holding.FieldBag, error)) ([]holding.FieldBag, error) {
	bags := make([]holding.FieldBag, 0, len(b.Records))
	for _, rec := range b.Records {
		bag, err := fn(rec)
		if err != nil {
			return nil, err
		}
		bags = append(bags, bag)
	}
	return bags, nil
}
