package holding

import "time"

// FieldBag is the provider-agnostic intermediate record built by the row
// extractors. It holds the union of every attribute any holding variant
// needs, each one optional. A nil field means the source did not provide a
// usable value.
//
// A FieldBag is filled once during extraction and then handed to Classify;
// nothing mutates it afterwards.
type FieldBag struct {
	// Generic holding fields
	Name             *string
	CUSIP            *string
	ISIN             *string
	FIGI             *string
	SEDOL            *string
	PercentWeighting *float64
	MarketValue      *float64

	// Equity-specific fields
	Ticker    *string
	NumShares *float64
	Sector    *string

	// Bond-specific fields
	CouponRate    *float64
	Rating        *string
	EffectiveDate *time.Time
	MaturityDate  *time.Time
	NextCallDate  *time.Time

	// Future-specific fields
	ContractCode       *string
	ContractExpiryDate *time.Time

	// Shared by bonds and futures
	QuantityHeld *float64

	// Cash-specific fields
	Currency *string
}

// base copies the common attributes out of the bag.
func (b FieldBag) base() Base {
	return Base{
		Name:             clone(b.Name),
		CUSIP:            clone(b.CUSIP),
		ISIN:             clone(b.ISIN),
		FIGI:             clone(b.FIGI),
		SEDOL:            clone(b.SEDOL),
		PercentWeighting: clone(b.PercentWeighting),
		MarketValue:      clone(b.MarketValue),
	}
}
