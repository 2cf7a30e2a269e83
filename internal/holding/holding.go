// =============================================================================
// OpenHoldings - Canonical Holding Model
// =============================================================================
//
// This package contains the canonical holdings model shared by every provider.
// A Holding is a tagged union: a Base record common to all variants plus
// exactly one variant payload selected by Kind.
//
//   Kind    | Payload
//   --------|------------------------------------------------------------
//   equity  | ticker, num-shares, sector
//   bond    | coupon-rate, rating, effective/maturity/next-call dates,
//           | quantity-held, sector
//   future  | contract-code, contract-expiry-date, quantity-held
//   cash    | currency
//
// Consumers switch on Kind rather than type-asserting.
//
// =============================================================================

package holding

import "time"

// =============================================================================
// KIND
// =============================================================================

// Kind tags which variant payload a Holding carries.
type Kind string

const (
	KindEquity Kind = "equity"
	KindBond   Kind = "bond"
	KindFuture Kind = "future"
	KindCash   Kind = "cash"
)

// DefaultCurrency is the currency of a Cash holding whose source did not name one.
const DefaultCurrency = "USD"

// =============================================================================
// HOLDING STRUCTURES
// =============================================================================

// Base holds the attributes every holding variant shares.
type Base struct {
	// Name is the security or line-item name as published by the provider.
	Name *string `json:"name,omitempty"`

	// Identifiers. Only values that passed their validator are ever set.
	CUSIP *string `json:"cusip,omitempty"`
	ISIN  *string `json:"isin,omitempty"`
	FIGI  *string `json:"figi,omitempty"`
	SEDOL *string `json:"sedol,omitempty"`

	// PercentWeighting is a fraction of the fund (0.025 for 2.5%).
	PercentWeighting *float64 `json:"percent_weighting,omitempty"`

	// MarketValue is currency agnostic. In almost all cases it is US Dollars
	// unless a Cash holding says otherwise.
	MarketValue *float64 `json:"market_value,omitempty"`
}

// Equity is stock held in a company.
type Equity struct {
	Ticker    *string  `json:"ticker,omitempty"`
	NumShares *float64 `json:"num_shares,omitempty"`
	Sector    *string  `json:"sector,omitempty"`
}

// Bond is a fixed income security such as a bill, note or long-term loan.
type Bond struct {
	CouponRate    *float64   `json:"coupon_rate,omitempty"`
	Rating        *string    `json:"rating,omitempty"`
	EffectiveDate *time.Time `json:"effective_date,omitempty"`
	MaturityDate  *time.Time `json:"maturity_date,omitempty"`
	NextCallDate  *time.Time `json:"next_call_date,omitempty"`
	QuantityHeld  *float64   `json:"quantity_held,omitempty"`
	Sector        *string    `json:"sector,omitempty"`
}

// Future is a futures contract, usually on a currency or a commodity.
type Future struct {
	// ContractCode is a four or five character code identifying the contract.
	ContractCode       *string    `json:"contract_code,omitempty"`
	ContractExpiryDate *time.Time `json:"contract_expiry_date,omitempty"`
	QuantityHeld       *float64   `json:"quantity_held,omitempty"`
}

// Cash is cash or an otherwise highly liquid account.
type Cash struct {
	Currency string `json:"currency"`
}

// Holding is a single position reported within a fund's portfolio.
// Exactly one of Equity, Bond, Future or Cash is non-nil, matching Kind.
type Holding struct {
	Kind Kind `json:"kind"`
	Base

	Equity *Equity `json:"equity,omitempty"`
	Bond   *Bond   `json:"bond,omitempty"`
	Future *Future `json:"future,omitempty"`
	Cash   *Cash   `json:"cash,omitempty"`
}

// DisplayName returns the holding name, or an empty string when the source
// did not provide one.
func (h Holding) DisplayName() string {
	if h.Name == nil {
		return ""
	}
	return *h.Name
}

// Ptr returns a pointer to a copy of v.
func Ptr[T any](v T) *T {
	return &v
}

// clone copies the value behind p so the result never aliases its source.
func clone[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
