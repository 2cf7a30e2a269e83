package holding

// Classify converts a FieldBag into the holding variant its populated fields
// imply. Source exports never tag a row's type, so the decision is an ordered
// list where the first matching rule wins:
//
//  1. cash:   a currency is present
//  2. bond:   no ticker, no contract code, and any of maturity date,
//     effective date or coupon rate
//  3. future: a contract code or a contract expiry date
//  4. equity: everything else
//
// Common fields are always copied. Fields that do not belong to the chosen
// variant are dropped. Classify is total: every bag yields a Holding.
func Classify(bag FieldBag) Holding {
	switch {
	case isCash(bag):
		return newCash(bag)
	case isBond(bag):
		return newBond(bag)
	case isFuture(bag):
		return newFuture(bag)
	default:
		return newEquity(bag)
	}
}

// ClassifyAll classifies bags in order.
func ClassifyAll(bags []FieldBag) []Holding {
	holdings := make([]Holding, 0, len(bags))
	for _, bag := range bags {
		holdings = append(holdings, Classify(bag))
	}
	return holdings
}

func isCash(bag FieldBag) bool {
	return bag.Currency != nil
}

func isBond(bag FieldBag) bool {
	return bag.Ticker == nil && bag.ContractCode == nil &&
		(bag.MaturityDate != nil || bag.EffectiveDate != nil || bag.CouponRate != nil)
}

func isFuture(bag FieldBag) bool {
	return bag.ContractCode != nil || bag.ContractExpiryDate != nil
}

func newCash(bag FieldBag) Holding {
	currency := DefaultCurrency
	if *bag.Currency != "" {
		currency = *bag.Currency
	}
	return Holding{
		Kind: KindCash,
		Base: bag.base(),
		Cash: &Cash{Currency: currency},
	}
}

func newBond(bag FieldBag) Holding {
	return Holding{
		Kind: KindBond,
		Base: bag.base(),
		Bond: &Bond{
			CouponRate:    clone(bag.CouponRate),
			Rating:        clone(bag.Rating),
			EffectiveDate: clone(bag.EffectiveDate),
			MaturityDate:  clone(bag.MaturityDate),
			NextCallDate:  clone(bag.NextCallDate),
			QuantityHeld:  clone(bag.QuantityHeld),
			Sector:        clone(bag.Sector),
		},
	}
}

func newFuture(bag FieldBag) Holding {
	return Holding{
		Kind: KindFuture,
		Base: bag.base(),
		Future: &Future{
			ContractCode:       clone(bag.ContractCode),
			ContractExpiryDate: clone(bag.ContractExpiryDate),
			QuantityHeld:       clone(bag.QuantityHeld),
		},
	}
}

func newEquity(bag FieldBag) Holding {
	return Holding{
		Kind: KindEquity,
		Base: bag.base(),
		Equity: &Equity{
			Ticker:    clone(bag.Ticker),
			NumShares: clone(bag.NumShares),
			Sector:    clone(bag.Sector),
		},
	}
}
