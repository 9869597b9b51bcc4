package cgt

import (
	"fmt"

	"github.com/shopspring/decimal"

	beancount "github.com/LalitMaganti/beancount-lalitm"
)

// matchRule decides whether a buy on one date can satisfy a sell on another.
type matchRule func(sell, buy beancount.Date) bool

// sameDayRule matches sales against purchases made the same calendar day.
func sameDayRule(sell, buy beancount.Date) bool {
	return sell == buy
}

// thirtyDayRule (the "bed and breakfasting" rule) matches sales against
// purchases made strictly after the sale and at most 30 calendar days later.
func thirtyDayRule(sell, buy beancount.Date) bool {
	return sell.Before(buy) && buy.Sub(sell) <= 30
}

// matchSellAgainstBuys greedily allocates a sell's unmatched units against
// the buy pool, in the buys' extraction order, under the given rule.
//
// Each allocation records reciprocal matches on both records with
// opposite-signed units and a shared cost derived from the buy's price and
// date. The GBP allowable cost is asymmetric: the sell side records the buy
// leg's value converted at the buy's date, the buy side records the sell
// leg's value converted at the sell's date.
func matchSellAgainstBuys(sell *matchedTx, buys []matchedTx, rule matchRule, conv *Converter) error {
	for i := range buys {
		buy := &buys[i]
		if sell.posting.Units.Currency != buy.posting.Units.Currency {
			continue
		}
		if sell.account.Section104Suffix != buy.account.Section104Suffix {
			continue
		}

		buyUnits := buy.unmatchedUnits()
		if buyUnits.IsNegative() {
			return fmt.Errorf("buy of %s on %s is over-allocated (%s unmatched units)", buy.symbol(), buy.date(), buyUnits)
		}
		if buyUnits.IsZero() {
			continue
		}

		if !rule(sell.date(), buy.date()) {
			continue
		}

		sellUnits := sell.unmatchedUnits()
		if !sellUnits.IsNegative() {
			return fmt.Errorf("sell of %s on %s has nothing left to match (%s unmatched units)", sell.symbol(), sell.date(), sellUnits)
		}

		taken := decimal.Min(sellUnits.Abs(), buyUnits)

		buyPrice := buy.posting.Price
		if buyPrice == nil {
			return fmt.Errorf("buy of %s on %s has no price", buy.symbol(), buy.date())
		}
		buyGBP, err := conv.ToGBP(buy.date(), taken, *buyPrice)
		if err != nil {
			return err
		}

		sellPrice := sell.posting.Price
		if sellPrice == nil {
			return fmt.Errorf("sell of %s on %s has no price", sell.symbol(), sell.date())
		}
		sellGBP, err := conv.ToGBP(sell.date(), taken, *sellPrice)
		if err != nil {
			return err
		}

		cost := beancount.Cost{
			Number:   buyPrice.Number,
			Currency: buyPrice.Currency,
			Date:     buy.date(),
		}
		sell.matches = append(sell.matches, match{units: taken, cost: cost, gbpAllowableCost: buyGBP})
		buy.matches = append(buy.matches, match{units: taken.Neg(), cost: cost, gbpAllowableCost: sellGBP})

		if sellUnits.Add(taken).IsZero() {
			return nil
		}
	}
	return nil
}
