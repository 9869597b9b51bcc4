// Package cgt post-processes a ledger to compute UK Capital Gains Tax
// liabilities under Section 104 pooling, with same-day and thirty-day
// matching applied ahead of the pool.
package cgt

import (
	"fmt"

	"github.com/shopspring/decimal"

	beancount "github.com/LalitMaganti/beancount-lalitm"
)

// gbpPlaces is the quantization applied to every GBP figure. Banker's
// rounding keeps repeated conversions of identical inputs stable.
const gbpPlaces = 4

func quantize(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(gbpPlaces)
}

// Converter converts trade-currency values into GBP as of a given date,
// using the historical rates recorded as price directives in the ledger.
type Converter struct {
	prices *beancount.PriceMap
}

// NewConverter builds the historical price table once from the full ledger.
func NewConverter(l *beancount.Ledger) *Converter {
	return &Converter{prices: beancount.BuildPriceMap(l)}
}

// ToGBP converts units valued at the given per-unit price into GBP as of a
// date, quantized to 4 decimal places. A missing rate is a hard error: gains
// cannot be computed without it.
func (c *Converter) ToGBP(on beancount.Date, units decimal.Decimal, price beancount.Amount) (decimal.Decimal, error) {
	value := beancount.A(units.Mul(price.Number), price.Currency)
	out, err := c.prices.Convert(value, "GBP", on)
	if err != nil {
		return decimal.Zero, fmt.Errorf("cannot convert %s to GBP on %s: %w", value, on, err)
	}
	return quantize(out.Number), nil
}
