package beancount

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

type pricePoint struct {
	date Date
	rate decimal.Decimal
}

// PriceMap is a historical table of commodity prices built from the price
// directives of a ledger. It answers "what was one unit of base worth in
// quote on this date", using the most recent rate on or before the date.
type PriceMap struct {
	points map[string][]pricePoint // keyed by base+quote, sorted by date
}

// BuildPriceMap collects every price directive in the ledger into a queryable
// historical table.
func BuildPriceMap(l *Ledger) *PriceMap {
	m := &PriceMap{points: make(map[string][]pricePoint)}
	for _, d := range l.directives {
		p, ok := d.(Price)
		if !ok {
			continue
		}
		key := p.Commodity + p.Amount.Currency
		m.points[key] = append(m.points[key], pricePoint{date: p.Date, rate: p.Amount.Number})
	}
	for _, pts := range m.points {
		sort.SliceStable(pts, func(i, j int) bool { return pts[i].date.Before(pts[j].date) })
	}
	return m
}

// rateAsOf returns the most recent recorded rate for base/quote on or before
// the given date.
func (m *PriceMap) rateAsOf(base, quote string, on Date) (decimal.Decimal, bool) {
	pts := m.points[base+quote]
	// Find the last point with date <= on.
	i := sort.Search(len(pts), func(i int) bool { return pts[i].date.After(on) })
	if i == 0 {
		return decimal.Zero, false
	}
	return pts[i-1].rate, true
}

// Rate returns the conversion rate from one unit of base into quote as of a
// given date. If no direct rate is recorded, the inverse pair is inverted.
func (m *PriceMap) Rate(base, quote string, on Date) (decimal.Decimal, error) {
	if base == quote {
		return decimal.NewFromInt(1), nil
	}
	if rate, ok := m.rateAsOf(base, quote, on); ok {
		return rate, nil
	}
	if inverse, ok := m.rateAsOf(quote, base, on); ok {
		if inverse.IsZero() {
			return decimal.Zero, fmt.Errorf("inverse rate for %s%s on %s is zero", quote, base, on)
		}
		return decimal.NewFromInt(1).Div(inverse), nil
	}
	return decimal.Zero, fmt.Errorf("no %s to %s rate recorded on or before %s", base, quote, on)
}

// Convert converts an amount into the target currency as of a given date.
func (m *PriceMap) Convert(a Amount, target string, on Date) (Amount, error) {
	if a.Currency == target {
		return a, nil
	}
	rate, err := m.Rate(a.Currency, target, on)
	if err != nil {
		return Amount{}, err
	}
	return A(a.Number.Mul(rate), target), nil
}
