package cgt

import (
	"fmt"

	"github.com/shopspring/decimal"

	beancount "github.com/LalitMaganti/beancount-lalitm"
)

// match is one allocation fragment. Units are positive when taken from the
// pool of buys to satisfy a sell, negative when consumed out of a buy; the
// two sides of a pairing always carry opposite signs.
type match struct {
	units            decimal.Decimal
	cost             beancount.Cost
	gbpAllowableCost decimal.Decimal
}

// matchedTx wraps one asset posting extracted from a transaction for CGT
// processing. The records for one pass live in two arenas (buys and sells)
// allocated at extraction time; the matching passes address them by index and
// matches carry plain values, never references into the other arena.
type matchedTx struct {
	txn     *beancount.Transaction
	posting *beancount.Posting
	matches []match
	account *Account
}

// unmatchedUnits returns the signed units not yet covered by matches. A sell
// starts negative and climbs to zero; a buy starts positive and drops to
// zero. Full allocation of every record is the core correctness invariant of
// the pass.
func (t *matchedTx) unmatchedUnits() decimal.Decimal {
	units := t.posting.Units.Number
	for _, m := range t.matches {
		units = units.Add(m.units)
	}
	return units
}

func (t *matchedTx) isBuy() bool  { return t.posting.Units.Number.IsPositive() }
func (t *matchedTx) isSell() bool { return t.posting.Units.Number.IsNegative() }

func (t *matchedTx) symbol() string { return t.posting.Units.Currency }
func (t *matchedTx) date() beancount.Date { return t.txn.Date }

// capitalGains returns the realized gain of a fully-matched sell in the trade
// currency, under the ledger credit convention: a profit is negative, so that
// posting it to a Revenues account keeps the transaction balanced.
func (t *matchedTx) capitalGains() (decimal.Decimal, error) {
	p := t.posting
	if p.Price == nil {
		return decimal.Zero, fmt.Errorf("sell of %s on %s has no price", t.symbol(), t.date())
	}
	if !t.isSell() {
		return decimal.Zero, fmt.Errorf("capital gains requested for a non-sell of %s on %s", t.symbol(), t.date())
	}
	matchedCost := decimal.Zero
	for _, m := range t.matches {
		matchedCost = matchedCost.Add(m.units.Mul(m.cost.Number.Neg()))
	}
	gain := p.Price.Number.Mul(p.Units.Number).Sub(matchedCost)
	return quantize(gain), nil
}

// gbpCapitalGains returns the realized GBP gain of each match fragment of a
// fully-matched sell, supporting a partial-lot breakdown. Each fragment is the
// sale proceeds converted at the sell's own date and price, less the
// fragment's allowable cost.
func (t *matchedTx) gbpCapitalGains(conv *Converter) ([]decimal.Decimal, error) {
	p := t.posting
	if p.Price == nil {
		return nil, fmt.Errorf("sell of %s on %s has no price", t.symbol(), t.date())
	}
	gains := make([]decimal.Decimal, 0, len(t.matches))
	for _, m := range t.matches {
		proceeds, err := conv.ToGBP(t.date(), m.units, *p.Price)
		if err != nil {
			return nil, err
		}
		gains = append(gains, quantize(proceeds.Sub(m.gbpAllowableCost)))
	}
	return gains, nil
}
