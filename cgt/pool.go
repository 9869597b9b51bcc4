package cgt

import (
	"fmt"

	"github.com/shopspring/decimal"

	beancount "github.com/LalitMaganti/beancount-lalitm"
)

// metaLotType tags postings synthesized by the pass.
const (
	metaLotType           = "uk_cgt_lots_type"
	costBasisAdjustment   = "cost-basis-adjustment"
	section104LabelPrefix = "Section-104 "
)

// residue below which an emptied pool's GBP cost is considered zero.
var zeroResidue = decimal.New(1, -12)

// Section104Holding is the running pool state for one (symbol, scope):
// all units of the symbol held in that scope, treated as a single holding at
// a weighted average cost per unit, plus the cumulative GBP allowable cost.
type Section104Holding struct {
	date                  beancount.Date // pool-open date
	units                 decimal.Decimal
	averageCost           decimal.Decimal // per unit, in the trade currency
	currency              string
	totalAllowableCostGBP decimal.Decimal
}

type poolKey struct {
	symbol string
	suffix string
}

// poolTracker maintains one Section 104 holding per (symbol, scope). It
// absorbs the residual units left on each record after same-day and
// thirty-day matching, in strict chronological order.
type poolTracker struct {
	holdings map[poolKey]*Section104Holding
	conv     *Converter
}

func newPoolTracker(conv *Converter) *poolTracker {
	return &poolTracker{
		holdings: make(map[poolKey]*Section104Holding),
		conv:     conv,
	}
}

// absorb applies the record's unmatched units to its Section 104 pool,
// recording a single match at the pool's average cost. A buy that moves a
// non-empty pool's average cost also appends a pair of cost-basis-adjustment
// postings revaluing the previously booked units.
func (pt *poolTracker) absorb(t *matchedTx) error {
	unmatched := t.unmatchedUnits()
	if unmatched.IsZero() {
		return nil
	}

	price := t.posting.Price
	if price == nil {
		return fmt.Errorf("posting to %s on %s has no price", t.posting.Account, t.date())
	}

	key := poolKey{symbol: t.symbol(), suffix: t.account.Section104Suffix}
	holding, ok := pt.holdings[key]
	if !ok {
		holding = &Section104Holding{date: t.date(), currency: price.Currency}
		pt.holdings[key] = holding
	}

	if holding.units.IsNegative() {
		return fmt.Errorf("section 104 pool for %s (%s) went negative", key.symbol, key.suffix)
	}
	if holding.currency != price.Currency {
		return fmt.Errorf("section 104 pool for %s (%s) is in %s but trade on %s is in %s",
			key.symbol, key.suffix, holding.currency, t.date(), price.Currency)
	}

	if holding.units.IsZero() {
		if holding.totalAllowableCostGBP.Abs().GreaterThan(zeroResidue) {
			return fmt.Errorf("empty section 104 pool for %s (%s) has residual GBP cost %s",
				key.symbol, key.suffix, holding.totalAllowableCostGBP)
		}
		// Reopen the pool at this transaction's date.
		holding.date = t.date()
		holding.averageCost = decimal.Zero
	}

	label := section104LabelPrefix + t.account.Section104Suffix

	if t.isSell() {
		sold := unmatched.Neg() // magnitude of the units taken from the pool
		if holding.units.LessThan(sold) {
			return fmt.Errorf("on %s, selling %s %s from the %s pool which holds only %s",
				t.date(), sold, key.symbol, key.suffix, holding.units)
		}

		allowableCostGBP := holding.totalAllowableCostGBP.Div(holding.units).Mul(sold)
		holding.totalAllowableCostGBP = holding.totalAllowableCostGBP.Sub(allowableCostGBP)

		t.matches = append(t.matches, match{
			units: sold,
			cost: beancount.Cost{
				Number:   holding.averageCost,
				Currency: holding.currency,
				Date:     holding.date,
				Label:    label,
			},
			gbpAllowableCost: quantize(allowableCostGBP),
		})
		holding.units = holding.units.Add(unmatched)
		if holding.units.IsNegative() {
			return fmt.Errorf("section 104 pool for %s (%s) went negative", key.symbol, key.suffix)
		}
		return nil
	}

	// Buy: fold the residual units into the pool at a new weighted average.
	unitsBefore := holding.units
	averageCostBefore := holding.averageCost
	totalCostBefore := averageCostBefore.Mul(unitsBefore)
	totalCostAfter := totalCostBefore.Add(price.Number.Mul(unmatched))

	allowableCostGBP, err := pt.conv.ToGBP(t.date(), unmatched, *price)
	if err != nil {
		return err
	}

	holding.units = holding.units.Add(unmatched)
	holding.averageCost = totalCostAfter.Div(holding.units)
	holding.totalAllowableCostGBP = holding.totalAllowableCostGBP.Add(allowableCostGBP)

	cost := beancount.Cost{
		Number:   holding.averageCost,
		Currency: holding.currency,
		Date:     holding.date,
		Label:    label,
	}
	t.matches = append(t.matches, match{units: unmatched.Neg(), cost: cost, gbpAllowableCost: allowableCostGBP})

	if unitsBefore.IsZero() || averageCostBefore.Equal(holding.averageCost) {
		return nil
	}

	// The buy moved the pool's average: revalue the previously booked units
	// so the ledger carries them at the new average without changing the
	// realized unit count.
	t.txn.Postings = append(t.txn.Postings,
		&beancount.Posting{
			Account: t.posting.Account,
			Units:   beancount.A(unitsBefore.Neg(), t.symbol()),
			Cost: &beancount.Cost{
				Number:   averageCostBefore,
				Currency: holding.currency,
				Date:     holding.date,
				Label:    label,
			},
			Meta: map[string]string{metaLotType: costBasisAdjustment},
		},
		&beancount.Posting{
			Account: t.posting.Account,
			Units:   beancount.A(unitsBefore, t.symbol()),
			Cost: &beancount.Cost{
				Number:   holding.averageCost,
				Currency: holding.currency,
				Date:     holding.date,
				Label:    label,
			},
			Meta: map[string]string{metaLotType: costBasisAdjustment},
		},
	)
	return nil
}
