package cgt

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	beancount "github.com/LalitMaganti/beancount-lalitm"
)

const (
	// metaManual marks a sell whose gain was computed and entered by hand;
	// the pass matches it but synthesizes no gain postings.
	metaManual = "uk_cgt_lots_manual"

	// Taxable GBP gains are surfaced through a fixed equity pair in a
	// pseudo-currency so they stay trackable without unbalancing anything.
	taxableGainsAccount     = "Equity:Taxable-Capital-Gains"
	taxablePlaceholderAcct  = "Equity:Taxable-Capital-Gains-Placeholder"
	taxableGainsPseudoCurr  = "CGT-GBP"
	capitalGainsAccountLeaf = ":Capital-Gains"
)

// Apply runs the CGT pass over the ledger in place: it extracts buy/sell
// postings under the configured accounts, matches sells under the same-day
// rule, then the thirty-day rule, pools the residue into Section 104
// holdings, and rewrites each affected transaction with matched cost-basis
// legs and capital-gains postings.
//
// Configuration problems are returned as diagnostics with the ledger left
// untouched. Invariant violations (overdrawn pool, missing FX rate, residual
// unmatched units) return an error and abort the whole pass.
func Apply(l *beancount.Ledger, cfg Config) ([]string, error) {
	accounts, diags := cfg.resolve()
	if len(diags) > 0 {
		return diags, nil
	}

	buys, sells, err := extract(l, accounts)
	if err != nil {
		return nil, err
	}

	conv := NewConverter(l)

	// Same-day sales first.
	for i := range sells {
		s := &sells[i]
		if !s.unmatchedUnits().IsNegative() {
			return nil, fmt.Errorf("sell of %s on %s has no units to match", s.symbol(), s.date())
		}
		if err := matchSellAgainstBuys(s, buys, sameDayRule, conv); err != nil {
			return nil, err
		}
	}

	// Then the thirty-day window for whatever is left.
	for i := range sells {
		s := &sells[i]
		remaining := s.unmatchedUnits()
		if remaining.IsPositive() {
			return nil, fmt.Errorf("sell of %s on %s is over-matched", s.symbol(), s.date())
		}
		if remaining.IsZero() {
			continue
		}
		if err := matchSellAgainstBuys(s, buys, thirtyDayRule, conv); err != nil {
			return nil, err
		}
	}

	// Section 104 pooling over everything remaining, in chronological order.
	// The stable sort keeps buys ahead of sells on the same date.
	all := make([]*matchedTx, 0, len(buys)+len(sells))
	for i := range buys {
		all = append(all, &buys[i])
	}
	for i := range sells {
		all = append(all, &sells[i])
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].date().Before(all[j].date()) })

	pools := newPoolTracker(conv)
	for _, t := range all {
		if err := pools.absorb(t); err != nil {
			return nil, err
		}
		if !t.unmatchedUnits().IsZero() {
			return nil, fmt.Errorf("trade of %s on %s left %s units unallocated after pooling",
				t.symbol(), t.date(), t.unmatchedUnits())
		}
		if err := reattach(t, conv); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// extract scans all transactions and pulls out, per transaction, the first
// posting under a configured CGT account that is not the cash sub-account.
// The posting is removed from the transaction and wrapped in a working
// record; scanning of that transaction then stops, so a transaction
// contributes at most one CGT posting.
func extract(l *beancount.Ledger, accounts []*Account) (buys, sells []matchedTx, err error) {
	for tx := range l.Transactions() {
		for i, p := range tx.Postings {
			if !strings.HasPrefix(p.Account, "Assets") {
				continue
			}
			if strings.HasSuffix(p.Account, "Cash") {
				continue
			}
			var account *Account
			for _, a := range accounts {
				if strings.Contains(p.Account, a.Name) {
					account = a
					break
				}
			}
			if account == nil {
				continue
			}
			if p.Units.Number.IsZero() {
				return nil, nil, fmt.Errorf("posting to %s on %s has zero units", p.Account, tx.Date)
			}
			record := matchedTx{txn: tx, posting: p, account: account}
			if p.Units.Number.IsPositive() {
				buys = append(buys, record)
			} else {
				sells = append(sells, record)
			}
			tx.Postings = slices.Delete(tx.Postings, i, i+1)
			break
		}
	}
	return buys, sells, nil
}

// reattach rewrites the record's transaction: one posting per match carrying
// the allocation's cost basis, then the transaction's remaining postings,
// then (for sells without the manual override) the synthesized gain postings.
func reattach(t *matchedTx, conv *Converter) error {
	rest := t.txn.Postings
	t.txn.Postings = make([]*beancount.Posting, 0, len(t.matches)+len(rest))
	for _, m := range t.matches {
		cost := m.cost
		t.txn.Postings = append(t.txn.Postings, &beancount.Posting{
			Account: t.posting.Account,
			Units:   beancount.A(m.units.Neg(), t.symbol()),
			Cost:    &cost,
			Price:   t.posting.Price,
			Flag:    t.posting.Flag,
			Meta:    t.posting.Meta,
		})
	}
	t.txn.Postings = append(t.txn.Postings, rest...)

	if t.posting.GetMeta(metaManual) != "" {
		return nil
	}
	if t.isBuy() {
		return nil
	}
	return synthesizeGains(t, conv)
}

// synthesizeGains appends the capital-gains postings for a fully-matched
// sell: the trade-currency gain credited to the security's Capital-Gains
// revenue account, and, for taxable accounts, one balanced equity pair per
// match fragment surfacing the GBP taxable gain.
func synthesizeGains(t *matchedTx, conv *Converter) error {
	price := t.posting.Price
	if price == nil {
		return fmt.Errorf("sell of %s on %s has no price", t.symbol(), t.date())
	}

	gain, err := t.capitalGains()
	if err != nil {
		return err
	}
	if gain.IsZero() {
		return nil
	}

	name := strings.TrimPrefix(t.posting.Account, "Assets:")
	t.txn.Postings = append(t.txn.Postings, &beancount.Posting{
		Account: "Revenues:" + name + capitalGainsAccountLeaf,
		Units:   beancount.A(gain, price.Currency),
	})

	if !t.account.Taxable {
		return nil
	}

	gbpGains, err := t.gbpCapitalGains(conv)
	if err != nil {
		return err
	}
	for _, g := range gbpGains {
		t.txn.Postings = append(t.txn.Postings,
			&beancount.Posting{
				Account: taxableGainsAccount,
				Units:   beancount.A(g, taxableGainsPseudoCurr),
			},
			&beancount.Posting{
				Account: taxablePlaceholderAcct,
				Units:   beancount.A(g.Neg(), taxableGainsPseudoCurr),
			},
		)
	}
	return nil
}
