package cgt

import (
	"strings"
	"testing"

	beancount "github.com/LalitMaganti/beancount-lalitm"
)

func poolFixture(t *testing.T) *poolTracker {
	t.Helper()
	l := beancount.NewLedger(usdRate(t, "2024-01-01", "0.80"))
	return newPoolTracker(NewConverter(l))
}

func TestPoolTracker_Averaging(t *testing.T) {
	pt := poolFixture(t)
	key := poolKey{symbol: "AAPL", suffix: "Taxable"}

	// First buy opens the pool to 10 units at 100.
	buy1 := record(t, "2024-01-01", "10", "100", testGIA)
	if err := pt.absorb(&buy1); err != nil {
		t.Fatalf("absorb() error = %v", err)
	}
	holding := pt.holdings[key]
	if holding == nil {
		t.Fatalf("no holding for %v", key)
	}
	if !holding.units.Equal(dec("10")) || !holding.averageCost.Equal(dec("100")) {
		t.Errorf("holding = %s units at %s, want 10 at 100", holding.units, holding.averageCost)
	}
	if !holding.totalAllowableCostGBP.Equal(dec("800")) {
		t.Errorf("allowable cost = %s, want 800", holding.totalAllowableCostGBP)
	}
	if len(buy1.matches) != 1 || !buy1.matches[0].units.Equal(dec("-10")) {
		t.Fatalf("buy matches = %+v, want one of -10 units", buy1.matches)
	}
	if got := buy1.matches[0].cost.Label; got != "Section-104 Taxable" {
		t.Errorf("match label = %q, want Section-104 Taxable", got)
	}
	// An opening buy does not revalue anything.
	if len(buy1.txn.Postings) != 2 {
		t.Errorf("opening buy gained adjustment postings: %d", len(buy1.txn.Postings))
	}

	// A second buy at a different price moves the average and appends a
	// revaluation pair to its transaction.
	buy2 := record(t, "2024-02-01", "10", "200", testGIA)
	if err := pt.absorb(&buy2); err != nil {
		t.Fatalf("absorb() error = %v", err)
	}
	if !holding.units.Equal(dec("20")) || !holding.averageCost.Equal(dec("150")) {
		t.Errorf("holding = %s units at %s, want 20 at 150", holding.units, holding.averageCost)
	}
	if !holding.totalAllowableCostGBP.Equal(dec("2400")) {
		t.Errorf("allowable cost = %s, want 2400", holding.totalAllowableCostGBP)
	}
	if len(buy2.txn.Postings) != 4 {
		t.Fatalf("buy2 postings = %d, want 4 (trade pair plus adjustment pair)", len(buy2.txn.Postings))
	}
	out, in := buy2.txn.Postings[2], buy2.txn.Postings[3]
	assertUnits(t, out, "-10", "AAPL")
	assertUnits(t, in, "10", "AAPL")
	if !out.Cost.Number.Equal(dec("100")) || !in.Cost.Number.Equal(dec("150")) {
		t.Errorf("adjustment revalues %s to %s, want 100 to 150", out.Cost.Number, in.Cost.Number)
	}
	for _, p := range []*beancount.Posting{out, in} {
		if p.GetMeta(metaLotType) != costBasisAdjustment {
			t.Errorf("adjustment posting missing %s metadata", metaLotType)
		}
	}

	// A buy at the running average leaves the average alone, no adjustments.
	buy3 := record(t, "2024-03-01", "10", "150", testGIA)
	if err := pt.absorb(&buy3); err != nil {
		t.Fatalf("absorb() error = %v", err)
	}
	if !holding.averageCost.Equal(dec("150")) {
		t.Errorf("average moved to %s on a buy at the average", holding.averageCost)
	}
	if len(buy3.txn.Postings) != 2 {
		t.Errorf("buy at the average gained adjustment postings: %d", len(buy3.txn.Postings))
	}
}

func TestPoolTracker_SellProportionalCost(t *testing.T) {
	pt := poolFixture(t)
	key := poolKey{symbol: "AAPL", suffix: "Taxable"}

	buy := record(t, "2024-01-01", "30", "150", testGIA)
	if err := pt.absorb(&buy); err != nil {
		t.Fatalf("absorb() error = %v", err)
	}
	holding := pt.holdings[key]
	if !holding.totalAllowableCostGBP.Equal(dec("3600")) {
		t.Fatalf("allowable cost = %s, want 3600", holding.totalAllowableCostGBP)
	}

	sell := record(t, "2024-03-01", "-6", "175", testGIA)
	if err := pt.absorb(&sell); err != nil {
		t.Fatalf("absorb() error = %v", err)
	}
	if !holding.units.Equal(dec("24")) {
		t.Errorf("holding units = %s, want 24", holding.units)
	}
	// 6 of 30 units carry 6/30 of the 3600 GBP cost.
	if !holding.totalAllowableCostGBP.Equal(dec("2880")) {
		t.Errorf("allowable cost = %s, want 2880", holding.totalAllowableCostGBP)
	}
	if len(sell.matches) != 1 {
		t.Fatalf("sell matches = %d, want 1", len(sell.matches))
	}
	m := sell.matches[0]
	if !m.units.Equal(dec("6")) {
		t.Errorf("match units = %s, want 6", m.units)
	}
	if !m.cost.Number.Equal(dec("150")) || m.cost.Label != "Section-104 Taxable" {
		t.Errorf("match cost = %s, want pool average with pool label", m.cost)
	}
	if !m.gbpAllowableCost.Equal(dec("720")) {
		t.Errorf("match allowable cost = %s, want 720", m.gbpAllowableCost)
	}
	if !sell.unmatchedUnits().IsZero() {
		t.Errorf("sell unmatched = %s, want 0", sell.unmatchedUnits())
	}
}

func TestPoolTracker_Overdrawn(t *testing.T) {
	pt := poolFixture(t)

	buy := record(t, "2024-01-01", "5", "100", testGIA)
	if err := pt.absorb(&buy); err != nil {
		t.Fatalf("absorb() error = %v", err)
	}
	sell := record(t, "2024-02-01", "-10", "150", testGIA)
	err := pt.absorb(&sell)
	if err == nil || !strings.Contains(err.Error(), "holds only") {
		t.Errorf("absorb() error = %v, want overdrawn pool error", err)
	}
}

func TestPoolTracker_CurrencyMismatch(t *testing.T) {
	pt := poolFixture(t)

	buy := record(t, "2024-01-01", "10", "100", testGIA)
	if err := pt.absorb(&buy); err != nil {
		t.Fatalf("absorb() error = %v", err)
	}
	other := trade(t, "2024-02-01", testGIA.Name, "AAPL", "10", "90", "EUR")
	rec := matchedTx{txn: other, posting: other.Postings[0], account: testGIA}
	if err := pt.absorb(&rec); err == nil {
		t.Errorf("absorb() accepted a trade in a different currency")
	}
}

func TestPoolTracker_ReopensAfterEmpty(t *testing.T) {
	pt := poolFixture(t)
	key := poolKey{symbol: "AAPL", suffix: "Taxable"}

	buy := record(t, "2024-01-01", "10", "100", testGIA)
	if err := pt.absorb(&buy); err != nil {
		t.Fatalf("absorb() error = %v", err)
	}
	sell := record(t, "2024-02-01", "-10", "150", testGIA)
	if err := pt.absorb(&sell); err != nil {
		t.Fatalf("absorb() error = %v", err)
	}
	holding := pt.holdings[key]
	if !holding.units.IsZero() || !holding.totalAllowableCostGBP.IsZero() {
		t.Fatalf("emptied pool holds %s units, %s GBP", holding.units, holding.totalAllowableCostGBP)
	}

	reopen := record(t, "2024-06-01", "5", "200", testGIA)
	if err := pt.absorb(&reopen); err != nil {
		t.Fatalf("absorb() error = %v", err)
	}
	if holding.date != day(t, "2024-06-01") {
		t.Errorf("reopened pool dated %s, want 2024-06-01", holding.date)
	}
	if !holding.averageCost.Equal(dec("200")) {
		t.Errorf("reopened pool average = %s, want 200", holding.averageCost)
	}
	// No revaluation pair: the emptied pool had no booked units left.
	if len(reopen.txn.Postings) != 2 {
		t.Errorf("reopening buy gained adjustment postings: %d", len(reopen.txn.Postings))
	}
}
