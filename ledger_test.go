package beancount

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestLedger_ChronologicalOrder(t *testing.T) {
	l := NewLedger(
		Price{Date: NewDate(2024, time.June, 1), Commodity: "USD", Amount: A(decimal.NewFromFloat(0.78), "GBP")},
		Open{Date: NewDate(2024, time.January, 1), Account: "Assets:Broker:Cash"},
		Price{Date: NewDate(2024, time.March, 1), Commodity: "USD", Amount: A(decimal.NewFromFloat(0.75), "GBP")},
	)

	var prev Date
	for _, d := range l.Directives() {
		if d.When().Before(prev) {
			t.Errorf("directive on %s appears after %s", d.When(), prev)
		}
		prev = d.When()
	}
	if l.OldestDate() != NewDate(2024, time.January, 1) {
		t.Errorf("OldestDate() = %s", l.OldestDate())
	}
	if l.NewestDate() != NewDate(2024, time.June, 1) {
		t.Errorf("NewestDate() = %s", l.NewestDate())
	}
}

// TestLedger_StableSameDayOrder checks that directives on the same day keep
// their insertion order.
func TestLedger_StableSameDayOrder(t *testing.T) {
	day := NewDate(2024, time.March, 1)
	first := &Transaction{Date: day, Narration: "first", Postings: []*Posting{{Account: "Assets:A", Units: A(decimal.NewFromInt(1), "USD")}}}
	second := &Transaction{Date: day, Narration: "second", Postings: []*Posting{{Account: "Assets:A", Units: A(decimal.NewFromInt(2), "USD")}}}

	l := NewLedger(first, second)

	var seen []string
	for tx := range l.Transactions() {
		seen = append(seen, tx.Narration)
	}
	if len(seen) != 2 || seen[0] != "first" || seen[1] != "second" {
		t.Errorf("same-day order = %v, want [first second]", seen)
	}
}

func TestLedger_Validate(t *testing.T) {
	good := NewLedger(
		Open{Date: NewDate(2024, time.January, 1), Account: "Assets:Broker:Cash"},
		&Transaction{
			Date:     NewDate(2024, time.February, 1),
			Postings: []*Posting{{Account: "Assets:Broker:Cash", Units: A(decimal.NewFromInt(100), "USD")}},
		},
	)
	if err := good.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	bad := NewLedger(&Transaction{Date: NewDate(2024, time.February, 1)})
	if err := bad.Validate(); err == nil {
		t.Errorf("Validate() = nil for transaction without postings")
	}

	noCommodity := NewLedger(&Transaction{
		Date:     NewDate(2024, time.February, 1),
		Postings: []*Posting{{Account: "Assets:Broker:Cash"}},
	})
	if err := noCommodity.Validate(); err == nil {
		t.Errorf("Validate() = nil for posting without a commodity")
	}

	badPrice := NewLedger(Price{Date: NewDate(2024, time.January, 1), Commodity: "USD", Amount: A(decimal.NewFromInt(-1), "GBP")})
	if err := badPrice.Validate(); err == nil {
		t.Errorf("Validate() = nil for non-positive price")
	}

	// The quote side of a price must be a registry currency.
	badQuote := NewLedger(Price{Date: NewDate(2024, time.January, 1), Commodity: "USD", Amount: A(decimal.NewFromInt(1), "ZZZ")})
	if err := badQuote.Validate(); err == nil {
		t.Errorf("Validate() = nil for price quoted in an unknown currency")
	}
}

func TestLedger_Iterators(t *testing.T) {
	l := NewLedger(
		Commodity{Date: NewDate(2024, time.January, 1), Symbol: "AAPL"},
		Open{Date: NewDate(2024, time.January, 1), Account: "Assets:Broker:AAPL"},
		&Transaction{
			Date:     NewDate(2024, time.February, 1),
			Postings: []*Posting{{Account: "Assets:Broker:AAPL", Units: A(decimal.NewFromInt(10), "AAPL")}},
		},
	)

	var txs, commodities int
	for range l.Transactions() {
		txs++
	}
	for range l.Commodities() {
		commodities++
	}
	if txs != 1 || commodities != 1 {
		t.Errorf("iterators yielded %d transactions, %d commodities, want 1 and 1", txs, commodities)
	}
}
