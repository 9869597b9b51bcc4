package cgt

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	beancount "github.com/LalitMaganti/beancount-lalitm"
)

func day(t *testing.T, s string) beancount.Date {
	t.Helper()
	d, err := beancount.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q) error = %v", s, err)
	}
	return d
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// trade builds the usual two-posting trade transaction: signed units of a
// security at a per-unit price, offset by the cash movement.
func trade(t *testing.T, date, account, symbol, units, price, currency string) *beancount.Transaction {
	t.Helper()
	u := dec(units)
	p := dec(price)
	pr := beancount.A(p, currency)
	return &beancount.Transaction{
		Date: day(t, date),
		Flag: "*",
		Postings: []*beancount.Posting{
			{
				Account: "Assets:" + account + ":" + symbol,
				Units:   beancount.A(u, symbol),
				Price:   &pr,
			},
			{
				Account: "Assets:" + account + ":Cash",
				Units:   beancount.A(u.Mul(p).Neg(), currency),
			},
		},
	}
}

func usdRate(t *testing.T, date, rate string) beancount.Price {
	t.Helper()
	return beancount.Price{Date: day(t, date), Commodity: "USD", Amount: beancount.A(dec(rate), "GBP")}
}

func findPostings(tx *beancount.Transaction, prefix string) []*beancount.Posting {
	var out []*beancount.Posting
	for _, p := range tx.Postings {
		if strings.HasPrefix(p.Account, prefix) {
			out = append(out, p)
		}
	}
	return out
}

func assertUnits(t *testing.T, p *beancount.Posting, number, currency string) {
	t.Helper()
	if !p.Units.Number.Equal(dec(number)) || p.Units.Currency != currency {
		t.Errorf("posting to %s has units %s, want %s %s", p.Account, p.Units, number, currency)
	}
}
