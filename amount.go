package beancount

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Amount is a signed quantity of some commodity: a cash value in a currency,
// or a number of units of a security identified by its symbol.
type Amount struct {
	Number   decimal.Decimal `json:"number"`
	Currency string          `json:"currency"`
}

// A returns an Amount from a decimal number and a commodity.
func A(number decimal.Decimal, currency string) Amount {
	return Amount{Number: number, Currency: currency}
}

func (a Amount) IsZero() bool     { return a.Number.IsZero() }
func (a Amount) IsPositive() bool { return a.Number.IsPositive() }
func (a Amount) IsNegative() bool { return a.Number.IsNegative() }
func (a Amount) Neg() Amount      { return Amount{Number: a.Number.Neg(), Currency: a.Currency} }

func (a Amount) Equal(b Amount) bool {
	return a.Number.Equal(b.Number) && a.Currency == b.Currency
}

// String renders the amount. Registered ISO currencies are rounded to their
// minor unit; security symbols and pseudo-currencies keep all digits.
func (a Amount) String() string {
	if cur := money.GetCurrency(a.Currency); cur != nil {
		return fmt.Sprintf("%s %s", a.Number.StringFixed(int32(cur.Fraction)), a.Currency)
	}
	return fmt.Sprintf("%s %s", a.Number, a.Currency)
}

// Cost records the acquisition basis of a lot: the per-unit cost, the
// acquisition date, and an optional label naming the pool the lot belongs to.
type Cost struct {
	Number   decimal.Decimal `json:"number"`
	Currency string          `json:"currency"`
	Date     Date            `json:"date"`
	Label    string          `json:"label,omitempty"`
}

func (c Cost) Equal(o Cost) bool {
	return c.Number.Equal(o.Number) && c.Currency == o.Currency && c.Date == o.Date && c.Label == o.Label
}

// String renders the cost basis in the conventional curly form.
func (c Cost) String() string {
	if c.Label == "" {
		return fmt.Sprintf("{%s %s, %s}", c.Number, c.Currency, c.Date)
	}
	return fmt.Sprintf("{%s %s, %s, %q}", c.Number, c.Currency, c.Date, c.Label)
}

// ValidateCurrency checks that a code names a currency in the go-money
// registry. Security symbols and internal pseudo-currencies such as
// "CGT-GBP" are not currencies and do not pass; validation applies only
// where a real currency is required, such as the quote side of a price.
func ValidateCurrency(code string) error {
	if money.GetCurrency(code) == nil {
		return fmt.Errorf("unknown currency code %q", code)
	}
	return nil
}
