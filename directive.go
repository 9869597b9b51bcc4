package beancount

import (
	"errors"
	"fmt"
)

// DirectiveType is a typed string for identifying ledger directives.
type DirectiveType string

// Directive types recorded in a ledger.
const (
	DirTransaction DirectiveType = "transaction"
	DirPrice       DirectiveType = "price"
	DirCommodity   DirectiveType = "commodity"
	DirOpen        DirectiveType = "open"
	DirClose       DirectiveType = "close"
)

// Directive defines the common interface for all entries in a ledger.
type Directive interface {
	What() DirectiveType // What returns the directive type (e.g., "transaction", "price").
	When() Date          // When returns the date on which the directive takes effect.
	Validate() error
}

// Posting is one leg of a transaction: an account receives (or gives up) a
// signed amount of some commodity, optionally carrying a cost basis and a
// per-unit transaction price.
type Posting struct {
	Account string            `json:"account"`
	Units   Amount            `json:"units"`
	Cost    *Cost             `json:"cost,omitempty"`
	Price   *Amount           `json:"price,omitempty"`
	Flag    string            `json:"flag,omitempty"`
	Meta    map[string]string `json:"meta,omitempty"`
}

// GetMeta returns the metadata value for key, or "" when absent.
func (p *Posting) GetMeta(key string) string {
	if p.Meta == nil {
		return ""
	}
	return p.Meta[key]
}

// Transaction records one double-entry transaction: a date, a narration and
// an ordered list of postings. Postings may be rewritten by ledger passes;
// everything else is immutable once parsed.
type Transaction struct {
	Date      Date              `json:"date"`
	Flag      string            `json:"flag,omitempty"`
	Payee     string            `json:"payee,omitempty"`
	Narration string            `json:"narration,omitempty"`
	Tags      []string          `json:"tags,omitempty"`
	Links     []string          `json:"links,omitempty"`
	Meta      map[string]string `json:"meta,omitempty"`
	Postings  []*Posting        `json:"postings"`
}

func (t *Transaction) What() DirectiveType { return DirTransaction }
func (t *Transaction) When() Date          { return t.Date }

// Validate checks the transaction's fields. Asset postings that represent a
// trade must carry non-zero units; the full double-entry balance check is out
// of scope here.
func (t *Transaction) Validate() error {
	if t.Date.IsZero() {
		return errors.New("transaction date is missing")
	}
	if len(t.Postings) == 0 {
		return fmt.Errorf("transaction on %s has no postings", t.Date)
	}
	for _, p := range t.Postings {
		if p.Account == "" {
			return fmt.Errorf("transaction on %s has a posting with no account", t.Date)
		}
		if p.Units.Currency == "" {
			return fmt.Errorf("transaction on %s: posting to %s has no commodity", t.Date, p.Account)
		}
	}
	return nil
}

// Price records the value of one unit of a commodity (a security symbol or a
// currency) in another currency on a given date. FX conversion is driven
// entirely by these directives.
type Price struct {
	Date      Date   `json:"date"`
	Commodity string `json:"commodity"`
	Amount    Amount `json:"amount"`
}

func (p Price) What() DirectiveType { return DirPrice }
func (p Price) When() Date          { return p.Date }

func (p Price) Validate() error {
	if p.Commodity == "" {
		return fmt.Errorf("price on %s has no commodity", p.Date)
	}
	if !p.Amount.Number.IsPositive() {
		return fmt.Errorf("price for %s on %s must be positive, got %s", p.Commodity, p.Date, p.Amount.Number)
	}
	if err := ValidateCurrency(p.Amount.Currency); err != nil {
		return fmt.Errorf("price for %s on %s: %w", p.Commodity, p.Date, err)
	}
	return nil
}

// Commodity declares a security symbol and its metadata, such as the
// distribution type used when naming income accounts.
type Commodity struct {
	Date   Date              `json:"date"`
	Symbol string            `json:"symbol"`
	Meta   map[string]string `json:"meta,omitempty"`
}

func (c Commodity) What() DirectiveType { return DirCommodity }
func (c Commodity) When() Date          { return c.Date }

func (c Commodity) Validate() error {
	if c.Symbol == "" {
		return fmt.Errorf("commodity on %s has no symbol", c.Date)
	}
	return nil
}

// Open declares an account and the commodities it may hold.
type Open struct {
	Date       Date              `json:"date"`
	Account    string            `json:"account"`
	Currencies []string          `json:"currencies,omitempty"`
	Meta       map[string]string `json:"meta,omitempty"`
}

func (o Open) What() DirectiveType { return DirOpen }
func (o Open) When() Date          { return o.Date }

func (o Open) Validate() error {
	if o.Account == "" {
		return fmt.Errorf("open on %s has no account", o.Date)
	}
	return nil
}

// Close marks an account as closed from a given date.
type Close struct {
	Date    Date              `json:"date"`
	Account string            `json:"account"`
	Meta    map[string]string `json:"meta,omitempty"`
}

func (c Close) What() DirectiveType { return DirClose }
func (c Close) When() Date          { return c.Date }

func (c Close) Validate() error {
	if c.Account == "" {
		return fmt.Errorf("close on %s has no account", c.Date)
	}
	return nil
}
