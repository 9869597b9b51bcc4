package beancount

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// MarshalJSON implements the json.Marshaler interface for Transaction.
// The directive discriminator is always the first field.
func (t *Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("directive", DirTransaction)
	w.Append("date", t.Date)
	w.Optional("flag", t.Flag)
	w.Optional("payee", t.Payee)
	w.Optional("narration", t.Narration)
	if len(t.Tags) > 0 {
		w.Append("tags", t.Tags)
	}
	if len(t.Links) > 0 {
		w.Append("links", t.Links)
	}
	if len(t.Meta) > 0 {
		w.Append("meta", t.Meta)
	}
	w.Append("postings", t.Postings)
	return w.MarshalJSON()
}

// MarshalJSON implements the json.Marshaler interface for Price.
func (p Price) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("directive", DirPrice)
	w.Append("date", p.Date)
	w.Append("commodity", p.Commodity)
	w.Append("amount", p.Amount)
	return w.MarshalJSON()
}

// MarshalJSON implements the json.Marshaler interface for Commodity.
func (c Commodity) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("directive", DirCommodity)
	w.Append("date", c.Date)
	w.Append("symbol", c.Symbol)
	if len(c.Meta) > 0 {
		w.Append("meta", c.Meta)
	}
	return w.MarshalJSON()
}

// MarshalJSON implements the json.Marshaler interface for Open.
func (o Open) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("directive", DirOpen)
	w.Append("date", o.Date)
	w.Append("account", o.Account)
	if len(o.Currencies) > 0 {
		w.Append("currencies", o.Currencies)
	}
	if len(o.Meta) > 0 {
		w.Append("meta", o.Meta)
	}
	return w.MarshalJSON()
}

// MarshalJSON implements the json.Marshaler interface for Close.
func (c Close) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("directive", DirClose)
	w.Append("date", c.Date)
	w.Append("account", c.Account)
	if len(c.Meta) > 0 {
		w.Append("meta", c.Meta)
	}
	return w.MarshalJSON()
}

// DecodeLedger decodes directives from a stream of JSONL data, one directive
// per line, and returns a chronologically sorted Ledger.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	ledger := NewLedger()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Directive DirectiveType `json:"directive"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify directive in line %q: %w", string(lineBytes), err)
		}

		var decoded Directive
		switch identifier.Directive {
		case DirTransaction:
			var tx Transaction
			if err := json.Unmarshal(lineBytes, &tx); err != nil {
				return nil, fmt.Errorf("could not decode transaction %q: %w", string(lineBytes), err)
			}
			decoded = &tx
		case DirPrice:
			var p Price
			if err := json.Unmarshal(lineBytes, &p); err != nil {
				return nil, fmt.Errorf("could not decode price %q: %w", string(lineBytes), err)
			}
			decoded = p
		case DirCommodity:
			var c Commodity
			if err := json.Unmarshal(lineBytes, &c); err != nil {
				return nil, fmt.Errorf("could not decode commodity %q: %w", string(lineBytes), err)
			}
			decoded = c
		case DirOpen:
			var o Open
			if err := json.Unmarshal(lineBytes, &o); err != nil {
				return nil, fmt.Errorf("could not decode open %q: %w", string(lineBytes), err)
			}
			decoded = o
		case DirClose:
			var c Close
			if err := json.Unmarshal(lineBytes, &c); err != nil {
				return nil, fmt.Errorf("could not decode close %q: %w", string(lineBytes), err)
			}
			decoded = c
		default:
			return nil, fmt.Errorf("unknown directive %q in line %q", identifier.Directive, string(lineBytes))
		}
		ledger.Append(decoded)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read ledger: %w", err)
	}
	return ledger, nil
}

// EncodeLedger writes the ledger as JSONL, one directive per line, in
// chronological order with stable field order.
func EncodeLedger(w io.Writer, l *Ledger) error {
	for _, d := range l.directives {
		data, err := json.Marshal(d)
		if err != nil {
			return fmt.Errorf("could not encode %s directive on %s: %w", d.What(), d.When(), err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("could not write directive: %w", err)
		}
	}
	return nil
}
