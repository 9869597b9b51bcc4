package beancount

import (
	"fmt"
	"iter"
	"sort"
)

// Ledger represents a list of directives.
//
// In a Ledger directives are always in chronological order.
type Ledger struct {
	directives []Directive
}

// NewLedger creates an empty ledger.
func NewLedger(directives ...Directive) *Ledger {
	l := &Ledger{}
	l.Append(directives...)
	return l
}

// Append appends directives to this ledger and maintains the chronological order.
func (l *Ledger) Append(directives ...Directive) {
	l.directives = append(l.directives, directives...)
	l.stableSort()
}

// stableSort sorts the ledger by directive date. The sort is stable, meaning
// directives on the same day maintain their original relative order.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.directives, func(i, j int) bool {
		return l.directives[i].When().Before(l.directives[j].When())
	})
}

// Len returns the number of directives in the ledger.
func (l *Ledger) Len() int { return len(l.directives) }

// Directives returns an iterator that yields each directive in chronological order.
func (l *Ledger) Directives() iter.Seq2[int, Directive] {
	return func(yield func(int, Directive) bool) {
		for i, d := range l.directives {
			if !yield(i, d) {
				return
			}
		}
	}
}

// Transactions returns an iterator over the transaction directives only.
func (l *Ledger) Transactions() iter.Seq[*Transaction] {
	return func(yield func(*Transaction) bool) {
		for _, d := range l.directives {
			if tx, ok := d.(*Transaction); ok {
				if !yield(tx) {
					return
				}
			}
		}
	}
}

// Commodities returns an iterator over the commodity declarations.
func (l *Ledger) Commodities() iter.Seq[Commodity] {
	return func(yield func(Commodity) bool) {
		for _, d := range l.directives {
			if c, ok := d.(Commodity); ok {
				if !yield(c) {
					return
				}
			}
		}
	}
}

// Validate checks every directive in the ledger and returns the first failure,
// wrapped with the directive's kind and date.
func (l *Ledger) Validate() error {
	for _, d := range l.directives {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("invalid %s directive on %s: %w", d.What(), d.When(), err)
		}
	}
	return nil
}

// OldestDate returns the date of the earliest directive in the ledger,
// or the zero date when the ledger is empty.
func (l *Ledger) OldestDate() Date {
	if len(l.directives) == 0 {
		return Date{}
	}
	return l.directives[0].When()
}

// NewestDate returns the date of the latest directive in the ledger,
// or the zero date when the ledger is empty.
func (l *Ledger) NewestDate() Date {
	if len(l.directives) == 0 {
		return Date{}
	}
	return l.directives[len(l.directives)-1].When()
}
