// Package split retroactively adjusts historical trades for stock splits.
// Every trade of a split symbol dated before the split has its units
// multiplied by the split ratio and its price divided by it, so pre-split
// trades read in post-split terms with their total value unchanged.
package split

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	beancount "github.com/LalitMaganti/beancount-lalitm"
)

// SplitConfig declares one stock split.
type SplitConfig struct {
	// Symbol is the security the split applies to.
	Symbol string `yaml:"symbol"`
	// Date the split took effect (YYYY-MM-DD).
	Date string `yaml:"date"`
	// Ratio of new units per old unit (20 for a 20-for-1 split; a
	// fractional ratio expresses a reverse split).
	Ratio ratio `yaml:"ratio"`
}

// ratio parses the YAML scalar through decimal so fractional ratios keep
// their exact value.
type ratio struct {
	decimal.Decimal
}

func (r *ratio) UnmarshalYAML(node *yaml.Node) error {
	d, err := decimal.NewFromString(node.Value)
	if err != nil {
		return fmt.Errorf("invalid split ratio %q: %w", node.Value, err)
	}
	r.Decimal = d
	return nil
}

// Config lists the splits the pass applies.
type Config struct {
	Splits []SplitConfig `yaml:"splits"`
}

// ParseConfig parses a YAML configuration blob into a validated Config.
//
//	splits:
//	  - symbol: GOOG
//	    date: 2022-07-15
//	    ratio: 20
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid split configuration: %w", err)
	}
	for i, s := range cfg.Splits {
		if s.Symbol == "" {
			return Config{}, fmt.Errorf("split %d has no symbol", i)
		}
		if _, err := beancount.ParseDate(s.Date); err != nil {
			return Config{}, fmt.Errorf("split for %s: %w", s.Symbol, err)
		}
		if !s.Ratio.IsPositive() {
			return Config{}, fmt.Errorf("split for %s has non-positive ratio %s", s.Symbol, s.Ratio)
		}
	}
	return cfg, nil
}

// Split is the resolved descriptor for one stock split.
type Split struct {
	Symbol string
	Date   beancount.Date
	Ratio  decimal.Decimal
}

// resolve expands the configuration into descriptors keyed by symbol. A
// symbol registered twice is a configuration error reported as a diagnostic,
// with no descriptors returned.
func (c Config) resolve() (map[string]*Split, []string) {
	var diags []string
	splits := make(map[string]*Split, len(c.Splits))
	for _, s := range c.Splits {
		if _, dup := splits[s.Symbol]; dup {
			diags = append(diags, fmt.Sprintf("duplicate split registration for %q", s.Symbol))
			continue
		}
		date, err := beancount.ParseDate(s.Date)
		if err != nil {
			diags = append(diags, fmt.Sprintf("split for %s: %v", s.Symbol, err))
			continue
		}
		splits[s.Symbol] = &Split{Symbol: s.Symbol, Date: date, Ratio: s.Ratio.Decimal}
	}
	if len(diags) > 0 {
		return nil, diags
	}
	return splits, nil
}

// Apply rewrites the ledger in place: for each transaction strictly before a
// symbol's split date, the first posting in that symbol is restated at
// post-split units and price and moves to the end of the posting list.
//
// Configuration problems are returned as diagnostics with the ledger left
// untouched. A trade on the split date itself, a posting that already
// carries a cost basis, and a posting without a price or with zero units are
// invariant violations: the pass must run on a raw ledger, before any lot
// matching.
func Apply(l *beancount.Ledger, cfg Config) ([]string, error) {
	splits, diags := cfg.resolve()
	if len(diags) > 0 {
		return diags, nil
	}

	for tx := range l.Transactions() {
		for i, p := range tx.Postings {
			s := splits[p.Units.Currency]
			if s == nil {
				continue
			}
			if tx.Date == s.Date {
				return nil, fmt.Errorf("trade of %s on %s falls on the split date", s.Symbol, tx.Date)
			}
			if tx.Date.After(s.Date) {
				continue
			}
			if p.Cost != nil {
				return nil, fmt.Errorf("trade of %s on %s already carries a cost basis", s.Symbol, tx.Date)
			}
			if p.Price == nil {
				return nil, fmt.Errorf("trade of %s on %s has no price", s.Symbol, tx.Date)
			}
			if p.Units.Number.IsZero() || p.Price.Number.IsZero() {
				return nil, fmt.Errorf("trade of %s on %s has zero units or price", s.Symbol, tx.Date)
			}

			adjusted := *p
			adjusted.Units = beancount.A(p.Units.Number.Mul(s.Ratio), p.Units.Currency)
			price := beancount.A(p.Price.Number.Div(s.Ratio), p.Price.Currency)
			adjusted.Price = &price
			tx.Postings = slices.Delete(tx.Postings, i, i+1)
			tx.Postings = append(tx.Postings, &adjusted)
			break
		}
	}
	return nil, nil
}
