// Package cmd implements the CLI application to manage a beancount-style
// ledger and its UK CGT post-processing.
package cmd

import (
	"fmt"
	"os"

	"github.com/google/subcommands"

	beancount "github.com/LalitMaganti/beancount-lalitm"
)

// Register the subcommands.
// A main package calls Register() to install them on a commander.
func Register(c *subcommands.Commander) {
	c.Register(&cgtCmd{}, "ledger")
	c.Register(&splitCmd{}, "ledger")
	c.Register(&fmtCmd{}, "ledger")
	c.Register(&accountsCmd{}, "ledger")
	c.Register(&logCmd{}, "reports")
}

// DecodeLedgerFile reads and decodes a JSONL ledger file.
func DecodeLedgerFile(filename string) (*beancount.Ledger, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open ledger file %q: %w", filename, err)
	}
	defer f.Close()

	ledger, err := beancount.DecodeLedger(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode ledger file %q: %w", filename, err)
	}
	return ledger, nil
}

// EncodeLedgerFile writes the ledger to filename, or to stdout when the
// filename is empty.
func EncodeLedgerFile(filename string, l *beancount.Ledger) error {
	if filename == "" {
		return beancount.EncodeLedger(os.Stdout, l)
	}
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create ledger file %q: %w", filename, err)
	}
	defer f.Close()

	if err := beancount.EncodeLedger(f, l); err != nil {
		return fmt.Errorf("could not write ledger file %q: %w", filename, err)
	}
	return nil
}
