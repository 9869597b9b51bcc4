package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	beancount "github.com/LalitMaganti/beancount-lalitm"
)

type accountsCmd struct {
	ledgerFile string
	outputFile string
}

func (*accountsCmd) Name() string { return "accounts" }
func (*accountsCmd) Synopsis() string {
	return "synthesize ancillary accounts for investment securities"
}
func (*accountsCmd) Usage() string {
	return `blc accounts [-l <ledger.jsonl>] [-o <output.jsonl>]

  For every open directive carrying ancillary_*_currency metadata, creates
  the companion commission, distribution, capital-gains and withholding-tax
  accounts, and closes them when the main account closes.
`
}

func (c *accountsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ledgerFile, "l", "ledger.jsonl", "Ledger file to process (JSONL format).")
	f.StringVar(&c.outputFile, "o", "", "Output file for the augmented ledger. Defaults to stdout.")
}

func (c *accountsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedgerFile(c.ledgerFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	directives, diags, err := beancount.AncillaryAccounts(ledger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error synthesizing accounts: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(diags) > 0 {
		for _, d := range diags {
			fmt.Fprintln(os.Stderr, d)
		}
		return subcommands.ExitFailure
	}

	if err := EncodeLedgerFile(c.outputFile, beancount.NewLedger(directives...)); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing augmented ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
