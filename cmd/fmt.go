package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type fmtCmd struct {
	ledgerFile string
}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the ledger file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `blc fmt [-l <ledger.jsonl>]

  Validates and formats the ledger file. This command reads all directives,
  validates them, sorts them by date, and writes them back in a canonical
  JSONL format in-place.
`
}

func (p *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.ledgerFile, "l", "ledger.jsonl", "Ledger file to format (JSONL format).")
}

func (p *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedgerFile(p.ledgerFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := ledger.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error validating ledger %q: %v\n", p.ledgerFile, err)
		return subcommands.ExitFailure
	}

	if err := EncodeLedgerFile(p.ledgerFile, ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving formatted ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Formatted ledger %q (%d directives).\n", p.ledgerFile, ledger.Len())
	return subcommands.ExitSuccess
}
