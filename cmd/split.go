package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/LalitMaganti/beancount-lalitm/split"
)

// splitCmd holds the flags for the 'split' subcommand.
type splitCmd struct {
	ledgerFile string
	configFile string
	outputFile string
}

func (*splitCmd) Name() string { return "split" }
func (*splitCmd) Synopsis() string {
	return "retroactively restate trades for stock splits"
}
func (*splitCmd) Usage() string {
	return `blc split -l <ledger.jsonl> -c <splits.yaml> [-o <output.jsonl>]

  Rewrites every trade dated before a configured stock split to post-split
  units and price, keeping each trade's total value unchanged. Run this
  before the cgt pass so lots match in consistent units. The adjusted ledger
  is written to stdout unless -o is given.
`
}

func (c *splitCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ledgerFile, "l", "ledger.jsonl", "Ledger file to process (JSONL format).")
	f.StringVar(&c.configFile, "c", "splits.yaml", "Stock split configuration (YAML).")
	f.StringVar(&c.outputFile, "o", "", "Output file for the adjusted ledger. Defaults to stdout.")
}

func (c *splitCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	configData, err := os.ReadFile(c.configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading configuration %q: %v\n", c.configFile, err)
		return subcommands.ExitUsageError
	}
	cfg, err := split.ParseConfig(configData)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing configuration: %v\n", err)
		return subcommands.ExitUsageError
	}

	ledger, err := DecodeLedgerFile(c.ledgerFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	diags, err := split.Apply(ledger, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error applying stock splits: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(diags) > 0 {
		for _, d := range diags {
			fmt.Fprintln(os.Stderr, d)
		}
		return subcommands.ExitFailure
	}

	if err := EncodeLedgerFile(c.outputFile, ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing adjusted ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
