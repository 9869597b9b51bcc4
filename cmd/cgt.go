package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/LalitMaganti/beancount-lalitm/cgt"
)

// cgtCmd holds the flags for the 'cgt' subcommand.
type cgtCmd struct {
	ledgerFile string
	configFile string
	outputFile string
}

func (*cgtCmd) Name() string { return "cgt" }
func (*cgtCmd) Synopsis() string {
	return "compute UK capital gains with Section 104 pooling and rewrite the ledger"
}
func (*cgtCmd) Usage() string {
	return `blc cgt -l <ledger.jsonl> -c <accounts.yaml> [-o <output.jsonl>]

  Matches every sale in the configured accounts against purchases under the
  same-day rule, the thirty-day rule and the Section 104 pool, then rewrites
  the ledger with cost-basis legs and capital-gains postings. The adjusted
  ledger is written to stdout unless -o is given.
`
}

func (c *cgtCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ledgerFile, "l", "ledger.jsonl", "Ledger file to process (JSONL format).")
	f.StringVar(&c.configFile, "c", "cgt.yaml", "CGT account configuration (YAML).")
	f.StringVar(&c.outputFile, "o", "", "Output file for the adjusted ledger. Defaults to stdout.")
}

func (c *cgtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	configData, err := os.ReadFile(c.configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading configuration %q: %v\n", c.configFile, err)
		return subcommands.ExitUsageError
	}
	cfg, err := cgt.ParseConfig(configData)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing configuration: %v\n", err)
		return subcommands.ExitUsageError
	}

	ledger, err := DecodeLedgerFile(c.ledgerFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	diags, err := cgt.Apply(ledger, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing capital gains: %v\n", err)
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
