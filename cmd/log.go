package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	beancount "github.com/LalitMaganti/beancount-lalitm"
)

type logCmd struct {
	ledgerFile string
	start      string
	end        string
}

func (*logCmd) Name() string { return "log" }
func (*logCmd) Synopsis() string {
	return "display a chronological log of ledger transactions"
}
func (*logCmd) Usage() string {
	return `blc log [-l <ledger.jsonl>] [-s <date>] [-d <date>]

  Prints each transaction in the given date range with its postings,
  including any cost-basis and capital-gains legs.
`
}

func (p *logCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.ledgerFile, "l", "ledger.jsonl", "Ledger file to read (JSONL format).")
	f.StringVar(&p.start, "s", "", "Start date of the range (YYYY-MM-DD). Defaults to the oldest directive.")
	f.StringVar(&p.end, "d", "", "End date of the range (YYYY-MM-DD). Defaults to the newest directive.")
}

func (p *logCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedgerFile(p.ledgerFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	start := ledger.OldestDate()
	if p.start != "" {
		if start, err = beancount.ParseDate(p.start); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing start date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	end := ledger.NewestDate()
	if p.end != "" {
		if end, err = beancount.ParseDate(p.end); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing end date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	for tx := range ledger.Transactions() {
		if tx.Date.Before(start) || tx.Date.After(end) {
			continue
		}
		fmt.Printf("%s %s\n", tx.Date, tx.Narration)
		for _, posting := range tx.Postings {
			line := fmt.Sprintf("  %-60s %s", posting.Account, posting.Units)
			if posting.Cost != nil {
				line += " " + posting.Cost.String()
			}
			if posting.Price != nil {
				line += " @ " + posting.Price.String()
			}
			fmt.Println(line)
		}
	}
	return subcommands.ExitSuccess
}
