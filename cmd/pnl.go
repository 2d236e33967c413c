package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/worthtracker/worth"
	"github.com/worthtracker/worth/renderer"
)

type pnlCmd struct {
	day     string
	account string
}

func (*pnlCmd) Name() string     { return "pnl" }
func (*pnlCmd) Synopsis() string { return "display positions, PnL and cash balances as of a date" }
func (*pnlCmd) Usage() string {
	return `wth pnl [-d <date>] [-a <account>]

  Computes every position's PnL since inception, each account's cash
  balance, and the total worth, as of the given date (default today).
`
}

func (c *pnlCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.day, "d", "", "as-of date, YYYY-MM-DD (defaults to today)")
	f.StringVar(&c.account, "a", "", "restrict to one account")
}

func (c *pnlCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e, err := openEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer e.Close()

	on, err := e.parseDay(c.day)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	report, err := e.engine.PnLAsOf(on, c.account)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.PnLMarkdown(report))

	if err := e.engine.Reconcile(on); err != nil {
		var divergence *worth.ReconciliationError
		if errors.As(err, &divergence) {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", divergence)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	// Whole-portfolio complete snapshots feed the net-worth history.
	if c.account == "" && !report.Incomplete {
		if err := e.store.RecordWorth(on, report.TotalWorth); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}
	return subcommands.ExitSuccess
}
