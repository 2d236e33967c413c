package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/worthtracker/worth/renderer"
)

type valuationsCmd struct {
	day     string
	account string
}

func (*valuationsCmd) Name() string     { return "valuations" }
func (*valuationsCmd) Synopsis() string { return "display per-holding market values" }
func (*valuationsCmd) Usage() string {
	return `wth valuations [-d <date>] [-a <account>]

  Values every holding as of the date: stock at price x quantity,
  futures against their average open price, money-market tickers folded
  into cash.
`
}

func (c *valuationsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.day, "d", "", "as-of date, YYYY-MM-DD (defaults to today)")
	f.StringVar(&c.account, "a", "", "restrict to one account")
}

func (c *valuationsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	report, err := e.engine.Valuations(on, c.account)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.ValuationsMarkdown(report))
	return subcommands.ExitSuccess
}

type balancesCmd struct {
	day     string
	account string
}

func (*balancesCmd) Name() string     { return "balances" }
func (*balancesCmd) Synopsis() string { return "display per-account cash and position rollups" }
func (*balancesCmd) Usage() string {
	return `wth balances [-d <date>] [-a <account>]

  Rolls every account up to cash + stock-like position value.
`
}

func (c *balancesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.day, "d", "", "as-of date, YYYY-MM-DD (defaults to today)")
	f.StringVar(&c.account, "a", "", "restrict to one account")
}

func (c *balancesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	report, err := e.engine.Balances(on, c.account)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.BalancesMarkdown(report))
	return subcommands.ExitSuccess
}
