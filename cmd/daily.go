package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/worthtracker/worth/date"
	"github.com/worthtracker/worth/renderer"
)

type dailyCmd struct {
	from    string
	to      string
	account string
}

func (*dailyCmd) Name() string     { return "daily" }
func (*dailyCmd) Synopsis() string { return "display day-by-day mark-to-market PnL" }
func (*dailyCmd) Usage() string {
	return `wth daily -from <date> [-to <date>] [-a <account>]

  Computes the mark-to-market PnL of every business day in the range,
  including days with no trading activity. -to defaults to today.
`
}

func (c *dailyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "first day of the range, YYYY-MM-DD")
	f.StringVar(&c.to, "to", "", "last day of the range (defaults to today)")
	f.StringVar(&c.account, "a", "", "restrict to one account")
}

func (c *dailyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.from == "" {
		fmt.Fprintln(os.Stderr, "Error: -from is required")
		return subcommands.ExitUsageError
	}
	e, err := openEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer e.Close()

	from, err := date.Parse(c.from)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	to, err := e.parseDay(c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if to.Before(from) {
		fmt.Fprintf(os.Stderr, "Error: range %s to %s is inverted\n", from, to)
		return subcommands.ExitUsageError
	}

	report, err := e.engine.DailyPnL(c.account, date.NewRange(from, to))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.DailyMarkdown(report))
	return subcommands.ExitSuccess
}
