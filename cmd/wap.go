package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type wapCmd struct {
	account string
	ticker  string
	day     string
}

func (*wapCmd) Name() string     { return "wap" }
func (*wapCmd) Synopsis() string { return "display the average open price of a position" }
func (*wapCmd) Usage() string {
	return `wth wap -a <account> -t <ticker> [-d <date>]

  Computes the weighted-average price of the open lots in one position,
  after LIFO-matching every disposal in its history.
`
}

func (c *wapCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "account")
	f.StringVar(&c.ticker, "t", "", "ticker")
	f.StringVar(&c.day, "d", "", "as-of date, YYYY-MM-DD (defaults to today)")
}

func (c *wapCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" || c.ticker == "" {
		fmt.Fprintln(os.Stderr, "Error: -a and -t are required")
		return subcommands.ExitUsageError
	}
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
	wap, err := e.engine.AvgOpenPrice(c.account, c.ticker, on)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if wap.IsZero() {
		fmt.Printf("%s/%s: no open position as of %s\n", c.account, c.ticker, on)
		return subcommands.ExitSuccess
	}
	fmt.Printf("%s/%s average open price as of %s: %s\n", c.account, c.ticker, on, wap.StringFixed(4))
	return subcommands.ExitSuccess
}
