package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/google/subcommands"
)

type priceCmd struct {
	ticker string
	day    string
}

func (*priceCmd) Name() string     { return "price" }
func (*priceCmd) Synopsis() string { return "record a closing price" }
func (*priceCmd) Usage() string {
	return `wth price -t <ticker> [-d <date>] <close>

  Records the closing price of a ticker for a day. Lookups on days
  without a close fall back to the most recent prior one.
`
}

func (c *priceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "t", "", "ticker")
	f.StringVar(&c.day, "d", "", "date, YYYY-MM-DD (defaults to today)")
}

func (c *priceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticker == "" || f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: -t and a single price argument are required")
		return subcommands.ExitUsageError
	}
	close, err := strconv.ParseFloat(f.Arg(0), 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid price %q\n", f.Arg(0))
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
	if err := e.store.AddPrice(c.ticker, on, close); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Recorded %s close %s on %s\n", c.ticker, f.Arg(0), on)
	return subcommands.ExitSuccess
}
