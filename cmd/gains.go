package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/worthtracker/worth/renderer"
)

type gainsCmd struct {
	year int
}

func (*gainsCmd) Name() string     { return "gains" }
func (*gainsCmd) Synopsis() string { return "display realized gains for a tax year" }
func (*gainsCmd) Usage() string {
	return `wth gains [-y <year>]

  Computes the gains realized in the tax year: LIFO lot matching for
  stock, year-over-year PnL for futures. Qualified accounts are
  excluded.
`
}

func (c *gainsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.year, "y", time.Now().Year(), "tax year")
}

func (c *gainsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e, err := openEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer e.Close()

	report, err := e.engine.TaxableGains(c.year)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.GainsMarkdown(report))
	return subcommands.ExitSuccess
}
