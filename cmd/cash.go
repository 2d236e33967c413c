package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/worthtracker/worth"
)

type cashCmd struct {
	account     string
	day         string
	category    string
	description string
	amount      string
	cleared     bool
	ignored     bool
}

func (*cashCmd) Name() string     { return "cash" }
func (*cashCmd) Synopsis() string { return "record a non-trade cash movement" }
func (*cashCmd) Usage() string {
	return `wth cash -a <account> -amount <amount> [-d <date>] [-category <name>] [-cleared] [-ignored]

  Records a deposit, withdrawal, transfer or fee. Ignored records are
  kept for bookkeeping but excluded from all PnL and balance math.
`
}

func (c *cashCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "account")
	f.StringVar(&c.day, "d", "", "date, YYYY-MM-DD (defaults to today)")
	f.StringVar(&c.category, "category", "", "category (transfer, fee, interest, ...)")
	f.StringVar(&c.description, "desc", "", "free-form description")
	f.StringVar(&c.amount, "amount", "", "signed amount")
	f.BoolVar(&c.cleared, "cleared", false, "confirmed against the broker statement")
	f.BoolVar(&c.ignored, "ignored", false, "exclude from all computations")
}

func (c *cashCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" || c.amount == "" {
		fmt.Fprintln(os.Stderr, "Error: -a and -amount are required")
		return subcommands.ExitUsageError
	}
	e, err := openEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer e.Close()

	rec := worth.CashRecord{
		Account:     c.account,
		Category:    c.category,
		Description: c.description,
		Cleared:     c.cleared,
		Ignored:     c.ignored,
	}
	if rec.Amount, err = decimal.NewFromString(c.amount); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid amount %q\n", c.amount)
		return subcommands.ExitUsageError
	}
	if rec.Date, err = e.parseDay(c.day); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	if err := e.store.AddCashRecord(rec); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Recorded %s\n", rec)
	return subcommands.ExitSuccess
}
