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

type tradeCmd struct {
	account    string
	ticker     string
	at         string
	quantity   string
	price      string
	commission string
	reinvest   bool
	note       string
	externalID string
}

func (*tradeCmd) Name() string     { return "trade" }
func (*tradeCmd) Synopsis() string { return "record a trade in the ledger" }
func (*tradeCmd) Usage() string {
	return `wth trade -a <account> -t <ticker> -q <quantity> -p <price> [-c <commission>] [-d <timestamp>] [-reinvest] [-id <external_id>] [-note <text>]

  Records one fill. Positive quantities buy, negative ones sell. When
  -c is omitted the market's default commission applies. -reinvest
  marks share movements without real cash (dividend reinvestment,
  splits). Saving an existing -id amends the trade in place.
`
}

func (c *tradeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "account")
	f.StringVar(&c.ticker, "t", "", "ticker")
	f.StringVar(&c.at, "d", "", "timestamp, \"2006-01-02 15:04\" or a bare date (defaults to now)")
	f.StringVar(&c.quantity, "q", "", "signed quantity")
	f.StringVar(&c.price, "p", "", "price per unit")
	f.StringVar(&c.commission, "c", "", "commission (defaults to the market's rate)")
	f.BoolVar(&c.reinvest, "reinvest", false, "share movement without real cash")
	f.StringVar(&c.note, "note", "", "free-form note")
	f.StringVar(&c.externalID, "id", "", "external trade id for upserts")
}

func (c *tradeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" || c.ticker == "" || c.quantity == "" || c.price == "" {
		fmt.Fprintln(os.Stderr, "Error: -a, -t, -q and -p are required")
		return subcommands.ExitUsageError
	}
	e, err := openEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer e.Close()

	t := worth.Trade{
		Account:    c.account,
		Ticker:     c.ticker,
		Reinvest:   c.reinvest,
		Note:       c.note,
		ExternalID: c.externalID,
	}
	if t.Quantity, err = decimal.NewFromString(c.quantity); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid quantity %q\n", c.quantity)
		return subcommands.ExitUsageError
	}
	if t.Price, err = decimal.NewFromString(c.price); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid price %q\n", c.price)
		return subcommands.ExitUsageError
	}
	if c.at == "" {
		t.Time = nowIn(e)
	} else if t.Time, err = e.parseInstant(c.at); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if c.commission != "" {
		if t.Commission, err = decimal.NewFromString(c.commission); err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid commission %q\n", c.commission)
			return subcommands.ExitUsageError
		}
	} else if !c.reinvest {
		t.Commission = e.market(c.ticker).DefaultCommission(t.Quantity)
	}

	if err := e.store.SaveTrade(t); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Recorded %s\n", t)
	return subcommands.ExitSuccess
}
