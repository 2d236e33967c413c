package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/worthtracker/worth"
	"github.com/worthtracker/worth/date"
)

func TestPnLMarkdown(t *testing.T) {
	r := &worth.PnLReport{
		Date: date.New(2025, time.March, 10),
		Rows: []worth.PnLRow{
			{Account: "IB", Ticker: "AAPL", Position: worth.Q(100), Price: decimal.NewFromInt(305), PriceKnown: true,
				Value: worth.Dollars(decimal.NewFromInt(30500)), PnL: worth.Dollars(decimal.NewFromInt(500))},
			{Account: "IB", Ticker: "NOPX", Position: worth.Q(10)},
		},
		Cash:       []worth.CashBalance{{Account: "IB", Balance: worth.Dollars(decimal.NewFromInt(1000))}},
		TotalWorth: worth.Dollars(decimal.NewFromInt(31500)),
		Incomplete: true,
	}
	out := PnLMarkdown(r)

	for _, want := range []string{
		"# PnL as of 2025-03-10",
		"| IB | AAPL | 100 | 305.00 |",
		"+$500.00",
		"| IB | NOPX | 10 | ? | ? | ? |",
		"## Cash",
		"Total worth: $31,500.00",
		"Some prices were unavailable",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("PnLMarkdown() missing %q in:\n%s", want, out)
		}
	}
}

func TestGainsMarkdown(t *testing.T) {
	r := &worth.GainsReport{
		Year: 2025,
		Rows: []worth.GainRow{
			{Account: "IB", Ticker: "AAPL", Gain: worth.Dollars(decimal.NewFromInt(800))},
			{Account: "FUT", Ticker: "ESZ", Futures: true, Gain: worth.Dollars(decimal.NewFromInt(20000))},
		},
		Total: worth.Dollars(decimal.NewFromInt(20800)),
	}
	out := GainsMarkdown(r)

	for _, want := range []string{
		"# Realized Gains 2025",
		"| IB | AAPL | stock | +$800.00 |",
		"| FUT | ESZ | futures | +$20,000.00 |",
		"**+$20,800.00**",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("GainsMarkdown() missing %q in:\n%s", want, out)
		}
	}

	t.Run("empty", func(t *testing.T) {
		out := GainsMarkdown(&worth.GainsReport{Year: 2024})
		if !strings.Contains(out, "No taxable gains") {
			t.Errorf("GainsMarkdown() = %q, want the empty message", out)
		}
	})
}

func TestDailyMarkdown(t *testing.T) {
	r := &worth.DailyReport{
		Range: date.NewRange(date.New(2025, time.March, 3), date.New(2025, time.March, 4)),
		Days: []worth.DailyRow{
			{Date: date.New(2025, time.March, 3), PnL: worth.Dollars(decimal.NewFromInt(100)), Known: true},
			{Date: date.New(2025, time.March, 4), Known: false},
		},
		Total:      worth.Dollars(decimal.NewFromInt(100)),
		Incomplete: true,
	}
	out := DailyMarkdown(r)

	for _, want := range []string{
		"all accounts",
		"| 2025-03-03 | +$100.00 |",
		"| 2025-03-04 | ? |",
		"**+$100.00**",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("DailyMarkdown() missing %q in:\n%s", want, out)
		}
	}
}

func TestBalancesMarkdown(t *testing.T) {
	r := &worth.BalanceReport{
		Date: date.New(2025, time.March, 10),
		Rows: []worth.BalanceRow{{
			Account:   "IB",
			Cash:      worth.Dollars(decimal.NewFromInt(6900)),
			Positions: worth.Dollars(decimal.NewFromInt(3050)),
			Total:     worth.Dollars(decimal.NewFromInt(9950)),
		}},
		Total: worth.Dollars(decimal.NewFromInt(9950)),
	}
	out := BalancesMarkdown(r)
	if !strings.Contains(out, "| IB | $6,900.00 | $3,050.00 | $9,950.00 |") {
		t.Errorf("BalancesMarkdown() missing the IB row in:\n%s", out)
	}
}
