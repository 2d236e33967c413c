package worth

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/worthtracker/worth/date"
)

func TestBalances_RollsCashAndPositions(t *testing.T) {
	ledger := NewMemoryLedger(nil)
	ledger.AddCash(deposit("IB", date.New(2025, time.January, 2), 10000))
	ledger.Append(buy("IB", "MSFT", at(2025, time.January, 10, 10), 10, 310))
	prices := NewPriceTable()
	prices.SetFixed("MSFT", 305)
	e := NewEngine(ledger, prices, testMarkets(), nil)

	report, err := e.Balances(date.New(2025, time.February, 1), "")
	if err != nil {
		t.Fatalf("Balances() error = %v", err)
	}
	if len(report.Rows) != 1 {
		t.Fatalf("Rows = %+v, want one account", report.Rows)
	}
	row := report.Rows[0]
	if !row.Cash.Amount().Equal(decimal.NewFromInt(6900)) {
		t.Errorf("Cash = %v, want 6900", row.Cash.Amount())
	}
	if !row.Positions.Amount().Equal(decimal.NewFromInt(3050)) {
		t.Errorf("Positions = %v, want 3050", row.Positions.Amount())
	}
	if !row.Total.Amount().Equal(decimal.NewFromInt(9950)) {
		t.Errorf("Total = %v, want 9950", row.Total.Amount())
	}
	if !report.Total.Amount().Equal(decimal.NewFromInt(9950)) {
		t.Errorf("report Total = %v, want 9950", report.Total.Amount())
	}
}

func TestValuations_CashEquivalentFoldsIntoCash(t *testing.T) {
	ledger := NewMemoryLedger(nil)
	ledger.AddCash(deposit("IB", date.New(2025, time.January, 2), 5000))
	ledger.Append(
		buy("IB", "VMFXX", at(2025, time.January, 10, 10), 1000, 1),
		buy("IB", "AAPL", at(2025, time.January, 10, 11), 100, 300),
	)
	prices := NewPriceTable()
	prices.SetFixed("VMFXX", 1)
	prices.SetFixed("AAPL", 305)
	e := NewEngine(ledger, prices, testMarkets(), nil)

	report, err := e.Valuations(date.New(2025, time.February, 1), "")
	if err != nil {
		t.Fatalf("Valuations() error = %v", err)
	}

	var tickers []string
	for _, r := range report.Rows {
		tickers = append(tickers, r.Ticker)
	}
	want := []string{"AAPL", "CASH"}
	if len(tickers) != len(want) || tickers[0] != want[0] || tickers[1] != want[1] {
		t.Fatalf("tickers = %v, want %v: the money market fund merges into CASH", tickers, want)
	}

	// CASH = 5000 deposit - 1000 fund buy - 30000 stock buy + 1000 fund value.
	cashRow := report.Rows[1]
	if !cashRow.Value.Amount().Equal(decimal.NewFromInt(-25000)) {
		t.Errorf("CASH = %v, want -25000", cashRow.Value.Amount())
	}
	if !report.Rows[0].Value.Amount().Equal(decimal.NewFromInt(30500)) {
		t.Errorf("AAPL = %v, want 30500", report.Rows[0].Value.Amount())
	}
	if !report.Total.Amount().Equal(decimal.NewFromInt(5500)) {
		t.Errorf("Total = %v, want 5500", report.Total.Amount())
	}
}

func TestValuations_FuturesValuedAgainstAverageOpen(t *testing.T) {
	ledger := NewMemoryLedger(nil)
	ledger.Append(buy("FUT", "ESZ", at(2025, time.March, 3, 10), 2, 4000))
	prices := NewPriceTable()
	prices.SetFixed("ESZ", 4300)
	e := NewEngine(ledger, prices, testMarkets(), nil)

	report, err := e.Valuations(date.New(2025, time.March, 10), "")
	if err != nil {
		t.Fatalf("Valuations() error = %v", err)
	}

	var esz *ValuationRow
	for i := range report.Rows {
		if report.Rows[i].Ticker == "ESZ" {
			esz = &report.Rows[i]
		}
	}
	if esz == nil {
		t.Fatalf("no ESZ row in %+v", report.Rows)
	}
	// 2 * (4300 - 4000) * 50: only the open-position move, the rest
	// already settled into cash.
	if !esz.Value.Amount().Equal(decimal.NewFromInt(30000)) {
		t.Errorf("Value = %v, want 30000", esz.Value.Amount())
	}
	if !esz.Futures {
		t.Error("row should be marked futures")
	}
}

func TestValuations_SplitNeutrality(t *testing.T) {
	ledger := NewMemoryLedger(nil)
	ledger.Append(buy("IB", "AAPL", at(2025, time.January, 6, 10), 100, 300))
	prices := NewPriceTable()
	prices.SetFixed("AAPL", 300)
	e := NewEngine(ledger, prices, testMarkets(), nil)

	before, err := e.Valuations(date.New(2025, time.January, 31), "")
	if err != nil {
		t.Fatalf("Valuations() error = %v", err)
	}

	// 2-for-1 split: twice the shares, half the price.
	split := buy("IB", "AAPL", at(2025, time.February, 3, 10), 100, 0)
	split.Reinvest = true
	ledger.Append(split)
	prices.SetFixed("AAPL", 150)

	after, err := e.Valuations(date.New(2025, time.February, 28), "")
	if err != nil {
		t.Fatalf("Valuations() error = %v", err)
	}

	if !before.Total.Amount().Equal(after.Total.Amount()) {
		t.Errorf("total changed across the split: %v -> %v", before.Total.Amount(), after.Total.Amount())
	}
	if !after.Rows[0].Position.Equal(Q(200)) {
		t.Errorf("Position = %v, want 200", after.Rows[0].Position)
	}
}
