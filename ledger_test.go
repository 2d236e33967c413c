package worth

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/worthtracker/worth/date"
)

func TestMemoryLedger_AsOfIncludesTheWholeDay(t *testing.T) {
	ledger := NewMemoryLedger(nil)
	ledger.Append(
		buy("IB", "AAPL", time.Date(2025, 3, 3, 23, 59, 0, 0, time.UTC), 10, 300),
		buy("IB", "AAPL", time.Date(2025, 3, 4, 0, 1, 0, 0, time.UTC), 5, 301),
	)

	trades, err := ledger.Trades(TradeFilter{AsOf: date.New(2025, time.March, 3)})
	if err != nil {
		t.Fatalf("Trades() error = %v", err)
	}
	if len(trades) != 1 {
		t.Fatalf("Trades() = %d trades, want 1: the as-of window closes at midnight", len(trades))
	}
}

func TestMemoryLedger_AsOfUsesLedgerTimeZone(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("LoadLocation() error = %v", err)
	}
	ledger := NewMemoryLedger(ny)
	// 03:00 UTC on March 4 is still the evening of March 3 in New York.
	ledger.Append(buy("IB", "AAPL", time.Date(2025, 3, 4, 3, 0, 0, 0, time.UTC), 10, 300))

	trades, err := ledger.Trades(TradeFilter{AsOf: date.New(2025, time.March, 3)})
	if err != nil {
		t.Fatalf("Trades() error = %v", err)
	}
	if len(trades) != 1 {
		t.Fatalf("Trades() = %d trades, want 1 in the New York accounting day", len(trades))
	}
}

func TestMemoryLedger_AppendOrUpdate(t *testing.T) {
	ledger := NewMemoryLedger(nil)
	fill := buy("IB", "AAPL", at(2025, time.March, 3, 10), 10, 300)
	fill.ExternalID = "IBKR-123"
	ledger.AppendOrUpdate(fill)

	// The feed re-sends the same fill with a corrected price.
	fill.Price = decimal.NewFromInt(301)
	ledger.AppendOrUpdate(fill)

	trades, err := ledger.Trades(TradeFilter{})
	if err != nil {
		t.Fatalf("Trades() error = %v", err)
	}
	if len(trades) != 1 {
		t.Fatalf("Trades() = %d trades, want the upsert to amend in place", len(trades))
	}
	if !trades[0].Price.Equal(decimal.NewFromInt(301)) {
		t.Errorf("Price = %v, want the corrected 301", trades[0].Price)
	}

	t.Run("empty external id always appends", func(t *testing.T) {
		ledger.AppendOrUpdate(buy("IB", "AAPL", at(2025, time.March, 4, 10), 5, 310))
		ledger.AppendOrUpdate(buy("IB", "AAPL", at(2025, time.March, 5, 10), 5, 311))
		trades, err := ledger.Trades(TradeFilter{})
		if err != nil {
			t.Fatalf("Trades() error = %v", err)
		}
		if len(trades) != 3 {
			t.Errorf("Trades() = %d trades, want 3", len(trades))
		}
	})
}

func TestMemoryLedger_TradesStayChronological(t *testing.T) {
	ledger := NewMemoryLedger(nil)
	ledger.Append(
		buy("IB", "AAPL", at(2025, time.March, 5, 10), 1, 300),
		buy("IB", "AAPL", at(2025, time.March, 3, 10), 2, 300),
		buy("IB", "AAPL", at(2025, time.March, 4, 10), 3, 300),
	)
	trades, err := ledger.Trades(TradeFilter{})
	if err != nil {
		t.Fatalf("Trades() error = %v", err)
	}
	for i := 1; i < len(trades); i++ {
		if trades[i].Time.Before(trades[i-1].Time) {
			t.Fatalf("trades out of order: %v after %v", trades[i].Time, trades[i-1].Time)
		}
	}
}
