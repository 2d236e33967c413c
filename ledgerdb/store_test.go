package ledgerdb

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worthtracker/worth"
	"github.com/worthtracker/worth/date"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func trade(account, ticker string, at time.Time, q, p float64) worth.Trade {
	return worth.Trade{
		Account:  account,
		Ticker:   ticker,
		Time:     at,
		Quantity: decimal.NewFromFloat(q),
		Price:    decimal.NewFromFloat(p),
	}
}

func TestStore_TradeRoundTrip(t *testing.T) {
	s := openTestStore(t)

	in := trade("IB", "AAPL", time.Date(2025, 3, 3, 14, 30, 0, 0, time.UTC), 100, 300.5)
	in.Commission = decimal.NewFromFloat(1.25)
	in.Note = "opening position"
	require.NoError(t, s.SaveTrade(in))

	out, err := s.Trades(worth.TradeFilter{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	got := out[0]
	assert.Equal(t, in.Account, got.Account)
	assert.Equal(t, in.Ticker, got.Ticker)
	assert.True(t, in.Time.Equal(got.Time))
	assert.True(t, in.Quantity.Equal(got.Quantity))
	assert.True(t, in.Price.Equal(got.Price))
	assert.True(t, in.Commission.Equal(got.Commission))
	assert.Equal(t, in.Note, got.Note)
}

func TestStore_SaveTradeRejectsZeroTimestamp(t *testing.T) {
	s := openTestStore(t)
	err := s.SaveTrade(worth.Trade{Account: "IB", Ticker: "AAPL"})
	var malformed *worth.MalformedTradeError
	assert.ErrorAs(t, err, &malformed)
}

func TestStore_UpsertByExternalID(t *testing.T) {
	s := openTestStore(t)

	fill := trade("IB", "AAPL", time.Date(2025, 3, 3, 14, 30, 0, 0, time.UTC), 100, 300)
	fill.ExternalID = "IBKR-987"
	require.NoError(t, s.SaveTrade(fill))

	// The flex feed re-sends the fill with a corrected price.
	fill.Price = decimal.NewFromInt(301)
	require.NoError(t, s.SaveTrade(fill))

	out, err := s.Trades(worth.TradeFilter{})
	require.NoError(t, err)
	require.Len(t, out, 1, "the second save must amend, not duplicate")
	assert.True(t, out[0].Price.Equal(decimal.NewFromInt(301)))
}

func TestStore_TradeFilters(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.SaveTrade(trade("IB", "AAPL", time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC), 100, 300)))
	require.NoError(t, s.SaveTrade(trade("IB", "MSFT", time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC), 10, 310)))
	require.NoError(t, s.SaveTrade(trade("Schwab", "AAPL", time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC), 5, 305)))

	t.Run("by account", func(t *testing.T) {
		out, err := s.Trades(worth.TradeFilter{Account: "IB"})
		require.NoError(t, err)
		assert.Len(t, out, 2)
	})
	t.Run("by ticker", func(t *testing.T) {
		out, err := s.Trades(worth.TradeFilter{Ticker: "AAPL"})
		require.NoError(t, err)
		assert.Len(t, out, 2)
	})
	t.Run("as of", func(t *testing.T) {
		out, err := s.Trades(worth.TradeFilter{AsOf: date.New(2025, time.March, 4)})
		require.NoError(t, err)
		assert.Len(t, out, 2, "the March 5 trade is out of the window")
	})
	t.Run("chronological", func(t *testing.T) {
		out, err := s.Trades(worth.TradeFilter{})
		require.NoError(t, err)
		require.Len(t, out, 3)
		for i := 1; i < len(out); i++ {
			assert.False(t, out[i].Time.Before(out[i-1].Time))
		}
	})
}

func TestStore_AsOfUsesAccountingTimeZone(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	s, err := Open(":memory:", ny)
	require.NoError(t, err)
	defer s.Close()

	// 03:00 UTC on March 4 is the evening of March 3 in New York.
	require.NoError(t, s.SaveTrade(trade("IB", "AAPL", time.Date(2025, 3, 4, 3, 0, 0, 0, time.UTC), 100, 300)))

	out, err := s.Trades(worth.TradeFilter{AsOf: date.New(2025, time.March, 3)})
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestStore_CashRecords(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.AddCashRecord(worth.CashRecord{
		Account: "IB", Date: date.New(2025, time.January, 2),
		Category: "transfer", Amount: decimal.NewFromInt(10000), Cleared: true,
	}))
	require.NoError(t, s.AddCashRecord(worth.CashRecord{
		Account: "IB", Date: date.New(2025, time.February, 2),
		Category: "fee", Amount: decimal.NewFromInt(-50),
	}))
	require.NoError(t, s.AddCashRecord(worth.CashRecord{
		Account: "IB", Date: date.New(2025, time.February, 3),
		Category: "noise", Amount: decimal.NewFromInt(999), Ignored: true,
	}))

	out, err := s.CashRecords(worth.CashFilter{Account: "IB"})
	require.NoError(t, err)
	assert.Len(t, out, 2, "ignored records never surface")

	total, cleared, err := s.CashSums("IB", date.Date{})
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(9950)), "total = %v", total)
	assert.True(t, cleared.Equal(decimal.NewFromInt(10000)), "cleared = %v", cleared)

	t.Run("as of", func(t *testing.T) {
		out, err := s.CashRecords(worth.CashFilter{AsOf: date.New(2025, time.January, 31)})
		require.NoError(t, err)
		assert.Len(t, out, 1)
	})
}

func TestStore_PriceFallback(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.AddPrice("AAPL", date.New(2025, time.March, 5), 301))

	t.Run("exact day", func(t *testing.T) {
		p, err := s.Price("AAPL", date.New(2025, time.March, 5))
		require.NoError(t, err)
		assert.True(t, p.Equal(decimal.NewFromInt(301)))
	})
	t.Run("prior close backfills", func(t *testing.T) {
		p, err := s.Price("AAPL", date.New(2025, time.March, 7))
		require.NoError(t, err)
		assert.True(t, p.Equal(decimal.NewFromInt(301)))
	})
	t.Run("weekend rolls back", func(t *testing.T) {
		require.NoError(t, s.AddPrice("AAPL", date.New(2025, time.March, 7), 305))
		p, err := s.Price("AAPL", date.New(2025, time.March, 9)) // Sunday
		require.NoError(t, err)
		assert.True(t, p.Equal(decimal.NewFromInt(305)))
	})
	t.Run("missing surfaces typed error", func(t *testing.T) {
		_, err := s.Price("NOPX", date.New(2025, time.March, 5))
		var missing *worth.MissingPriceError
		assert.ErrorAs(t, err, &missing)
	})
}

func TestStore_DailyPnLCacheIsInsertIfAbsent(t *testing.T) {
	s := openTestStore(t)
	on := date.New(2025, time.March, 3)

	_, ok := s.DailyPnL("IB", on)
	assert.False(t, ok)

	require.NoError(t, s.PutDailyPnL("IB", on, decimal.NewFromInt(100)))
	require.NoError(t, s.PutDailyPnL("IB", on, decimal.NewFromInt(999)))

	got, ok := s.DailyPnL("IB", on)
	require.True(t, ok)
	assert.True(t, got.Equal(decimal.NewFromInt(100)), "the first write wins: got %v", got)
}

func TestStore_WorthHistory(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.RecordWorth(date.New(2025, time.March, 3), worth.Dollars(decimal.NewFromInt(1000))))
	require.NoError(t, s.RecordWorth(date.New(2025, time.March, 4), worth.Dollars(decimal.NewFromInt(1100))))
	// Re-recording a day keeps the original observation.
	require.NoError(t, s.RecordWorth(date.New(2025, time.March, 3), worth.Dollars(decimal.NewFromInt(0))))

	h, err := s.WorthHistory()
	require.NoError(t, err)
	assert.Equal(t, 2, h.Len())
	day, last := h.Latest()
	assert.Equal(t, date.New(2025, time.March, 4), day)
	assert.Equal(t, 1100.0, last)

	var got []float64
	for _, v := range h.Values() {
		got = append(got, v)
	}
	assert.Equal(t, []float64{1000, 1100}, got, "the series stays in day order")
}
