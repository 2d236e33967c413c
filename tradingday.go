package worth

import (
	"time"

	"github.com/worthtracker/worth/date"
)

// TradingDay maps a trade's timestamp to the trading day it settles
// into on its market. The timestamp is read in the exchange's local
// time zone; weekend trades roll to the next business day, and trades
// after the market close cutoff roll to the next business day as well.
// The resulting partition always contains complete, closeable sessions:
// a trading day's book closes at the market cutoff, not at midnight.
func TradingDay(t Trade, m Market) (date.Date, error) {
	if t.Time.IsZero() {
		return date.Date{}, &MalformedTradeError{
			Account: t.Account,
			Ticker:  t.Ticker,
			Reason:  "zero timestamp",
		}
	}
	loc := m.Location
	if loc == nil {
		loc = time.UTC
	}
	local := t.Time.In(loc)
	day := date.FromTime(local)
	if !date.IsBusinessDay(day) {
		return date.NextBusinessDay(day), nil
	}
	cut := m.CloseCutoff()
	close := time.Date(local.Year(), local.Month(), local.Day(), cut.Hour, cut.Minute, 0, 0, loc)
	if local.After(close) {
		return date.NextBusinessDay(day), nil
	}
	return day, nil
}

// TradingDay buckets a trade using the engine's market metadata.
func (e *Engine) TradingDay(t Trade) (date.Date, error) {
	return TradingDay(t, e.marketOrDefault(t.Ticker))
}
