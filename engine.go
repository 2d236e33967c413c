package worth

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/worthtracker/worth/date"
)

// SnapshotCache persists one daily PnL result per (account, date). Put
// is insert-if-absent: once a value exists for a past date it is never
// overwritten, so two concurrent requests computing the same missing day
// converge on the same value and historical reports stay stable.
type SnapshotCache interface {
	DailyPnL(account string, on date.Date) (decimal.Decimal, bool)
	PutDailyPnL(account string, on date.Date, pnl decimal.Decimal) error
}

// Engine computes positions, cost bases and PnL from a ledger. It holds
// only references to its collaborators; every report is an independent,
// side-effect-free computation (except for cache writes) over a
// consistent read of the ledger.
type Engine struct {
	Ledger   LedgerReader
	Prices   PriceSource
	Markets  MarketResolver
	Accounts AccountResolver
	// Location is the accounting time zone used for as-of cutoffs.
	Location *time.Location
	// Cache, when set, persists daily PnL results for past dates.
	Cache SnapshotCache
}

// NewEngine wires an engine from its collaborators. A nil location
// defaults to UTC.
func NewEngine(ledger LedgerReader, prices PriceSource, markets MarketResolver, accounts AccountResolver) *Engine {
	return &Engine{
		Ledger:   ledger,
		Prices:   prices,
		Markets:  markets,
		Accounts: accounts,
		Location: time.UTC,
	}
}

// location returns the accounting time zone, defaulting to UTC.
func (e *Engine) location() *time.Location {
	if e.Location == nil {
		return time.UTC
	}
	return e.Location
}

// today returns the current date in the accounting time zone.
func (e *Engine) today() date.Date {
	return date.FromTime(time.Now().In(e.location()))
}
