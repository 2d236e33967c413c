package worth

import (
	"sort"
	"time"

	"github.com/worthtracker/worth/date"
)

// MemoryLedger is an in-memory LedgerReader. It backs tests and ad-hoc
// computations; durable storage lives behind the same interface in the
// ledgerdb adapter.
//
// Trades are kept in chronological order at all times.
type MemoryLedger struct {
	trades []Trade
	cash   []CashRecord
	loc    *time.Location
}

// NewMemoryLedger creates an empty ledger accounted in the given time
// zone. A nil location means UTC.
func NewMemoryLedger(loc *time.Location) *MemoryLedger {
	if loc == nil {
		loc = time.UTC
	}
	return &MemoryLedger{loc: loc}
}

// Append adds trades to the ledger, keeping chronological order.
func (l *MemoryLedger) Append(trades ...Trade) {
	l.trades = append(l.trades, trades...)
	l.stableSort()
}

// AppendOrUpdate inserts the trade, or amends the existing one carrying
// the same non-empty ExternalID when a feed re-sends a fill.
func (l *MemoryLedger) AppendOrUpdate(t Trade) {
	if t.ExternalID != "" {
		for i := range l.trades {
			if l.trades[i].ExternalID == t.ExternalID {
				l.trades[i] = t
				l.stableSort()
				return
			}
		}
	}
	l.Append(t)
}

// AddCash adds cash records to the ledger.
func (l *MemoryLedger) AddCash(recs ...CashRecord) {
	l.cash = append(l.cash, recs...)
	sort.SliceStable(l.cash, func(i, j int) bool {
		return l.cash[i].Date.Before(l.cash[j].Date)
	})
}

func (l *MemoryLedger) stableSort() {
	sort.SliceStable(l.trades, func(i, j int) bool {
		return l.trades[i].Time.Before(l.trades[j].Time)
	})
}

// cutoff returns the first instant after the as-of date in the ledger
// time zone. A trade belongs to the as-of window when its timestamp is
// strictly before that instant.
func cutoff(asof date.Date, loc *time.Location) time.Time {
	next := asof.Add(1)
	return time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, loc)
}

// Trades returns the filtered trades in chronological order.
func (l *MemoryLedger) Trades(f TradeFilter) ([]Trade, error) {
	var out []Trade
	var limit time.Time
	if !f.AsOf.IsZero() {
		limit = cutoff(f.AsOf, l.loc)
	}
	for _, t := range l.trades {
		if f.Account != "" && t.Account != f.Account {
			continue
		}
		if f.Ticker != "" && t.Ticker != f.Ticker {
			continue
		}
		if !limit.IsZero() && !t.Time.Before(limit) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// CashRecords returns the filtered cash records, ignored ones excluded.
func (l *MemoryLedger) CashRecords(f CashFilter) ([]CashRecord, error) {
	var out []CashRecord
	for _, c := range l.cash {
		if c.Ignored {
			continue
		}
		if f.Account != "" && c.Account != f.Account {
			continue
		}
		if !f.AsOf.IsZero() && c.Date.After(f.AsOf) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
