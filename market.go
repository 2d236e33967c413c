package worth

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Exchange classes that settle like stock: positions are valued at
// price times quantity and unrealized PnL is not cash until sold.
// Everything else is treated as futures, where PnL is cash-settled
// continuously.
var notFuturesExchanges = map[string]bool{
	"CASH":  true,
	"STOCK": true,
	"ARCA":  true,
	"SMART": true,
}

// TimeOfDay is a wall-clock cutoff within a trading day.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// DefaultClose is the market close cutoff used when a market does not
// declare one.
var DefaultClose = TimeOfDay{Hour: 18}

func (t TimeOfDay) String() string { return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute) }

// ParseTimeOfDay parses a "HH:MM" cutoff.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q, want HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return TimeOfDay{}, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid minute in %q", s)
	}
	return TimeOfDay{Hour: h, Minute: m}, nil
}

// Market holds the per-market metadata the engine needs to bucket and
// value trades on a ticker.
type Market struct {
	Symbol       string
	Name         string
	Exchange     string
	ContractSize decimal.Decimal
	// Commission is the default commission per unit traded, applied
	// when a trade is recorded without one.
	Commission decimal.Decimal
	Close      TimeOfDay      // market close cutoff, zero means DefaultClose
	Location   *time.Location // exchange local time zone, nil means UTC
	PricePrec  int32          // display precision for prices
}

// IsFutures reports whether positions on this market are cash-settled.
func (m Market) IsFutures() bool { return !notFuturesExchanges[m.Exchange] }

// IsCashEquivalent reports whether the ticker is a money-market style
// instrument folded into CASH by the valuation builder.
func (m Market) IsCashEquivalent() bool { return m.Exchange == CashEquivalentExchange }

// CloseCutoff returns the close cutoff, defaulting when unset.
func (m Market) CloseCutoff() TimeOfDay {
	if (m.Close == TimeOfDay{}) {
		return DefaultClose
	}
	return m.Close
}

// DefaultCommission computes the commission for a trade of the given
// quantity when the record carries none.
func (m Market) DefaultCommission(quantity decimal.Decimal) decimal.Decimal {
	return quantity.Abs().Mul(m.Commission)
}

// MarketResolver resolves market metadata by ticker.
type MarketResolver interface {
	Market(ticker string) (Market, bool)
}

// MarketMap is a MarketResolver backed by a map keyed by ticker.
type MarketMap map[string]Market

func (m MarketMap) Market(ticker string) (Market, bool) {
	mkt, ok := m[ticker]
	return mkt, ok
}

// marketOrDefault returns the market metadata for a ticker, or a plain
// stock market with contract size 1 when the ticker is not declared.
func (e *Engine) marketOrDefault(ticker string) Market {
	if e.Markets != nil {
		if m, ok := e.Markets.Market(ticker); ok {
			return m
		}
	}
	return Market{Symbol: ticker, Exchange: "STOCK", ContractSize: decimal.NewFromInt(1)}
}
