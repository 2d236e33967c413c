package worth

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/worthtracker/worth/date"
)

// PriceSource provides the market price of a ticker as of a date. A
// source applies its own backfill logic (most recent prior close); when
// nothing is available it returns a *MissingPriceError.
type PriceSource interface {
	Price(ticker string, on date.Date) (decimal.Decimal, error)
}

// PriceTable is an in-memory PriceSource backed by per-ticker close
// histories, with optional fixed price overrides. It is the source used
// by tests and by the config file's fixed_price entries.
type PriceTable struct {
	closes map[string]*date.History[float64]
	fixed  map[string]float64
}

// NewPriceTable creates an empty price table.
func NewPriceTable() *PriceTable {
	return &PriceTable{
		closes: make(map[string]*date.History[float64]),
		fixed:  make(map[string]float64),
	}
}

// Add records the closing price of a ticker on a day. An existing close
// for that day is overwritten.
func (t *PriceTable) Add(ticker string, on date.Date, close float64) {
	h, ok := t.closes[ticker]
	if !ok {
		h = &date.History[float64]{}
		t.closes[ticker] = h
	}
	h.Append(on, close)
}

// SetFixed pins a ticker to a constant price, taking precedence over
// any recorded closes.
func (t *PriceTable) SetFixed(ticker string, price float64) {
	t.fixed[ticker] = price
}

// Price returns the close on the given day, or the most recent prior
// close. Weekends roll back to the last business day first.
func (t *PriceTable) Price(ticker string, on date.Date) (decimal.Decimal, error) {
	if p, ok := t.fixed[ticker]; ok {
		return decimal.NewFromFloat(p), nil
	}
	on = date.MostRecentBusinessDay(on)
	if h, ok := t.closes[ticker]; ok {
		if p, ok := h.ValueAsOf(on); ok {
			return decimal.NewFromFloat(p), nil
		}
	}
	return decimal.Zero, &MissingPriceError{Ticker: ticker, On: on}
}

// fallbackSource chains price sources: each lookup tries them in order
// and returns the first hit, keeping the last *MissingPriceError when
// every source misses.
type fallbackSource []PriceSource

// Fallback combines price sources into one, tried in order. Config
// fixed prices layered over stored closes is the typical chain.
func Fallback(sources ...PriceSource) PriceSource {
	return fallbackSource(sources)
}

func (f fallbackSource) Price(ticker string, on date.Date) (decimal.Decimal, error) {
	err := error(&MissingPriceError{Ticker: ticker, On: on})
	for _, src := range f {
		p, perr := src.Price(ticker, on)
		if perr == nil {
			return p, nil
		}
		var missing *MissingPriceError
		if !errors.As(perr, &missing) {
			return decimal.Zero, perr
		}
		err = perr
	}
	return decimal.Zero, err
}

// priceKey identifies one memoized lookup.
type priceKey struct {
	ticker string
	on     date.Date
}

type priceResult struct {
	price decimal.Decimal
	err   error
}

// memoPrices caches (ticker, date) lookups for the duration of one
// logical request, so building a report does not hit the underlying
// source twice for the same price. It is request-scoped by construction,
// never shared between reports.
type memoPrices struct {
	src  PriceSource
	memo map[priceKey]priceResult
}

func newMemoPrices(src PriceSource) *memoPrices {
	return &memoPrices{src: src, memo: make(map[priceKey]priceResult)}
}

func (m *memoPrices) Price(ticker string, on date.Date) (decimal.Decimal, error) {
	k := priceKey{ticker: ticker, on: on}
	if r, ok := m.memo[k]; ok {
		return r.price, r.err
	}
	p, err := m.src.Price(ticker, on)
	m.memo[k] = priceResult{price: p, err: err}
	return p, err
}
