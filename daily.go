package worth

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/worthtracker/worth/date"
)

// DailyRow is the mark-to-market PnL of one trading day.
type DailyRow struct {
	Date date.Date
	PnL  Money
	// Known is false when a price needed to mark the day was missing;
	// the day still appears in the series, with a zero placeholder.
	Known bool
}

// DailyReport is a gap-free series of daily PnL over a range: one row
// per business day, whether or not anything traded.
type DailyReport struct {
	Account string
	Range   date.Range
	Days    []DailyRow
	// Total sums the known days only.
	Total      Money
	Incomplete bool
}

// DailyPnL computes the day-by-day mark-to-market PnL of an account
// (all accounts when empty) over a range of business days.
//
// Each trading day is priced as if the opening position had been bought
// at the prior business day's close and the closing position sold at the
// day's close; the day's real trades sit in between. The day PnL is the
// cash sum of that synthetic round trip, commissions included. Trades
// are bucketed into trading days by their market's close cutoff, so a
// fill after the close belongs to the next session.
//
// Days before today are immutable once computed and are served from the
// snapshot cache when one is wired.
func (e *Engine) DailyPnL(account string, r date.Range) (*DailyReport, error) {
	trades, err := e.Ledger.Trades(TradeFilter{Account: account, AsOf: r.To})
	if err != nil {
		return nil, fmt.Errorf("could not read trades: %w", err)
	}

	// Bucket every trade into its trading day; fills bucketed before the
	// range only contribute to the opening positions.
	buckets := make(map[date.Date][]Trade)
	openPos := make(map[string]decimal.Decimal)
	for _, t := range trades {
		day, derr := e.TradingDay(t)
		if derr != nil {
			return nil, derr
		}
		if day.Before(r.From) {
			openPos[t.Ticker] = openPos[t.Ticker].Add(t.Quantity)
			continue
		}
		buckets[day] = append(buckets[day], t)
	}

	report := &DailyReport{Account: account, Range: r}
	memo := newMemoPrices(e.Prices)
	today := e.today()
	total := decimal.Zero

	for day := range date.BusinessDays(r) {
		dayTrades := buckets[day]
		closePos := make(map[string]decimal.Decimal, len(openPos))
		for k, v := range openPos {
			closePos[k] = v
		}
		for _, t := range dayTrades {
			closePos[t.Ticker] = closePos[t.Ticker].Add(t.Quantity)
		}

		pnl, ok, cached := decimal.Zero, false, false
		if e.Cache != nil && day.Before(today) {
			pnl, cached = e.Cache.DailyPnL(account, day)
			ok = cached
		}
		if !cached {
			pnl, ok, err = e.markDay(day, openPos, closePos, dayTrades, memo)
			if err != nil {
				return nil, err
			}
			if ok && e.Cache != nil && day.Before(today) {
				if cerr := e.Cache.PutDailyPnL(account, day, pnl); cerr != nil {
					return nil, fmt.Errorf("could not cache daily pnl: %w", cerr)
				}
			}
		}

		if ok {
			total = total.Add(pnl)
		} else {
			report.Incomplete = true
			pnl = decimal.Zero
		}
		report.Days = append(report.Days, DailyRow{Date: day, PnL: Dollars(pnl), Known: ok})
		openPos = closePos
	}

	report.Total = Dollars(total)
	return report, nil
}

// markDay prices one trading day: buy the opening position at the prior
// business day's close, replay the day's trades, sell the closing
// position at the day's close. Returns ok=false when a needed price was
// missing.
func (e *Engine) markDay(day date.Date, openPos, closePos map[string]decimal.Decimal, dayTrades []Trade, memo *memoPrices) (decimal.Decimal, bool, error) {
	prior := date.PriorBusinessDay(day)
	pnl := decimal.Zero

	mark := func(positions map[string]decimal.Decimal, on date.Date, sign decimal.Decimal) (bool, error) {
		tickers := make([]string, 0, len(positions))
		for t := range positions {
			tickers = append(tickers, t)
		}
		sort.Strings(tickers)
		for _, ticker := range tickers {
			q := positions[ticker]
			if isNearZero(q) {
				continue
			}
			price, perr := memo.Price(ticker, on)
			if perr != nil {
				var missing *MissingPriceError
				if errors.As(perr, &missing) {
					return false, nil
				}
				return false, perr
			}
			cs := e.marketOrDefault(ticker).ContractSize
			pnl = pnl.Add(sign.Mul(cs).Mul(q).Mul(price))
		}
		return true, nil
	}

	// Synthetic opening buy: -cs * q * prior close.
	ok, err := mark(openPos, prior, decimal.NewFromInt(-1))
	if err != nil || !ok {
		return decimal.Zero, false, err
	}
	// Synthetic closing sell: +cs * q * day close.
	ok, err = mark(closePos, day, decimal.NewFromInt(1))
	if err != nil || !ok {
		return decimal.Zero, false, err
	}
	for _, t := range dayTrades {
		cs := e.marketOrDefault(t.Ticker).ContractSize
		pnl = pnl.Add(cs.Mul(t.CashImpact())).Sub(t.Commission)
	}
	return pnl, true, nil
}
