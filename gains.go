package worth

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/worthtracker/worth/date"
)

// GainRow is the realized gain of one (account, ticker) in a tax year.
type GainRow struct {
	Account string
	Ticker  string
	Futures bool
	Gain    Money
}

// GainsReport lists per-position realized gains for one tax year.
// Qualified accounts never appear: gains inside tax-advantaged wrappers
// are not taxable events.
type GainsReport struct {
	Year  int
	Rows  []GainRow
	Total Money
	// Incomplete is true when a futures position lacked a year-end mark.
	Incomplete bool
}

// TaxableGains computes the realized gains of a tax year.
//
// Stock-like positions realize gains lot by lot: the year's disposals
// are matched LIFO against the full trade history, and only closures
// dated inside the year count. Basis adjustments (splits, zero-price
// reinvestments) move shares without realizing anything.
//
// Futures are cash-settled, so the year's gain is simply the position
// PnL at year end minus the PnL at the prior year end. For the current
// year the mark date is today.
func (e *Engine) TaxableGains(year int) (*GainsReport, error) {
	yearEnd := date.New(year, time.December, 31)
	if today := e.today(); yearEnd.After(today) {
		yearEnd = today
	}
	priorEnd := date.EndOfPriorYear(year)
	window := date.NewRange(priorEnd.Add(1), yearEnd)

	trades, err := e.Ledger.Trades(TradeFilter{AsOf: yearEnd})
	if err != nil {
		return nil, fmt.Errorf("could not read trades: %w", err)
	}

	report := &GainsReport{Year: year}
	memo := newMemoPrices(e.Prices)
	total := decimal.Zero

	for _, agg := range aggregate(trades) {
		if e.accountOrDefault(agg.account).Qualified {
			continue
		}
		m := e.marketOrDefault(agg.ticker)

		var gain decimal.Decimal
		if m.IsFutures() {
			closing, cerr := e.positionPnL(agg.account, agg.ticker, yearEnd, memo)
			if cerr != nil {
				var missing *MissingPriceError
				if errors.As(cerr, &missing) {
					report.Incomplete = true
					continue
				}
				return nil, cerr
			}
			opening, cerr := e.positionPnL(agg.account, agg.ticker, priorEnd, memo)
			if cerr != nil {
				var missing *MissingPriceError
				if errors.As(cerr, &missing) {
					report.Incomplete = true
					continue
				}
				return nil, cerr
			}
			gain = closing.Sub(opening)
		} else {
			legs := legsOf(e.tradesFor(trades, agg.account, agg.ticker), e.location())
			_, closed := matchLIFO(legs)
			for _, c := range closed {
				if c.adjustment && !SplitsRealizeGains {
					continue
				}
				if !window.Contains(c.on) {
					continue
				}
				gain = gain.Add(c.gain())
			}
			gain = gain.Mul(m.ContractSize)
		}

		if isNearZero(gain) {
			continue
		}
		total = total.Add(gain)
		report.Rows = append(report.Rows, GainRow{
			Account: agg.account,
			Ticker:  agg.ticker,
			Futures: m.IsFutures(),
			Gain:    Dollars(gain),
		})
	}

	sort.SliceStable(report.Rows, func(i, j int) bool {
		if report.Rows[i].Account != report.Rows[j].Account {
			return report.Rows[i].Account < report.Rows[j].Account
		}
		return report.Rows[i].Ticker < report.Rows[j].Ticker
	})
	report.Total = Dollars(total)
	return report, nil
}

// positionPnL computes the since-inception PnL of one (account, ticker)
// as of a date: contract size times (mark value minus traded value),
// minus commissions. A flat position needs no mark.
func (e *Engine) positionPnL(account, ticker string, on date.Date, memo *memoPrices) (decimal.Decimal, error) {
	trades, err := e.Ledger.Trades(TradeFilter{Account: account, Ticker: ticker, AsOf: on})
	if err != nil {
		return decimal.Zero, err
	}
	pos, qp, comm := decimal.Zero, decimal.Zero, decimal.Zero
	for _, t := range trades {
		pos = pos.Add(t.Quantity)
		qp = qp.Add(t.Quantity.Mul(t.Price))
		comm = comm.Add(t.Commission)
	}
	pnl := qp.Neg()
	if !isNearZero(pos) {
		price, perr := memo.Price(ticker, on)
		if perr != nil {
			return decimal.Zero, perr
		}
		pnl = pnl.Add(pos.Mul(price))
	}
	cs := e.marketOrDefault(ticker).ContractSize
	return pnl.Mul(cs).Sub(comm), nil
}

// tradesFor filters an already-loaded trade slice down to one position.
func (e *Engine) tradesFor(trades []Trade, account, ticker string) []Trade {
	var out []Trade
	for _, t := range trades {
		if t.Account == account && t.Ticker == ticker {
			out = append(out, t)
		}
	}
	return out
}
