package worth

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/worthtracker/worth/date"
)

// BalanceRow is one account's rollup: cash, market value of stock-like
// positions, and their sum.
type BalanceRow struct {
	Account   string
	Cash      Money
	Positions Money
	Total     Money
}

// BalanceReport rolls every account up to a single worth figure.
type BalanceReport struct {
	Date       date.Date
	Rows       []BalanceRow
	Total      Money
	Incomplete bool
}

// Balances rolls positions and cash up per account as of a date. Cash
// follows the snapshot builder's attribution: futures PnL settles into
// cash, stock-like trades contribute only their raw cash flow, and raw
// cash records are added on top.
func (e *Engine) Balances(on date.Date, account string) (*BalanceReport, error) {
	snap, err := e.PnLAsOf(on, account)
	if err != nil {
		return nil, err
	}

	cash := make(map[string]decimal.Decimal)
	positions := make(map[string]decimal.Decimal)
	for _, c := range snap.Cash {
		cash[c.Account] = c.Balance.Amount()
	}
	for _, row := range snap.Rows {
		if row.Futures || !row.PriceKnown {
			continue // futures value already settled into cash
		}
		positions[row.Account] = positions[row.Account].Add(row.Value.Amount())
	}

	names := make(map[string]bool)
	for a := range cash {
		names[a] = true
	}
	for a := range positions {
		names[a] = true
	}
	ordered := make([]string, 0, len(names))
	for a := range names {
		ordered = append(ordered, a)
	}
	sort.Strings(ordered)

	report := &BalanceReport{Date: snap.Date, Incomplete: snap.Incomplete}
	total := decimal.Zero
	for _, a := range ordered {
		rowTotal := cash[a].Add(positions[a])
		total = total.Add(rowTotal)
		report.Rows = append(report.Rows, BalanceRow{
			Account:   a,
			Cash:      Dollars(cash[a]),
			Positions: Dollars(positions[a]),
			Total:     Dollars(rowTotal),
		})
	}
	report.Total = Dollars(total)
	return report, nil
}

// ValuationRow is the market value of one holding. The Ticker is "CASH"
// for the merged cash row of an account.
type ValuationRow struct {
	Account  string
	Ticker   string
	Position Quantity
	Price    decimal.Decimal
	Value    Money
	Futures  bool
}

// ValuationReport lists per-holding market values as of a date.
type ValuationReport struct {
	Date       date.Date
	Rows       []ValuationRow
	Total      Money
	Incomplete bool
}

// Valuations computes the market value of every holding as of a date.
//
// Stock-like positions are valued at quantity times price times
// contract size. Futures positions are margin positions, not assets:
// their row carries only the unrealized part, quantity times (price
// minus average open price) times contract size, since the realized
// part already settled into cash. Money-market style tickers on the
// cash-equivalent exchange fold into their account's CASH row.
func (e *Engine) Valuations(on date.Date, account string) (*ValuationReport, error) {
	snap, err := e.PnLAsOf(on, account)
	if err != nil {
		return nil, err
	}

	report := &ValuationReport{Date: snap.Date, Incomplete: snap.Incomplete}
	cash := make(map[string]decimal.Decimal)
	for _, c := range snap.Cash {
		cash[c.Account] = c.Balance.Amount()
	}

	total := decimal.Zero
	for _, row := range snap.Rows {
		if !row.PriceKnown {
			report.Rows = append(report.Rows, ValuationRow{
				Account:  row.Account,
				Ticker:   row.Ticker,
				Position: row.Position,
				Futures:  row.Futures,
			})
			continue
		}
		m := e.marketOrDefault(row.Ticker)
		if m.IsCashEquivalent() {
			cash[row.Account] = cash[row.Account].Add(row.Value.Amount())
			continue
		}
		value := row.Value.Amount()
		if row.Futures {
			wap, werr := e.AvgOpenPrice(row.Account, row.Ticker, snap.Date)
			if werr != nil {
				return nil, werr
			}
			value = row.Position.Decimal().Mul(row.Price.Sub(wap)).Mul(m.ContractSize)
		}
		if isNearZero(value) && row.Position.IsZero() {
			continue
		}
		total = total.Add(value)
		report.Rows = append(report.Rows, ValuationRow{
			Account:  row.Account,
			Ticker:   row.Ticker,
			Position: row.Position,
			Price:    row.Price,
			Value:    Dollars(value),
			Futures:  row.Futures,
		})
	}

	accounts := make([]string, 0, len(cash))
	for a := range cash {
		accounts = append(accounts, a)
	}
	sort.Strings(accounts)
	for _, a := range accounts {
		balance := cash[a]
		if balance.Abs().LessThan(cashEpsilon) {
			continue
		}
		total = total.Add(balance)
		report.Rows = append(report.Rows, ValuationRow{
			Account: a,
			Ticker:  "CASH",
			Value:   Dollars(balance),
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
