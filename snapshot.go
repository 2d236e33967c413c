package worth

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/worthtracker/worth/date"
)

// PnLRow is the as-of state of one (account, ticker): net position,
// mark price, market value and profit-and-loss since inception.
type PnLRow struct {
	Account  string
	Ticker   string
	Position Quantity
	Price    decimal.Decimal
	// PriceKnown is false when no price was available after fallback;
	// the row's value and pnl are then unknown, never silently zero.
	PriceKnown bool
	Value      Money
	PnL        Money
	Futures    bool
}

// CashBalance is the total cash of one account, merging trade cash
// flows with raw cash records.
type CashBalance struct {
	Account string
	Balance Money
}

// PnLReport is a point-in-time snapshot of every position and account
// cash balance.
type PnLReport struct {
	Date date.Date
	Rows []PnLRow
	Cash []CashBalance
	// TotalWorth sums non-futures position values and all account cash.
	// Futures value already lives in the cash balances and is not
	// counted again.
	TotalWorth Money
	// Incomplete is true when at least one row lacks a price.
	Incomplete bool
}

// CashFor returns the cash balance of one account in the report.
func (r *PnLReport) CashFor(account string) Money {
	for _, c := range r.Cash {
		if c.Account == account {
			return c.Balance
		}
	}
	return M(0, USD)
}

// tickerAgg accumulates the per-(account, ticker) trade aggregates the
// snapshot builder needs in a single pass over the ledger.
type tickerAgg struct {
	account  string
	ticker   string
	quantity decimal.Decimal // net signed quantity
	qp       decimal.Decimal // sum of quantity * price
	comm     decimal.Decimal // sum of all commissions
	// raw cash flow of the non-reinvestment subset. Reinvestment trades
	// move shares without real cash, so neither their -q*p nor their
	// commission counts as cash flow. A commission recorded on a
	// reinvestment leg still reduces pnl like any other.
	rawCash decimal.Decimal // sum of -quantity * price, non-reinvest only
	rawComm decimal.Decimal // commissions of the non-reinvest subset
}

// aggregate groups trades per (account, ticker), preserving first-seen order.
func aggregate(trades []Trade) []*tickerAgg {
	type key struct{ account, ticker string }
	index := make(map[key]*tickerAgg)
	var order []*tickerAgg
	for _, t := range trades {
		k := key{t.Account, t.Ticker}
		agg, ok := index[k]
		if !ok {
			agg = &tickerAgg{account: t.Account, ticker: t.Ticker}
			index[k] = agg
			order = append(order, agg)
		}
		agg.quantity = agg.quantity.Add(t.Quantity)
		agg.qp = agg.qp.Add(t.Quantity.Mul(t.Price))
		agg.comm = agg.comm.Add(t.Commission)
		if !t.Reinvest {
			agg.rawCash = agg.rawCash.Add(t.CashImpact())
			agg.rawComm = agg.rawComm.Add(t.Commission)
		}
	}
	return order
}

// PnLAsOf computes, per (account, ticker), the net position, mark
// price, market value and PnL as of a date, plus each account's total
// cash balance. A zero date means today. An empty account means all
// accounts.
//
// Cash attribution differs by instrument class: futures PnL is already
// cash-settled, so the entire pnl flows into account cash; for
// non-futures only the raw cash flow of the trades does, because the
// unrealized value of a stock position is not cash until sold.
func (e *Engine) PnLAsOf(on date.Date, account string) (*PnLReport, error) {
	if on.IsZero() {
		on = e.today()
	}
	return e.pnlAsOf(on, account, newMemoPrices(e.Prices))
}

func (e *Engine) pnlAsOf(on date.Date, account string, memo *memoPrices) (*PnLReport, error) {
	trades, err := e.Ledger.Trades(TradeFilter{Account: account, AsOf: on})
	if err != nil {
		return nil, fmt.Errorf("could not read trades: %w", err)
	}
	records, err := e.Ledger.CashRecords(CashFilter{Account: account, AsOf: on})
	if err != nil {
		return nil, fmt.Errorf("could not read cash records: %w", err)
	}

	report := &PnLReport{Date: on}
	cash := make(map[string]decimal.Decimal)
	for _, rec := range records {
		cash[rec.Account] = cash[rec.Account].Add(rec.Amount)
	}

	for _, agg := range aggregate(trades) {
		m := e.marketOrDefault(agg.ticker)
		cs := m.ContractSize
		pos := agg.quantity

		price := decimal.Zero
		known := true
		pnl := agg.qp.Neg()
		if !isNearZero(pos) {
			p, perr := memo.Price(agg.ticker, on)
			var missing *MissingPriceError
			switch {
			case perr == nil:
				price = p
				pnl = pnl.Add(pos.Mul(price))
			case errors.As(perr, &missing):
				known = false
			default:
				return nil, perr
			}
		}
		pnl = pnl.Mul(cs).Sub(agg.comm)
		value := cs.Mul(pos).Mul(price)

		// Non-futures cash flow does not depend on the mark price and
		// is attributed even when the price is unknown.
		if m.IsFutures() {
			if known {
				cash[agg.account] = cash[agg.account].Add(pnl)
			}
		} else {
			flow := cs.Mul(agg.rawCash).Sub(agg.rawComm)
			cash[agg.account] = cash[agg.account].Add(flow)
		}

		if !known {
			report.Incomplete = true
		}
		if isNearZero(pos) && isNearZero(pnl) {
			continue // long-closed position with nothing left to report
		}
		report.Rows = append(report.Rows, PnLRow{
			Account:    agg.account,
			Ticker:     agg.ticker,
			Position:   Q(pos),
			Price:      price,
			PriceKnown: known,
			Value:      Dollars(value),
			PnL:        Dollars(pnl),
			Futures:    m.IsFutures(),
		})
	}

	sort.SliceStable(report.Rows, func(i, j int) bool {
		if report.Rows[i].Account != report.Rows[j].Account {
			return report.Rows[i].Account < report.Rows[j].Account
		}
		return report.Rows[i].Ticker < report.Rows[j].Ticker
	})

	total := decimal.Zero
	for _, row := range report.Rows {
		if !row.Futures && row.PriceKnown {
			total = total.Add(row.Value.Amount())
		}
	}
	accounts := make([]string, 0, len(cash))
	for a := range cash {
		accounts = append(accounts, a)
	}
	sort.Strings(accounts)
	for _, a := range accounts {
		balance := cash[a]
		total = total.Add(balance)
		if balance.Abs().LessThan(cashEpsilon) {
			continue
		}
		report.Cash = append(report.Cash, CashBalance{Account: a, Balance: Dollars(balance)})
	}
	report.TotalWorth = Dollars(total)
	return report, nil
}

// reconcileEpsilon is the tolerance for the cash reconciliation check.
var reconcileEpsilon = decimal.New(1, -6)

// Reconcile verifies the engine's central invariant: for every account,
// the cash balance produced by the snapshot builder equals the raw cash
// record totals plus the per-trade cash flows, recomputed here
// trade-by-trade without grouping. A divergence beyond epsilon means a
// bug upstream and is returned as a *ReconciliationError.
func (e *Engine) Reconcile(on date.Date) error {
	if on.IsZero() {
		on = e.today()
	}
	memo := newMemoPrices(e.Prices)
	report, err := e.pnlAsOf(on, "", memo)
	if err != nil {
		return err
	}

	trades, err := e.Ledger.Trades(TradeFilter{AsOf: on})
	if err != nil {
		return err
	}
	records, err := e.Ledger.CashRecords(CashFilter{AsOf: on})
	if err != nil {
		return err
	}

	direct := make(map[string]decimal.Decimal)
	for _, rec := range records {
		direct[rec.Account] = direct[rec.Account].Add(rec.Amount)
	}
	// Cash flow of every individual trade. Futures flows are held back
	// per (account, ticker): an open position needs its mark-to-market
	// leg, and when no mark exists the snapshot builder attributed
	// nothing for the ticker, so this pass must not either.
	type key struct{ account, ticker string }
	futuresFlow := make(map[key]decimal.Decimal)
	futuresPos := make(map[key]decimal.Decimal)
	for _, t := range trades {
		m := e.marketOrDefault(t.Ticker)
		cs := m.ContractSize
		if m.IsFutures() {
			k := key{t.Account, t.Ticker}
			futuresFlow[k] = futuresFlow[k].Add(cs.Mul(t.CashImpact())).Sub(t.Commission)
			futuresPos[k] = futuresPos[k].Add(t.Quantity)
		} else if !t.Reinvest {
			direct[t.Account] = direct[t.Account].Add(cs.Mul(t.CashImpact())).Sub(t.Commission)
		}
	}
	for k, settled := range futuresFlow {
		if pos := futuresPos[k]; !isNearZero(pos) {
			price, perr := memo.Price(k.ticker, on)
			if perr != nil {
				var missing *MissingPriceError
				if errors.As(perr, &missing) {
					continue // neither path settled this ticker
				}
				return perr
			}
			cs := e.marketOrDefault(k.ticker).ContractSize
			settled = settled.Add(cs.Mul(pos).Mul(price))
		}
		direct[k.account] = direct[k.account].Add(settled)
	}

	for account, want := range direct {
		got := report.CashFor(account).Amount()
		if want.Abs().LessThan(cashEpsilon) && got.IsZero() {
			continue // balance too small to have been reported
		}
		if got.Sub(want).Abs().GreaterThan(reconcileEpsilon) {
			return &ReconciliationError{Account: account, Computed: got, Ledger: want}
		}
	}
	return nil
}
