package worth

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/worthtracker/worth/date"
)

// Trade is one fill in the ledger: a signed quantity of a ticker traded
// at a price, with the commission paid. Trades are immutable once
// settled; the only amendment path is an upsert keyed by ExternalID when
// an external feed re-sends the same fill.
type Trade struct {
	Account    string
	Ticker     string
	Time       time.Time
	Quantity   decimal.Decimal // signed, positive buys
	Price      decimal.Decimal
	Commission decimal.Decimal
	// Reinvest marks trades that move shares without moving real cash:
	// dividend reinvestments, splits, stock dividends.
	Reinvest   bool
	Note       string
	ExternalID string
}

func (t Trade) String() string {
	return fmt.Sprintf("%s %s %s %s @ %s", t.Time.Format(time.DateTime), t.Account, t.Ticker, t.Quantity, t.Price)
}

// CashImpact returns the cash the trade consumed or released, excluding
// commission: -quantity * price.
func (t Trade) CashImpact() decimal.Decimal {
	return t.Quantity.Mul(t.Price).Neg()
}

// CashRecord is a non-trade cash movement: deposit, transfer, fee.
type CashRecord struct {
	Account     string
	Date        date.Date
	Category    string
	Description string
	Amount      decimal.Decimal // signed
	Cleared     bool
	// Ignored records are excluded from all PnL and balance math.
	Ignored bool
}

func (c CashRecord) String() string {
	return fmt.Sprintf("%s %s %s %s", c.Date, c.Account, c.Category, c.Amount)
}

// TradeFilter narrows a ledger read. Zero fields do not filter.
type TradeFilter struct {
	Account string
	Ticker  string
	// AsOf keeps trades whose timestamp falls on or before this calendar
	// date in the ledger's accounting time zone.
	AsOf date.Date
}

// CashFilter narrows a cash-record read. Zero fields do not filter.
type CashFilter struct {
	Account string
	AsOf    date.Date
}

// LedgerReader is the engine's read interface onto the trade and cash
// ledger. Implementations return trades in chronological order and
// exclude ignored cash records.
type LedgerReader interface {
	Trades(f TradeFilter) ([]Trade, error)
	CashRecords(f CashFilter) ([]CashRecord, error)
}
