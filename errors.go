package worth

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/worthtracker/worth/date"
)

// MalformedTradeError reports a trade record that cannot be bucketed or
// valued: a zero timestamp, or a quantity/price that failed to parse.
// Such a trade is fatal to the computation; it is never dropped silently.
type MalformedTradeError struct {
	Account string
	Ticker  string
	Time    time.Time
	Reason  string
}

func (e *MalformedTradeError) Error() string {
	return fmt.Sprintf("malformed trade %s/%s at %s: %s", e.Account, e.Ticker, e.Time, e.Reason)
}

// MissingPriceError reports that no price could be found for a ticker on
// or before a required date, after the source's own fallback. Callers
// surface it as an explicit unknown marker, never as a silent zero.
type MissingPriceError struct {
	Ticker string
	On     date.Date
}

func (e *MissingPriceError) Error() string {
	return fmt.Sprintf("no price for %s as of %s", e.Ticker, e.On)
}

// ReconciliationError reports that the cash balance computed from trade
// cash flows diverges from the raw ledger sums beyond epsilon. It
// indicates an upstream bug and is raised, not swallowed.
type ReconciliationError struct {
	Account  string
	Computed decimal.Decimal
	Ledger   decimal.Decimal
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("cash reconciliation failed for %s: engine %s, ledger %s",
		e.Account, e.Computed, e.Ledger)
}
