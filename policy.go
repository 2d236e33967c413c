package worth

import "github.com/shopspring/decimal"

// Accounting policies that earlier revisions of this tracker disagreed
// on, pinned here so every report applies the same rule.

// CashEquivalentExchange names the exchange class whose tickers are
// folded into the account's CASH row by the valuation builder. PnL
// reports keep every ticker as its own row regardless.
const CashEquivalentExchange = "CASH"

// SplitsRealizeGains controls whether zero-price reinvestment legs
// (splits, reverse splits, stock dividends) may realize gains during lot
// matching. They never do: a split moves shares, not cash.
const SplitsRealizeGains = false

// epsilon below which a position or balance is treated as flat.
var epsilon = decimal.New(1, -10)

// cashEpsilon below which an account cash balance is not worth reporting.
var cashEpsilon = decimal.New(1, -3)

func isNearZero(d decimal.Decimal) bool { return d.Abs().LessThan(epsilon) }
