package worth

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/worthtracker/worth/date"
)

// TradeLeg is the minimal view of a trade the lot matcher needs: a
// dated, signed quantity at a price.
type TradeLeg struct {
	On       date.Date
	Quantity decimal.Decimal
	Price    decimal.Decimal
	// Adjustment marks zero-price reinvestment legs (splits, reverse
	// splits, stock dividends) that move shares without moving cash.
	Adjustment bool
}

// legsOf converts trades to matcher legs, dating each leg by its
// timestamp's calendar date in the given time zone. Trades must already
// be in chronological order.
func legsOf(trades []Trade, loc *time.Location) []TradeLeg {
	legs := make([]TradeLeg, 0, len(trades))
	for _, t := range trades {
		legs = append(legs, TradeLeg{
			On:         date.FromTime(t.Time.In(loc)),
			Quantity:   t.Quantity,
			Price:      t.Price,
			Adjustment: t.Reinvest && t.Price.IsZero(),
		})
	}
	return legs
}

// lot is a single open purchase (or short sale) of an instrument. The
// quantity keeps the lot's direction: positive for long lots, negative
// for short ones.
type lot struct {
	on       date.Date
	quantity decimal.Decimal
	price    decimal.Decimal
}

type lots []lot

// net returns the signed sum of open quantities.
func (l lots) net() decimal.Decimal {
	total := decimal.Zero
	for _, lt := range l {
		total = total.Add(lt.quantity)
	}
	return total
}

// wap returns the weighted-average price of the open quantity,
// sum(quantity_i * price_i) / sum(quantity_i), or zero when the net
// position is flat.
func (l lots) wap() decimal.Decimal {
	pos := l.net()
	if isNearZero(pos) {
		return decimal.Zero
	}
	qp := decimal.Zero
	for _, lt := range l {
		qp = qp.Add(lt.quantity.Mul(lt.price))
	}
	return qp.Div(pos)
}

// rescale adjusts open lot quantities from oldPos to newPos while
// preserving each lot's cost, so that WAP x quantity is invariant
// across a split or reverse split.
func (l lots) rescale(newPos, oldPos decimal.Decimal) lots {
	if isNearZero(newPos) {
		return nil
	}
	factor := newPos.Div(oldPos)
	out := make(lots, 0, len(l))
	for _, lt := range l {
		out = append(out, lot{
			on:       lt.on,
			quantity: lt.quantity.Mul(factor),
			price:    lt.price.Div(factor),
		})
	}
	return out
}

// closure records one LIFO match of a disposal against an open lot.
type closure struct {
	on       date.Date       // disposal date
	quantity decimal.Decimal // matched quantity, signed as the lot was
	lotPrice decimal.Decimal
	price    decimal.Decimal // disposal price
	// adjustment is true when the disposal leg was a zero-price
	// reinvestment; such closures never realize gains.
	adjustment bool
}

// gain returns the profit locked by the closure, per unit of contract size.
func (c closure) gain() decimal.Decimal {
	return c.quantity.Mul(c.price.Sub(c.lotPrice))
}

// matchLIFO replays chronological legs for one (account, ticker),
// netting each opposite-sign leg against the most recent open lot
// first. It returns the remaining open lots and every closure applied.
//
// Zero-price adjustment legs are basis-preserving: same-direction ones
// enter as zero-cost lots, opposite ones rescale the open lots without
// producing closures.
func matchLIFO(legs []TradeLeg) (open lots, closed []closure) {
	for _, leg := range legs {
		if leg.Quantity.IsZero() {
			continue
		}
		pos := open.net()
		opposite := !pos.IsZero() && leg.Quantity.Sign() != pos.Sign()

		if leg.Adjustment && opposite {
			// Reverse split: shrink the position, keep the cost.
			open = open.rescale(pos.Add(leg.Quantity), pos)
			continue
		}
		if !opposite {
			open = append(open, lot{on: leg.On, quantity: leg.Quantity, price: leg.Price})
			continue
		}

		remaining := leg.Quantity
		for len(open) > 0 && !isNearZero(remaining) {
			top := &open[len(open)-1]
			if top.quantity.Sign() == remaining.Sign() {
				break
			}
			matched := decimal.Min(remaining.Abs(), top.quantity.Abs())
			if top.quantity.IsNegative() {
				matched = matched.Neg()
			}
			closed = append(closed, closure{
				on:         leg.On,
				quantity:   matched,
				lotPrice:   top.price,
				price:      leg.Price,
				adjustment: leg.Adjustment,
			})
			top.quantity = top.quantity.Sub(matched)
			remaining = remaining.Add(matched)
			if isNearZero(top.quantity) {
				open = open[:len(open)-1]
			}
		}
		if !isNearZero(remaining) {
			// The leg was larger than the whole position: it flips.
			open = append(open, lot{on: leg.On, quantity: remaining, price: leg.Price})
		}
	}
	return open, closed
}

// Wap reduces a chronological sequence of legs for one (account,
// ticker) and returns the net open position and its weighted-average
// price. A net position of zero (within epsilon) yields a WAP of zero
// and marks the position closed; closed positions are excluded from
// position reporting.
func Wap(legs []TradeLeg) (position Quantity, wap decimal.Decimal) {
	open, _ := matchLIFO(legs)
	pos := open.net()
	if isNearZero(pos) {
		return Q(decimal.Zero), decimal.Zero
	}
	return Q(pos), open.wap()
}

// AvgOpenPrice returns the weighted-average price of the open position
// in one (account, ticker) as of a date.
func (e *Engine) AvgOpenPrice(account, ticker string, on date.Date) (decimal.Decimal, error) {
	trades, err := e.Ledger.Trades(TradeFilter{Account: account, Ticker: ticker, AsOf: on})
	if err != nil {
		return decimal.Zero, err
	}
	_, wap := Wap(legsOf(trades, e.location()))
	return wap, nil
}
