// Package renderer turns engine reports into markdown tables for the
// CLI (which pipes them through a terminal renderer) and for publishing
// snapshots into notes.
package renderer

import (
	"github.com/shopspring/decimal"

	"github.com/worthtracker/worth"
)

// unknown is the cell rendered when a price was missing: the value is
// explicitly not a number, never a silent zero.
const unknown = "?"

// price renders a mark price with the market's display precision.
func price(p decimal.Decimal, prec int32) string {
	if prec <= 0 {
		prec = 2
	}
	return p.StringFixed(prec)
}

// cell renders a money value signed, or the unknown marker.
func cell(m worth.Money, known bool) string {
	if !known {
		return unknown
	}
	return m.SignedString()
}
