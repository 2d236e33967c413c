package renderer

import (
	"fmt"
	"strings"

	"github.com/worthtracker/worth"
)

// PnLMarkdown renders an as-of snapshot: one row per open or
// still-relevant position, the per-account cash balances, and the
// total worth line.
func PnLMarkdown(r *worth.PnLReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# PnL as of %s\n\n", r.Date)

	if len(r.Rows) > 0 {
		fmt.Fprintln(&b, "| Account | Ticker | Position | Price | Value | PnL |")
		fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|")
		for _, row := range r.Rows {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
				row.Account,
				row.Ticker,
				row.Position,
				priceCell(row),
				cell(row.Value, row.PriceKnown),
				cell(row.PnL, row.PriceKnown),
			)
		}
		fmt.Fprintln(&b)
	}

	if len(r.Cash) > 0 {
		fmt.Fprintln(&b, "## Cash")
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "| Account | Balance |")
		fmt.Fprintln(&b, "|:---|---:|")
		for _, c := range r.Cash {
			fmt.Fprintf(&b, "| %s | %s |\n", c.Account, c.Balance)
		}
		fmt.Fprintln(&b)
	}

	fmt.Fprintf(&b, "**Total worth: %s**\n", r.TotalWorth)
	if r.Incomplete {
		fmt.Fprintf(&b, "\nSome prices were unavailable; rows marked %q are excluded from the total.\n", unknown)
	}
	return b.String()
}

func priceCell(row worth.PnLRow) string {
	if !row.PriceKnown {
		return unknown
	}
	if row.Price.IsZero() {
		return "-"
	}
	return price(row.Price, 2)
}
