package renderer

import (
	"fmt"
	"strings"

	"github.com/worthtracker/worth"
)

// ValuationsMarkdown renders per-holding market values.
func ValuationsMarkdown(r *worth.ValuationReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Valuations as of %s\n\n", r.Date)
	fmt.Fprintln(&b, "| Account | Ticker | Position | Price | Value |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|")
	for _, row := range r.Rows {
		position, mark := "", "-"
		if !row.Position.IsZero() {
			position = row.Position.String()
		}
		if !row.Price.IsZero() {
			mark = price(row.Price, 2)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			row.Account, row.Ticker, position, mark, row.Value)
	}
	fmt.Fprintf(&b, "| **Total** | | | | **%s** |\n", r.Total)
	return b.String()
}

// BalancesMarkdown renders per-account cash and position rollups.
func BalancesMarkdown(r *worth.BalanceReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Balances as of %s\n\n", r.Date)
	fmt.Fprintln(&b, "| Account | Cash | Positions | Total |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|")
	for _, row := range r.Rows {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", row.Account, row.Cash, row.Positions, row.Total)
	}
	fmt.Fprintf(&b, "| **Total** | | | **%s** |\n", r.Total)
	return b.String()
}
