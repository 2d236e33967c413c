package renderer

import (
	"fmt"
	"strings"

	"github.com/worthtracker/worth"
)

// GainsMarkdown renders the realized gains of one tax year.
func GainsMarkdown(r *worth.GainsReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Realized Gains %d\n\n", r.Year)

	if len(r.Rows) == 0 {
		fmt.Fprintln(&b, "No taxable gains realized.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Account | Ticker | Class | Gain |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|")
	for _, row := range r.Rows {
		class := "stock"
		if row.Futures {
			class = "futures"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", row.Account, row.Ticker, class, row.Gain.SignedString())
	}
	fmt.Fprintf(&b, "| **Total** | | | **%s** |\n", r.Total.SignedString())

	if r.Incomplete {
		fmt.Fprintln(&b, "\nSome futures positions lacked a year-end mark and are excluded.")
	}
	return b.String()
}
