package renderer

import (
	"fmt"
	"strings"

	"github.com/worthtracker/worth"
)

// DailyMarkdown renders a daily PnL series, one row per business day.
func DailyMarkdown(r *worth.DailyReport) string {
	var b strings.Builder

	scope := r.Account
	if scope == "" {
		scope = "all accounts"
	}
	fmt.Fprintf(&b, "# Daily PnL %s (%s to %s)\n\n", scope, r.Range.From, r.Range.To)

	fmt.Fprintln(&b, "| Day | PnL |")
	fmt.Fprintln(&b, "|:---|---:|")
	for _, row := range r.Days {
		fmt.Fprintf(&b, "| %s | %s |\n", row.Date, cell(row.PnL, row.Known))
	}
	fmt.Fprintf(&b, "| **Total** | **%s** |\n", r.Total.SignedString())

	if r.Incomplete {
		fmt.Fprintf(&b, "\nDays marked %q lacked a price and are excluded from the total.\n", unknown)
	}
	return b.String()
}
