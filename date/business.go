package date

import (
	"iter"
	"time"
)

// This file implements the business-day calendar used to roll trades and
// price lookups onto days the markets are actually open. Weekends are the
// only non-business days; exchange holidays are handled upstream by price
// fallback, not by the calendar.

// IsBusinessDay reports whether the date falls on a weekday.
func IsBusinessDay(d Date) bool {
	wd := d.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// NextBusinessDay returns the first business day strictly after d.
func NextBusinessDay(d Date) Date {
	for {
		d = d.Add(1)
		if IsBusinessDay(d) {
			return d
		}
	}
}

// PriorBusinessDay returns the last business day strictly before d.
func PriorBusinessDay(d Date) Date {
	for {
		d = d.Add(-1)
		if IsBusinessDay(d) {
			return d
		}
	}
}

// MostRecentBusinessDay returns d if it is a business day, otherwise the prior one.
func MostRecentBusinessDay(d Date) Date {
	if IsBusinessDay(d) {
		return d
	}
	return PriorBusinessDay(d)
}

// EndOfPriorYear returns the last business day of the year before the given one.
func EndOfPriorYear(year int) Date {
	return PriorBusinessDay(New(year, 1, 1))
}

// BusinessDays returns an iterator over every business day in the range.
func BusinessDays(r Range) iter.Seq[Date] {
	return func(yield func(Date) bool) {
		for on := range r.Days() {
			if !IsBusinessDay(on) {
				continue
			}
			if !yield(on) {
				return
			}
		}
	}
}
