package date

import "fmt"

// Range represents an inclusive range of dates.
type Range struct{ From, To Date }

// NewRange returns the range [from, to]. It panics if from is after to.
func NewRange(from, to Date) Range {
	if from.After(to) {
		panic(fmt.Sprintf("invalid range: %s is after %s", from, to))
	}
	return Range{From: from, To: to}
}

// Year returns the range covering the whole calendar year.
func Year(year int) Range {
	return Range{From: New(year, 1, 1), To: New(year, 12, 31)}
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return (!date.Before(r.From) && !date.After(r.To)) }

// Days returns an iterator over every calendar day in the range.
func (r Range) Days() func(yield func(Date) bool) {
	return func(yield func(Date) bool) {
		for on := r.From; !on.After(r.To); on = on.Add(1) {
			if !yield(on) {
				return
			}
		}
	}
}
