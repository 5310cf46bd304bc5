package date

import "time"

// Range represents a range of dates.
type Range struct{ From, To Date }

// Year returns the calendar year range, French fiscal years are calendar years.
func Year(year int) Range {
	return Range{From: New(year, time.January, 1), To: New(year, time.December, 31)}
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return (!date.Before(r.From) && !date.After(r.To)) }

func (r Range) String() string { return r.From.String() + ".." + r.To.String() }
