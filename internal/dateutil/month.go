// Package dateutil provides calendar month handling for the vacancy API.
// Months are identified by "YYYY-MM" strings on the wire, which sort
// lexicographically in chronological order, and upstream instants use the
// second-precision layout the JobTech search API expects.
package dateutil

import (
	"fmt"
	"time"
)

// InstantLayout is the instant format used by the JobTech historical search
// API for the historical-from and historical-to query parameters.
const InstantLayout = "2006-01-02T15:04:05"

// MonthLayout is the wire format for calendar month identifiers.
const MonthLayout = "2006-01"

// Month is a calendar month. The zero value is not a valid month; construct
// via ParseMonth, MonthOf, or arithmetic on an existing Month.
type Month struct {
	Year int
	Mon  time.Month
}

// ParseMonth parses a "YYYY-MM" string.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return Month{Year: t.Year(), Mon: t.Month()}, nil
}

// MonthOf returns the calendar month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Mon: t.Month()}
}

// ParseInstant parses a "YYYY-MM-DDTHH:MM:SS" instant.
func ParseInstant(s string) (time.Time, error) {
	t, err := time.Parse(InstantLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid instant %q: %w", s, err)
	}
	return t, nil
}

// MonthOfInstant returns the calendar month containing the given instant string.
func MonthOfInstant(s string) (Month, error) {
	t, err := ParseInstant(s)
	if err != nil {
		return Month{}, err
	}
	return MonthOf(t), nil
}

// String renders the month in "YYYY-MM" form.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Mon))
}

// IsZero reports whether m is the zero value.
func (m Month) IsZero() bool {
	return m.Year == 0 && m.Mon == 0
}

// AddMonths returns the month n months after m (n may be negative).
func (m Month) AddMonths(n int) Month {
	// time.Date normalizes out-of-range months.
	t := time.Date(m.Year, m.Mon+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	return Month{Year: t.Year(), Mon: t.Month()}
}

// Next returns the following month.
func (m Month) Next() Month {
	return m.AddMonths(1)
}

// Compare returns -1, 0, or 1 depending on whether m is before, equal to,
// or after o.
func (m Month) Compare(o Month) int {
	switch {
	case m.Year != o.Year:
		if m.Year < o.Year {
			return -1
		}
		return 1
	case m.Mon != o.Mon:
		if m.Mon < o.Mon {
			return -1
		}
		return 1
	default:
		return 0
	}
}

// Before reports whether m is strictly before o.
func (m Month) Before(o Month) bool {
	return m.Compare(o) < 0
}

// After reports whether m is strictly after o.
func (m Month) After(o Month) bool {
	return m.Compare(o) > 0
}

// Start returns the first instant of the month.
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Mon, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the last second of the month (leap years included).
func (m Month) End() time.Time {
	return m.Next().Start().Add(-time.Second)
}

// DateRange returns the start and end instants of the month as upstream
// query strings, e.g. "2024-02" -> ("2024-02-01T00:00:00", "2024-02-29T23:59:59").
func (m Month) DateRange() (from, to string) {
	return m.Start().Format(InstantLayout), m.End().Format(InstantLayout)
}

// MonthsBetween returns every calendar month from from to to inclusive,
// in ascending order. Returns nil when from is after to.
func MonthsBetween(from, to Month) []Month {
	if from.After(to) {
		return nil
	}
	span := (to.Year-from.Year)*12 + int(to.Mon) - int(from.Mon) + 1
	months := make([]Month, 0, span)
	for m := from; !m.After(to); m = m.Next() {
		months = append(months, m)
	}
	return months
}

// DefaultRange returns the default request window: the trailing 12 months
// ending at the month containing now.
func DefaultRange(now time.Time) (from, to Month) {
	to = MonthOf(now)
	return to.AddMonths(-11), to
}
