package calendar

import (
	"strings"
	"time"
)

const (
	isoLayout   = "2006-01-02"
	longLayout  = "January 2, 2006"
	shortLayout = "Jan 2, 2006"
)

// Date is a calendar day with no meaningful time of day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// New builds a Date, normalizing out-of-range values the way time.Date does
// (e.g. April 31 becomes May 1).
func New(year int, month time.Month, day int) Date {
	return FromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// FromTime takes the wall-clock date of t in t's own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the local calendar day of now. Callers pass the clock in so
// the midnight boundary stays testable.
func Today(now time.Time) Date {
	return FromTime(now)
}

// Parse reads an ISO yyyy-mm-dd date. A full RFC 3339 timestamp is accepted
// too, keeping only its date part. Anything else reports ok=false.
func Parse(s string) (Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, false
	}
	if t, err := time.Parse(isoLayout, s); err == nil {
		return FromTime(t), true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return FromTime(t), true
	}
	return Date{}, false
}

// ParseLong reads the long display form ("March 14, 2025"), falling back to
// the short form ("Mar 14, 2025").
func ParseLong(s string) (Date, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{longLayout, shortLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return FromTime(t), true
		}
	}
	return Date{}, false
}

func (d Date) utc() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// In returns midnight of d in loc.
func (d Date) In(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// String returns the canonical yyyy-mm-dd form.
func (d Date) String() string {
	return d.utc().Format(isoLayout)
}

// Long returns "January 2, 2006".
func (d Date) Long() string {
	return d.utc().Format(longLayout)
}

// Short returns "Jan 2, 2006".
func (d Date) Short() string {
	return d.utc().Format(shortLayout)
}

func (d Date) Weekday() time.Weekday {
	return d.utc().Weekday()
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// Compare returns -1, 0 or 1 ordering d against o by day only.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return sign(d.Year - o.Year)
	case d.Month != o.Month:
		return sign(int(d.Month) - int(o.Month))
	default:
		return sign(d.Day - o.Day)
	}
}

func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }
func (d Date) After(o Date) bool  { return d.Compare(o) > 0 }
func (d Date) Equal(o Date) bool  { return d.Compare(o) == 0 }

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
