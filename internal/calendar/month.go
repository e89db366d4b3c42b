package calendar

import "time"

// Month is the (year, month) pair a calendar view is showing.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing d.
func MonthOf(d Date) Month {
	return Month{Year: d.Year, Month: d.Month}
}

// Next moves exactly one month forward.
func (m Month) Next() Month {
	if m.Month == time.December {
		return Month{Year: m.Year + 1, Month: time.January}
	}
	return Month{Year: m.Year, Month: m.Month + 1}
}

// Prev moves exactly one month back.
func (m Month) Prev() Month {
	if m.Month == time.January {
		return Month{Year: m.Year - 1, Month: time.December}
	}
	return Month{Year: m.Year, Month: m.Month - 1}
}

func (m Month) Days() int {
	return DaysInMonth(m.Year, m.Month)
}

func (m Month) FirstWeekday() int {
	return FirstWeekday(m.Year, m.Month)
}

// Date returns the given day of m.
func (m Month) Date(day int) Date {
	return Date{Year: m.Year, Month: m.Month, Day: day}
}

func (m Month) Contains(d Date) bool {
	return d.Year == m.Year && d.Month == m.Month
}

// Title returns "January 2006".
func (m Month) Title() string {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
}

// DaysInMonth follows the proleptic Gregorian calendar.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the following month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekday returns the weekday index (0 = Sunday) of the month's first day.
func FirstWeekday(year int, month time.Month) int {
	return int(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday())
}
