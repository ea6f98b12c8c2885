// Package core provides the domain types shared by every other package:
// transactions, savings goals, calendar days and money amounts.
package core

import (
	"errors"
	"fmt"
	"time"
)

// Date is a civil calendar day: a (year, month, day) tuple with no
// time-of-day or timezone offset. It is stored as midnight UTC so that
// calendar arithmetic (AddDate, Sub) stays exact across DST shifts.
type Date struct {
	time.Time
}

// MonthKey identifies a calendar month as "YYYY-MM".
type MonthKey string

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar day in the given location.
func DateOf(t time.Time, loc *time.Location) Date {
	y, m, d := t.In(loc).Date()
	return NewDate(y, int(m), d)
}

// ParseDay converts an externally supplied date string to a calendar day.
//
// A bare "YYYY-MM-DD" string is taken literally, with no timezone
// conversion. A full timestamp is reduced to the date components of its
// UTC instant. The UTC reduction trades timezone precision for
// determinism and is relied on by stored data; do not change it.
func ParseDay(s string) (Date, error) {
	if s == "" {
		return Date{}, errors.New("empty date")
	}
	if len(s) == len("2006-01-02") {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return Date{}, fmt.Errorf("parse calendar day %q: %w", s, err)
		}
		return Date{Time: t}, nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			u := t.UTC()
			return NewDate(u.Year(), int(u.Month()), u.Day()), nil
		}
	}
	return Date{}, fmt.Errorf("unrecognized date %q", s)
}

// DaysBetween returns b minus a in whole calendar days. Both operands are
// already day-truncated, so the division is exact.
func DaysBetween(a, b Date) int {
	return int(b.Time.Sub(a.Time) / (24 * time.Hour))
}

// Day returns the day of the month.
func (d Date) Day() int { return d.Time.Day() }

// Month returns the month as 1-12.
func (d Date) Month() int { return int(d.Time.Month()) }

// Year returns the year.
func (d Date) Year() int { return d.Time.Year() }

// IsEmpty reports whether the date is absent (optional dates are zero).
func (d Date) IsEmpty() bool { return d.IsZero() }

// SameDay compares only the (year, month, day) tuple.
func (d Date) SameDay(o Date) bool {
	return d.Year() == o.Year() && d.Month() == o.Month() && d.Day() == o.Day()
}

// SameMonth compares only the (year, month) tuple.
func (d Date) SameMonth(o Date) bool {
	return d.Year() == o.Year() && d.Month() == o.Month()
}

// Before reports whether d falls on an earlier calendar day than o.
func (d Date) Before(o Date) bool { return d.Time.Before(o.Time) }

// After reports whether d falls on a later calendar day than o.
func (d Date) After(o Date) bool { return d.Time.After(o.Time) }

// AddDays steps the day forward (or back, for negative n).
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// AddMonths steps by calendar months using the standard library rollover:
// the 31st stepped into a shorter month lands in the next month's early
// days. That rollover is the accepted series behavior, not a defect.
func (d Date) AddMonths(n int) Date {
	return Date{Time: d.Time.AddDate(0, n, 0)}
}

// AddYears steps by calendar years, with the same rollover behavior for
// February 29th anchors.
func (d Date) AddYears(n int) Date {
	return Date{Time: d.Time.AddDate(n, 0, 0)}
}

// Key returns the month key ("YYYY-MM") the date falls in.
func (d Date) Key() MonthKey {
	return MonthKey(d.Time.Format("2006-01"))
}

// MonthStart returns the first day of the date's month.
func (d Date) MonthStart() Date {
	return NewDate(d.Year(), d.Month(), 1)
}

// MonthEnd returns the last day of the date's month.
func (d Date) MonthEnd() Date {
	return NewDate(d.Year(), d.Month()+1, 0)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time.Format("2006-01-02")
}

// MarshalJSON renders the date as "YYYY-MM-DD", or null when absent.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Time.Format("2006-01-02") + `"`), nil
}

// UnmarshalJSON accepts null, "YYYY-MM-DD" or a full timestamp string.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		*d = Date{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date literal %s", s)
	}
	parsed, err := ParseDay(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
