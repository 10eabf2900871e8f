// Package types implements the period value types of the ledger.
package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidYearMonth = errors.New("the month must be in YYYY-MM format")

// YearMonth is a calendar month key in "YYYY-MM" format.
type YearMonth string

// Month is a month in a specific year.
type Month time.Time

// NewMonth returns a new Month.
func NewMonth(year int, month time.Month) Month {
	return Month(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
}

// MonthOf returns the Month of the calendar date of t in t's own location.
func MonthOf(t time.Time) Month {
	year, month, _ := t.Date()
	return NewMonth(year, month)
}

// YearMonthOf returns the "YYYY-MM" key for the calendar date of t.
func YearMonthOf(t time.Time) YearMonth {
	return MonthOf(t).YearMonth()
}

// ParseYearMonth parses a "YYYY-MM" string.
func ParseYearMonth(s string) (YearMonth, error) {
	m, err := ParseMonth(s)
	if err != nil {
		return "", err
	}

	return m.YearMonth(), nil
}

// ParseMonth parses a "YYYY-MM" string and returns the Month value it represents.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidYearMonth, s)
	}

	return MonthOf(t), nil
}

// Month returns the Month the key represents. Invalid keys return the zero Month.
func (y YearMonth) Month() Month {
	m, _ := ParseMonth(string(y))
	return m
}

func (y YearMonth) String() string {
	return string(y)
}

// String returns the month formatted as YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", time.Time(m).Year(), time.Time(m).Month())
}

// YearMonth returns the key of the month.
func (m Month) YearMonth() YearMonth {
	return YearMonth(m.String())
}

// FirstDay returns 00:00 UTC on the first day of the month.
func (m Month) FirstDay() time.Time {
	return time.Time(m)
}

// IsZero reports if the month is the zero value.
func (m Month) IsZero() bool {
	return time.Time(m).IsZero()
}

// AddDate adds a specified amount of years and months.
func (m Month) AddDate(years, months int) Month {
	return Month(time.Time(m).AddDate(years, months, 0))
}

// Before reports whether the month m is before n.
func (m Month) Before(n Month) bool {
	return time.Time(m).Before(time.Time(n))
}

// After reports whether the month m is after n.
func (m Month) After(n Month) bool {
	return time.Time(m).After(time.Time(n))
}

// MarshalJSON encodes the month as its "YYYY-MM" key.
func (m Month) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts "YYYY-MM" as well as full dates and RFC3339 timestamps.
// Everything except the year and month is ignored.
func (m *Month) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`)
	if value == "" || value == "null" {
		return nil
	}

	for _, layout := range []string{"2006-01", "2006-01-02", time.RFC3339} {
		t, err := time.Parse(layout, value)
		if err == nil {
			*m = MonthOf(t)
			return nil
		}
	}

	return fmt.Errorf("%w: %q", ErrInvalidYearMonth, value)
}
