package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidSchoolYear = errors.New("the school year must be in YYYY-YYYY format with consecutive years")

// SchoolYearStartMonth is the first month of every school year.
const SchoolYearStartMonth = time.September

// SchoolYear is a school year key in "YYYY-YYYY" format. It runs from
// September 1st of the first year to August 31st of the second.
type SchoolYear string

// NewSchoolYear returns the school year starting in September of startYear.
func NewSchoolYear(startYear int) SchoolYear {
	return SchoolYear(fmt.Sprintf("%04d-%04d", startYear, startYear+1))
}

// SchoolYearOf returns the school year the calendar date of t belongs to.
func SchoolYearOf(t time.Time) SchoolYear {
	if t.Month() >= SchoolYearStartMonth {
		return NewSchoolYear(t.Year())
	}

	return NewSchoolYear(t.Year() - 1)
}

// ParseSchoolYear parses and validates a "YYYY-YYYY" string.
func ParseSchoolYear(s string) (SchoolYear, error) {
	start, end, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok || len(start) != 4 || len(end) != 4 {
		return "", fmt.Errorf("%w: %q", ErrInvalidSchoolYear, s)
	}

	startYear, err := strconv.Atoi(start)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidSchoolYear, s)
	}

	endYear, err := strconv.Atoi(end)
	if err != nil || endYear != startYear+1 {
		return "", fmt.Errorf("%w: %q", ErrInvalidSchoolYear, s)
	}

	return NewSchoolYear(startYear), nil
}

// StartYear returns the calendar year in which the school year starts.
// It returns 0 for malformed keys.
func (s SchoolYear) StartYear() int {
	start, _, _ := strings.Cut(string(s), "-")
	year, err := strconv.Atoi(start)
	if err != nil {
		return 0
	}

	return year
}

// First returns September of the start year.
func (s SchoolYear) First() Month {
	return NewMonth(s.StartYear(), SchoolYearStartMonth)
}

// Last returns August of the end year.
func (s SchoolYear) Last() Month {
	return s.First().AddDate(0, 11)
}

func (s SchoolYear) String() string {
	return string(s)
}

// MonthsOf returns the twelve months of the school year in calendar order,
// September to December of the start year followed by January to August.
func MonthsOf(s SchoolYear) []Month {
	months := make([]Month, 0, 12)
	first := s.First()
	for i := 0; i < 12; i++ {
		months = append(months, first.AddDate(0, i))
	}

	return months
}

// MonthsFrom returns the months of the school year at or after from.
func MonthsFrom(s SchoolYear, from Month) []Month {
	if from.After(s.Last()) {
		return nil
	}

	var months []Month
	for _, m := range MonthsOf(s) {
		if !m.Before(from) {
			months = append(months, m)
		}
	}

	return months
}
