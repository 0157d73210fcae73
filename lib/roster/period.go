// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package roster

import (
	"fmt"
	"time"
)

// Period identifies one roster month.
type Period struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// NewPeriod validates year and month.
func NewPeriod(year, month int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, fmt.Errorf("roster: month %d out of range 1-12", month)
	}
	if year < 1 || year > 9999 {
		return Period{}, fmt.Errorf("roster: year %d out of range", year)
	}
	return Period{Year: year, Month: time.Month(month)}, nil
}

// PeriodOf returns the period containing t, in t's location.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// ParsePeriod parses "YYYY-MM".
func ParsePeriod(text string) (Period, error) {
	parsed, err := time.Parse("2006-01", text)
	if err != nil {
		return Period{}, fmt.Errorf("roster: period %q is not YYYY-MM", text)
	}
	return PeriodOf(parsed), nil
}

func (period Period) String() string {
	return fmt.Sprintf("%04d-%02d", period.Year, int(period.Month))
}

// IsZero reports whether the period is unset.
func (period Period) IsZero() bool { return period.Year == 0 && period.Month == 0 }

// Days returns the number of days in the month.
func (period Period) Days() int {
	return period.first().AddDate(0, 1, -1).Day()
}

// Date returns the UTC midnight of day (1-based) in the period.
func (period Period) Date(day int) time.Time {
	return period.first().AddDate(0, 0, day-1)
}

// Weekday returns the weekday of day (1-based).
func (period Period) Weekday(day int) time.Weekday {
	return period.Date(day).Weekday()
}

// AddMonths returns the period n months later (earlier for n < 0).
func (period Period) AddMonths(n int) Period {
	return PeriodOf(period.first().AddDate(0, n, 0))
}

// MonthsAfter returns how many months period lies after other.
// Negative when period is earlier.
func (period Period) MonthsAfter(other Period) int {
	return (period.Year-other.Year)*12 + int(period.Month) - int(other.Month)
}

// Contains reports whether date falls in the period, comparing the
// calendar date in date's own location.
func (period Period) Contains(date time.Time) bool {
	return period.Year == date.Year() && period.Month == date.Month()
}

func (period Period) first() time.Time {
	return time.Date(period.Year, period.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Calendar classifies days as working days or rest days. Rest days
// are Saturdays, Sundays, and configured public holidays; the rule set
// applies weekend staffing targets on rest days.
type Calendar struct {
	holidays map[civilDate]string
}

type civilDate struct {
	year  int
	month time.Month
	day   int
}

// Holiday is a named public holiday.
type Holiday struct {
	Date time.Time
	Name string
}

// NewCalendar builds a calendar with the given holidays. Only the
// calendar date of each holiday is used.
func NewCalendar(holidays ...Holiday) Calendar {
	calendar := Calendar{holidays: make(map[civilDate]string, len(holidays))}
	for _, holiday := range holidays {
		date := civilDate{holiday.Date.Year(), holiday.Date.Month(), holiday.Date.Day()}
		calendar.holidays[date] = holiday.Name
	}
	return calendar
}

// IsWeekend reports whether day falls on a Saturday or Sunday.
func (calendar Calendar) IsWeekend(period Period, day int) bool {
	weekday := period.Weekday(day)
	return weekday == time.Saturday || weekday == time.Sunday
}

// Holiday returns the holiday name for day, if it is one.
func (calendar Calendar) Holiday(period Period, day int) (string, bool) {
	name, ok := calendar.holidays[civilDate{period.Year, period.Month, day}]
	return name, ok
}

// IsRestDay reports whether weekend staffing targets apply on day.
func (calendar Calendar) IsRestDay(period Period, day int) bool {
	if calendar.IsWeekend(period, day) {
		return true
	}
	_, holiday := calendar.Holiday(period, day)
	return holiday
}

// RestDays counts the rest days in the period. This is the number of
// off days every nurse is owed for the month.
func (calendar Calendar) RestDays(period Period) int {
	count := 0
	for day := 1; day <= period.Days(); day++ {
		if calendar.IsRestDay(period, day) {
			count++
		}
	}
	return count
}
