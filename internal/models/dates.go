package models

import (
	"fmt"
	"time"
)

// DateLayout is the storage and display format of calendar dates.
const DateLayout = "2006-01-02"

// ReleaseHorizonMonths is how far ahead of today an album may be scheduled for release.
const ReleaseHorizonMonths = 6

// DateOf truncates t to its calendar date, expressed at midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current local calendar date.
func Today() time.Time {
	return DateOf(time.Now())
}

// ParseDate parses a "YYYY-MM-DD" date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// AddMonths moves t by whole calendar months, clamping the day to the length of the target month.
//
// Unlike [time.Time.AddDate], August 31 plus six months is February 28 (or 29), not early March.
func AddMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()

	total := int(m) - 1 + months
	y += total / 12
	month := total % 12
	if month < 0 {
		month += 12
		y--
	}

	target := time.Month(month + 1)
	if last := daysIn(y, target); d > last {
		d = last
	}

	return DateOf(time.Date(y, target, d, 0, 0, 0, 0, time.UTC))
}

// ReleaseHorizon is the latest release date accepted on the given day.
func ReleaseHorizon(today time.Time) time.Time {
	return AddMonths(DateOf(today), ReleaseHorizonMonths)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
