package agg

import (
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/churnchart/schema"
)

// secondsPerDay is the length of one calendar day in UTC.
const secondsPerDay = 24 * 60 * 60

// timestampLayouts are tried in order when parsing record timestamps.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	schema.DayLayout,
}

// DayOf returns the canonical calendar day of t: its UTC date at midnight.
// This is the same day a UTC ISO-8601 string shows before the 'T'.
func DayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseTimestamp parses a record timestamp. Timestamps without a zone are UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}

// ParseDay parses a date or timestamp and truncates it to its canonical day.
func ParseDay(s string) (time.Time, error) {
	t, err := ParseTimestamp(s)
	if err != nil {
		return time.Time{}, err
	}
	return DayOf(t), nil
}

// DaysBetween returns the number of whole calendar days from a to b.
// It works on Unix seconds since time.Duration saturates after ~292 years.
func DaysBetween(a, b time.Time) int {
	return int((DayOf(b).Unix() - DayOf(a).Unix()) / secondsPerDay)
}

// AddDays moves a canonical day forward by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return DayOf(t).AddDate(0, 0, n)
}
