package utils

import (
	"fmt"
	"sort"
	"time"
)

const (
	DateLayout = "2006-01-02"
	HourLayout = "15:04"
)

// ParseDate parses a "YYYY-MM-DD" date.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
	}
	return t, nil
}

// ValidateHour checks the "HH:mm" form and that the hour is on the clock.
func ValidateHour(hour string) error {
	t, err := time.Parse(HourLayout, hour)
	if err != nil || t.Format(HourLayout) != hour {
		return fmt.Errorf("invalid hour %q, expected HH:mm", hour)
	}
	return nil
}

// NormalizeHours validates, deduplicates and sorts a list of hours.
func NormalizeHours(hours []string) ([]string, error) {
	seen := make(map[string]struct{}, len(hours))
	out := make([]string, 0, len(hours))
	for _, h := range hours {
		if err := ValidateHour(h); err != nil {
			return nil, err
		}
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	sort.Strings(out)
	return out, nil
}

// WorkingDays returns the weekday dates in [from, from+days), formatted as YYYY-MM-DD.
func WorkingDays(from time.Time, days int) []string {
	out := make([]string, 0, days)
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		out = append(out, d.Format(DateLayout))
	}
	return out
}
