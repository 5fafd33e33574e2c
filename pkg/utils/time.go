package utils

import "time"

// DateOnly is the calendar-date encoding used by date cells
const DateOnly = "2006-01-02"

// NowRFC3339 returns the current UTC time in RFC3339 format
func NowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// ParseRFC3339 parses a time string in RFC3339 format
func ParseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// ParseDate parses a date cell's string, accepting both the date-only and
// RFC3339 encodings
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateOnly, s); err == nil {
		return t, nil
	}
	return ParseRFC3339(s)
}
