package utils

import (
	"strings"
	"time"
)

const (
	layoutDate     = "2006-01-02"
	layoutDateTime = "2006-01-02 15:04"
)

// ParseDate parses YYYY-MM-DD in local timezone.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(layoutDate, strings.TrimSpace(s), time.Local)
}

// FormatDateTime formats t as "YYYY-MM-DD HH:MM" in local timezone, or "-"
// for the zero time.
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.In(time.Local).Format(layoutDateTime)
}

// PastDeadline reports whether a YYYY-MM-DD deadline ended before now. An
// empty or unparsable deadline never passes.
func PastDeadline(deadline string, now time.Time) bool {
	d, err := ParseDate(deadline)
	if err != nil {
		return false
	}
	return now.After(d.AddDate(0, 0, 1))
}
