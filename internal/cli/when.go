package cli

import (
	"fmt"
	"time"
)

// parseWhen reads a user supplied instant. An empty string or "now" is now.
// A bare clock time is taken on today's date in loc.
func parseWhen(s string, now time.Time, loc *time.Location) (time.Time, error) {
	if s == "" || s == "now" {
		return now, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	for _, layout := range []string{"15:04", "3:04PM", "3:04pm"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			day := now.In(loc)
			return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot read time %q (try 22:45, 2025-11-28 22:45 or RFC 3339)", s)
}
