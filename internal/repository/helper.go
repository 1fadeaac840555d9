package repository

import (
	"fmt"
	"time"
)

// timeFormats lists the layouts the SQLite driver may hand back for DATE and
// DATETIME columns, tried in order.
var timeFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseTime parses a date string from the database into a UTC time.Time.
func ParseTime(value string) (time.Time, error) {
	for _, format := range timeFormats {
		if t, err := time.Parse(format, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format: %q", value)
}
