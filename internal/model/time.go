package model

import (
	"errors"
	"time"
)

// API timestamps use naive ISO-8601 without a zone designator, so a
// deadline submitted as "2025-01-01T00:00:00" reads back byte-identical.
const timestampLayout = "2006-01-02T15:04:05"

// Accepted input layouts for timestamps, tried in order.
var parseLayouts = []string{
	timestampLayout,
	time.RFC3339,
	"2006-01-02",
}

var ErrBadTimestamp = errors.New("invalid timestamp")

// FormatTimestamp renders a timestamp in the API's ISO-8601 form
func FormatTimestamp(t time.Time) string {
	return t.Format(timestampLayout)
}

func formatTimestampPtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return FormatTimestamp(*t)
}

// ParseTimestamp parses an ISO-8601 timestamp from a request body
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrBadTimestamp
}
