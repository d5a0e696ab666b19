package track

import (
	"errors"
	"strings"
	"time"
)

// ErrMalformedTimestamp marks a timestamp no accepted layout could parse
var ErrMalformedTimestamp = errors.New("malformed timestamp")

// Layouts without a zone are interpreted as UTC. Fractional seconds are
// accepted after any seconds field.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
}

// ParseTimestamp parses a provider timestamp and normalizes it to UTC
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrMalformedTimestamp
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrMalformedTimestamp
}

// FormatTimestamp renders a timestamp the way cleaned datasets store it
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05.000")
}
