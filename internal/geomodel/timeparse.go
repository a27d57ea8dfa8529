package geomodel

import (
	"time"

	"github.com/rotisserie/eris"
)

// ErrInvalidTimestamp reports a timestamp matching none of the accepted
// layouts.
var ErrInvalidTimestamp = eris.New("geomodel: unrecognized timestamp layout")

// timestampLayouts are the accepted forms of event and document
// timestamps, tried in order. Offsets may omit the colon; values without
// a zone are read as UTC.
var timestampLayouts = []string{
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05.000000Z0700",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.000000Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000000",
}

// canonicalLayout is the form journaled documents use for lastaction.
const canonicalLayout = "2006-01-02T15:04:05.000000-07:00"

// ParseTimestamp parses text against the accepted layouts and returns
// the instant normalized to UTC.
func ParseTimestamp(text string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, text, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, eris.Wrapf(ErrInvalidTimestamp, "parse %q", text)
}

// FormatTimestamp renders an instant in the canonical document layout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(canonicalLayout)
}
