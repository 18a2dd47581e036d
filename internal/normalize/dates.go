package normalize

import (
	"strings"
	"time"
)

// dateLayouts is tried in order. Day-first formats come after month-first
// ones, so an unambiguous cell like 25/12/2024 still parses while an
// ambiguous one resolves month-first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02/01/2006",
	"1/2/2006",
	"01-02-2006",
	"02-Jan-2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"January 2, 2006",
}

// ParseDate parses a date cell permissively. An unparseable or empty cell
// falls back to now: imports must not block on one bad date, at the cost of
// attributing that row to the import time.
func ParseDate(cell string, now time.Time) time.Time {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return now
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return t
		}
	}

	return now
}
