// backend/src/utils/date_utils.go
package utils

import (
	"fmt"
	"strings"
	"time"
)

// dateTimeLayouts are tried in order; the first successful parse wins. The
// layouts with a clock component come first so combined date-time cells are
// not truncated by a date-only match.
var dateTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006.01.02 15:04:05", // MT4 statement format
	"2006.01.02 15:04",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
}

var dateOnlyLayouts = []string{
	"2006-01-02",
	"2006.01.02",
	"01/02/2006",
	"02.01.2006",
}

// CoerceDate parses a date or combined date-time cell. When the cell carried
// a clock component it is split off and returned as "15:04"; otherwise clock
// is empty.
func CoerceDate(raw string) (date time.Time, clock string, err error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, "", fmt.Errorf("empty value")
	}

	for _, layout := range dateTimeLayouts {
		if t, perr := time.Parse(layout, s); perr == nil {
			day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return day, t.Format("15:04"), nil
		}
	}
	for _, layout := range dateOnlyLayouts {
		if t, perr := time.Parse(layout, s); perr == nil {
			return t, "", nil
		}
	}
	return time.Time{}, "", fmt.Errorf("unrecognized date format: %q", raw)
}

// CoerceClock parses a standalone time-of-day cell ("14:30", "14:30:05",
// "2:30 PM") into canonical "15:04" form.
func CoerceClock(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("empty value")
	}
	for _, layout := range []string{"15:04:05", "15:04", "3:04 PM", "3:04PM"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04"), nil
		}
	}
	return "", fmt.Errorf("unrecognized time format: %q", raw)
}
