package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DueLayout is how due dates are shown and the preferred input form.
const DueLayout = "2006-01-02 15:04"

// ErrInvalidDueDate is returned by ParseDue for input it cannot read.
var ErrInvalidDueDate = errors.New("invalid due date")

var dueLayouts = []string{
	time.RFC3339,
	DueLayout,
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDue reads a due date typed by the user. Accepted forms are RFC 3339,
// "2006-01-02 15:04", "2006-01-02" (midnight) and "+<duration>" relative to now.
// Dates without an offset are read in now's location.
func ParseDue(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidDueDate)
	}
	if rest, ok := strings.CutPrefix(s, "+"); ok {
		d, err := time.ParseDuration(rest)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDueDate, s)
		}
		return now.Add(d).Round(0), nil
	}
	for _, layout := range dueLayouts {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q (want %s, YYYY-MM-DD or +duration)", ErrInvalidDueDate, s, DueLayout)
}

// FormatDue renders t in DueLayout.
func FormatDue(t time.Time) string {
	return t.Format(DueLayout)
}
