package minutes

import (
	"strconv"
	"strings"
	"time"
)

// calendarLayouts are date-only layouts. They are parsed as calendar dates in
// the caller's location, never as UTC midnight, so a bare "2026-01-26" is
// January 26 in every time zone.
var calendarLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan. 2, 2006",
	"Monday, January 2, 2006",
	"01.02.2006",
	"01.02.06",
	"1.2.06",
}

// instantLayouts carry a time and zone and are converted into the location.
var instantLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

// ParseDate parses a meeting or document date in any supported format. A nil
// loc means time.Local. The boolean is false when the string is blank or
// unparseable.
func ParseDate(raw string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range calendarLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, true
		}
	}
	for _, layout := range instantLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t.In(loc), true
		}
	}
	return time.Time{}, false
}

// FormatDisplayDate renders raw as "January 26, 2026", or Placeholder when it
// cannot be parsed.
func FormatDisplayDate(raw string, loc *time.Location) string {
	t, ok := ParseDate(raw, loc)
	if !ok {
		return Placeholder
	}
	return t.Format("January 2, 2006")
}

// FormatMonthYear renders raw as "January 2026", or Placeholder.
func FormatMonthYear(raw string, loc *time.Location) string {
	t, ok := ParseDate(raw, loc)
	if !ok {
		return Placeholder
	}
	return t.Format("January 2006")
}

// Year returns the four-digit year of raw, or "" when it cannot be parsed.
func Year(raw string, loc *time.Location) string {
	t, ok := ParseDate(raw, loc)
	if !ok {
		return ""
	}
	return strconv.Itoa(t.Year())
}

// compareDatesDesc orders parsed dates newest first; undated values sort last.
func compareDatesDesc(a, b string, loc *time.Location) int {
	ta, okA := ParseDate(a, loc)
	tb, okB := ParseDate(b, loc)
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return 1
	case !okB:
		return -1
	}
	return tb.Compare(ta)
}
