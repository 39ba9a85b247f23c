// Package dateformat renders feed pubDate strings for display.
package dateformat

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

const day = 24 * time.Hour

// Zone abbreviations are rewritten to numeric offsets before parsing, so
// only numeric-offset layouts are needed here.
var layouts = []string{
	time.RFC1123Z,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04 -0700",
	"2 Jan 2006 15:04 -0700",
	time.RFC822Z,
	time.RFC3339,
	"2006-01-02",
}

// RFC 822 zones. time.Parse reads any abbreviation it does not know as UTC,
// so unknown ones are rejected instead.
var zoneOffsets = map[string]string{
	"UT":  "+0000",
	"UTC": "+0000",
	"GMT": "+0000",
	"Z":   "+0000",
	"EST": "-0500",
	"EDT": "-0400",
	"CST": "-0600",
	"CDT": "-0500",
	"MST": "-0700",
	"MDT": "-0600",
	"PST": "-0800",
	"PDT": "-0700",
}

// DateParseError is returned when a date string matches none of the known layouts.
type DateParseError struct {
	Value string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("fail to parse date in any known format: %q", e.Value)
}

// Parse reads a feed date in any of the RSS layouts seen in the wild.
func Parse(value string) (time.Time, error) {
	normalized, ok := numericZone(strings.TrimSpace(value))
	if !ok {
		return time.Time{}, &DateParseError{Value: value}
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, normalized); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &DateParseError{Value: value}
}

// numericZone swaps a trailing zone abbreviation for its offset. It reports
// false for an alphabetic trailing field that is not a known zone.
func numericZone(value string) (string, bool) {
	idx := strings.LastIndexByte(value, ' ')
	if idx < 0 {
		return value, true
	}
	zone := value[idx+1:]
	if zone == "" || strings.IndexFunc(zone, func(r rune) bool { return !unicode.IsLetter(r) }) >= 0 {
		return value, true
	}
	offset, ok := zoneOffsets[strings.ToUpper(zone)]
	if !ok {
		return "", false
	}
	return value[:idx+1] + offset, true
}

// Relative renders value against now: "Today", "Yesterday", "3d ago", "2w ago",
// then a short date that carries the year only when it differs from now's.
func Relative(value string, now time.Time) (string, error) {
	date, err := Parse(value)
	if err != nil {
		return "", err
	}
	return RelativeTime(date, now), nil
}

// RelativeTime is Relative for an already parsed date. The short date is
// shown in now's location.
func RelativeTime(date, now time.Time) string {
	days := int(now.Sub(date) / day)
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%dd ago", days)
	case days < 30:
		return fmt.Sprintf("%dw ago", days/7)
	}
	local := date.In(now.Location())
	if local.Year() != now.Year() {
		return local.Format("Jan 2, 2006")
	}
	return local.Format("Jan 2")
}

// Full renders value as "Monday, January 2, 2006".
func Full(value string) (string, error) {
	date, err := Parse(value)
	if err != nil {
		return "", err
	}
	return FullTime(date), nil
}

func FullTime(date time.Time) string {
	return date.Format("Monday, January 2, 2006")
}
