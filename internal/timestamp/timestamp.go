// Package timestamp generates Discord-renderable timestamps. It parses a
// user-supplied date/time against a fixed set of layouts, anchors it in an
// IANA timezone, and renders the <t:UNIX:STYLE> markup Discord expands
// client-side into the reader's local time.
package timestamp

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Style is a Discord timestamp display style suffix.
type Style string

const (
	StyleShortTime Style = "t" // 16:20
	StyleLongTime  Style = "T" // 16:20:30
	StyleShortDate Style = "d" // 20/04/2021
	StyleLongDate  Style = "D" // 20 April 2021
	StyleShortFull Style = "f" // 20 April 2021 16:20
	StyleLongFull  Style = "F" // Tuesday, 20 April 2021 16:20
	StyleRelative  Style = "R" // 2 months ago
)

// DefaultStyle is used when the caller picks no display style.
const DefaultStyle = StyleLongFull

// StyleChoice pairs a style with its human-readable name, in the order the
// bot offers them.
type StyleChoice struct {
	Name  string
	Value Style
}

// StyleChoices lists every supported display style.
var StyleChoices = []StyleChoice{
	{"Short Time (16:20)", StyleShortTime},
	{"Long Time (16:20:30)", StyleLongTime},
	{"Short Date (20/04/2021)", StyleShortDate},
	{"Long Date (20 April 2021)", StyleLongDate},
	{"Default Date/Time (20 April 2021 16:20)", StyleShortFull},
	{"Full Date/Time (Tuesday, 20 April 2021 16:20)", StyleLongFull},
	{"Relative Time (2 months ago)", StyleRelative},
}

// StyleName returns the human-readable name for a style, or empty if the
// style is unknown.
func StyleName(s Style) string {
	for _, c := range StyleChoices {
		if c.Value == s {
			return c.Name
		}
	}
	return ""
}

// ValidStyle reports whether s is one of the supported display styles.
func ValidStyle(s Style) bool {
	return StyleName(s) != ""
}

// ErrUnrecognized is returned when an input matches none of the supported
// date/time layouts.
var ErrUnrecognized = errors.New("unrecognized date/time layout")

// layouts are tried in order; the first successful parse wins. ISO dates
// take priority, so an ambiguous "05-04-2025" reads day-first only after
// the ISO layout has failed to match.
var layouts = []string{
	"2006-01-02 15:04", // ISO
	"02-01-2006 15:04", // day-first
	"01-02-2006 15:04", // month-first
	"2006-01-02 3:04PM",
	"02-01-2006 3:04PM",
	"01-02-2006 3:04PM",
}

// ParseInZone parses input as a wall-clock time in loc. The input must carry
// both a date and a time of day; the accepted layouts are ISO, day-first and
// month-first dates, each with a 24-hour or 12-hour AM/PM clock.
func ParseInZone(input string, loc *time.Location) (time.Time, error) {
	normalized := normalizeMeridiem(strings.TrimSpace(input))

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, normalized, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q (expected e.g. 2006-01-02 15:04, 02-01-2006 15:04 or 01-02-2006 3:04PM)", ErrUnrecognized, input)
}

// normalizeMeridiem upper-cases a trailing am/pm marker so the 12-hour
// layouts match regardless of the input's case.
func normalizeMeridiem(s string) string {
	if len(s) < 2 {
		return s
	}
	suffix := s[len(s)-2:]
	if strings.EqualFold(suffix, "am") || strings.EqualFold(suffix, "pm") {
		return s[:len(s)-2] + strings.ToUpper(suffix)
	}
	return s
}

// LoadZone resolves an IANA timezone name ("Europe/Amsterdam"). The name is
// validated against the host timezone database.
func LoadZone(name string) (*time.Location, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	return loc, nil
}

// Render produces the Discord timestamp markup for t in the given style.
func Render(t time.Time, s Style) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), s)
}
