// Package stamp turns backend timestamps into the short local form shown in
// the dashboard and back.
package stamp

import (
	"fmt"
	"strings"
	"time"
)

// DisplayLayout is month/day and a 24-hour clock.
const DisplayLayout = "Jan 02 15:04"

var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
}

// Parse reads an ISO-8601 timestamp. A value without a zone designator is
// UTC; the designator is appended before parsing so the instant is not
// shifted by the local offset twice.
func Parse(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	// backend sometimes uses a space as the date/time separator
	if len(s) > 10 && s[10] == ' ' {
		s = s[:10] + "T" + s[11:]
	}
	// time.Parse only knows an upper-case designator
	if strings.HasSuffix(s, "z") {
		s = s[:len(s)-1] + "Z"
	}
	if !hasZone(s) {
		s += "Z"
	}
	var lastErr error
	for _, l := range layouts {
		t, err := time.Parse(l, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("parse timestamp %q: %w", raw, lastErr)
}

// hasZone reports whether the time part carries Z or a numeric offset.
func hasZone(s string) bool {
	i := strings.IndexByte(s, 'T')
	if i < 0 {
		return false
	}
	clock := s[i+1:]
	if strings.HasSuffix(clock, "Z") {
		return true
	}
	return strings.ContainsAny(clock, "+-")
}

// Format renders t in loc for scanning: "Jan 02 15:04".
func Format(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DisplayLayout)
}

// Display formats raw for the viewer, falling back to raw itself when it
// cannot be parsed.
func Display(raw string, loc *time.Location) string {
	t, err := Parse(raw)
	if err != nil {
		return raw
	}
	return Format(t, loc)
}

// Reparse recovers the instant behind a displayed value. The display form has
// no year, so it is taken from ref (in loc).
func Reparse(display string, loc *time.Location, ref time.Time) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DisplayLayout, display, loc)
	if err != nil {
		return time.Time{}, err
	}
	year := ref.In(loc).Year()
	return time.Date(year, t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}
