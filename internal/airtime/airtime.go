// Package airtime converts upstream UTC air timestamps into the configured
// local zone and renders them for notifications.
package airtime

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"premiere/internal/apperr"
	"premiere/internal/util"
)

const DateLayout = "2006-01-02"

var zonelessLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// LoadLocation resolves an IANA zone name.
func LoadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: timezone is empty", apperr.ErrTime)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid timezone %q: %w", apperr.ErrTime, name, err)
	}
	return loc, nil
}

// Parse reads ts as UTC. RFC 3339 values keep their offset; zone-less values
// are taken to be UTC.
func Parse(ts string) (time.Time, error) {
	ts = strings.TrimSpace(ts)
	if ts == "" {
		return time.Time{}, fmt.Errorf("%w: empty air timestamp", apperr.ErrTime)
	}
	if t, err := time.Parse(time.RFC3339, ts); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range zonelessLayouts {
		if t, err := time.ParseInLocation(layout, ts, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: malformed air timestamp %q", apperr.ErrTime, ts)
}

// ToLocal parses ts and converts it to loc.
func ToLocal(ts string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		return time.Time{}, fmt.Errorf("%w: no timezone configured", apperr.ErrTime)
	}
	t, err := Parse(ts)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(loc), nil
}

// Today is the calendar date of now in loc.
func Today(now time.Time, loc *time.Location) string {
	return now.In(loc).Format(DateLayout)
}

// SameDay reports whether local falls on the date string day.
func SameDay(local time.Time, day string) bool {
	return local.Format(DateLayout) == day
}

// Format renders t like "Sunday, January 12th, 2025 at 10:00 PM EST".
func Format(t time.Time) string {
	day := strconv.Itoa(t.Day()) + util.GetOrdinalSuffix(t.Day())
	return t.Format("Monday, January ") + day + t.Format(", 2006 at 3:04 PM MST")
}
