// Package timeconv converts between the engine's continuous time scale and
// calendar date strings.
//
// Times are float64 seconds elapsed since Epoch (1998-01-01T00:00:00 UTC).
// Leap seconds are not counted; every day is 86400 seconds long.
package timeconv

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/arloliu/fieldset/errs"
)

// Layout is the calendar form produced by Format: year, day of year and time
// of day with millisecond precision, e.g. "2019:032:14:05:09.250".
const Layout = "2006:002:15:04:05.000"

// Epoch is the zero point of the time scale.
var Epoch = time.Date(1998, time.January, 1, 0, 0, 0, 0, time.UTC)

var epochUnix = Epoch.Unix()

// accepted parse layouts, most specific first.
var parseLayouts = []string{
	"2006:002:15:04:05.000000",
	"2006:002:15:04:05.000",
	"2006:002:15:04:05",
	"2006:002:15:04",
	"2006:002",
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// FromTime converts t to seconds since Epoch.
func FromTime(t time.Time) float64 {
	return float64(t.Unix()-epochUnix) + float64(t.Nanosecond())/1e9
}

// ToTime converts seconds since Epoch to a UTC time, rounded to the nanosecond.
func ToTime(sec float64) time.Time {
	whole := math.Floor(sec)
	nanos := int64(math.Round((sec - whole) * 1e9))

	return time.Unix(epochUnix+int64(whole), nanos).UTC()
}

// Format renders seconds since Epoch in Layout, rounded to the millisecond.
func Format(sec float64) string {
	return ToTime(sec).Round(time.Millisecond).Format(Layout)
}

// FormatAll renders every element of secs with Format.
func FormatAll(secs []float64) []string {
	out := make([]string, len(secs))
	for i, s := range secs {
		out[i] = Format(s)
	}

	return out
}

// Parse converts a calendar date string to seconds since Epoch.
//
// Accepted forms are the year:day-of-year family ("2019:032",
// "2019:032:14:05", "2019:032:14:05:09.250") and ISO 8601 dates
// ("2019-02-01", "2019-02-01T14:05:09.25", with or without zone offset).
// Strings without a zone are read as UTC.
func Parse(date string) (float64, error) {
	s := strings.TrimSpace(date)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", errs.ErrInvalidDate)
	}

	for _, layout := range parseLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return FromTime(t), nil
		}
	}

	return 0, fmt.Errorf("%w: %q", errs.ErrInvalidDate, date)
}

// ParseSeconds accepts either a plain number of seconds since Epoch or a
// calendar date understood by Parse.
func ParseSeconds(s string) (float64, error) {
	if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return v, nil
	}

	return Parse(s)
}
