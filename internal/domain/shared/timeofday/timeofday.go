// Package timeofday handles naive 12-hour wall-clock labels such as "02:30 pm".
package timeofday

import (
	"cmp"
	"regexp"
	"strconv"
	"strings"

	"courtly/internal/domain/shared/errs"
)

var ErrInvalidFormat = errs.Validation("Start time and end time must be in hh:mm a format")

var clockPattern = regexp.MustCompile(`(?i)^(0[1-9]|1[0-2]):([0-5][0-9]) (am|pm)$`)

// Clock is a time of day with no date and no zone.
type Clock struct {
	Hour   int
	Minute int
}

func Parse(raw string) (Clock, error) {
	m := clockPattern.FindStringSubmatch(raw)
	if m == nil {
		return Clock{}, ErrInvalidFormat
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	pm := strings.EqualFold(m[3], "pm")
	switch {
	case hour == 12 && !pm:
		hour = 0
	case hour != 12 && pm:
		hour += 12
	}
	return Clock{Hour: hour, Minute: minute}, nil
}

func MustParse(raw string) Clock {
	c, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return c
}

func IsValid(raw string) bool {
	return clockPattern.MatchString(raw)
}

// IsAfter reports whether b is strictly later than a on the same day.
// Malformed input is never after anything.
func IsAfter(a, b string) bool {
	ca, err := Parse(a)
	if err != nil {
		return false
	}
	cb, err := Parse(b)
	if err != nil {
		return false
	}
	return cb.Compare(ca) > 0
}

func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

// Compare orders by hour then minute.
func (c Clock) Compare(other Clock) int {
	if c.Hour != other.Hour {
		return cmp.Compare(c.Hour, other.Hour)
	}
	return cmp.Compare(c.Minute, other.Minute)
}

func (c Clock) String() string {
	suffix := "am"
	hour := c.Hour
	if hour >= 12 {
		suffix = "pm"
	}
	hour %= 12
	if hour == 0 {
		hour = 12
	}
	return pad2(hour) + ":" + pad2(c.Minute) + " " + suffix
}

func pad2(v int) string {
	if v < 10 {
		return "0" + strconv.Itoa(v)
	}
	return strconv.Itoa(v)
}
