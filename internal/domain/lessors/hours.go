package lessors

import (
	"regexp"
	"strconv"
	"strings"

	"courtly/internal/domain/shared/errs"
)

var ErrInvalidHours = errs.Validation("Operating hours must look like 8am or 10pm")

var hourPattern = regexp.MustCompile(`^([1-9]|1[0-2])(am|pm)$`)

// OperatingHours keeps the textual labels a lessor entered.
type OperatingHours struct {
	Open  string
	Close string
}

// ParseHourLabel converts "8am"/"10pm" into an hour of day. Midnight is 0.
func ParseHourLabel(label string) (int, error) {
	m := hourPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(label)))
	if m == nil {
		return 0, ErrInvalidHours
	}
	hour, _ := strconv.Atoi(m[1])
	if hour == 12 {
		hour = 0
	}
	if m[2] == "pm" {
		hour += 12
	}
	return hour, nil
}

func NewOperatingHours(open, close string) (OperatingHours, error) {
	open = strings.ToLower(strings.TrimSpace(open))
	close = strings.ToLower(strings.TrimSpace(close))
	if _, err := ParseHourLabel(open); err != nil {
		return OperatingHours{}, err
	}
	if _, err := ParseHourLabel(close); err != nil {
		return OperatingHours{}, err
	}
	return OperatingHours{Open: open, Close: close}, nil
}

// Span returns the open and close hour. A close at midnight counts as 24.
func (h OperatingHours) Span() (open, close int, ok bool) {
	o, err := ParseHourLabel(h.Open)
	if err != nil {
		return 0, 0, false
	}
	c, err := ParseHourLabel(h.Close)
	if err != nil {
		return 0, 0, false
	}
	if c == 0 {
		c = 24
	}
	return o, c, true
}

// Window is a requested opening interval used for filtering.
type Window struct {
	From int
	To   int
}

func NewWindow(open, close string) (Window, error) {
	h, err := NewOperatingHours(open, close)
	if err != nil {
		return Window{}, err
	}
	from, to, _ := h.Span()
	return Window{From: from, To: to}, nil
}

// Covers reports whether the lessor is open for the whole window.
func (h OperatingHours) Covers(w Window) bool {
	open, close, ok := h.Span()
	if !ok {
		return false
	}
	return open <= w.From && close >= w.To
}
