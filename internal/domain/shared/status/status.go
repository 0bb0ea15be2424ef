package status

import (
	"strings"

	"courtly/internal/domain/shared/errs"
)

var ErrInvalidStatus = errs.Validation("Invalid status")

// Status is the moderation state shared by bookings, comments and lessors.
type Status string

const (
	Pending  Status = "pending"
	Approved Status = "approved"
	Rejected Status = "rejected"
)

func Parse(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// ParseOptional treats an empty value as "no filter".
func ParseOptional(raw string) (Status, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	return Parse(raw)
}

func (s Status) Valid() bool {
	switch s {
	case Pending, Approved, Rejected:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }
