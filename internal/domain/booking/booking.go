package booking

import (
	"context"
	"strings"
	"time"

	"courtly/internal/domain/shared/errs"
	"courtly/internal/domain/shared/events"
	"courtly/internal/domain/shared/status"
	"courtly/internal/domain/shared/timeofday"
)

var (
	ErrMissingFields   = errs.Validation("Missing required fields")
	ErrInvalidTime     = timeofday.ErrInvalidFormat
	ErrEndBeforeStart  = errs.Validation("End time must be after start time")
	ErrBookingNotFound = errs.NotFound("Booking not found")
)

type BookingID string

// OutsideUser is a walk-in customer booked directly by the lessor.
type OutsideUser struct {
	Name        string
	PhoneNumber string
}

type Booking struct {
	ID          BookingID
	UserID      string
	OutsideUser *OutsideUser
	LessorID    string
	Facility    string
	Court       string
	Date        time.Time
	StartTime   string
	EndTime     string
	Status      status.Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
	events.Recorder
}

// Filter narrows repository reads. Zero values mean "no constraint".
type Filter struct {
	LessorID string
	UserID   string
	Facility string
	Court    string
	Status   status.Status
	From     time.Time
	Offset   int
	Limit    int
}

// Repository persists bookings. Find returns matches ordered by date, newest first.
type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	Save(ctx context.Context, b *Booking) error
	Find(ctx context.Context, f Filter) ([]*Booking, error)
	Count(ctx context.Context, f Filter) (int, error)
}

type CreateParams struct {
	ID          BookingID
	UserID      string
	OutsideUser *OutsideUser
	LessorID    string
	Facility    string
	Court       string
	Date        time.Time
	StartTime   string
	EndTime     string
	Now         time.Time
}

func NewBooking(p CreateParams) (*Booking, error) {
	p.UserID = strings.TrimSpace(p.UserID)
	p.LessorID = strings.TrimSpace(p.LessorID)
	p.Facility = strings.TrimSpace(p.Facility)
	p.Court = strings.TrimSpace(p.Court)
	p.StartTime = strings.TrimSpace(p.StartTime)
	p.EndTime = strings.TrimSpace(p.EndTime)
	outside := normalizeOutside(p.OutsideUser)

	if p.UserID == "" && outside == nil {
		return nil, ErrMissingFields
	}
	if p.LessorID == "" || p.Facility == "" || p.Court == "" || p.StartTime == "" || p.EndTime == "" {
		return nil, ErrMissingFields
	}
	if err := ValidateTimes(p.StartTime, p.EndTime); err != nil {
		return nil, err
	}
	now := p.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	date := p.Date
	if date.IsZero() {
		date = now
	}
	if p.UserID != "" {
		outside = nil
	}
	b := &Booking{
		ID:          p.ID,
		UserID:      p.UserID,
		OutsideUser: outside,
		LessorID:    p.LessorID,
		Facility:    p.Facility,
		Court:       p.Court,
		Date:        date.UTC(),
		StartTime:   p.StartTime,
		EndTime:     p.EndTime,
		Status:      status.Pending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	b.Record(BookingCreated{
		BookingID: b.ID,
		LessorID:  b.LessorID,
		Facility:  b.Facility,
		Court:     b.Court,
		Date:      b.Date,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		At:        now,
	})
	return b, nil
}

// ValidateTimes checks both labels and their ordering.
func ValidateTimes(start, end string) error {
	if !timeofday.IsValid(start) || !timeofday.IsValid(end) {
		return ErrInvalidTime
	}
	if !timeofday.IsAfter(start, end) {
		return ErrEndBeforeStart
	}
	return nil
}

func (b *Booking) SetStatus(s status.Status, now time.Time) error {
	if !s.Valid() {
		return status.ErrInvalidStatus
	}
	if s == b.Status {
		return nil
	}
	prev := b.Status
	b.Status = s
	b.UpdatedAt = now.UTC()
	b.Record(BookingStatusChanged{BookingID: b.ID, LessorID: b.LessorID, UserID: b.UserID, From: prev, To: s, At: b.UpdatedAt})
	return nil
}

// ExpireIfPast rejects a pending booking whose calendar day is before now's.
func (b *Booking) ExpireIfPast(now time.Time) bool {
	if b.Status != status.Pending {
		return false
	}
	if !Day(b.Date).Before(Day(now)) {
		return false
	}
	b.Status = status.Rejected
	b.UpdatedAt = now.UTC()
	return true
}

// OccupantName is the label shown on a time slot.
func (b *Booking) OccupantName(userDisplayName string) string {
	if b.UserID != "" && userDisplayName != "" {
		return userDisplayName
	}
	if b.OutsideUser != nil {
		return b.OutsideUser.Name
	}
	return ""
}

func (b *Booking) OwnedBy(lessorID string) bool {
	return b.LessorID == lessorID
}

// Day strips the time of day, comparing in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}

func normalizeOutside(o *OutsideUser) *OutsideUser {
	if o == nil {
		return nil
	}
	name := strings.TrimSpace(o.Name)
	if name == "" {
		return nil
	}
	return &OutsideUser{Name: name, PhoneNumber: strings.TrimSpace(o.PhoneNumber)}
}
