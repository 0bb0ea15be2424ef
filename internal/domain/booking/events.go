package booking

import (
	"time"

	"courtly/internal/domain/shared/status"
)

type BookingCreated struct {
	BookingID BookingID `json:"booking_id"`
	LessorID  string    `json:"lessor_id"`
	Facility  string    `json:"facility"`
	Court     string    `json:"court"`
	Date      time.Time `json:"date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	At        time.Time `json:"occurred_at"`
}

func (e BookingCreated) EventName() string     { return "booking.created" }
func (e BookingCreated) AggregateID() string   { return string(e.BookingID) }
func (e BookingCreated) OccurredAt() time.Time { return e.At }

type BookingStatusChanged struct {
	BookingID BookingID     `json:"booking_id"`
	LessorID  string        `json:"lessor_id"`
	UserID    string        `json:"user_id,omitempty"`
	From      status.Status `json:"from"`
	To        status.Status `json:"to"`
	At        time.Time     `json:"occurred_at"`
}

func (e BookingStatusChanged) EventName() string     { return "booking.status_changed" }
func (e BookingStatusChanged) AggregateID() string   { return string(e.BookingID) }
func (e BookingStatusChanged) OccurredAt() time.Time { return e.At }
