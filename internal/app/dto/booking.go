package dto

import (
	"time"

	"courtly/internal/domain/booking"
)

type OutsideUser struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

type Booking struct {
	ID          string       `json:"id"`
	User        string       `json:"user,omitempty"`
	OutsideUser *OutsideUser `json:"outside_user,omitempty"`
	Lessor      string       `json:"lessor"`
	Facility    string       `json:"facility"`
	Court       string       `json:"court"`
	Date        time.Time    `json:"date"`
	StartTime   string       `json:"start_time"`
	EndTime     string       `json:"end_time"`
	Status      string       `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func MapBooking(b *booking.Booking) Booking {
	out := Booking{
		ID:        string(b.ID),
		User:      b.UserID,
		Lessor:    b.LessorID,
		Facility:  b.Facility,
		Court:     b.Court,
		Date:      b.Date,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
	if b.OutsideUser != nil {
		out.OutsideUser = &OutsideUser{Name: b.OutsideUser.Name, PhoneNumber: b.OutsideUser.PhoneNumber}
	}
	return out
}

func MapBookings(list []*booking.Booking) []Booking {
	out := make([]Booking, 0, len(list))
	for _, b := range list {
		out = append(out, MapBooking(b))
	}
	return out
}

type BookingPage struct {
	Bookings    []Booking `json:"bookings"`
	CurrentPage int       `json:"current_page"`
	TotalPages  int       `json:"total_pages"`
	TotalCount  int       `json:"total_count"`
}

type UserBookings struct {
	User     string    `json:"user"`
	Count    int       `json:"amount_bookings"`
	Bookings []Booking `json:"bookings"`
}

type AvailabilitySlot struct {
	BookingID string `json:"booking_id"`
	Occupant  string `json:"occupant"`
	Facility  string `json:"facility"`
	Court     string `json:"court"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Status    string `json:"status"`
}
