package availability

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"courtly/internal/app/dto"
	bookinghandlers "courtly/internal/app/handlers/booking"
	handlersupport "courtly/internal/app/handlers/support"
	"courtly/internal/app/queries"
	"courtly/internal/app/uow"
	"courtly/internal/domain/accounts"
	domainbooking "courtly/internal/domain/booking"
	"courtly/internal/domain/lessors"
	"courtly/internal/domain/shared/errs"
	"courtly/internal/domain/shared/timeofday"
)

const getAvailabilityKey = "availability.get"

var (
	ErrMissingFields = errs.Validation("Missing required fields")
	ErrInvalidDate   = errs.Validation("Date must be in YYYY-MM-DD format")
)

// ParseDate reads a calendar date as sent by clients.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// GetAvailabilityQuery lists the occupied slots of a facility on one day.
// Court is optional.
type GetAvailabilityQuery struct {
	LessorID string
	Facility string
	Court    string
	Date     time.Time
}

func (q GetAvailabilityQuery) Key() string { return getAvailabilityKey }

func (q GetAvailabilityQuery) Validate() error {
	if strings.TrimSpace(q.LessorID) == "" || strings.TrimSpace(q.Facility) == "" {
		return ErrMissingFields
	}
	if q.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

type GetAvailabilityHandler struct {
	UoWFactory uow.UoWFactory
	Clock      func() time.Time
}

func (h *GetAvailabilityHandler) Handle(ctx context.Context, q GetAvailabilityQuery) ([]dto.AvailabilitySlot, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	now := handlersupport.Now(h.Clock)
	slots := []dto.AvailabilitySlot{}
	err := handlersupport.RunInUnit(ctx, h.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		if _, err := unit.Lessors().ByID(ctx, lessors.LessorID(strings.TrimSpace(q.LessorID))); err != nil {
			return err
		}
		found, err := unit.Bookings().Find(ctx, domainbooking.Filter{
			LessorID: strings.TrimSpace(q.LessorID),
			Facility: strings.TrimSpace(q.Facility),
			Court:    strings.TrimSpace(q.Court),
		})
		if err != nil {
			return err
		}
		sameDay := make([]*domainbooking.Booking, 0, len(found))
		for _, b := range found {
			if domainbooking.SameDay(b.Date, q.Date) {
				sameDay = append(sameDay, b)
			}
		}
		// Ties on start time keep booking order.
		slices.SortFunc(sameDay, func(x, y *domainbooking.Booking) int {
			if c := x.CreatedAt.Compare(y.CreatedAt); c != 0 {
				return c
			}
			return strings.Compare(string(x.ID), string(y.ID))
		})
		if _, err := bookinghandlers.ExpireStale(ctx, unit.Bookings(), sameDay, now); err != nil {
			return err
		}
		names := map[string]string{}
		for _, b := range sameDay {
			name, err := displayName(ctx, unit.Accounts(), names, b.UserID)
			if err != nil {
				return err
			}
			slots = append(slots, dto.AvailabilitySlot{
				BookingID: string(b.ID),
				Occupant:  b.OccupantName(name),
				Facility:  b.Facility,
				Court:     b.Court,
				Start:     b.StartTime,
				End:       b.EndTime,
				Status:    string(b.Status),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(slots, func(a, b dto.AvailabilitySlot) int {
		return startOf(a).Compare(startOf(b))
	})
	return slots, nil
}

func displayName(ctx context.Context, repo accounts.Repository, cache map[string]string, userID string) (string, error) {
	if userID == "" {
		return "", nil
	}
	if name, ok := cache[userID]; ok {
		return name, nil
	}
	acc, err := repo.ByID(ctx, accounts.ID(userID))
	switch {
	case errors.Is(err, accounts.ErrNotFound):
		cache[userID] = ""
		return "", nil
	case err != nil:
		return "", err
	}
	cache[userID] = acc.Name
	return acc.Name, nil
}

// Stored start times were validated on write.
func startOf(s dto.AvailabilitySlot) timeofday.Clock {
	c, _ := timeofday.Parse(s.Start)
	return c
}

var _ queries.Handler[GetAvailabilityQuery, []dto.AvailabilitySlot] = (*GetAvailabilityHandler)(nil)
