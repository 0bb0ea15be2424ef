package booking

import (
	"context"
	"strings"
	"time"

	"courtly/internal/app/commands"
	"courtly/internal/app/dto"
	handlersupport "courtly/internal/app/handlers/support"
	"courtly/internal/app/outbox"
	"courtly/internal/app/uow"
	domainbooking "courtly/internal/domain/booking"
	"courtly/internal/domain/shared/status"
)

const setBookingStatusKey = "booking.status.set"

// SetBookingStatusCommand changes a booking's status. When LessorEmail is set
// the booking must belong to that lessor.
type SetBookingStatusCommand struct {
	BookingID   string
	Status      string
	LessorEmail string
}

func (c SetBookingStatusCommand) Key() string { return setBookingStatusKey }

func (c SetBookingStatusCommand) AllowedRoles() []string { return lessorOnly }

func (c SetBookingStatusCommand) Validate() error {
	_, err := status.Parse(c.Status)
	return err
}

type SetBookingStatusHandler struct {
	UoWFactory uow.UoWFactory
	Encoder    outbox.EventEncoder
	Clock      func() time.Time
}

func (h *SetBookingStatusHandler) Handle(ctx context.Context, cmd SetBookingStatusCommand) (*dto.Booking, error) {
	next, err := status.Parse(cmd.Status)
	if err != nil {
		return nil, err
	}
	id := strings.TrimSpace(cmd.BookingID)
	if id == "" {
		return nil, domainbooking.ErrBookingNotFound
	}
	var result dto.Booking
	err = handlersupport.RunInUnit(ctx, h.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		b, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(id))
		if err != nil {
			return err
		}
		if email := strings.TrimSpace(cmd.LessorEmail); email != "" {
			owner, err := unit.Lessors().ByEmail(ctx, email)
			if err != nil {
				return err
			}
			if !b.OwnedBy(string(owner.ID)) {
				return domainbooking.ErrBookingNotFound
			}
		}
		if err := b.SetStatus(next, handlersupport.Now(h.Clock)); err != nil {
			return err
		}
		if err := unit.Bookings().Save(ctx, b); err != nil {
			return err
		}
		if err := outbox.RecordDomainEvents(ctx, unit.Outbox(), h.Encoder, b.Drain()); err != nil {
			return err
		}
		result = dto.MapBooking(b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

var _ commands.Handler[SetBookingStatusCommand, *dto.Booking] = (*SetBookingStatusHandler)(nil)
