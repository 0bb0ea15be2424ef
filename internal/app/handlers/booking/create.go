package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"courtly/internal/app/commands"
	"courtly/internal/app/dto"
	handlersupport "courtly/internal/app/handlers/support"
	"courtly/internal/app/middleware"
	"courtly/internal/app/outbox"
	"courtly/internal/app/uow"
	"courtly/internal/domain/accounts"
	domainbooking "courtly/internal/domain/booking"
	"courtly/internal/domain/lessors"
)

const createBookingKey = "booking.create"

type CreateBookingCommand struct {
	BookingID       string
	UserID          string
	OutsideUser     *domainbooking.OutsideUser
	LessorID        string
	Facility        string
	Court           string
	Date            time.Time
	StartTime       string
	EndTime         string
	IdempotencyKeyV string
}

func (c CreateBookingCommand) Key() string { return createBookingKey }

func (c CreateBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CreateBookingCommand) ResultPrototype() any { return &dto.Booking{} }

// Validate runs the field and time checks before any store access.
func (c CreateBookingCommand) Validate() error {
	hasOutside := c.OutsideUser != nil && strings.TrimSpace(c.OutsideUser.Name) != ""
	if strings.TrimSpace(c.UserID) == "" && !hasOutside {
		return domainbooking.ErrMissingFields
	}
	for _, v := range []string{c.LessorID, c.Facility, c.Court, c.StartTime, c.EndTime} {
		if strings.TrimSpace(v) == "" {
			return domainbooking.ErrMissingFields
		}
	}
	return domainbooking.ValidateTimes(strings.TrimSpace(c.StartTime), strings.TrimSpace(c.EndTime))
}

type CreateBookingHandler struct {
	UoWFactory uow.UoWFactory
	Encoder    outbox.EventEncoder
	Clock      func() time.Time
}

func (h *CreateBookingHandler) Handle(ctx context.Context, cmd CreateBookingCommand) (*dto.Booking, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	var result dto.Booking
	err := handlersupport.RunInUnit(ctx, h.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		if _, err := unit.Lessors().ByID(ctx, lessors.LessorID(strings.TrimSpace(cmd.LessorID))); err != nil {
			return err
		}
		if userID := strings.TrimSpace(cmd.UserID); userID != "" {
			if _, err := unit.Accounts().ByID(ctx, accounts.ID(userID)); err != nil {
				if errors.Is(err, accounts.ErrNotFound) {
					return accounts.ErrUserNotFound
				}
				return err
			}
		}
		id := cmd.BookingID
		if id == "" {
			id = uuid.NewString()
		}
		b, err := domainbooking.NewBooking(domainbooking.CreateParams{
			ID:          domainbooking.BookingID(id),
			UserID:      cmd.UserID,
			OutsideUser: cmd.OutsideUser,
			LessorID:    cmd.LessorID,
			Facility:    cmd.Facility,
			Court:       cmd.Court,
			Date:        cmd.Date,
			StartTime:   cmd.StartTime,
			EndTime:     cmd.EndTime,
			Now:         handlersupport.Now(h.Clock),
		})
		if err != nil {
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

var _ commands.Handler[CreateBookingCommand, *dto.Booking] = (*CreateBookingHandler)(nil)
var _ middleware.IdempotentCommand = CreateBookingCommand{}
var _ middleware.SelfValidating = CreateBookingCommand{}
