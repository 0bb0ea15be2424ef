package payments

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"courtly/internal/app/commands"
	"courtly/internal/app/dto"
	handlersupport "courtly/internal/app/handlers/support"
	"courtly/internal/app/middleware"
	"courtly/internal/app/outbox"
	"courtly/internal/app/queries"
	"courtly/internal/app/uow"
	"courtly/internal/domain/accounts"
	"courtly/internal/domain/booking"
	"courtly/internal/domain/lessors"
	domainpayments "courtly/internal/domain/payments"
	"courtly/internal/domain/shared/errs"
)

const (
	recordPaymentKey = "payment.record"
	listPaymentsKey  = "payment.list.lessor"
)

var ErrBookingMismatch = errs.Validation("Booking does not belong to this lessor")

// RecordPaymentCommand stores a payment against an existing booking.
type RecordPaymentCommand struct {
	UserEmail       string
	LessorID        string
	BookingID       string
	Currency        string
	Amount          float64
	Status          string
	IdempotencyKeyV string
}

func (c RecordPaymentCommand) Key() string { return recordPaymentKey }

func (c RecordPaymentCommand) AllowedRoles() []string { return userOnly }

func (c RecordPaymentCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c RecordPaymentCommand) ResultPrototype() any { return &dto.Payment{} }

func (c RecordPaymentCommand) Validate() error {
	if strings.TrimSpace(c.LessorID) == "" || strings.TrimSpace(c.BookingID) == "" {
		return domainpayments.ErrMissingFields
	}
	if _, err := domainpayments.ParseCurrency(c.Currency); err != nil {
		return err
	}
	if _, err := domainpayments.ParseStatus(c.Status); err != nil {
		return err
	}
	if c.Amount <= 0 {
		return domainpayments.ErrInvalidAmount
	}
	return nil
}

type RecordPaymentHandler struct {
	UoWFactory uow.UoWFactory
	Encoder    outbox.EventEncoder
	Clock      func() time.Time
}

func (h *RecordPaymentHandler) Handle(ctx context.Context, cmd RecordPaymentCommand) (*dto.Payment, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	var result dto.Payment
	err := handlersupport.RunInUnit(ctx, h.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		payer, err := unit.Accounts().ByEmail(ctx, accounts.RoleUser, cmd.UserEmail)
		if err != nil {
			return err
		}
		lessorID := strings.TrimSpace(cmd.LessorID)
		if _, err := unit.Lessors().ByID(ctx, lessors.LessorID(lessorID)); err != nil {
			return err
		}
		b, err := unit.Bookings().ByID(ctx, booking.BookingID(strings.TrimSpace(cmd.BookingID)))
		if err != nil {
			return err
		}
		if !b.OwnedBy(lessorID) {
			return ErrBookingMismatch
		}
		p, err := domainpayments.Record(domainpayments.RecordParams{
			ID:        domainpayments.PaymentID(uuid.NewString()),
			UserID:    string(payer.ID),
			LessorID:  lessorID,
			BookingID: string(b.ID),
			Currency:  cmd.Currency,
			Amount:    cmd.Amount,
			Status:    cmd.Status,
			Now:       handlersupport.Now(h.Clock),
		})
		if err != nil {
			return err
		}
		if err := unit.Payments().Save(ctx, p); err != nil {
			return err
		}
		if err := outbox.RecordDomainEvents(ctx, unit.Outbox(), h.Encoder, p.Drain()); err != nil {
			return err
		}
		result = dto.MapPayment(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ListLessorPaymentsQuery returns the payments received by the signed-in lessor.
type ListLessorPaymentsQuery struct {
	LessorEmail string
}

func (q ListLessorPaymentsQuery) Key() string { return listPaymentsKey }

func (q ListLessorPaymentsQuery) AllowedRoles() []string { return lessorOnly }

type ListLessorPaymentsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListLessorPaymentsHandler) Handle(ctx context.Context, q ListLessorPaymentsQuery) ([]dto.Payment, error) {
	unit, ctx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	l, err := unit.Lessors().ByEmail(ctx, lessors.NormalizeEmail(q.LessorEmail))
	if err != nil {
		return nil, err
	}
	list, err := unit.Payments().ListByLessor(ctx, string(l.ID))
	if err != nil {
		return nil, err
	}
	return dto.MapPayments(list), nil
}

var (
	_ commands.Handler[RecordPaymentCommand, *dto.Payment]    = (*RecordPaymentHandler)(nil)
	_ queries.Handler[ListLessorPaymentsQuery, []dto.Payment] = (*ListLessorPaymentsHandler)(nil)
	_ middleware.IdempotentCommand                            = RecordPaymentCommand{}
)
