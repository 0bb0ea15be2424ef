package memory

import (
	"context"
	"errors"

	appoutbox "courtly/internal/app/outbox"
	"courtly/internal/app/uow"
	"courtly/internal/domain/accounts"
	domainbooking "courtly/internal/domain/booking"
	domaincomments "courtly/internal/domain/comments"
	domainlessors "courtly/internal/domain/lessors"
	domainpayments "courtly/internal/domain/payments"
)

var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Factory wires the in-memory repositories into a unit-of-work boundary.
// Writes are applied immediately; only outbox records wait for commit.
type Factory struct {
	BookingRepo *BookingRepository
	LessorRepo  *LessorRepository
	CommentRepo *CommentRepository
	PaymentRepo *PaymentRepository
	AccountRepo *AccountRepository
	Outbox      *Outbox
}

// NewStore builds a factory with empty repositories sharing one outbox.
func NewStore(box *Outbox) Factory {
	return Factory{
		BookingRepo: NewBookingRepository(),
		LessorRepo:  NewLessorRepository(),
		CommentRepo: NewCommentRepository(),
		PaymentRepo: NewPaymentRepository(),
		AccountRepo: NewAccountRepository(),
		Outbox:      box,
	}
}

// Reporting returns a reader over the factory's repositories.
func (f Factory) Reporting() *ReportingReader {
	return &ReportingReader{
		Lessors:  f.LessorRepo,
		Comments: f.CommentRepo,
		Bookings: f.BookingRepo,
		Accounts: f.AccountRepo,
		Payments: f.PaymentRepo,
	}
}

func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.BookingRepo == nil || f.LessorRepo == nil || f.CommentRepo == nil ||
		f.PaymentRepo == nil || f.AccountRepo == nil || f.Outbox == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{factory: f, staged: &stagedOutbox{}}, nil
}

type Unit struct {
	factory Factory
	staged  *stagedOutbox
}

func (u *Unit) Bookings() domainbooking.Repository  { return u.factory.BookingRepo }
func (u *Unit) Lessors() domainlessors.Repository   { return u.factory.LessorRepo }
func (u *Unit) Comments() domaincomments.Repository { return u.factory.CommentRepo }
func (u *Unit) Payments() domainpayments.Repository { return u.factory.PaymentRepo }
func (u *Unit) Accounts() accounts.Repository       { return u.factory.AccountRepo }
func (u *Unit) Outbox() appoutbox.Outbox            { return u.staged }

func (u *Unit) Commit(ctx context.Context) error {
	for _, rec := range u.staged.drain() {
		if err := u.factory.Outbox.Add(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	u.staged.drain()
	return nil
}

var _ uow.UoWFactory = Factory{}
