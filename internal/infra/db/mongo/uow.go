package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"

	appoutbox "courtly/internal/app/outbox"
	"courtly/internal/app/uow"
	"courtly/internal/domain/accounts"
	domainbooking "courtly/internal/domain/booking"
	domaincomments "courtly/internal/domain/comments"
	domainlessors "courtly/internal/domain/lessors"
	domainpayments "courtly/internal/domain/payments"
)

// Factory wires Mongo transactions into the generic UnitOfWork interface.
type Factory struct {
	DB *mongo.Database

	BookingRepo domainbooking.Repository
	LessorRepo  domainlessors.Repository
	CommentRepo domaincomments.Repository
	PaymentRepo domainpayments.Repository
	AccountRepo accounts.Repository
	Outbox      appoutbox.Outbox
}

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// NewFactory builds repositories over db. box receives events inside each transaction.
func NewFactory(db *mongo.Database, box appoutbox.Outbox) Factory {
	return Factory{
		DB:          db,
		BookingRepo: NewBookingRepository(db),
		LessorRepo:  NewLessorRepository(db),
		CommentRepo: NewCommentRepository(db),
		PaymentRepo: NewPaymentRepository(db),
		AccountRepo: NewAccountRepository(db),
		Outbox:      box,
	}
}

// Begin starts a MongoDB session/transaction.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().SetReadConcern(f.DB.ReadConcern()).SetWriteConcern(f.DB.WriteConcern())
	if opts.ReadOnly {
		txnOpts = txnOpts.SetReadConcern(readconcern.Snapshot())
	}
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	return &Unit{factory: f, session: session}, nil
}

type Unit struct {
	factory Factory
	session mongo.Session
}

func (u *Unit) Bookings() domainbooking.Repository  { return u.factory.BookingRepo }
func (u *Unit) Lessors() domainlessors.Repository   { return u.factory.LessorRepo }
func (u *Unit) Comments() domaincomments.Repository { return u.factory.CommentRepo }
func (u *Unit) Payments() domainpayments.Repository { return u.factory.PaymentRepo }
func (u *Unit) Accounts() accounts.Repository       { return u.factory.AccountRepo }
func (u *Unit) Outbox() appoutbox.Outbox            { return u.factory.Outbox }

func (u *Unit) Commit(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// InjectContext ensures the Mongo session is available in context for downstream repos.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}

var _ uow.UoWFactory = Factory{}
