package uow

import (
	"context"

	"courtly/internal/app/outbox"
	"courtly/internal/domain/accounts"
	"courtly/internal/domain/booking"
	"courtly/internal/domain/comments"
	"courtly/internal/domain/lessors"
	"courtly/internal/domain/payments"
)

// UnitOfWork groups repositories that share one transaction boundary.
type UnitOfWork interface {
	Bookings() booking.Repository
	Lessors() lessors.Repository
	Comments() comments.Repository
	Payments() payments.Repository
	Accounts() accounts.Repository
	Outbox() outbox.Outbox

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

type TxOptions struct {
	ReadOnly bool
}

// Begin starts a unit and returns the context downstream repositories must use.
func Begin(ctx context.Context, factory UoWFactory, opts TxOptions) (UnitOfWork, context.Context, error) {
	if factory == nil {
		return nil, ctx, ErrNoFactory
	}
	unit, err := factory.Begin(ctx, opts)
	if err != nil {
		return nil, ctx, err
	}
	execCtx := ctx
	if injector, ok := unit.(interface {
		InjectContext(context.Context) context.Context
	}); ok {
		execCtx = injector.InjectContext(ctx)
	}
	return unit, ContextWithUnitOfWork(execCtx, unit), nil
}
