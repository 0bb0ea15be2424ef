package support

import (
	"context"

	"courtly/internal/app/uow"
)

// BeginReadOnlyUnit reuses the unit already in ctx or opens a read-only one.
// The returned cleanup may be nil.
func BeginReadOnlyUnit(ctx context.Context, factory uow.UoWFactory) (uow.UnitOfWork, context.Context, func(), error) {
	unit, execCtx, owned, err := uow.Join(ctx, factory, uow.TxOptions{ReadOnly: true})
	if err != nil || !owned {
		return unit, execCtx, nil, err
	}
	return unit, execCtx, func() { _ = unit.Rollback(execCtx) }, nil
}

// RunInUnit executes fn inside the unit already in ctx, or inside a fresh one
// that is committed when fn succeeds.
func RunInUnit(ctx context.Context, factory uow.UoWFactory, fn func(ctx context.Context, unit uow.UnitOfWork) error) error {
	return uow.Run(ctx, factory, uow.TxOptions{}, fn)
}
