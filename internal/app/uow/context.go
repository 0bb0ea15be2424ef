package uow

import (
	"context"
	"errors"
)

var ErrNoFactory = errors.New("uow: no unit of work factory configured")

type ctxKey struct{}

func ContextWithUnitOfWork(ctx context.Context, unit UnitOfWork) context.Context {
	return context.WithValue(ctx, ctxKey{}, unit)
}

func FromContext(ctx context.Context) (UnitOfWork, bool) {
	unit, ok := ctx.Value(ctxKey{}).(UnitOfWork)
	return unit, ok
}

// Join returns the unit bound to ctx, or begins a new one. Only an owned unit
// may be committed or rolled back by the caller.
func Join(ctx context.Context, factory UoWFactory, opts TxOptions) (unit UnitOfWork, execCtx context.Context, owned bool, err error) {
	if unit, ok := FromContext(ctx); ok {
		return unit, ctx, false, nil
	}
	unit, execCtx, err = Begin(ctx, factory, opts)
	if err != nil {
		return nil, ctx, false, err
	}
	return unit, execCtx, true, nil
}

// Run calls fn inside the unit bound to ctx. When ctx carries none, a new
// unit is opened, committed if fn succeeds and rolled back otherwise.
func Run(ctx context.Context, factory UoWFactory, opts TxOptions, fn func(ctx context.Context, unit UnitOfWork) error) error {
	unit, execCtx, owned, err := Join(ctx, factory, opts)
	if err != nil {
		return err
	}
	if !owned {
		return fn(execCtx, unit)
	}
	if err := fn(execCtx, unit); err != nil {
		if rbErr := unit.Rollback(execCtx); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}
	return unit.Commit(execCtx)
}
