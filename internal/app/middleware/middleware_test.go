package middleware_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtly/internal/app/commands"
	"courtly/internal/app/middleware"
	appoutbox "courtly/internal/app/outbox"
	"courtly/internal/app/queries"
	"courtly/internal/app/services/auth"
	"courtly/internal/app/uow"
	"courtly/internal/domain/shared/errs"
	"courtly/internal/infra/storage/memory"
)

type approveCommand struct {
	ID      string
	IdemKey string
}

func (c approveCommand) Key() string { return "test.approve" }

func (c approveCommand) AllowedRoles() []string { return []string{auth.RoleLessor} }

func (c approveCommand) Validate() error {
	if c.ID == "" {
		return errs.Validation("Missing required fields")
	}
	return nil
}

func (c approveCommand) IdempotencyKey() string { return c.IdemKey }

func (c approveCommand) ResultPrototype() any { return &approval{} }

type approval struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

type usersQuery struct{}

func (usersQuery) Key() string { return "test.users" }

func (usersQuery) AllowedRoles() []string { return []string{auth.RoleModerator} }

type dispatchFunc func(ctx context.Context, cmd commands.Command) (any, error)

func (f dispatchFunc) Dispatch(ctx context.Context, cmd commands.Command) (any, error) {
	return f(ctx, cmd)
}

func withRole(role string) context.Context {
	return auth.WithPrincipal(context.Background(), auth.Principal{ID: "p1", Email: "p1@x.test", Role: role})
}

func TestChainCommandsRunsInListedOrder(t *testing.T) {
	var trail []string
	bus := commands.NewInMemoryBus()
	commands.RegisterHandler[approveCommand, *approval](bus, commands.HandlerFunc[approveCommand, *approval](func(ctx context.Context, cmd approveCommand) (*approval, error) {
		trail = append(trail, "handler")
		return &approval{ID: cmd.ID}, nil
	}))
	step := func(name string) middleware.CommandMiddleware {
		return func(next commands.Bus) commands.Bus {
			return dispatchFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
				trail = append(trail, name)
				return next.Dispatch(ctx, cmd)
			})
		}
	}
	chained := middleware.ChainCommands(bus, step("first"), step("second"))

	_, err := commands.Dispatch[approveCommand, *approval](context.Background(), chained, approveCommand{ID: "b1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "handler"}, trail)
}

func TestAuthorizationChecksRoleBeforeHandler(t *testing.T) {
	calls := 0
	bus := commands.NewInMemoryBus()
	commands.RegisterHandler[approveCommand, *approval](bus, commands.HandlerFunc[approveCommand, *approval](func(ctx context.Context, cmd approveCommand) (*approval, error) {
		calls++
		return &approval{ID: cmd.ID}, nil
	}))
	chained := middleware.ChainCommands(bus, middleware.Authorization(auth.RoleAuthorizer{}, nil))

	_, err := commands.Dispatch[approveCommand, *approval](context.Background(), chained, approveCommand{ID: "b1"})
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)
	_, err = commands.Dispatch[approveCommand, *approval](withRole(auth.RoleUser), chained, approveCommand{ID: "b1"})
	assert.ErrorIs(t, err, auth.ErrForbidden)
	assert.Zero(t, calls)

	got, err := commands.Dispatch[approveCommand, *approval](withRole(auth.RoleLessor), chained, approveCommand{ID: "b1"})
	require.NoError(t, err)
	assert.Equal(t, "b1", got.ID)
	assert.Equal(t, 1, calls)
}

func TestQueryAuthorization(t *testing.T) {
	bus := queries.NewInMemoryBus()
	queries.RegisterHandler[usersQuery, []string](bus, queries.HandlerFunc[usersQuery, []string](func(ctx context.Context, q usersQuery) ([]string, error) {
		return []string{"u1"}, nil
	}))
	chained := middleware.ChainQueries(bus, middleware.QueryAuthorization(auth.RoleAuthorizer{}, nil))

	_, err := queries.Ask[usersQuery, []string](withRole(auth.RoleLessor), chained, usersQuery{})
	assert.ErrorIs(t, err, auth.ErrForbidden)

	got, err := queries.Ask[usersQuery, []string](withRole(auth.RoleModerator), chained, usersQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, got)
}

func TestValidationStopsInvalidCommand(t *testing.T) {
	calls := 0
	bus := commands.NewInMemoryBus()
	commands.RegisterHandler[approveCommand, *approval](bus, commands.HandlerFunc[approveCommand, *approval](func(ctx context.Context, cmd approveCommand) (*approval, error) {
		calls++
		return &approval{}, nil
	}))
	chained := middleware.ChainCommands(bus, middleware.Validation(middleware.MessageValidator{}))

	_, err := commands.Dispatch[approveCommand, *approval](context.Background(), chained, approveCommand{})
	assert.ErrorIs(t, err, errs.ErrValidation)
	assert.Zero(t, calls)
}

func TestIdempotencyStoresOnlySuccess(t *testing.T) {
	calls := 0
	fail := true
	bus := commands.NewInMemoryBus()
	commands.RegisterHandler[approveCommand, *approval](bus, commands.HandlerFunc[approveCommand, *approval](func(ctx context.Context, cmd approveCommand) (*approval, error) {
		calls++
		if fail {
			return nil, errors.New("store down")
		}
		return &approval{ID: cmd.ID, Count: calls}, nil
	}))
	chained := middleware.ChainCommands(bus, middleware.Idempotency(memory.NewIdempotencyStore(time.Hour), nil))
	cmd := approveCommand{ID: "b1", IdemKey: "retry-1"}

	_, err := commands.Dispatch[approveCommand, *approval](context.Background(), chained, cmd)
	require.Error(t, err)

	fail = false
	first, err := commands.Dispatch[approveCommand, *approval](context.Background(), chained, cmd)
	require.NoError(t, err)
	second, err := commands.Dispatch[approveCommand, *approval](context.Background(), chained, cmd)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	assert.Equal(t, first, second)
}

func TestTransactionDropsEventsOnFailure(t *testing.T) {
	box := memory.NewOutbox(nil)
	store := memory.NewStore(box)
	fail := true
	bus := commands.NewInMemoryBus()
	commands.RegisterHandler[approveCommand, *approval](bus, commands.HandlerFunc[approveCommand, *approval](func(ctx context.Context, cmd approveCommand) (*approval, error) {
		unit, ok := uow.FromContext(ctx)
		require.True(t, ok)
		require.NoError(t, unit.Outbox().Add(ctx, appoutbox.EventRecord{ID: "e-" + cmd.ID, Name: "booking.approved"}))
		if fail {
			return nil, errors.New("boom")
		}
		return &approval{ID: cmd.ID}, nil
	}))
	chained := middleware.ChainCommands(bus, middleware.Transaction(store, nil))

	_, err := commands.Dispatch[approveCommand, *approval](context.Background(), chained, approveCommand{ID: "b1"})
	require.Error(t, err)
	assert.Empty(t, box.Pending())

	fail = false
	_, err = commands.Dispatch[approveCommand, *approval](context.Background(), chained, approveCommand{ID: "b2"})
	require.NoError(t, err)
	pending := box.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, "e-b2", pending[0].ID)
}

func TestTransactionNestedDispatchJoinsOuterUnit(t *testing.T) {
	box := memory.NewOutbox(nil)
	store := memory.NewStore(box)
	var units []uow.UnitOfWork
	var chained commands.Bus
	bus := commands.NewInMemoryBus()
	commands.RegisterHandler[approveCommand, *approval](bus, commands.HandlerFunc[approveCommand, *approval](func(ctx context.Context, cmd approveCommand) (*approval, error) {
		unit, ok := uow.FromContext(ctx)
		require.True(t, ok)
		units = append(units, unit)
		require.NoError(t, unit.Outbox().Add(ctx, appoutbox.EventRecord{ID: "e-" + cmd.ID}))
		if cmd.ID == "outer" {
			if _, err := commands.Dispatch[approveCommand, *approval](ctx, chained, approveCommand{ID: "inner"}); err != nil {
				return nil, err
			}
			assert.Empty(t, box.Pending())
		}
		return &approval{ID: cmd.ID}, nil
	}))
	chained = middleware.ChainCommands(bus, nil, middleware.Transaction(store, nil))

	_, err := commands.Dispatch[approveCommand, *approval](context.Background(), chained, approveCommand{ID: "outer"})
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Same(t, units[0], units[1])
	assert.Len(t, box.Pending(), 2)
}
