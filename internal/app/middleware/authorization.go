package middleware

import (
	"context"
	"log/slog"

	"courtly/internal/app/commands"
	"courtly/internal/app/queries"
)

// Authorizer decides whether the caller in ctx may send message.
type Authorizer interface {
	Authorize(ctx context.Context, message any) error
}

type keyed interface {
	Key() string
}

func authorize(ctx context.Context, a Authorizer, logger *slog.Logger, kind string, message keyed) error {
	err := a.Authorize(ctx, message)
	if err != nil && logger != nil {
		logger.WarnContext(ctx, "message rejected", "kind", kind, "key", message.Key(), "error", err)
	}
	return err
}

// Authorization rejects commands the caller's role may not send. Denials are
// logged at warn level when logger is set.
func Authorization(a Authorizer, logger *slog.Logger) CommandMiddleware {
	if a == nil {
		panic("middleware: authorizer required")
	}
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			if err := authorize(ctx, a, logger, "command", cmd); err != nil {
				return nil, err
			}
			return next.Dispatch(ctx, cmd)
		})
	}
}

func QueryAuthorization(a Authorizer, logger *slog.Logger) QueryMiddleware {
	if a == nil {
		panic("middleware: authorizer required")
	}
	return func(next queries.Bus) queries.Bus {
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			if err := authorize(ctx, a, logger, "query", q); err != nil {
				return nil, err
			}
			return next.Ask(ctx, q)
		})
	}
}
