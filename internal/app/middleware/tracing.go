package middleware

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"courtly/internal/app/commands"
	"courtly/internal/app/queries"
)

// CommandTracing opens one span per dispatched command.
func CommandTracing(tracer trace.Tracer) CommandMiddleware {
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			ctx, span := tracer.Start(ctx, "command "+cmd.Key(), trace.WithAttributes(attribute.String("courtly.message", cmd.Key())))
			defer span.End()
			res, err := next.Dispatch(ctx, cmd)
			recordSpanError(span, err)
			return res, err
		})
	}
}

// QueryTracing opens one span per query.
func QueryTracing(tracer trace.Tracer) QueryMiddleware {
	return func(next queries.Bus) queries.Bus {
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			ctx, span := tracer.Start(ctx, "query "+q.Key(), trace.WithAttributes(attribute.String("courtly.message", q.Key())))
			defer span.End()
			res, err := next.Ask(ctx, q)
			recordSpanError(span, err)
			return res, err
		})
	}
}

func recordSpanError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
