package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/slotmenu/internal/router"
)

// NewRouterMiddleware creates a span around every handler invocation.
// A nil tracer yields a pass-through middleware.
func NewRouterMiddleware(tracer trace.Tracer) router.Middleware {
	if tracer == nil {
		return func(next router.Invoker) router.Invoker { return next }
	}

	return func(next router.Invoker) router.Invoker {
		return router.InvokerFunc(func(ctx context.Context, inv *router.Invocation) error {
			ctx, span := tracer.Start(ctx, SpanPrefixDispatch+inv.Route,
				trace.WithSpanKind(trace.SpanKindInternal),
			)
			defer span.End()

			req := inv.Request
			span.SetAttributes(
				attribute.String(AttrRoute, inv.Route),
				attribute.String(AttrPattern, string(req.Pattern)),
				attribute.String(AttrEventType, fmt.Sprintf("%T", req.Event)),
				attribute.String(AttrPlayer, string(req.Player)),
			)
			if req.Event != nil {
				span.SetAttributes(attribute.Bool(AttrCancelled, req.Event.Cancelled()))
			}
			if req.View != nil {
				span.SetAttributes(
					attribute.String(AttrViewName, req.View.Name()),
					attribute.String(AttrViewID, req.View.ID()),
				)
			}

			err := next.Invoke(ctx, inv)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			} else {
				span.SetStatus(codes.Ok, "")
			}
			return err
		})
	}
}
