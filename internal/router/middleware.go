package router

import (
	"context"
	"time"

	"github.com/zjrosen/slotmenu/internal/log"
	"github.com/zjrosen/slotmenu/internal/param"
)

// Invocation is one matched route about to run.
type Invocation struct {
	Route   string
	Mapping RequestMapping
	Request *param.Request
	entry   *entry
}

// Invoker runs an invocation.
type Invoker interface {
	Invoke(ctx context.Context, inv *Invocation) error
}

// InvokerFunc adapts a function to Invoker.
type InvokerFunc func(ctx context.Context, inv *Invocation) error

func (f InvokerFunc) Invoke(ctx context.Context, inv *Invocation) error { return f(ctx, inv) }

// Middleware wraps an Invoker. Middleware functions are composed using
// ChainMiddleware.
type Middleware func(Invoker) Invoker

// ChainMiddleware applies middlewares to an invoker in reverse order.
// The first middleware in the list will be the outermost wrapper.
func ChainMiddleware(inv Invoker, middlewares ...Middleware) Invoker {
	for i := len(middlewares) - 1; i >= 0; i-- {
		inv = middlewares[i](inv)
	}
	return inv
}

// NewLoggingMiddleware logs every invocation with its duration.
func NewLoggingMiddleware() Middleware {
	return func(next Invoker) Invoker {
		return InvokerFunc(func(ctx context.Context, inv *Invocation) error {
			start := time.Now()
			err := next.Invoke(ctx, inv)
			duration := time.Since(start)

			viewName := ""
			if inv.Request.View != nil {
				viewName = inv.Request.View.Name()
			}
			if err != nil {
				log.Error(log.CatRouter, "handler failed",
					"route", inv.Route,
					"pattern", string(inv.Request.Pattern),
					"view", viewName,
					"player", inv.Request.Player,
					"duration", duration,
					"error", err.Error(),
				)
			} else {
				log.Debug(log.CatRouter, "handler completed",
					"route", inv.Route,
					"pattern", string(inv.Request.Pattern),
					"view", viewName,
					"player", inv.Request.Player,
					"duration", duration,
				)
			}
			return err
		})
	}
}
