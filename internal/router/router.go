package router

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/zjrosen/slotmenu/internal/host"
	"github.com/zjrosen/slotmenu/internal/log"
	"github.com/zjrosen/slotmenu/internal/param"
	"github.com/zjrosen/slotmenu/internal/returns"
	"github.com/zjrosen/slotmenu/internal/view"
)

// QualifierFunc is the type-erased form of a qualifier filter.
type QualifierFunc func(ev host.Event, pattern rune, q any) bool

type options struct {
	params      *param.Registry
	returns     *returns.Registry
	qualifiers  map[reflect.Type]QualifierFunc
	middlewares []Middleware
	target      returns.Target
}

// Option configures a Router.
type Option func(*options)

// WithParams sets the parameter registry. Defaults to param.NewRegistry().
func WithParams(r *param.Registry) Option {
	return func(o *options) { o.params = r }
}

// WithReturns sets the return registry. Defaults to returns.NewRegistry().
func WithReturns(r *returns.Registry) Option {
	return func(o *options) { o.returns = r }
}

// WithTarget sets what return actions act on.
func WithTarget(t returns.Target) Option {
	return func(o *options) { o.target = t }
}

// WithMiddleware wraps every invocation. The first middleware is outermost.
func WithMiddleware(mws ...Middleware) Option {
	return func(o *options) { o.middlewares = append(o.middlewares, mws...) }
}

// WithQualifier registers the filter for qualifier values of type Q.
func WithQualifier[Q any](filter func(ev host.Event, pattern rune, q Q) bool) Option {
	return func(o *options) {
		o.qualifiers[reflect.TypeFor[Q]()] = func(ev host.Event, pattern rune, q any) bool {
			return filter(ev, pattern, q.(Q))
		}
	}
}

type entry struct {
	name       string
	mapping    RequestMapping
	fn         reflect.Value
	plan       *param.Plan
	qualifiers []any
}

// Router holds the route table of one controller for one event family.
type Router struct {
	mu         sync.RWMutex
	family     Family
	entries    []*entry
	qualifiers map[reflect.Type]QualifierFunc
	returns    *returns.Registry
	target     returns.Target
	invoker    Invoker
}

// New builds the route table: the controller's common routes first, then
// the family's routes, each in declaration order.
func New(controller any, family Family, opts ...Option) (*Router, error) {
	o := options{qualifiers: make(map[reflect.Type]QualifierFunc)}
	WithQualifier(clickQualifier)(&o)
	for _, opt := range opts {
		opt(&o)
	}
	if o.params == nil {
		o.params = param.NewRegistry()
	}
	if o.returns == nil {
		o.returns = returns.NewRegistry()
	}

	var routes []Route
	if p, ok := controller.(RouteProvider); ok {
		routes = append(routes, p.Routes()...)
	}
	familyRoutes, err := family.Extract(controller)
	if err != nil {
		return nil, fmt.Errorf("extract %s routes: %w", family.Name(), err)
	}
	routes = append(routes, familyRoutes...)

	r := &Router{
		family:     family,
		qualifiers: o.qualifiers,
		returns:    o.returns,
		target:     o.target,
	}
	for _, rt := range routes {
		if err := r.add(rt, o.params); err != nil {
			return nil, err
		}
	}
	r.invoker = ChainMiddleware(InvokerFunc(r.invoke), o.middlewares...)

	log.Debug(log.CatRouter, "router built", "family", family.Name(), "routes", len(r.entries))
	return r, nil
}

func (r *Router) add(rt Route, params *param.Registry) error {
	if rt.Name == "" {
		rt.Name = handlerName(rt.Handler)
	}
	if err := rt.validate(); err != nil {
		return err
	}
	fnType := reflect.TypeOf(rt.Handler)
	plan, err := params.Plan(fnType, rt.Params)
	if err != nil {
		return fmt.Errorf("route %s: %w", rt.Name, err)
	}
	if err := r.returns.Check(fnType); err != nil {
		return fmt.Errorf("route %s: %w", rt.Name, err)
	}
	for _, q := range rt.Qualifiers {
		if _, ok := r.qualifiers[reflect.TypeOf(q)]; !ok {
			return fmt.Errorf("route %s: %w: %T", rt.Name, ErrUnknownQualifier, q)
		}
	}
	for _, e := range r.entries {
		if e.mapping == rt.RequestMapping && len(e.qualifiers) == 0 {
			return fmt.Errorf("route %s shadowed by %s: %w: %s", rt.Name, e.name, ErrDuplicateMapping, rt.RequestMapping)
		}
	}

	r.entries = append(r.entries, &entry{
		name:       rt.Name,
		mapping:    rt.RequestMapping,
		fn:         reflect.ValueOf(rt.Handler),
		plan:       plan,
		qualifiers: slices.Clone(rt.Qualifiers),
	})
	return nil
}

// Family returns the event family the router serves.
func (r *Router) Family() Family { return r.family }

// Len returns the number of routes.
func (r *Router) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Mappings returns the route mappings in registration order.
func (r *Router) Mappings() []RequestMapping {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]RequestMapping, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.mapping
	}
	return out
}

// Unload drops every route.
func (r *Router) Unload() {
	r.mu.Lock()
	r.entries = nil
	r.mu.Unlock()
	log.Debug(log.CatRouter, "router unloaded", "family", r.family.Name())
}

// Handle dispatches ev, raised by player in view v. It reports whether a
// handler ran. Events of another player, of a player not viewing, or of
// another container are ignored. Handler errors are returned unchanged.
func (r *Router) Handle(ctx context.Context, ev host.Event, player host.PlayerID, v *view.View) (bool, error) {
	if reflect.TypeOf(ev) != r.family.Event() {
		return false, nil
	}
	if ev.Actor() != player || !slices.Contains(ev.Viewers(), player) || ev.Container() != v.Container() {
		return false, nil
	}

	pattern, ok := clickedPattern(v, r.family.Slots(ev))
	if !ok {
		return false, nil
	}
	if v.CancelsMove(pattern) {
		ev.SetCancelled(true)
	}

	e := r.match(ev, pattern, v.LayoutType())
	if e == nil {
		return false, nil
	}

	inv := &Invocation{
		Route:   e.name,
		Mapping: e.mapping,
		Request: &param.Request{
			Context: ctx,
			Event:   ev,
			Player:  player,
			View:    v,
			Pattern: pattern,
			Slot:    r.family.Slot(ev),
		},
		entry: e,
	}
	return true, r.invoker.Invoke(ctx, inv)
}

// clickedPattern returns the first pattern, in mask order, owning one of
// the touched slots.
func clickedPattern(v *view.View, touched []int) (rune, bool) {
	m := v.Mask()
	for _, ch := range m.Chars() {
		for _, s := range m.Slots(ch) {
			if slices.Contains(touched, s) {
				return ch, true
			}
		}
	}
	return 0, false
}

func (r *Router) match(ev host.Event, pattern rune, viewType reflect.Type) *entry {
	evType := reflect.TypeOf(ev)
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if ev.Cancelled() && e.mapping.IgnoreCancelled {
			continue
		}
		if e.mapping.Pattern != pattern || e.mapping.Event != evType || e.mapping.View != viewType {
			continue
		}
		if !r.qualified(e, ev, pattern) {
			continue
		}
		return e
	}
	return nil
}

func (r *Router) qualified(e *entry, ev host.Event, pattern rune) bool {
	for _, q := range e.qualifiers {
		if !r.qualifiers[reflect.TypeOf(q)](ev, pattern, q) {
			return false
		}
	}
	return true
}

func (r *Router) invoke(ctx context.Context, inv *Invocation) error {
	args, err := inv.entry.plan.Args(inv.Request)
	if err != nil {
		return fmt.Errorf("route %s: %w", inv.Route, err)
	}
	results := inv.entry.fn.Call(args)
	return r.returns.Handle(returns.Call{
		Context: ctx,
		Player:  inv.Request.Player,
		Target:  r.target,
	}, results)
}
