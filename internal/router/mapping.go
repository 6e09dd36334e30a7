// Package router dispatches inventory events to controller handlers.
//
// A Router is built once per controller and event family. Every route is
// validated when the router is built: its parameter plan, its return type
// and its qualifiers. Handle then only matches and invokes.
package router

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"

	"github.com/zjrosen/slotmenu/internal/host"
	"github.com/zjrosen/slotmenu/internal/param"
)

var (
	// ErrDuplicateMapping is returned when a route can never be reached
	// because an earlier unqualified route has the identical mapping.
	ErrDuplicateMapping = errors.New("duplicate request mapping")

	// ErrUnknownQualifier is returned for a qualifier with no registered filter.
	ErrUnknownQualifier = errors.New("unknown qualifier")

	// ErrInvalidRoute is returned for routes missing a handler or types.
	ErrInvalidRoute = errors.New("invalid route")
)

// RequestMapping is the composite key a route is matched on.
type RequestMapping struct {
	Pattern         rune
	Event           reflect.Type
	View            reflect.Type
	IgnoreCancelled bool
}

func (m RequestMapping) String() string {
	return fmt.Sprintf("%q %v %v ignoreCancelled=%t", m.Pattern, m.Event, m.View, m.IgnoreCancelled)
}

// TypeOf is shorthand for reflect.TypeFor, used to fill mapping types:
//
//	router.Route{Event: router.TypeOf[*host.ClickEvent](), View: router.TypeOf[*ShopLayout]()}
func TypeOf[T any]() reflect.Type { return reflect.TypeFor[T]() }

// Route is a mapping plus the handler it dispatches to.
type Route struct {
	Name string
	RequestMapping

	// Handler is a function (usually a method value). Its parameters are
	// resolved through the param registry; Params tags them by index.
	Handler any
	Params  []param.Tag

	// Qualifiers are extra predicates; each needs a filter registered
	// for its type through WithQualifier.
	Qualifiers []any
}

// RouteProvider is implemented by controllers that declare common routes.
type RouteProvider interface {
	Routes() []Route
}

// Family is one kind of inventory event with its own route shape.
type Family interface {
	Name() string
	Event() reflect.Type
	// Extract returns the family-shaped routes of controller, translated.
	Extract(controller any) ([]Route, error)
	// Slots returns the slots the event touched.
	Slots(ev host.Event) []int
	// Slot returns the single clicked slot, or -1.
	Slot(ev host.Event) int
}

func (r Route) validate() error {
	if r.Handler == nil {
		return fmt.Errorf("%w: route %s has no handler", ErrInvalidRoute, r.Name)
	}
	if reflect.TypeOf(r.Handler).Kind() != reflect.Func {
		return fmt.Errorf("%w: route %s handler is %T, not a function", ErrInvalidRoute, r.Name, r.Handler)
	}
	if r.Event == nil || r.View == nil {
		return fmt.Errorf("%w: route %s needs event and view types", ErrInvalidRoute, r.Name)
	}
	return nil
}

func handlerName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return fmt.Sprintf("%T", fn)
	}
	if f := runtime.FuncForPC(v.Pointer()); f != nil {
		return f.Name()
	}
	return "anonymous"
}
