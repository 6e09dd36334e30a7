package router

import (
	"reflect"
	"slices"

	"github.com/zjrosen/slotmenu/internal/host"
	"github.com/zjrosen/slotmenu/internal/param"
)

// Clicks restricts a click route to the listed click types. It is a
// qualifier the router always knows.
type Clicks []host.ClickType

// ClickRoute is the click family's route shape.
type ClickRoute struct {
	Name            string
	Pattern         rune
	View            reflect.Type
	Clicks          []host.ClickType
	IgnoreCancelled bool
	Handler         any
	Params          []param.Tag
	Qualifiers      []any
}

// ClickRouteProvider is implemented by controllers handling clicks.
type ClickRouteProvider interface {
	ClickRoutes() []ClickRoute
}

// DragRoute is the drag family's route shape.
type DragRoute struct {
	Name            string
	Pattern         rune
	View            reflect.Type
	IgnoreCancelled bool
	Handler         any
	Params          []param.Tag
	Qualifiers      []any
}

// DragRouteProvider is implemented by controllers handling drags.
type DragRouteProvider interface {
	DragRoutes() []DragRoute
}

var (
	clickEventType = reflect.TypeFor[*host.ClickEvent]()
	dragEventType  = reflect.TypeFor[*host.DragEvent]()
)

type clickFamily struct{}

// Click is the click event family.
var Click Family = clickFamily{}

func (clickFamily) Name() string        { return "click" }
func (clickFamily) Event() reflect.Type { return clickEventType }

func (clickFamily) Extract(controller any) ([]Route, error) {
	p, ok := controller.(ClickRouteProvider)
	if !ok {
		return nil, nil
	}
	var out []Route
	for _, cr := range p.ClickRoutes() {
		quals := slices.Clone(cr.Qualifiers)
		if len(cr.Clicks) > 0 {
			quals = append(quals, Clicks(cr.Clicks))
		}
		out = append(out, Route{
			Name: cr.Name,
			RequestMapping: RequestMapping{
				Pattern:         cr.Pattern,
				Event:           clickEventType,
				View:            cr.View,
				IgnoreCancelled: cr.IgnoreCancelled,
			},
			Handler:    cr.Handler,
			Params:     cr.Params,
			Qualifiers: quals,
		})
	}
	return out, nil
}

func (clickFamily) Slots(ev host.Event) []int {
	if ce, ok := ev.(*host.ClickEvent); ok {
		return []int{ce.Slot}
	}
	return nil
}

func (clickFamily) Slot(ev host.Event) int {
	if ce, ok := ev.(*host.ClickEvent); ok {
		return ce.Slot
	}
	return -1
}

type dragFamily struct{}

// Drag is the drag event family.
var Drag Family = dragFamily{}

func (dragFamily) Name() string        { return "drag" }
func (dragFamily) Event() reflect.Type { return dragEventType }

func (dragFamily) Extract(controller any) ([]Route, error) {
	p, ok := controller.(DragRouteProvider)
	if !ok {
		return nil, nil
	}
	var out []Route
	for _, dr := range p.DragRoutes() {
		out = append(out, Route{
			Name: dr.Name,
			RequestMapping: RequestMapping{
				Pattern:         dr.Pattern,
				Event:           dragEventType,
				View:            dr.View,
				IgnoreCancelled: dr.IgnoreCancelled,
			},
			Handler:    dr.Handler,
			Params:     dr.Params,
			Qualifiers: slices.Clone(dr.Qualifiers),
		})
	}
	return out, nil
}

func (dragFamily) Slots(ev host.Event) []int {
	if de, ok := ev.(*host.DragEvent); ok {
		return slices.Clone(de.Slots)
	}
	return nil
}

func (dragFamily) Slot(host.Event) int { return -1 }

func clickQualifier(ev host.Event, _ rune, q Clicks) bool {
	ce, ok := ev.(*host.ClickEvent)
	return ok && slices.Contains(q, ce.Click)
}
