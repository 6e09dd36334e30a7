package param

import (
	"context"
	"fmt"
	"reflect"

	"github.com/zjrosen/slotmenu/internal/attribute"
	"github.com/zjrosen/slotmenu/internal/host"
	"github.com/zjrosen/slotmenu/internal/item"
	"github.com/zjrosen/slotmenu/internal/view"
)

var (
	contextType  = reflect.TypeFor[context.Context]()
	eventType    = reflect.TypeFor[host.Event]()
	playerType   = reflect.TypeFor[host.PlayerID]()
	ctxType      = reflect.TypeFor[*view.Context]()
	viewType     = reflect.TypeFor[*view.View]()
	runeType     = reflect.TypeFor[rune]()
	stackType    = reflect.TypeFor[*item.Stack]()
	stacksType   = reflect.TypeFor[[]*item.Stack]()
	attrValType  = reflect.TypeFor[attribute.Value]()
	containerTyp = reflect.TypeFor[host.Container]()
)

func untagged(want reflect.Type) func(reflect.Type, Tag) bool {
	return func(t reflect.Type, tag Tag) bool { return tag == nil && t == want }
}

func defaultRules() []Rule {
	return []Rule{
		{
			Name:    "context",
			Accepts: untagged(contextType),
			Extract: func(req *Request, _ reflect.Type, _ Tag) (reflect.Value, error) {
				ctx := req.Context
				if ctx == nil {
					ctx = context.Background()
				}
				return reflect.ValueOf(&ctx).Elem(), nil
			},
		},
		{
			Name: "event",
			Accepts: func(t reflect.Type, tag Tag) bool {
				return tag == nil && t.Implements(eventType)
			},
			Extract: func(req *Request, t reflect.Type, _ Tag) (reflect.Value, error) {
				if req.Event == nil {
					return reflect.Value{}, ErrAbsentValue
				}
				ev := reflect.ValueOf(req.Event)
				if !ev.Type().AssignableTo(t) {
					return reflect.Value{}, fmt.Errorf("%w: event is %s", ErrAbsentValue, ev.Type())
				}
				out := reflect.New(t).Elem()
				out.Set(ev)
				return out, nil
			},
		},
		{
			Name:    "player",
			Accepts: untagged(playerType),
			Extract: func(req *Request, _ reflect.Type, _ Tag) (reflect.Value, error) {
				return reflect.ValueOf(req.Player), nil
			},
		},
		{
			Name:    "ui-context",
			Accepts: untagged(ctxType),
			Extract: func(req *Request, _ reflect.Type, _ Tag) (reflect.Value, error) {
				if req.View == nil {
					return reflect.Value{}, ErrAbsentValue
				}
				return reflect.ValueOf(req.View.Context()), nil
			},
		},
		{
			Name:    "view",
			Accepts: untagged(viewType),
			Extract: func(req *Request, _ reflect.Type, _ Tag) (reflect.Value, error) {
				if req.View == nil {
					return reflect.Value{}, ErrAbsentValue
				}
				return reflect.ValueOf(req.View), nil
			},
		},
		{
			Name:    "container",
			Accepts: untagged(containerTyp),
			Extract: func(req *Request, _ reflect.Type, _ Tag) (reflect.Value, error) {
				if req.View == nil {
					return reflect.Value{}, ErrAbsentValue
				}
				c := req.View.Container()
				return reflect.ValueOf(&c).Elem(), nil
			},
		},
		{
			Name: "pattern",
			Accepts: func(t reflect.Type, tag Tag) bool {
				_, ok := tag.(PatternTag)
				return ok && t == runeType
			},
			Extract: func(req *Request, _ reflect.Type, _ Tag) (reflect.Value, error) {
				return reflect.ValueOf(req.Pattern), nil
			},
		},
		{
			Name: "clicked",
			Accepts: func(t reflect.Type, tag Tag) bool {
				_, ok := tag.(ClickedTag)
				return ok && t == stackType
			},
			Extract: func(req *Request, _ reflect.Type, _ Tag) (reflect.Value, error) {
				st, err := clicked(req)
				if err != nil {
					return reflect.Value{}, err
				}
				return reflect.ValueOf(st), nil
			},
		},
		{
			Name: "items",
			Accepts: func(t reflect.Type, tag Tag) bool {
				_, ok := tag.(ItemsTag)
				return ok && t == stacksType
			},
			Extract: func(req *Request, _ reflect.Type, tag Tag) (reflect.Value, error) {
				if req.View == nil {
					return reflect.Value{}, ErrAbsentValue
				}
				p := tag.(ItemsTag).Pattern
				if p == 0 {
					p = req.Pattern
				}
				items := req.View.Context().Items(p)
				if items == nil {
					items = []*item.Stack{}
				}
				return reflect.ValueOf(items), nil
			},
		},
		{
			Name: "attribute",
			Accepts: func(t reflect.Type, tag Tag) bool {
				at, ok := tag.(AttrTag)
				return ok && (t == attrValType || t == goTypeOf(at.Kind))
			},
			Extract: extractAttr,
		},
	}
}

func clicked(req *Request) (*item.Stack, error) {
	if req.View == nil || req.Slot < 0 {
		return nil, fmt.Errorf("%w: no clicked slot", ErrAbsentValue)
	}
	st := req.View.Container().Item(req.Slot)
	if st == nil {
		st = item.AirStack()
	}
	return st, nil
}

func extractAttr(req *Request, t reflect.Type, tag Tag) (reflect.Value, error) {
	at := tag.(AttrTag)
	st, err := clicked(req)
	if err != nil {
		return reflect.Value{}, err
	}
	v, ok, err := req.View.Context().Attribute(st, at.Name, at.Kind)
	if err != nil {
		return reflect.Value{}, err
	}
	if !ok {
		return reflect.Value{}, fmt.Errorf("%w: attribute %q unset", ErrAbsentValue, at.Name)
	}
	if t == attrValType {
		return reflect.ValueOf(v), nil
	}
	if b, isBytes := v.AsBytes(); isBytes && b == nil {
		return reflect.ValueOf([]byte{}), nil
	}
	return reflect.ValueOf(v.Interface()).Convert(t), nil
}

// goTypeOf is the Go parameter type an attribute kind converts to.
func goTypeOf(k attribute.Kind) reflect.Type {
	switch k {
	case attribute.KindString:
		return reflect.TypeFor[string]()
	case attribute.KindBool:
		return reflect.TypeFor[bool]()
	case attribute.KindByte:
		return reflect.TypeFor[int8]()
	case attribute.KindShort:
		return reflect.TypeFor[int16]()
	case attribute.KindInt:
		return reflect.TypeFor[int32]()
	case attribute.KindLong:
		return reflect.TypeFor[int64]()
	case attribute.KindFloat:
		return reflect.TypeFor[float32]()
	case attribute.KindDouble:
		return reflect.TypeFor[float64]()
	case attribute.KindBytes:
		return reflect.TypeFor[[]byte]()
	default:
		return nil
	}
}
