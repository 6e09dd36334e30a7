package param

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/slotmenu/internal/attribute"
	"github.com/zjrosen/slotmenu/internal/host"
	"github.com/zjrosen/slotmenu/internal/item"
	"github.com/zjrosen/slotmenu/internal/template"
	"github.com/zjrosen/slotmenu/internal/view"
)

type layout struct{}

func (layout) RenderView(any, *view.Context) error { return nil }

func newView(t *testing.T) *view.View {
	t.Helper()
	v, err := view.New(view.Definition{
		Name: "shop",
		Descriptor: func() (*template.InventoryTemplate, error) {
			return template.New("Shop", 1, []string{"AAAB_____"}, map[rune]template.ItemDescriptor{
				'A': {Material: "PAPER"},
				'B': {Material: "DIAMOND", Amount: 2},
			})
		},
		New: func() view.Layout { return layout{} },
	}, nil, view.Deps{})
	require.NoError(t, err)
	return v
}

func clickRequest(t *testing.T, v *view.View, slot int) *Request {
	ev := host.NewClickEvent("alice", v.Container(), slot, host.ClickLeft)
	ch, _ := v.Mask().PatternAt(slot)
	return &Request{Context: context.Background(), Event: ev, Player: "alice", View: v, Pattern: ch, Slot: slot}
}

func TestPlan_DefaultRules(t *testing.T) {
	v := newView(t)
	req := clickRequest(t, v, 3)

	var (
		gotCtx     context.Context
		gotEvent   *host.ClickEvent
		gotPlayer  host.PlayerID
		gotUI      *view.Context
		gotPattern rune
		gotClicked *item.Stack
		gotItems   []*item.Stack
	)
	fn := func(ctx context.Context, ev *host.ClickEvent, p host.PlayerID, ui *view.Context, pattern rune, st *item.Stack, items []*item.Stack) {
		gotCtx, gotEvent, gotPlayer, gotUI = ctx, ev, p, ui
		gotPattern, gotClicked, gotItems = pattern, st, items
	}

	plan, err := NewRegistry().Plan(reflect.TypeOf(fn), []Tag{nil, nil, nil, nil, Pattern(), Clicked(), Items('A')})
	require.NoError(t, err)
	require.Equal(t, []string{"context", "event", "player", "ui-context", "pattern", "clicked", "items"}, plan.RuleNames())

	args, err := plan.Args(req)
	require.NoError(t, err)
	reflect.ValueOf(fn).Call(args)

	require.NotNil(t, gotCtx)
	require.Same(t, req.Event, gotEvent)
	require.Equal(t, host.PlayerID("alice"), gotPlayer)
	require.Same(t, v.Context(), gotUI)
	require.Equal(t, 'B', gotPattern)
	require.Equal(t, 2, gotClicked.Amount)
	require.Len(t, gotItems, 3)
}

func TestPlan_Unresolved(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Plan(reflect.TypeOf(func(string) {}), nil)
	require.ErrorIs(t, err, ErrUnresolvedParameter)
	var uerr *UnresolvedError
	require.ErrorAs(t, err, &uerr)
	require.Equal(t, 0, uerr.Index)
	require.Contains(t, err.Error(), "string")

	_, err = reg.Plan(reflect.TypeOf(func(host.PlayerID, int) {}), []Tag{nil, Pattern()})
	require.ErrorIs(t, err, ErrUnresolvedParameter)
	require.Contains(t, err.Error(), "Pattern")

	_, err = reg.Plan(reflect.TypeOf(func(...int) {}), nil)
	require.ErrorIs(t, err, ErrUnresolvedParameter)

	_, err = reg.Plan(reflect.TypeOf(42), nil)
	require.ErrorIs(t, err, ErrNotFunc)

	_, err = reg.Plan(reflect.TypeOf(func() {}), []Tag{Pattern()})
	require.ErrorIs(t, err, ErrUnresolvedParameter)
}

func TestPlan_AbsentValues(t *testing.T) {
	v := newView(t)
	drag := host.NewDragEvent("alice", v.Container(), 0, 1)
	req := &Request{Event: drag, Player: "alice", View: v, Pattern: 'A', Slot: -1}

	plan, err := NewRegistry().Plan(reflect.TypeOf(func(*item.Stack) {}), []Tag{Clicked()})
	require.NoError(t, err)
	_, err = plan.Args(req)
	require.ErrorIs(t, err, ErrAbsentValue)

	plan, err = NewRegistry().Plan(reflect.TypeOf(func(*host.ClickEvent) {}), nil)
	require.NoError(t, err)
	_, err = plan.Args(req)
	require.ErrorIs(t, err, ErrAbsentValue)

	plan, err = NewRegistry().Plan(reflect.TypeOf(func(host.Event) {}), nil)
	require.NoError(t, err)
	args, err := plan.Args(req)
	require.NoError(t, err)
	require.Equal(t, drag, args[0].Interface())
}

type session struct{ id string }

func TestPlan_RuleReturningNothing(t *testing.T) {
	tests := []struct {
		name string
		v    reflect.Value
	}{
		{"invalid value", reflect.Value{}},
		{"nil pointer", reflect.Zero(reflect.TypeFor[*session]())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			reg.Use(Rule{
				Name:    "session",
				Accepts: func(t reflect.Type, tag Tag) bool { return t == reflect.TypeFor[*session]() },
				Extract: func(*Request, reflect.Type, Tag) (reflect.Value, error) { return tt.v, nil },
			})
			plan, err := reg.Plan(reflect.TypeOf(func(*session) {}), nil)
			require.NoError(t, err)

			args, err := plan.Args(&Request{Player: "bob", Slot: -1})
			require.ErrorIs(t, err, ErrAbsentValue)
			require.Contains(t, err.Error(), "rule session")
			require.Nil(t, args)
		})
	}
}

func TestPlan_ItemsOfUnknownPatternIsEmpty(t *testing.T) {
	v := newView(t)
	plan, err := NewRegistry().Plan(reflect.TypeOf(func([]*item.Stack) {}), []Tag{Items('Q')})
	require.NoError(t, err)
	args, err := plan.Args(clickRequest(t, v, 3))
	require.NoError(t, err)
	require.Empty(t, args[0].Interface())
}

func TestPlan_Attribute(t *testing.T) {
	v := newView(t)
	ctx := v.Context()
	require.NoError(t, ctx.SetPatternAttribute('B', "price", attribute.Long(99)))
	req := clickRequest(t, v, 3)

	plan, err := NewRegistry().Plan(
		reflect.TypeOf(func(int64, attribute.Value) {}),
		[]Tag{Attr("price", attribute.KindLong), Attr("price", attribute.KindLong)},
	)
	require.NoError(t, err)
	args, err := plan.Args(req)
	require.NoError(t, err)
	require.Equal(t, int64(99), args[0].Int())
	require.True(t, args[1].Interface().(attribute.Value).Equal(attribute.Long(99)))

	missing, err := NewRegistry().Plan(reflect.TypeOf(func(string) {}), []Tag{Attr("name", attribute.KindString)})
	require.NoError(t, err)
	_, err = missing.Args(req)
	require.ErrorIs(t, err, ErrAbsentValue)

	_, err = NewRegistry().Plan(reflect.TypeOf(func(string) {}), []Tag{Attr("price", attribute.KindLong)})
	require.ErrorIs(t, err, ErrUnresolvedParameter)

	empty := clickRequest(t, v, 5)
	_, err = plan.Args(empty)
	require.ErrorIs(t, err, view.ErrNoMetadata)
}

type shopID string

func TestRegistry_UseOverridesDefaults(t *testing.T) {
	reg := NewRegistry()
	reg.Use(Rule{
		Name:    "shop-id",
		Accepts: func(t reflect.Type, tag Tag) bool { return t == reflect.TypeFor[shopID]() },
		Extract: func(req *Request, _ reflect.Type, _ Tag) (reflect.Value, error) {
			return reflect.ValueOf(shopID("shop-" + string(req.Player))), nil
		},
	})
	require.Equal(t, "shop-id", reg.Rules()[0])

	plan, err := reg.Plan(reflect.TypeOf(func(shopID) {}), nil)
	require.NoError(t, err)
	args, err := plan.Args(&Request{Player: "bob", Slot: -1})
	require.NoError(t, err)
	require.Equal(t, shopID("shop-bob"), args[0].Interface())
}
