package component

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/slotmenu/internal/attribute"
	"github.com/zjrosen/slotmenu/internal/host"
	"github.com/zjrosen/slotmenu/internal/template"
	"github.com/zjrosen/slotmenu/internal/view"
)

type formLayout struct{}

func (formLayout) RenderView(any, *view.Context) error { return nil }

func newForm(t *testing.T) *view.View {
	t.Helper()
	v, err := view.New(view.Definition{
		Name: "form",
		Descriptor: func() (*template.InventoryTemplate, error) {
			return template.New("Form", 1, []string{"IIT______"}, map[rune]template.ItemDescriptor{
				'I': {Material: "NAME_TAG", Name: "Name"},
				'T': {Material: "PAPER"},
			})
		},
		New: func() view.Layout { return formLayout{} },
	}, nil, view.Deps{})
	require.NoError(t, err)
	return v
}

func TestBind(t *testing.T) {
	v := newForm(t)
	ctx := v.Context()

	b, err := Bind(ctx, 'I', 1)
	require.NoError(t, err)
	require.False(t, ctx.Shared('I'), "bound slot gets its own stack")
	require.Same(t, b.Item(), v.Container().Item(1))

	_, err = Bind(ctx, '_', 0)
	require.ErrorIs(t, err, ErrEmptySlot)
	_, err = Bind(ctx, 'Q', 0)
	require.ErrorIs(t, err, ErrEmptySlot)
}

func TestBind_SplitsFromRemainingSharers(t *testing.T) {
	v, err := view.New(view.Definition{
		Name: "fields",
		Descriptor: func() (*template.InventoryTemplate, error) {
			return template.New("Fields", 1, []string{"TTT______"}, map[rune]template.ItemDescriptor{
				'T': {Material: "PAPER"},
			})
		},
		New: func() view.Layout { return formLayout{} },
	}, nil, view.Deps{})
	require.NoError(t, err)
	ctx := v.Context()
	c := v.Container()

	first, err := Bind(ctx, 'T', 0)
	require.NoError(t, err)
	second, err := Bind(ctx, 'T', 1)
	require.NoError(t, err)

	require.NotSame(t, first.Item(), second.Item())
	require.NotSame(t, second.Item(), c.Item(2))
	require.Same(t, second.Item(), c.Item(1))

	field := NewTextInputField(second, false)
	require.NoError(t, field.Callback(&host.ChatEvent{Player: "alice", Message: "x"}))
	require.Equal(t, []string{"Input: x"}, c.Item(1).Lore())
	require.Empty(t, c.Item(0).Lore())
	require.Empty(t, c.Item(2).Lore())

	_, ok, err := ctx.Attribute(c.Item(2), ValueTag, attribute.KindString)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestTextInputField_Callback(t *testing.T) {
	v := newForm(t)
	b, err := Bind(v.Context(), 'T', 0)
	require.NoError(t, err)
	field := NewTextInputField(b, false)

	_, ok := field.Value()
	require.False(t, ok)

	require.NoError(t, field.Callback(&host.ChatEvent{Player: "alice", Message: "Steve"}))
	got, ok := field.Value()
	require.True(t, ok)
	require.Equal(t, "Steve", got)
	require.Equal(t, []string{"Input: Steve"}, v.Container().Item(2).Lore())
	require.Equal(t, 10*time.Second, field.MaxWait())
}

func TestRegistry_ListenAndDeliver(t *testing.T) {
	v := newForm(t)
	b, err := Bind(v.Context(), 'T', 0)
	require.NoError(t, err)
	field := NewTextInputField(b, false)

	msgs := host.NewMessageLog()
	reg := NewRegistry(msgs, 0, time.Hour)
	ctx := context.Background()

	require.True(t, reg.Listen(ctx, "alice", field))
	require.Equal(t, []string{"input the value within 10 seconds"}, msgs.Messages["alice"])
	require.True(t, reg.Pending(ctx, "alice"))

	delivered, err := reg.Deliver(ctx, &host.ChatEvent{Player: "bob", Message: "nope"})
	require.NoError(t, err)
	require.False(t, delivered)

	delivered, err = reg.Deliver(ctx, &host.ChatEvent{Player: "alice", Message: "hello"})
	require.NoError(t, err)
	require.True(t, delivered)
	require.False(t, reg.Pending(ctx, "alice"), "registrations are consumed")

	got, _ := field.Value()
	require.Equal(t, "hello", got)
}

func TestRegistry_DisabledNotRegistered(t *testing.T) {
	v := newForm(t)
	b, err := Bind(v.Context(), 'T', 0)
	require.NoError(t, err)

	reg := NewRegistry(host.NewMessageLog(), 0, time.Hour)
	require.False(t, reg.Listen(context.Background(), "alice", NewTextInputField(b, true)))
	require.False(t, reg.Pending(context.Background(), "alice"))
}

type quickInput struct {
	got []string
}

func (q *quickInput) OnListen(host.PlayerID, host.Messenger) {}
func (q *quickInput) MaxWait() time.Duration { return time.Millisecond }
func (q *quickInput) Disabled() bool         { return false }
func (q *quickInput) Callback(ev *host.ChatEvent) error {
	q.got = append(q.got, ev.Message)
	return nil
}

func TestRegistry_ExpiredNeverDelivered(t *testing.T) {
	reg := NewRegistry(nil, 0, time.Hour)
	var expired []host.PlayerID
	reg.OnExpired(func(p host.PlayerID, _ Listenable) { expired = append(expired, p) })
	ctx := context.Background()

	q := &quickInput{}
	require.True(t, reg.Listen(ctx, "alice", q))
	time.Sleep(5 * time.Millisecond)

	delivered, err := reg.Deliver(ctx, &host.ChatEvent{Player: "alice", Message: "late"})
	require.NoError(t, err)
	require.False(t, delivered)
	require.Empty(t, q.got)

	reg.Sweep()
	require.Equal(t, []host.PlayerID{"alice"}, expired)
}

func TestRegistry_CancelIsNotExpiry(t *testing.T) {
	reg := NewRegistry(nil, 0, time.Hour)
	expired := 0
	reg.OnExpired(func(host.PlayerID, Listenable) { expired++ })
	ctx := context.Background()

	reg.Listen(ctx, "alice", &quickInput{})
	reg.Cancel(ctx, "alice")
	reg.Sweep()
	require.Zero(t, expired)
	require.False(t, reg.Pending(ctx, "alice"))
}

// waitless leaves its waiting time to the registry.
type waitless struct{ quickInput }

func (*waitless) MaxWait() time.Duration { return 0 }

func TestRegistry_DefaultWaitForWaitlessComponents(t *testing.T) {
	reg := NewRegistry(nil, 2*time.Millisecond, time.Hour)
	ctx := context.Background()

	w := &waitless{}
	require.True(t, reg.Listen(ctx, "alice", w))
	require.True(t, reg.Pending(ctx, "alice"))
	time.Sleep(10 * time.Millisecond)

	delivered, err := reg.Deliver(ctx, &host.ChatEvent{Player: "alice", Message: "late"})
	require.NoError(t, err)
	require.False(t, delivered, "registry default wait applies")
	require.Empty(t, w.got)

	reg = NewRegistry(nil, time.Hour, time.Hour)
	require.True(t, reg.Listen(ctx, "alice", w))
	time.Sleep(10 * time.Millisecond)
	delivered, err = reg.Deliver(ctx, &host.ChatEvent{Player: "alice", Message: "on time"})
	require.NoError(t, err)
	require.True(t, delivered)
	require.Equal(t, []string{"on time"}, w.got)
}
