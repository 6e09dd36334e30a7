// Package component provides interactive items bound to a view slot.
// Listenable components wait for the player's next chat message.
package component

import (
	"errors"
	"fmt"
	"time"

	"github.com/zjrosen/slotmenu/internal/host"
	"github.com/zjrosen/slotmenu/internal/item"
	"github.com/zjrosen/slotmenu/internal/view"
)

// ValueTag is the attribute name components store their value under.
const ValueTag = "value"

// ErrEmptySlot is returned when binding a component to an empty slot.
var ErrEmptySlot = errors.New("component slot is empty")

// Listenable is a component that consumes the player's next chat message.
type Listenable interface {
	// OnListen runs when the registration starts, typically to prompt.
	OnListen(player host.PlayerID, m host.Messenger)
	// MaxWait is how long the registration stays valid.
	MaxWait() time.Duration
	// Callback receives the chat message.
	Callback(ev *host.ChatEvent) error
	Disabled() bool
}

// Base binds a component to one slot of a view and owns the stack in it.
type Base struct {
	ctx     *view.Context
	pattern rune
	ordinal int
	stack   *item.Stack
}

// Bind takes ownership of the stack in the ordinal-th slot of pattern.
// A stack that any other slot also holds is split off first.
func Bind(ctx *view.Context, pattern rune, ordinal int) (Base, error) {
	st, ok := ctx.Item(pattern, ordinal)
	if !ok || st.IsEmpty() {
		return Base{}, fmt.Errorf("%w: %q[%d]", ErrEmptySlot, pattern, ordinal)
	}
	if ctx.Aliased(pattern, ordinal) {
		var err error
		if st, err = ctx.Split(pattern, ordinal); err != nil {
			return Base{}, fmt.Errorf("binding %q[%d]: %w", pattern, ordinal, err)
		}
	}
	return Base{ctx: ctx, pattern: pattern, ordinal: ordinal, stack: st}, nil
}

// Item returns the component's stack.
func (b *Base) Item() *item.Stack { return b.stack }

// Context returns the view context the component lives in.
func (b *Base) Context() *view.Context { return b.ctx }

// Update writes the stack back into its slot.
func (b *Base) Update() {
	b.ctx.SetItem(b.pattern, b.ordinal, b.stack)
}
