package view

import (
	"errors"
	"fmt"

	"github.com/zjrosen/slotmenu/internal/attribute"
	"github.com/zjrosen/slotmenu/internal/host"
	"github.com/zjrosen/slotmenu/internal/item"
	"github.com/zjrosen/slotmenu/internal/log"
)

var (
	// ErrNoMetadata is returned when tagging or reading an item that has no
	// attribute container, such as an empty slot.
	ErrNoMetadata = errors.New("item has no metadata")

	// ErrEmptySlot is returned by Split for empty or unknown slots.
	ErrEmptySlot = errors.New("slot is empty")
)

// Context is the runtime handle over one view. It addresses slots by
// pattern character and ordinal (the index within that character's
// slots) and never owns the view.
type Context struct {
	view *View
}

// View returns the view the context belongs to.
func (c *Context) View() *View { return c.view }

// Container returns the view's container.
func (c *Context) Container() host.Container { return c.view.container }

// Model returns the model the view was opened with.
func (c *Context) Model() any { return c.view.model }

// ItemService returns the service the view builds items with.
func (c *Context) ItemService() item.Service { return c.view.deps.Items }

// SetItem places st in the ordinal-th slot of pattern. Returns false when
// the pattern is absent or ordinal is out of range.
func (c *Context) SetItem(pattern rune, ordinal int, st *item.Stack) bool {
	slot, ok := c.slot(pattern, ordinal)
	if !ok {
		return false
	}
	c.view.container.SetItem(slot, st)
	return true
}

// Items returns the stacks of every slot of pattern in mask order. Empty
// slots yield an air stack. Unknown patterns yield an empty slice.
func (c *Context) Items(pattern rune) []*item.Stack {
	slots := c.view.mask.Slots(pattern)
	out := make([]*item.Stack, 0, len(slots))
	for _, s := range slots {
		st := c.view.container.Item(s)
		if st == nil {
			st = item.AirStack()
		}
		out = append(out, st)
	}
	return out
}

// Item returns the stack in the ordinal-th slot of pattern.
func (c *Context) Item(pattern rune, ordinal int) (*item.Stack, bool) {
	slot, ok := c.slot(pattern, ordinal)
	if !ok {
		return nil, false
	}
	st := c.view.container.Item(slot)
	if st == nil {
		st = item.AirStack()
	}
	return st, true
}

// AddItem places st in the first empty slot of pattern. Returns false,
// leaving the container untouched, when every slot is occupied.
func (c *Context) AddItem(pattern rune, st *item.Stack) bool {
	for _, s := range c.view.mask.Slots(pattern) {
		if !c.view.container.Item(s).IsEmpty() {
			continue
		}
		c.view.container.SetItem(s, st)
		return true
	}
	return false
}

// FillItem places st in every slot of pattern.
func (c *Context) FillItem(pattern rune, st *item.Stack) {
	for _, s := range c.view.mask.Slots(pattern) {
		c.view.container.SetItem(s, st)
	}
}

// Key builds an attribute key in the view's namespace.
func (c *Context) Key(name string) attribute.Key {
	return attribute.Key{Namespace: c.view.deps.Namespace, Name: name}
}

// Attribute reads the attribute name of st, checking it has kind.
// The bool is false when the attribute is unset.
func (c *Context) Attribute(st *item.Stack, name string, kind attribute.Kind) (attribute.Value, bool, error) {
	if !st.HasMeta() {
		return attribute.Value{}, false, fmt.Errorf("get attribute %q: %w", name, ErrNoMetadata)
	}
	return attribute.GetKind(st.Meta.Attributes, c.Key(name), kind)
}

// SetAttribute stores value under name on st.
func (c *Context) SetAttribute(st *item.Stack, name string, value attribute.Value) error {
	if !st.HasMeta() {
		return fmt.Errorf("set attribute %q: %w", name, ErrNoMetadata)
	}
	if err := st.Meta.Attributes.Set(c.Key(name), value); err != nil {
		return fmt.Errorf("set attribute %q: %w", name, err)
	}
	log.Debug(log.CatContext, "attribute set", "view", c.view.def.Name, "item", st.Meta.ID, "key", name)
	return nil
}

// SetPatternAttribute stores value on every item of pattern. Empty slots
// are skipped; a stack shared by several slots is written once.
func (c *Context) SetPatternAttribute(pattern rune, name string, value attribute.Value) error {
	seen := make(map[*item.Stack]struct{})
	for _, st := range c.Items(pattern) {
		if st.IsEmpty() {
			continue
		}
		if _, dup := seen[st]; dup {
			continue
		}
		seen[st] = struct{}{}
		if err := c.SetAttribute(st, name, value); err != nil {
			return err
		}
	}
	return nil
}

// Shared reports whether every slot of pattern holds the same stack
// value, so that mutating one mutates all.
func (c *Context) Shared(pattern rune) bool {
	slots := c.view.mask.Slots(pattern)
	if len(slots) < 2 {
		return false
	}
	first := c.view.container.Item(slots[0])
	if first == nil {
		return false
	}
	for _, s := range slots[1:] {
		if c.view.container.Item(s) != first {
			return false
		}
	}
	return true
}

// Aliased reports whether the stack in the ordinal-th slot of pattern is
// also placed in any other slot of the container.
func (c *Context) Aliased(pattern rune, ordinal int) bool {
	slot, ok := c.slot(pattern, ordinal)
	if !ok {
		return false
	}
	st := c.view.container.Item(slot)
	if st == nil {
		return false
	}
	for s := range c.view.container.Size() {
		if s != slot && c.view.container.Item(s) == st {
			return true
		}
	}
	return false
}

// Split gives the ordinal-th slot of pattern its own copy of its stack
// and returns that copy. Other slots keep the original. The copy's
// attributes go to the item service's attribute provider.
func (c *Context) Split(pattern rune, ordinal int) (*item.Stack, error) {
	slot, ok := c.slot(pattern, ordinal)
	if !ok {
		return nil, fmt.Errorf("%w: %q[%d]", ErrEmptySlot, pattern, ordinal)
	}
	st := c.view.container.Item(slot)
	if st.IsEmpty() {
		return nil, fmt.Errorf("%w: %q[%d]", ErrEmptySlot, pattern, ordinal)
	}
	cp, err := c.view.deps.Items.Clone(st)
	if err != nil {
		return nil, err
	}
	c.view.container.SetItem(slot, cp)
	return cp, nil
}

// Update applies fn to the stack in the ordinal-th slot of pattern and
// stores it back. When the stack is shared the change shows in every
// slot that shares it; Split first to change one slot only.
func (c *Context) Update(pattern rune, ordinal int, fn func(st *item.Stack)) bool {
	slot, ok := c.slot(pattern, ordinal)
	if !ok {
		return false
	}
	st := c.view.container.Item(slot)
	if st.IsEmpty() {
		return false
	}
	fn(st)
	c.view.container.SetItem(slot, st)
	return true
}

// CancelsMove reports whether clicks on pattern are cancelled.
func (c *Context) CancelsMove(pattern rune) bool { return c.view.CancelsMove(pattern) }

func (c *Context) slot(pattern rune, ordinal int) (int, bool) {
	slots := c.view.mask.Slots(pattern)
	if ordinal < 0 || ordinal >= len(slots) {
		return 0, false
	}
	return slots[ordinal], true
}
