package host

import (
	"slices"

	"github.com/zjrosen/slotmenu/internal/item"
)

// Event is an inventory interaction event delivered by the host.
type Event interface {
	Actor() PlayerID
	Viewers() []PlayerID
	Container() Container
	Cancelled() bool
	SetCancelled(cancelled bool)
}

// InteractEvent carries the fields shared by all interaction events.
// Concrete events embed it.
type InteractEvent struct {
	actor     PlayerID
	viewers   []PlayerID
	container Container
	cancelled bool
}

// NewInteractEvent builds the shared part of an event. Viewers default to
// the container's current viewers.
func NewInteractEvent(actor PlayerID, c Container) InteractEvent {
	var viewers []PlayerID
	if c != nil {
		viewers = c.Viewers()
	}
	return InteractEvent{actor: actor, viewers: viewers, container: c}
}

func (e *InteractEvent) Actor() PlayerID      { return e.actor }
func (e *InteractEvent) Viewers() []PlayerID  { return slices.Clone(e.viewers) }
func (e *InteractEvent) Container() Container { return e.container }
func (e *InteractEvent) Cancelled() bool      { return e.cancelled }
func (e *InteractEvent) SetCancelled(c bool)  { e.cancelled = c }

// WithViewers overrides the viewer snapshot.
func (e *InteractEvent) WithViewers(v ...PlayerID) { e.viewers = slices.Clone(v) }

// ClickType is the kind of click that produced a ClickEvent.
type ClickType string

const (
	ClickLeft        ClickType = "LEFT"
	ClickRight       ClickType = "RIGHT"
	ClickShiftLeft   ClickType = "SHIFT_LEFT"
	ClickShiftRight  ClickType = "SHIFT_RIGHT"
	ClickMiddle      ClickType = "MIDDLE"
	ClickDrop        ClickType = "DROP"
	ClickDoubleClick ClickType = "DOUBLE_CLICK"
)

// ClickEvent is a click on one slot.
type ClickEvent struct {
	InteractEvent
	Slot   int
	Click  ClickType
	Cursor *item.Stack
}

// NewClickEvent creates a click on slot of c by actor.
func NewClickEvent(actor PlayerID, c Container, slot int, click ClickType) *ClickEvent {
	return &ClickEvent{InteractEvent: NewInteractEvent(actor, c), Slot: slot, Click: click}
}

// DragEvent is a drag of the cursor stack across several slots.
type DragEvent struct {
	InteractEvent
	Slots  []int
	Cursor *item.Stack
}

// NewDragEvent creates a drag over slots of c by actor.
func NewDragEvent(actor PlayerID, c Container, slots ...int) *DragEvent {
	return &DragEvent{InteractEvent: NewInteractEvent(actor, c), Slots: slices.Clone(slots)}
}

// ChatEvent is a chat message; listenable components consume it as input.
type ChatEvent struct {
	Player  PlayerID
	Message string
}

// MessageLog is a Messenger that records messages in memory.
type MessageLog struct {
	Messages map[PlayerID][]string
}

// NewMessageLog creates an empty MessageLog.
func NewMessageLog() *MessageLog {
	return &MessageLog{Messages: make(map[PlayerID][]string)}
}

func (m *MessageLog) SendMessage(p PlayerID, text string) {
	m.Messages[p] = append(m.Messages[p], text)
}
