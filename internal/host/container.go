// Package host declares what the menu engine needs from the game server:
// slot containers, interaction events and a way to message players.
// In-memory implementations are provided for tests and previews.
package host

import (
	"slices"
	"sync"

	"github.com/zjrosen/slotmenu/internal/item"
)

// Columns is the width of every container row.
const Columns = 9

// PlayerID identifies a player (the acting entity of an event).
type PlayerID string

// Container is a slot-addressable item container.
type Container interface {
	Title() string
	Size() int
	// Item returns the stack in slot, or nil when the slot is empty or out of range.
	Item(slot int) *item.Stack
	// SetItem stores st in slot; a nil st empties the slot. Out-of-range slots are ignored.
	SetItem(slot int, st *item.Stack)
	Clear()
	Viewers() []PlayerID
}

// ContainerFactory creates the backing container for a view.
type ContainerFactory func(size int, title string) Container

// Messenger sends chat text to a player.
type Messenger interface {
	SendMessage(player PlayerID, text string)
}

// Inventory is an in-memory Container.
type Inventory struct {
	mu      sync.RWMutex
	title   string
	slots   []*item.Stack
	viewers []PlayerID
}

// NewInventory creates an empty inventory with size slots.
func NewInventory(size int, title string) *Inventory {
	if size < 0 {
		size = 0
	}
	return &Inventory{title: title, slots: make([]*item.Stack, size)}
}

// InventoryFactory is a ContainerFactory producing *Inventory values.
func InventoryFactory(size int, title string) Container {
	return NewInventory(size, title)
}

func (inv *Inventory) Title() string { return inv.title }
func (inv *Inventory) Size() int     { return len(inv.slots) }

func (inv *Inventory) Item(slot int) *item.Stack {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	if slot < 0 || slot >= len(inv.slots) {
		return nil
	}
	return inv.slots[slot]
}

func (inv *Inventory) SetItem(slot int, st *item.Stack) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	if slot < 0 || slot >= len(inv.slots) {
		return
	}
	inv.slots[slot] = st
}

func (inv *Inventory) Clear() {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	clear(inv.slots)
}

func (inv *Inventory) Viewers() []PlayerID {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return slices.Clone(inv.viewers)
}

// AddViewer records p as viewing the inventory.
func (inv *Inventory) AddViewer(p PlayerID) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	if !slices.Contains(inv.viewers, p) {
		inv.viewers = append(inv.viewers, p)
	}
}

// RemoveViewer forgets p.
func (inv *Inventory) RemoveViewer(p PlayerID) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.viewers = slices.DeleteFunc(inv.viewers, func(v PlayerID) bool { return v == p })
}

// Occupied returns the indices of non-empty slots in ascending order.
func (inv *Inventory) Occupied() []int {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	var out []int
	for i, st := range inv.slots {
		if !st.IsEmpty() {
			out = append(out, i)
		}
	}
	return out
}

// ViewerTracker is implemented by containers that track their viewers.
type ViewerTracker interface {
	AddViewer(p PlayerID)
	RemoveViewer(p PlayerID)
}
