// Package mask maps pattern characters to container slots.
package mask

import (
	"fmt"
	"slices"

	"github.com/zjrosen/slotmenu/internal/template"
)

// Columns is the width of a container row.
const Columns = 9

// Empty pads pattern rows shorter than Columns. It never names an item.
const Empty rune = 0

// Mask is the slot assignment of one rendered template: each pattern
// character maps to its absolute slots in scan order.
type Mask struct {
	order []rune
	slots map[rune][]int
	at    []rune
}

// Resolve computes the mask of t.
func Resolve(t *template.InventoryTemplate) (*Mask, error) {
	return FromRows(t.Rows(), t.Pattern())
}

// FromRows computes a mask for rows pattern lines. Rows shorter than
// Columns are padded with Empty, longer ones truncated.
func FromRows(rows int, pattern []string) (*Mask, error) {
	if len(pattern) != rows {
		return nil, fmt.Errorf("%w: rows=%d pattern=%d", template.ErrRowMismatch, rows, len(pattern))
	}
	m := &Mask{
		slots: make(map[rune][]int),
		at:    make([]rune, 0, rows*Columns),
	}
	for r, line := range pattern {
		cells := []rune(line)
		for c := range Columns {
			ch := Empty
			if c < len(cells) {
				ch = cells[c]
			}
			if _, seen := m.slots[ch]; !seen {
				m.order = append(m.order, ch)
			}
			m.slots[ch] = append(m.slots[ch], c+Columns*r)
			m.at = append(m.at, ch)
		}
	}
	return m, nil
}

// Slots returns the slots of ch in ascending order, or nil.
func (m *Mask) Slots(ch rune) []int {
	if m == nil {
		return nil
	}
	return slices.Clone(m.slots[ch])
}

// Has reports whether ch occurs in the mask.
func (m *Mask) Has(ch rune) bool {
	if m == nil {
		return false
	}
	_, ok := m.slots[ch]
	return ok
}

// Chars returns the characters in first-seen order.
func (m *Mask) Chars() []rune {
	if m == nil {
		return nil
	}
	return slices.Clone(m.order)
}

// PatternAt returns the character owning slot.
func (m *Mask) PatternAt(slot int) (rune, bool) {
	if m == nil || slot < 0 || slot >= len(m.at) {
		return Empty, false
	}
	return m.at[slot], true
}

// Len returns the number of slots covered.
func (m *Mask) Len() int {
	if m == nil {
		return 0
	}
	return len(m.at)
}

// Clear empties the mask.
func (m *Mask) Clear() {
	m.order = nil
	m.at = nil
	clear(m.slots)
}
