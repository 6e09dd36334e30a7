package item

import (
	"fmt"
	"maps"
	"slices"

	"github.com/google/uuid"

	"github.com/zjrosen/slotmenu/internal/attribute"
)

// Enchantment names an enchantment kind.
type Enchantment string

// Unbreaking is the enchantment used to make an item glow.
const Unbreaking Enchantment = "unbreaking"

// Meta is an item's metadata: display data plus its attribute container.
// Empty slots carry no Meta.
type Meta struct {
	ID         string
	Display    string
	Lore       []string
	Enchants   map[Enchantment]int
	Attributes attribute.Container
}

// Stack is an item stack as placed into a container slot.
//
// The renderer places one *Stack into every slot of a pattern, so
// mutating the pointed-to value changes all of those slots at once.
type Stack struct {
	Material Material
	Amount   int
	Meta     *Meta
}

// AirStack returns a fresh empty-slot sentinel.
func AirStack() *Stack {
	return &Stack{Material: Air}
}

// IsEmpty reports whether the stack represents an empty slot. Nil is empty.
func (s *Stack) IsEmpty() bool {
	return s == nil || s.Material == Air || s.Amount <= 0
}

// HasMeta reports whether attributes can be stored on the stack.
func (s *Stack) HasMeta() bool {
	return s != nil && s.Meta != nil && s.Meta.Attributes != nil
}

// Glowing reports whether the stack carries any enchantment.
func (s *Stack) Glowing() bool {
	return s != nil && s.Meta != nil && len(s.Meta.Enchants) > 0
}

// Display returns the display name, or "" when none is set.
func (s *Stack) Display() string {
	if s == nil || s.Meta == nil {
		return ""
	}
	return s.Meta.Display
}

// Lore returns a copy of the lore lines.
func (s *Stack) Lore() []string {
	if s == nil || s.Meta == nil {
		return nil
	}
	return slices.Clone(s.Meta.Lore)
}

// Clone returns an independent copy with a new item id. The copy's
// attributes are written to the container p hands out for that id; a nil
// p keeps them in memory.
func (s *Stack) Clone(p attribute.Provider) (*Stack, error) {
	if s == nil {
		return nil, nil
	}
	out := &Stack{Material: s.Material, Amount: s.Amount}
	if s.Meta == nil {
		return out, nil
	}
	if p == nil {
		p = attribute.MemoryProvider()
	}
	id := uuid.NewString()
	var attrs attribute.Container
	if s.Meta.Attributes != nil {
		attrs = p(id)
		if err := attribute.Copy(attrs, s.Meta.Attributes); err != nil {
			return nil, fmt.Errorf("cloning attributes of %s: %w", s.Meta.ID, err)
		}
	}
	out.Meta = &Meta{
		ID:         id,
		Display:    s.Meta.Display,
		Lore:       slices.Clone(s.Meta.Lore),
		Enchants:   maps.Clone(s.Meta.Enchants),
		Attributes: attrs,
	}
	return out, nil
}

// Same reports whether two stacks look identical to a player: material,
// amount, display, lore and enchantments. Item ids and attributes are
// not compared.
func Same(a, b *Stack) bool {
	if a.IsEmpty() || b.IsEmpty() {
		return a.IsEmpty() && b.IsEmpty()
	}
	if a.Material != b.Material || a.Amount != b.Amount {
		return false
	}
	return a.Display() == b.Display() &&
		slices.Equal(a.Lore(), b.Lore()) &&
		maps.Equal(enchants(a), enchants(b))
}

func enchants(s *Stack) map[Enchantment]int {
	if s.Meta == nil {
		return nil
	}
	return s.Meta.Enchants
}
