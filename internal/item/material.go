// Package item models item stacks placed into menu slots and the builder
// service that constructs them from template descriptors.
package item

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrUnknownMaterial is returned when a descriptor names a material the
// material set does not know.
var ErrUnknownMaterial = errors.New("unknown material")

// Material identifies an item type, e.g. "DIAMOND".
type Material string

// Air is the material of an empty slot.
const Air Material = "AIR"

// Normalize upper-cases and trims a material name and strips an optional
// "minecraft:" namespace.
func Normalize(name string) Material {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(strings.ToLower(name), "minecraft:")
	return Material(strings.ToUpper(name))
}

// Materials is the set of known materials.
type Materials struct {
	mu    sync.RWMutex
	known map[Material]struct{}
}

// NewMaterials creates a material set. Air is always included.
func NewMaterials(names ...string) *Materials {
	m := &Materials{known: map[Material]struct{}{Air: {}}}
	m.Add(names...)
	return m
}

// DefaultMaterials returns the materials menus commonly use.
func DefaultMaterials() *Materials {
	return NewMaterials(
		"STONE", "DIRT", "CHEST", "BARRIER", "PAPER", "BOOK", "WRITABLE_BOOK",
		"NAME_TAG", "OAK_SIGN", "ARROW", "SPECTRAL_ARROW", "CLOCK", "COMPASS",
		"DIAMOND", "EMERALD", "GOLD_INGOT", "IRON_INGOT", "COAL", "REDSTONE",
		"GLASS_PANE", "WHITE_STAINED_GLASS_PANE", "BLACK_STAINED_GLASS_PANE",
		"GRAY_STAINED_GLASS_PANE", "RED_STAINED_GLASS_PANE", "LIME_STAINED_GLASS_PANE",
		"GREEN_STAINED_GLASS_PANE", "YELLOW_STAINED_GLASS_PANE", "BLUE_STAINED_GLASS_PANE",
		"PLAYER_HEAD", "DIAMOND_SWORD", "IRON_SWORD", "BOW", "SHIELD", "APPLE",
		"BREAD", "EXPERIENCE_BOTTLE", "ENDER_PEARL", "HOPPER", "ANVIL", "LEVER",
	)
}

// Add registers additional material names.
func (m *Materials) Add(names ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range names {
		if mat := Normalize(n); mat != "" {
			m.known[mat] = struct{}{}
		}
	}
}

// Lookup resolves a material name.
func (m *Materials) Lookup(name string) (Material, error) {
	mat := Normalize(name)
	m.mu.RLock()
	_, ok := m.known[mat]
	m.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMaterial, name)
	}
	return mat, nil
}
