// Package template holds the declarative menu model: inventory templates
// made of a character-grid pattern and the item descriptors the pattern
// keys refer to.
package template

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// MaxRows is the tallest container a template may describe.
const MaxRows = 6

var (
	// ErrRowMismatch is returned when the pattern row count differs from rows.
	ErrRowMismatch = errors.New("pattern row count does not match rows")

	// ErrInvalidRows is returned when rows is outside 1..MaxRows.
	ErrInvalidRows = errors.New("rows must be between 1 and 6")

	// ErrInvalidItem is returned for malformed item descriptors.
	ErrInvalidItem = errors.New("invalid item descriptor")
)

// ItemDescriptor describes the item rendered into every slot of one
// pattern key.
type ItemDescriptor struct {
	Material   string
	Amount     int
	Name       string
	Lore       []string
	Glowing    bool
	CancelMove bool
}

// Validate checks the descriptor's own fields.
func (d ItemDescriptor) Validate() error {
	if d.Material == "" {
		return fmt.Errorf("%w: material is required", ErrInvalidItem)
	}
	if d.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive, got %d", ErrInvalidItem, d.Amount)
	}
	return nil
}

// InventoryTemplate is an immutable menu layout. Build one with New.
type InventoryTemplate struct {
	name    string
	rows    int
	pattern []string
	items   map[rune]ItemDescriptor
}

// New validates and builds a template. Item descriptors with a zero
// amount default to 1.
func New(name string, rows int, pattern []string, items map[rune]ItemDescriptor) (*InventoryTemplate, error) {
	if rows < 1 || rows > MaxRows {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRows, rows)
	}
	if len(pattern) != rows {
		return nil, fmt.Errorf("%w: rows=%d pattern=%d", ErrRowMismatch, rows, len(pattern))
	}
	copied := make(map[rune]ItemDescriptor, len(items))
	for key, d := range items {
		if d.Amount == 0 {
			d.Amount = 1
		}
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("item %q: %w", key, err)
		}
		d.Lore = slices.Clone(d.Lore)
		copied[key] = d
	}
	return &InventoryTemplate{
		name:    name,
		rows:    rows,
		pattern: slices.Clone(pattern),
		items:   copied,
	}, nil
}

// Name returns the raw title, before placeholder substitution.
func (t *InventoryTemplate) Name() string { return t.name }

// Rows returns the container row count.
func (t *InventoryTemplate) Rows() int { return t.rows }

// Size returns the slot count.
func (t *InventoryTemplate) Size() int { return t.rows * 9 }

// Pattern returns a copy of the pattern rows.
func (t *InventoryTemplate) Pattern() []string { return slices.Clone(t.pattern) }

// Item returns the descriptor for key.
func (t *InventoryTemplate) Item(key rune) (ItemDescriptor, bool) {
	d, ok := t.items[key]
	if ok {
		d.Lore = slices.Clone(d.Lore)
	}
	return d, ok
}

// Keys returns the item keys in ascending order.
func (t *InventoryTemplate) Keys() []rune {
	return slices.Sorted(maps.Keys(t.items))
}
