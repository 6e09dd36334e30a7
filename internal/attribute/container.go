package attribute

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Container is the per-item attribute store.
type Container interface {
	Get(key Key) (Value, bool, error)
	Set(key Key, value Value) error
	Remove(key Key) error
	Keys() ([]Key, error)
}

// Provider returns the container for an item, identified by its id.
// Item services call it once per built item.
type Provider func(itemID string) Container

// MemoryProvider hands out a fresh in-memory container per item.
func MemoryProvider() Provider {
	return func(string) Container { return NewMap() }
}

// Map is an in-memory Container.
type Map struct {
	mu     sync.RWMutex
	values map[Key]Value
}

// NewMap creates an empty in-memory container.
func NewMap() *Map {
	return &Map{values: make(map[Key]Value)}
}

func (m *Map) Get(key Key) (Value, bool, error) {
	if err := key.Validate(); err != nil {
		return Value{}, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Map) Set(key Key, value Value) error {
	if err := key.Validate(); err != nil {
		return err
	}
	if !value.IsValid() {
		return fmt.Errorf("%w: zero value for %s", ErrInvalidKind, key)
	}
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
	return nil
}

func (m *Map) Remove(key Key) error {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
	return nil
}

// Keys returns the stored keys sorted by their string form.
func (m *Map) Keys() ([]Key, error) {
	m.mu.RLock()
	keys := slices.Collect(maps.Keys(m.values))
	m.mu.RUnlock()
	slices.SortFunc(keys, func(a, b Key) int {
		switch {
		case a.String() < b.String():
			return -1
		case a.String() > b.String():
			return 1
		}
		return 0
	})
	return keys, nil
}

// Clone copies every entry into a new in-memory container.
func Clone(c Container) (*Map, error) {
	out := NewMap()
	if err := Copy(out, c); err != nil {
		return nil, err
	}
	return out, nil
}

// Copy writes every entry of src into dst. A nil src copies nothing.
func Copy(dst, src Container) error {
	if src == nil {
		return nil
	}
	keys, err := src.Keys()
	if err != nil {
		return err
	}
	for _, k := range keys {
		v, ok, err := src.Get(k)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := dst.Set(k, v); err != nil {
			return fmt.Errorf("copying %s: %w", k, err)
		}
	}
	return nil
}

// GetKind reads key and requires the stored value to have the given kind.
func GetKind(c Container, key Key, kind Kind) (Value, bool, error) {
	v, ok, err := c.Get(key)
	if err != nil || !ok {
		return Value{}, false, err
	}
	if v.Kind() != kind {
		return Value{}, false, fmt.Errorf("%w: %s holds %s, want %s", ErrKindMismatch, key, v.Kind(), kind)
	}
	return v, true, nil
}
