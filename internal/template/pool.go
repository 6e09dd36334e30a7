package template

import (
	"errors"
	"maps"
	"slices"
	"sync"
)

var (
	// ErrPoolNotFound is returned when a template group does not exist.
	ErrPoolNotFound = errors.New("template pool not found")

	// ErrTemplateNotFound is returned when a pool has no template with the id.
	ErrTemplateNotFound = errors.New("template not found")
)

// Ref names a template by pool group and id.
type Ref struct {
	Group string
	ID    string
}

func (r Ref) String() string { return r.Group + "/" + r.ID }

// Source looks up template pools by group.
type Source interface {
	Pool(group string) (*Pool, bool)
}

// Pool is a named group of templates.
type Pool struct {
	group     string
	templates map[string]*InventoryTemplate
}

// NewPool creates a pool from templates keyed by id.
func NewPool(group string, templates map[string]*InventoryTemplate) *Pool {
	return &Pool{group: group, templates: maps.Clone(templates)}
}

// Group returns the pool name.
func (p *Pool) Group() string { return p.group }

// Get returns the template with id.
func (p *Pool) Get(id string) (*InventoryTemplate, bool) {
	t, ok := p.templates[id]
	return t, ok
}

// IDs returns the template ids in ascending order.
func (p *Pool) IDs() []string {
	return slices.Sorted(maps.Keys(p.templates))
}

// Len returns the number of templates.
func (p *Pool) Len() int { return len(p.templates) }

// Library is a Source whose pools can be swapped at runtime, e.g. when
// the template directory changes on disk.
type Library struct {
	mu    sync.RWMutex
	pools map[string]*Pool
}

// NewLibrary creates a library holding pools.
func NewLibrary(pools ...*Pool) *Library {
	l := &Library{pools: make(map[string]*Pool, len(pools))}
	for _, p := range pools {
		l.pools[p.group] = p
	}
	return l
}

// Pool implements Source.
func (l *Library) Pool(group string) (*Pool, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.pools[group]
	return p, ok
}

// Groups returns the pool names in ascending order.
func (l *Library) Groups() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Sorted(maps.Keys(l.pools))
}

// Replace swaps every pool at once.
func (l *Library) Replace(pools ...*Pool) {
	next := make(map[string]*Pool, len(pools))
	for _, p := range pools {
		next[p.group] = p
	}
	l.mu.Lock()
	l.pools = next
	l.mu.Unlock()
}

// Lookup resolves ref against src.
func Lookup(src Source, ref Ref) (*InventoryTemplate, error) {
	p, ok := src.Pool(ref.Group)
	if !ok {
		return nil, &LookupError{Ref: ref, Err: ErrPoolNotFound}
	}
	t, ok := p.Get(ref.ID)
	if !ok {
		return nil, &LookupError{Ref: ref, Err: ErrTemplateNotFound}
	}
	return t, nil
}

// LookupError reports which reference failed to resolve.
type LookupError struct {
	Ref Ref
	Err error
}

func (e *LookupError) Error() string { return e.Err.Error() + ": " + e.Ref.String() }
func (e *LookupError) Unwrap() error { return e.Err }
