package item

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/google/uuid"

	"github.com/zjrosen/slotmenu/internal/attribute"
)

// ErrInvalidAmount is returned for non-positive stack amounts.
var ErrInvalidAmount = errors.New("amount must be positive")

// Service builds item stacks. The view renderer depends on this interface.
type Service interface {
	Build(material string) Builder
	// Clone copies st, attributes included, under a new item id.
	Clone(st *Stack) (*Stack, error)
}

// Builder is a chainable stack builder. Errors are deferred to Item.
type Builder interface {
	Amount(n int) Builder
	Display(text string) Builder
	Lore(lines []string) Builder
	Enchant(kind Enchantment, level int) Builder
	Item() (*Stack, error)
}

// StackService is the default Service. Every built stack gets its own id
// and an attribute container from the provider.
type StackService struct {
	materials *Materials
	provider  attribute.Provider
}

// Option configures a StackService.
type Option func(*StackService)

// WithMaterials replaces the default material set.
func WithMaterials(m *Materials) Option {
	return func(s *StackService) {
		s.materials = m
	}
}

// WithAttributeProvider sets where item attribute containers come from.
func WithAttributeProvider(p attribute.Provider) Option {
	return func(s *StackService) {
		s.provider = p
	}
}

// NewService creates a StackService.
func NewService(opts ...Option) *StackService {
	s := &StackService{
		materials: DefaultMaterials(),
		provider:  attribute.MemoryProvider(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Build starts a builder for material with amount 1.
func (s *StackService) Build(material string) Builder {
	b := &StackBuilder{service: s, amount: 1}
	b.material, b.err = s.materials.Lookup(material)
	return b
}

// Clone copies st into a container from the service's provider.
func (s *StackService) Clone(st *Stack) (*Stack, error) {
	return st.Clone(s.provider)
}

// StackBuilder is the Builder returned by StackService.
type StackBuilder struct {
	service  *StackService
	material Material
	amount   int
	display  string
	lore     []string
	enchants map[Enchantment]int
	err      error
}

func (b *StackBuilder) Amount(n int) Builder {
	if n <= 0 && b.err == nil {
		b.err = fmt.Errorf("%w: %d", ErrInvalidAmount, n)
	}
	b.amount = n
	return b
}

func (b *StackBuilder) Display(text string) Builder {
	b.display = text
	return b
}

func (b *StackBuilder) Lore(lines []string) Builder {
	b.lore = slices.Clone(lines)
	return b
}

func (b *StackBuilder) Enchant(kind Enchantment, level int) Builder {
	if b.enchants == nil {
		b.enchants = make(map[Enchantment]int)
	}
	b.enchants[kind] = level
	return b
}

// Item finishes the stack. Air builds a metadata-less empty stack.
func (b *StackBuilder) Item() (*Stack, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.material == Air {
		return AirStack(), nil
	}
	id := uuid.NewString()
	return &Stack{
		Material: b.material,
		Amount:   b.amount,
		Meta: &Meta{
			ID:         id,
			Display:    b.display,
			Lore:       slices.Clone(b.lore),
			Enchants:   maps.Clone(b.enchants),
			Attributes: b.service.provider(id),
		},
	}, nil
}
