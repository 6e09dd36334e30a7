// Package view renders inventory templates into host containers and
// exposes the mutable runtime context handlers work with.
package view

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/uuid"

	"github.com/zjrosen/slotmenu/internal/flags"
	"github.com/zjrosen/slotmenu/internal/host"
	"github.com/zjrosen/slotmenu/internal/item"
	"github.com/zjrosen/slotmenu/internal/log"
	"github.com/zjrosen/slotmenu/internal/mask"
	"github.com/zjrosen/slotmenu/internal/template"
)

// DefaultNamespace namespaces attribute keys when Deps.Namespace is empty.
const DefaultNamespace = "slotmenu"

var (
	// ErrNoTemplate is returned when a definition names no template.
	ErrNoTemplate = errors.New("view definition has no template")

	// ErrNoConstructor is returned when a definition cannot create its layout.
	ErrNoConstructor = errors.New("view definition has no layout constructor")

	// ErrDestroyed is returned when rendering a destroyed view.
	ErrDestroyed = errors.New("view destroyed")
)

// Layout is the per-view rendering hook. RenderView runs after the
// template items are placed and may adjust the container through ctx.
type Layout interface {
	RenderView(model any, ctx *Context) error
}

// LayoutFunc adapts a function to Layout.
type LayoutFunc func(model any, ctx *Context) error

func (f LayoutFunc) RenderView(model any, ctx *Context) error { return f(model, ctx) }

// Definition declares a view type.
type Definition struct {
	// Name identifies the view type for logs and the session manager.
	Name string

	// Template names a template in a template.Source.
	Template *template.Ref

	// Descriptor builds a code-defined template. Used when Template is nil.
	Descriptor func() (*template.InventoryTemplate, error)

	// New creates a fresh layout for every opened view.
	New func() Layout
}

// Type returns the layout type views of this definition carry, or nil
// when the definition has no constructor.
func (d Definition) Type() reflect.Type {
	if d.New == nil {
		return nil
	}
	return reflect.TypeOf(d.New())
}

// Deps are the collaborators a view is rendered with.
type Deps struct {
	Templates  template.Source
	Items      item.Service
	Containers host.ContainerFactory
	Flags      *flags.Registry
	Namespace  string
}

// View is one open inventory: its container, mask and cancel-move set.
// A View is not safe for concurrent use; the host delivers its events
// on one goroutine.
type View struct {
	id         string
	def        Definition
	deps       Deps
	layout     Layout
	model      any
	tpl        *template.InventoryTemplate
	title      string
	container  host.Container
	mask       *mask.Mask
	cancelMove map[rune]struct{}
	ctx        *Context
	destroyed  bool
}

// New resolves def's template, creates the container and renders it.
// Structural errors are reported before the container is created.
func New(def Definition, model any, deps Deps) (*View, error) {
	tpl, err := resolveTemplate(def, deps.Templates)
	if err != nil {
		return nil, fmt.Errorf("view %s: %w", def.Name, err)
	}
	m, err := mask.Resolve(tpl)
	if err != nil {
		return nil, fmt.Errorf("view %s: %w", def.Name, err)
	}
	if def.New == nil {
		return nil, fmt.Errorf("view %s: %w", def.Name, ErrNoConstructor)
	}
	layout := def.New()
	if layout == nil {
		return nil, fmt.Errorf("view %s: %w", def.Name, ErrNoConstructor)
	}

	title, err := Substitute(tpl.Name(), model, deps.Flags.Enabled(flags.FlagStrictPlaceholders))
	if err != nil {
		return nil, fmt.Errorf("view %s title: %w", def.Name, err)
	}
	title = item.Colorize(title)

	if deps.Namespace == "" {
		deps.Namespace = DefaultNamespace
	}
	if deps.Containers == nil {
		deps.Containers = host.InventoryFactory
	}
	if deps.Items == nil {
		deps.Items = item.NewService()
	}

	v := &View{
		id:         uuid.NewString(),
		def:        def,
		deps:       deps,
		layout:     layout,
		model:      model,
		tpl:        tpl,
		title:      title,
		mask:       m,
		cancelMove: make(map[rune]struct{}),
	}
	v.ctx = &Context{view: v}
	v.container = deps.Containers(tpl.Size(), title)

	if err := v.Render(); err != nil {
		return nil, err
	}
	log.Debug(log.CatRender, "view created", "view", def.Name, "id", v.id, "rows", tpl.Rows())
	return v, nil
}

func resolveTemplate(def Definition, src template.Source) (*template.InventoryTemplate, error) {
	switch {
	case def.Template != nil:
		if src == nil {
			return nil, &template.LookupError{Ref: *def.Template, Err: template.ErrPoolNotFound}
		}
		return template.Lookup(src, *def.Template)
	case def.Descriptor != nil:
		return def.Descriptor()
	default:
		return nil, ErrNoTemplate
	}
}

// Render clears the container and places the template items again, then
// runs the layout. Rendering twice yields the same container contents.
func (v *View) Render() error {
	if v.destroyed {
		return ErrDestroyed
	}
	m, err := mask.Resolve(v.tpl)
	if err != nil {
		return fmt.Errorf("view %s: %w", v.def.Name, err)
	}
	v.mask = m
	clear(v.cancelMove)
	v.container.Clear()

	for _, key := range v.tpl.Keys() {
		if !m.Has(key) {
			continue
		}
		d, _ := v.tpl.Item(key)
		st, err := v.buildItem(d)
		if err != nil {
			return fmt.Errorf("view %s item %q: %w", v.def.Name, key, err)
		}
		for _, slot := range m.Slots(key) {
			v.container.SetItem(slot, st)
		}
		if d.CancelMove {
			v.cancelMove[key] = struct{}{}
		}
	}

	if err := v.layout.RenderView(v.model, v.ctx); err != nil {
		return fmt.Errorf("view %s render: %w", v.def.Name, err)
	}
	return nil
}

func (v *View) buildItem(d template.ItemDescriptor) (*item.Stack, error) {
	strict := v.deps.Flags.Enabled(flags.FlagStrictPlaceholders)
	b := v.deps.Items.Build(d.Material).Amount(d.Amount)
	if strings.TrimSpace(d.Name) != "" {
		name, err := Substitute(d.Name, v.model, strict)
		if err != nil {
			return nil, err
		}
		b = b.Display(item.Colorize(name))
	}
	if len(d.Lore) > 0 {
		lore := make([]string, len(d.Lore))
		for i, l := range d.Lore {
			line, err := Substitute(l, v.model, strict)
			if err != nil {
				return nil, err
			}
			lore[i] = item.Colorize(line)
		}
		b = b.Lore(lore)
	}
	if d.Glowing {
		b = b.Enchant(item.Unbreaking, 1)
	}
	return b.Item()
}

// Destroy clears the container and forgets the mask. The view cannot be
// rendered again.
func (v *View) Destroy() {
	if v.destroyed {
		return
	}
	v.destroyed = true
	v.container.Clear()
	v.mask.Clear()
	clear(v.cancelMove)
	log.Debug(log.CatRender, "view destroyed", "view", v.def.Name, "id", v.id)
}

func (v *View) ID() string                            { return v.id }
func (v *View) Name() string                          { return v.def.Name }
func (v *View) Definition() Definition                { return v.def }
func (v *View) Layout() Layout                        { return v.layout }
func (v *View) Model() any                            { return v.model }
func (v *View) Title() string                         { return v.title }
func (v *View) Template() *template.InventoryTemplate { return v.tpl }
func (v *View) Container() host.Container             { return v.container }
func (v *View) Mask() *mask.Mask                      { return v.mask }
func (v *View) Context() *Context                     { return v.ctx }
func (v *View) Destroyed() bool                       { return v.destroyed }

// LayoutType is the dynamic type of the layout; routers match on it.
func (v *View) LayoutType() reflect.Type { return reflect.TypeOf(v.layout) }

// CancelsMove reports whether clicks on ch are cancelled.
func (v *View) CancelsMove(ch rune) bool {
	_, ok := v.cancelMove[ch]
	return ok
}
