// Package session keeps track of the view each player has open and feeds
// host events into the routers of that view's controller.
package session

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/slotmenu/internal/component"
	"github.com/zjrosen/slotmenu/internal/host"
	"github.com/zjrosen/slotmenu/internal/log"
	"github.com/zjrosen/slotmenu/internal/pubsub"
	"github.com/zjrosen/slotmenu/internal/router"
	"github.com/zjrosen/slotmenu/internal/view"
)

var (
	// ErrUnknownView is returned when opening a view name that was never registered.
	ErrUnknownView = errors.New("unknown view")

	// ErrDuplicateView is returned when registering a view name twice.
	ErrDuplicateView = errors.New("view already registered")

	// ErrNoOpenView is returned when closing for a player with no open view.
	ErrNoOpenView = errors.New("no open view")
)

// Lifecycle is the payload of view lifecycle events.
type Lifecycle struct {
	Player host.PlayerID
	View   string
	ViewID string
}

type registration struct {
	def     view.Definition
	routers []*router.Router
}

// Manager owns the open views. It implements returns.Target so handlers
// can close, redirect and message through their return values.
type Manager struct {
	mu        sync.RWMutex
	deps      view.Deps
	messenger host.Messenger
	views     map[string]*registration
	open      map[host.PlayerID]*view.View

	families   []router.Family
	routerOpts []router.Option
	listeners  *component.Registry
	broker     *pubsub.Broker[Lifecycle]
	tracer     trace.Tracer
}

// Option configures a Manager.
type Option func(*Manager)

// WithRouterOptions passes options to every router the manager builds.
func WithRouterOptions(opts ...router.Option) Option {
	return func(m *Manager) { m.routerOpts = append(m.routerOpts, opts...) }
}

// WithFamilies replaces the event families routed (click and drag).
func WithFamilies(f ...router.Family) Option {
	return func(m *Manager) { m.families = f }
}

// WithListeners sets the listenable component registry.
func WithListeners(r *component.Registry) Option {
	return func(m *Manager) { m.listeners = r }
}

// WithTracer sets the tracer used for open/close spans.
func WithTracer(t trace.Tracer) Option {
	return func(m *Manager) {
		if t != nil {
			m.tracer = t
		}
	}
}

// New creates a manager rendering views with deps.
func New(deps view.Deps, messenger host.Messenger, opts ...Option) *Manager {
	m := &Manager{
		deps:      deps,
		messenger: messenger,
		views:     make(map[string]*registration),
		open:      make(map[host.PlayerID]*view.View),
		families:  []router.Family{router.Click, router.Drag},
		broker:    pubsub.NewBroker[Lifecycle](),
		tracer:    noop.NewTracerProvider().Tracer("slotmenu"),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.listeners == nil {
		m.listeners = component.NewRegistry(messenger, 0, 0)
	}
	m.listeners.OnExpired(func(p host.PlayerID, _ component.Listenable) {
		m.broker.Publish(pubsub.ListenExpiredEvent, Lifecycle{Player: p})
	})
	return m
}

// Register declares a view type under name with its controller. One
// router per event family is built for the controller.
func (m *Manager) Register(name string, def view.Definition, controller any) error {
	if def.Name == "" {
		def.Name = name
	}
	reg := &registration{def: def}
	opts := append([]router.Option{router.WithTarget(m)}, m.routerOpts...)
	for _, fam := range m.families {
		r, err := router.New(controller, fam, opts...)
		if err != nil {
			return fmt.Errorf("register %s: %w", name, err)
		}
		reg.routers = append(reg.routers, r)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.views[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateView, name)
	}
	m.views[name] = reg
	log.Info(log.CatSession, "view registered", "view", name)
	return nil
}

// Names returns the registered view names in ascending order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.views))
}

// Open renders the view registered as name for player, closing the
// player's current view first.
func (m *Manager) Open(ctx context.Context, player host.PlayerID, name string, model any) (*view.View, error) {
	ctx, span := m.tracer.Start(ctx, "session.open", trace.WithAttributes(
		attribute.String("player", string(player)),
		attribute.String("view", name),
	))
	defer span.End()

	m.mu.RLock()
	reg, ok := m.views[name]
	m.mu.RUnlock()
	if !ok {
		err := fmt.Errorf("%w: %s", ErrUnknownView, name)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if _, open := m.Current(player); open {
		if err := m.CloseView(ctx, player); err != nil && !errors.Is(err, ErrNoOpenView) {
			return nil, err
		}
	}

	v, err := view.New(reg.def, model, m.deps)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if vt, ok := v.Container().(host.ViewerTracker); ok {
		vt.AddViewer(player)
	}

	m.mu.Lock()
	m.open[player] = v
	m.mu.Unlock()

	span.SetAttributes(attribute.String("view.id", v.ID()))
	m.broker.Publish(pubsub.ViewOpenedEvent, Lifecycle{Player: player, View: name, ViewID: v.ID()})
	log.Info(log.CatSession, "view opened", "player", player, "view", name, "id", v.ID())
	return v, nil
}

// OpenView implements returns.Target.
func (m *Manager) OpenView(ctx context.Context, player host.PlayerID, name string, model any) error {
	_, err := m.Open(ctx, player, name, model)
	return err
}

// CloseView destroys the player's view. Implements returns.Target.
func (m *Manager) CloseView(ctx context.Context, player host.PlayerID) error {
	_, span := m.tracer.Start(ctx, "session.close", trace.WithAttributes(
		attribute.String("player", string(player)),
	))
	defer span.End()

	m.mu.Lock()
	v, ok := m.open[player]
	delete(m.open, player)
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoOpenView, player)
	}

	m.listeners.Cancel(ctx, player)
	if vt, ok := v.Container().(host.ViewerTracker); ok {
		vt.RemoveViewer(player)
	}
	v.Destroy()

	m.broker.Publish(pubsub.ViewClosedEvent, Lifecycle{Player: player, View: v.Name(), ViewID: v.ID()})
	log.Info(log.CatSession, "view closed", "player", player, "view", v.Name(), "id", v.ID())
	return nil
}

// SendMessage implements returns.Target.
func (m *Manager) SendMessage(player host.PlayerID, text string) {
	if m.messenger != nil {
		m.messenger.SendMessage(player, text)
	}
}

// Current returns the player's open view.
func (m *Manager) Current(player host.PlayerID) (*view.View, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.open[player]
	return v, ok
}

// HandleEvent routes ev to the routers of the actor's open view. It
// reports whether a handler ran.
func (m *Manager) HandleEvent(ctx context.Context, ev host.Event) (bool, error) {
	player := ev.Actor()
	m.mu.RLock()
	v, ok := m.open[player]
	var reg *registration
	if ok {
		reg = m.views[v.Name()]
	}
	m.mu.RUnlock()
	if !ok || reg == nil {
		return false, nil
	}

	for _, r := range reg.routers {
		handled, err := r.Handle(ctx, ev, player, v)
		if handled {
			m.broker.Publish(pubsub.DispatchedEvent, Lifecycle{Player: player, View: v.Name(), ViewID: v.ID()})
		}
		if handled || err != nil {
			return handled, err
		}
	}
	return false, nil
}

// Listen registers a listenable component for player's next chat message.
func (m *Manager) Listen(ctx context.Context, player host.PlayerID, l component.Listenable) bool {
	return m.listeners.Listen(ctx, player, l)
}

// HandleChat delivers a chat message to the player's pending component.
func (m *Manager) HandleChat(ctx context.Context, ev *host.ChatEvent) (bool, error) {
	return m.listeners.Deliver(ctx, ev)
}

// Subscribe streams lifecycle events until ctx is cancelled.
func (m *Manager) Subscribe(ctx context.Context) <-chan pubsub.Event[Lifecycle] {
	return m.broker.Subscribe(ctx)
}

// Unload closes every view, drops all routes and pending listeners.
func (m *Manager) Unload(ctx context.Context) {
	m.mu.RLock()
	players := make([]host.PlayerID, 0, len(m.open))
	for p := range m.open {
		players = append(players, p)
	}
	m.mu.RUnlock()
	for _, p := range players {
		_ = m.CloseView(ctx, p)
	}

	m.mu.Lock()
	for _, reg := range m.views {
		for _, r := range reg.routers {
			r.Unload()
		}
	}
	m.views = make(map[string]*registration)
	m.mu.Unlock()

	m.listeners.Flush(ctx)
	m.broker.Close()
	log.Info(log.CatSession, "session manager unloaded")
}
