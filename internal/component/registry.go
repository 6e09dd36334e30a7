package component

import (
	"context"
	"time"

	"github.com/zjrosen/slotmenu/internal/cachemanager"
	"github.com/zjrosen/slotmenu/internal/host"
	"github.com/zjrosen/slotmenu/internal/log"
)

// DefaultWait applies when neither the component nor the registry sets a
// waiting time.
const DefaultWait = 10 * time.Second

// Registry tracks, per player, the listenable component waiting for that
// player's next chat message. A registration lives for the component's
// MaxWait; expired registrations are never delivered.
type Registry struct {
	cache       *cachemanager.InMemoryCacheManager[host.PlayerID, Listenable]
	messenger   host.Messenger
	defaultWait time.Duration
}

// NewRegistry creates a registry sweeping expired registrations every
// cleanupInterval. defaultWait is used for components whose MaxWait is
// not positive.
func NewRegistry(m host.Messenger, defaultWait, cleanupInterval time.Duration) *Registry {
	if cleanupInterval <= 0 {
		cleanupInterval = cachemanager.DefaultCleanupInterval
	}
	if defaultWait <= 0 {
		defaultWait = DefaultWait
	}
	return &Registry{
		cache:       cachemanager.NewInMemoryCacheManager[host.PlayerID, Listenable]("listen", defaultWait, cleanupInterval),
		messenger:   m,
		defaultWait: defaultWait,
	}
}

// OnExpired sets the callback run for registrations that timed out.
func (r *Registry) OnExpired(fn func(player host.PlayerID, l Listenable)) {
	r.cache.OnExpired(fn)
}

// Listen registers l for player, replacing any earlier registration.
// Disabled components are not registered.
func (r *Registry) Listen(ctx context.Context, player host.PlayerID, l Listenable) bool {
	if l.Disabled() {
		return false
	}
	if r.messenger != nil {
		l.OnListen(player, r.messenger)
	}
	wait := l.MaxWait()
	if wait <= 0 {
		wait = r.defaultWait
	}
	r.cache.Set(ctx, player, l, wait)
	log.Debug(log.CatListen, "listening", "player", player, "wait", wait)
	return true
}

// Deliver hands ev to the player's pending component, consuming the
// registration. It reports whether a component received it.
func (r *Registry) Deliver(ctx context.Context, ev *host.ChatEvent) (bool, error) {
	l, ok := r.cache.Take(ctx, ev.Player)
	if !ok {
		return false, nil
	}
	return true, l.Callback(ev)
}

// Pending reports whether player has an unexpired registration.
func (r *Registry) Pending(ctx context.Context, player host.PlayerID) bool {
	_, ok := r.cache.Get(ctx, player)
	return ok
}

// Cancel drops player's registration without reporting it expired.
func (r *Registry) Cancel(ctx context.Context, player host.PlayerID) {
	_ = r.cache.Delete(ctx, player)
}

// Sweep removes expired registrations now.
func (r *Registry) Sweep() { r.cache.DeleteExpired() }

// Flush drops every registration.
func (r *Registry) Flush(ctx context.Context) {
	_ = r.cache.Flush(ctx)
}
