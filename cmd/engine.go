package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/zjrosen/slotmenu/internal/attribute"
	"github.com/zjrosen/slotmenu/internal/component"
	"github.com/zjrosen/slotmenu/internal/config"
	"github.com/zjrosen/slotmenu/internal/flags"
	"github.com/zjrosen/slotmenu/internal/host"
	"github.com/zjrosen/slotmenu/internal/infrastructure/sqlite"
	"github.com/zjrosen/slotmenu/internal/item"
	"github.com/zjrosen/slotmenu/internal/router"
	"github.com/zjrosen/slotmenu/internal/session"
	"github.com/zjrosen/slotmenu/internal/template"
	"github.com/zjrosen/slotmenu/internal/templates"
	"github.com/zjrosen/slotmenu/internal/tracing"
	"github.com/zjrosen/slotmenu/internal/view"
)

// featureFlags merges configured flags over the defaults.
func featureFlags(c config.Config) *flags.Registry {
	merged := flags.Defaults()
	for k, v := range c.Flags {
		merged[k] = v
	}
	return flags.New(merged)
}

func loadOptions(ff *flags.Registry) template.LoadOptions {
	return template.LoadOptions{Validate: ff.Enabled(flags.FlagSchemaValidation)}
}

// loadLibrary reads the configured template directory, or the built-in
// pools when none is set.
func loadLibrary(c config.Config, opts template.LoadOptions) (*template.Library, error) {
	if c.Templates.Dir == "" {
		return templates.Library(opts)
	}
	lib, err := template.LoadLibrary(os.DirFS(c.Templates.Dir), ".", opts)
	if err != nil {
		return nil, fmt.Errorf("loading templates from %s: %w", c.Templates.Dir, err)
	}
	return lib, nil
}

// attributeProvider opens the configured attribute store. The returned
// close function is never nil.
func attributeProvider(c config.Config) (attribute.Provider, func() error, error) {
	if c.Store.Driver != "sqlite" {
		return attribute.MemoryProvider(), func() error { return nil }, nil
	}
	db, err := sqlite.NewDB(c.Store.Path)
	if err != nil {
		return nil, nil, err
	}
	return db.Provider(), db.Close, nil
}

// consoleMessenger prints player messages.
type consoleMessenger struct {
	w io.Writer
}

func (m consoleMessenger) SendMessage(p host.PlayerID, text string) {
	_, _ = fmt.Fprintf(m.w, "[to %s] %s\n", p, item.StripColor(text))
}

// engine bundles what the play command needs.
type engine struct {
	lib     *template.Library
	deps    view.Deps
	manager *session.Manager
	tracer  *tracing.Provider
	closers []func() error
}

func newEngine(c config.Config, out io.Writer) (*engine, error) {
	ff := featureFlags(c)
	lib, err := loadLibrary(c, loadOptions(ff))
	if err != nil {
		return nil, err
	}

	provider, closeStore, err := attributeProvider(c)
	if err != nil {
		return nil, err
	}
	tp, err := tracing.NewProvider(c.Tracing.Provider())
	if err != nil {
		_ = closeStore()
		return nil, err
	}

	rt := &engine{lib: lib, tracer: tp, closers: []func() error{closeStore}}
	rt.deps = view.Deps{
		Templates: lib,
		Items:     item.NewService(item.WithAttributeProvider(provider)),
		Flags:     ff,
		Namespace: c.Namespace,
	}
	messenger := consoleMessenger{w: out}
	rt.manager = session.New(rt.deps, messenger,
		session.WithTracer(tp.Tracer()),
		session.WithListeners(component.NewRegistry(messenger, c.Listen.DefaultWait, c.Listen.CleanupInterval)),
		session.WithRouterOptions(router.WithMiddleware(
			tracing.NewRouterMiddleware(tp.Tracer()),
			router.NewLoggingMiddleware(),
		)),
	)
	return rt, nil
}

func (rt *engine) Close(ctx context.Context) error {
	rt.manager.Unload(ctx)
	err := rt.tracer.Shutdown(ctx)
	for _, c := range rt.closers {
		if cerr := c(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
