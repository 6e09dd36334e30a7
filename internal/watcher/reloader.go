package watcher

import (
	"context"
	"os"

	"github.com/zjrosen/slotmenu/internal/log"
	"github.com/zjrosen/slotmenu/internal/template"
)

// Reloader re-reads the template directory into a Library on each change.
// A directory that fails to load leaves the previous pools in place.
type Reloader struct {
	dir    string
	lib    *template.Library
	opts   template.LoadOptions
	onLoad func(err error)
}

// NewReloader creates a reloader for dir. onLoad, if set, is called after
// every reload attempt.
func NewReloader(dir string, lib *template.Library, opts template.LoadOptions, onLoad func(error)) *Reloader {
	return &Reloader{dir: dir, lib: lib, opts: opts, onLoad: onLoad}
}

// Reload loads the directory once and swaps the pools in.
func (r *Reloader) Reload() error {
	pools, err := template.LoadFS(os.DirFS(r.dir), ".", r.opts)
	if err != nil {
		log.ErrorErr(log.CatWatcher, "template reload failed", err, "dir", r.dir)
	} else {
		r.lib.Replace(pools...)
		log.Info(log.CatWatcher, "templates reloaded", "dir", r.dir, "pools", len(pools))
	}
	if r.onLoad != nil {
		r.onLoad(err)
	}
	return err
}

// Run reloads on every signal from changes until ctx is done or changes
// is closed.
func (r *Reloader) Run(ctx context.Context, changes <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			_ = r.Reload()
		}
	}
}
