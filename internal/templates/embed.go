// Package templates embeds the built-in template pools.
package templates

import (
	"embed"
	"io/fs"

	"github.com/zjrosen/slotmenu/internal/template"
)

// builtinPools holds one directory per pool group:
//   - pools/<group>/<id>.yaml
//
//go:embed pools
var builtinPools embed.FS

// PoolsFS returns the embedded pools rooted at the pools directory.
func PoolsFS() fs.FS {
	sub, err := fs.Sub(builtinPools, "pools")
	if err != nil {
		// fs.Sub only fails for invalid paths
		panic(err)
	}
	return sub
}

// Library loads the built-in pools into a template library.
func Library(opts template.LoadOptions) (*template.Library, error) {
	return template.LoadLibrary(PoolsFS(), ".", opts)
}
