// Package flags provides feature flags that switch engine policies.
// Flags are read-only after initialization and unknown flags read as disabled.
package flags

import (
	"maps"

	"github.com/zjrosen/slotmenu/internal/log"
)

// Flag name constants for type-safe flag access.
const (
	// FlagStrictPlaceholders turns an unknown ${field} in a title, display
	// name or lore line into a render error instead of leaving it literal.
	FlagStrictPlaceholders = "strict-placeholders"

	// FlagSchemaValidation validates template documents against the bundled
	// JSON schema before decoding them.
	FlagSchemaValidation = "schema-validation"
)

// Defaults returns the flag values used when the config omits them.
func Defaults() map[string]bool {
	return map[string]bool{
		FlagStrictPlaceholders: false,
		FlagSchemaValidation:   true,
	}
}

// Registry holds feature flag state loaded from configuration.
type Registry struct {
	flags map[string]bool
}

// New creates a Registry from a config map. The map is copied.
func New(flags map[string]bool) *Registry {
	r := &Registry{flags: make(map[string]bool, len(flags))}
	maps.Copy(r.flags, flags)
	log.Debug(log.CatConfig, "Feature flags initialized", "count", len(r.flags))
	return r
}

// Enabled returns true if the named flag is enabled.
// Unknown flags and a nil registry both read as false.
func (r *Registry) Enabled(name string) bool {
	if r == nil {
		return false
	}
	value, exists := r.flags[name]
	if !exists {
		log.Debug(log.CatConfig, "Unknown flag accessed", "flag", name)
		return false
	}
	return value
}

// All returns a copy of all flags.
func (r *Registry) All() map[string]bool {
	if r == nil {
		return map[string]bool{}
	}
	return maps.Clone(r.flags)
}
