// Package config provides configuration types and defaults for slotmenu.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/slotmenu/internal/log"
	"github.com/zjrosen/slotmenu/internal/tracing"
)

// Config holds all configuration options for slotmenu.
type Config struct {
	Namespace string          `mapstructure:"namespace"`
	Templates TemplatesConfig `mapstructure:"templates"`
	Listen    ListenConfig    `mapstructure:"listen"`
	Store     StoreConfig     `mapstructure:"store"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	Log       LogConfig       `mapstructure:"log"`
	Flags     map[string]bool `mapstructure:"flags"`
}

// TemplatesConfig locates the template pools on disk.
type TemplatesConfig struct {
	// Dir holds one sub-directory per pool group. Empty uses the embedded
	// default pools.
	Dir      string        `mapstructure:"dir"`
	Watch    bool          `mapstructure:"watch"`    // Reload pools when files change
	Debounce time.Duration `mapstructure:"debounce"` // Coalesce bursts of file events
}

// ListenConfig tunes the listenable component registry.
type ListenConfig struct {
	DefaultWait     time.Duration `mapstructure:"default_wait"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// StoreConfig selects where item attributes are persisted.
type StoreConfig struct {
	Driver string `mapstructure:"driver"` // "memory" (default) or "sqlite"
	Path   string `mapstructure:"path"`   // Database file for "sqlite"
}

// TracingConfig mirrors tracing.Config for viper decoding.
type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	Exporter     string  `mapstructure:"exporter"`
	FilePath     string  `mapstructure:"file_path"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	SampleRate   float64 `mapstructure:"sample_rate"`
}

// Provider converts the section to the tracing package's config.
func (t TracingConfig) Provider() tracing.Config {
	cfg := tracing.DefaultConfig()
	cfg.Enabled = t.Enabled
	if t.Exporter != "" {
		cfg.Exporter = t.Exporter
	}
	cfg.FilePath = t.FilePath
	if t.OTLPEndpoint != "" {
		cfg.OTLPEndpoint = t.OTLPEndpoint
	}
	if t.SampleRate > 0 {
		cfg.SampleRate = t.SampleRate
	}
	return cfg
}

// LogConfig controls the debug log file.
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// DefaultTracesFilePath returns ~/.config/slotmenu/traces/traces.jsonl, or
// empty string if the home dir is unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "slotmenu", "traces", "traces.jsonl")
}

// DefaultStorePath returns ~/.config/slotmenu/attributes.db, or empty string
// if the home dir is unavailable.
func DefaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "slotmenu", "attributes.db")
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		Namespace: "slotmenu",
		Templates: TemplatesConfig{
			Debounce: 250 * time.Millisecond,
		},
		Listen: ListenConfig{
			DefaultWait:     10 * time.Second,
			CleanupInterval: 30 * time.Second,
		},
		Store: StoreConfig{
			Driver: "memory",
		},
		Tracing: TracingConfig{
			Exporter:   "file",
			FilePath:   DefaultTracesFilePath(),
			SampleRate: 1.0,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if c.Namespace == "" {
		return fmt.Errorf("namespace is required")
	}
	if err := ValidateTemplates(c.Templates); err != nil {
		return err
	}
	if err := ValidateListen(c.Listen); err != nil {
		return err
	}
	if err := ValidateStore(c.Store); err != nil {
		return err
	}
	return ValidateTracing(c.Tracing)
}

// ValidateTemplates checks the templates section.
func ValidateTemplates(t TemplatesConfig) error {
	if t.Debounce < 0 {
		return fmt.Errorf("templates.debounce must not be negative, got %v", t.Debounce)
	}
	if t.Watch && t.Dir == "" {
		return fmt.Errorf("templates.dir is required when templates.watch is true")
	}
	return nil
}

// ValidateListen checks the listen section.
func ValidateListen(l ListenConfig) error {
	if l.DefaultWait < 0 {
		return fmt.Errorf("listen.default_wait must not be negative, got %v", l.DefaultWait)
	}
	if l.CleanupInterval < 0 {
		return fmt.Errorf("listen.cleanup_interval must not be negative, got %v", l.CleanupInterval)
	}
	return nil
}

// ValidateStore checks the store section.
func ValidateStore(s StoreConfig) error {
	switch s.Driver {
	case "", "memory":
		return nil
	case "sqlite":
		if s.Path == "" {
			return fmt.Errorf("store.path is required when driver is \"sqlite\"")
		}
		return nil
	default:
		return fmt.Errorf("store.driver must be \"memory\" or \"sqlite\", got %q", s.Driver)
	}
}

// ValidateTracing checks tracing configuration for errors.
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Path requirements only matter once tracing is on
	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}
	return nil
}

// DefaultConfigTemplate returns the commented default config file.
func DefaultConfigTemplate() string {
	return `# slotmenu configuration

# Namespace for attribute keys written onto items
namespace: slotmenu

templates:
  # Directory holding <group>/<id>.yaml template files.
  # Leave empty to use the built-in pools.
  # dir: ./templates
  watch: false      # Reload pools when files change
  debounce: 250ms   # Coalesce bursts of file events

listen:
  default_wait: 10s       # Wait for components that do not set their own
  cleanup_interval: 30s   # How often expired registrations are swept

store:
  driver: memory   # "memory" or "sqlite"
  # path: ~/.config/slotmenu/attributes.db

log:
  # path: debug.log
  level: info

# Feature flags
# flags:
#   strict-placeholders: true   # Fail renders on unknown {placeholders}
#   schema-validation: true     # Validate template files against the JSON schema

# Tracing (disabled by default)
# tracing:
#   enabled: true
#   exporter: file   # none, file, stdout, otlp
#   file_path: ~/.config/slotmenu/traces/traces.jsonl.zst
#   sample_rate: 1.0
`
}

// WriteDefaultConfig creates a config file at the given path with default
// settings and comments. Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
