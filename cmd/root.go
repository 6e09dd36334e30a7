package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/slotmenu/internal/config"
	"github.com/zjrosen/slotmenu/internal/log"
)

var (
	version = "dev"
	cfgFile string
	debug   bool
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "slotmenu",
	Short: "Template-driven inventory menus",
	Long: `slotmenu renders inventory menus from YAML templates and routes slot
clicks to controller handlers. The CLI previews, validates and plays
with templates in the terminal.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .slotmenu/config.yaml or ~/.config/slotmenu/config.yaml)")
	rootCmd.PersistentFlags().StringP("templates", "t", "",
		"template directory (default: built-in pools)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"log debug output to stderr")

	_ = viper.BindPFlag("templates.dir", rootCmd.PersistentFlags().Lookup("templates"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("namespace", defaults.Namespace)
	viper.SetDefault("templates.debounce", defaults.Templates.Debounce)
	viper.SetDefault("listen.default_wait", defaults.Listen.DefaultWait)
	viper.SetDefault("listen.cleanup_interval", defaults.Listen.CleanupInterval)
	viper.SetDefault("store.driver", defaults.Store.Driver)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("log.level", defaults.Log.Level)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .slotmenu/config.yaml (current directory)
		// 2. ~/.config/slotmenu/config.yaml (user config)
		if _, err := os.Stat(localConfigPath); err == nil {
			viper.SetConfigFile(localConfigPath)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "slotmenu"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	// A missing config file just means defaults
	_ = viper.ReadInConfig()
	_ = viper.Unmarshal(&cfg)
}

const localConfigPath = ".slotmenu/config.yaml"

func setupLogging(cmd *cobra.Command, _ []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	level := log.ParseLevel(cfg.Log.Level)
	switch {
	case debug:
		log.InitWriter(cmd.ErrOrStderr(), log.LevelDebug)
	case cfg.Log.Path != "":
		cleanup, err := log.Init(cfg.Log.Path, level)
		if err != nil {
			return err
		}
		cobra.OnFinalize(cleanup)
	}
	return nil
}

// configPath returns the config file in use, or the local default.
func configPath() string {
	if p := viper.ConfigFileUsed(); p != "" {
		return p
	}
	return localConfigPath
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
