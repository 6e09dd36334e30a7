package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/slotmenu/internal/config"
	"github.com/zjrosen/slotmenu/internal/flags"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented default config file",
	Long: `Write the default configuration to .slotmenu/config.yaml, or to the
path given with --config. A --templates directory is recorded as
templates.dir.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := localConfigPath
		if cfgFile != "" {
			path = cfgFile
		}
		if _, err := os.Stat(path); err == nil && !initForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.WriteDefaultConfig(path); err != nil {
			return err
		}
		if dir, _ := cmd.Flags().GetString("templates"); dir != "" {
			if err := config.SaveTemplatesDir(path, dir); err != nil {
				return err
			}
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
		return nil
	},
}

var flagsSetCmd = &cobra.Command{
	Use:   "flags:set <name>=<true|false>...",
	Short: "Turn feature flags on or off in the config file",
	Long: `Update the flags section of the config file in place. Comments and
other sections are kept.

Known flags:
  ` + flags.FlagStrictPlaceholders + `   fail renders on unknown ${placeholders}
  ` + flags.FlagSchemaValidation + `     validate template files against the schema

Example:
  slotmenu flags:set strict-placeholders=true`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		next := make(map[string]bool, len(cfg.Flags)+len(args))
		for k, v := range cfg.Flags {
			next[k] = v
		}
		for _, arg := range args {
			name, raw, ok := strings.Cut(arg, "=")
			if !ok || name == "" {
				return fmt.Errorf("want <name>=<true|false>, got %q", arg)
			}
			on, err := strconv.ParseBool(raw)
			if err != nil {
				return fmt.Errorf("flag %s: %w", name, err)
			}
			next[name] = on
		}

		path := configPath()
		if err := config.SaveFlags(path, next); err != nil {
			return err
		}
		cfg.Flags = next
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "updated", path)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing file")
	rootCmd.AddCommand(initCmd, flagsSetCmd)
}
