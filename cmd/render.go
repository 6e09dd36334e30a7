package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zjrosen/slotmenu/internal/host"
	"github.com/zjrosen/slotmenu/internal/item"
	"github.com/zjrosen/slotmenu/internal/preview"
	"github.com/zjrosen/slotmenu/internal/template"
	"github.com/zjrosen/slotmenu/internal/view"
	"github.com/zjrosen/slotmenu/internal/watcher"
)

var (
	renderSet       []string
	renderMaterials bool
	renderLegend    bool
	renderWatch     bool
	renderCellWidth int
)

var renderCmd = &cobra.Command{
	Use:   "render <group>/<id>",
	Short: "Preview a rendered template in the terminal",
	Long: `Render a template into a container and draw it as a grid.

Placeholders such as ${player} are filled from --set values.

Examples:
  # Preview a built-in template
  slotmenu render shop/main --set player=steve

  # Show materials instead of pattern characters, plus the item legend
  slotmenu render bank/vault --materials --legend

  # Re-render whenever files under the template directory change
  slotmenu render shop/main -t ./templates --watch`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringArrayVar(&renderSet, "set", nil, "placeholder value as key=value (repeatable)")
	renderCmd.Flags().BoolVar(&renderMaterials, "materials", false, "show material names instead of pattern characters")
	renderCmd.Flags().BoolVar(&renderLegend, "legend", false, "list each pattern character's item")
	renderCmd.Flags().BoolVarP(&renderWatch, "watch", "w", false, "re-render when template files change")
	renderCmd.Flags().IntVar(&renderCellWidth, "cell-width", preview.DefaultOptions().CellWidth, "width of one slot")
	rootCmd.AddCommand(renderCmd)
}

func parseRef(s string) (template.Ref, error) {
	group, id, ok := strings.Cut(s, "/")
	if !ok || group == "" || id == "" {
		return template.Ref{}, fmt.Errorf("template must be <group>/<id>, got %q", s)
	}
	return template.Ref{Group: group, ID: id}, nil
}

func parseSet(pairs []string) (map[string]any, error) {
	model := make(map[string]any, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("--set wants key=value, got %q", p)
		}
		model[k] = v
	}
	return model, nil
}

// renderOnce draws ref from src to w.
func renderOnce(w io.Writer, src template.Source, deps view.Deps, ref template.Ref, model map[string]any, opts preview.Options, legend bool) error {
	deps.Templates = src
	v, err := view.New(view.Definition{
		Name:     ref.String(),
		Template: &ref,
		New: func() view.Layout {
			return view.LayoutFunc(func(any, *view.Context) error { return nil })
		},
	}, model, deps)
	if err != nil {
		return err
	}
	defer v.Destroy()

	_, _ = fmt.Fprintln(w, preview.Container(v.Container(), v.Mask(), opts))
	if legend {
		_, _ = fmt.Fprintln(w, preview.Legend(v.Template()))
	}
	return nil
}

func runRender(cmd *cobra.Command, args []string) error {
	ref, err := parseRef(args[0])
	if err != nil {
		return err
	}
	model, err := parseSet(renderSet)
	if err != nil {
		return err
	}

	ff := featureFlags(cfg)
	opts := loadOptions(ff)
	lib, err := loadLibrary(cfg, opts)
	if err != nil {
		return err
	}
	deps := view.Deps{
		Items:      item.NewService(),
		Containers: host.InventoryFactory,
		Flags:      ff,
		Namespace:  cfg.Namespace,
	}
	popts := preview.Options{CellWidth: renderCellWidth, Materials: renderMaterials}
	out := cmd.OutOrStdout()

	if err := renderOnce(out, lib, deps, ref, model, popts, renderLegend); err != nil {
		return err
	}
	if !renderWatch {
		return nil
	}
	if cfg.Templates.Dir == "" {
		return fmt.Errorf("--watch needs a template directory (--templates or templates.dir)")
	}

	wcfg := watcher.DefaultConfig(cfg.Templates.Dir)
	if cfg.Templates.Debounce > 0 {
		wcfg.DebounceDur = cfg.Templates.Debounce
	}
	w, err := watcher.New(wcfg)
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()
	changes, err := w.Start()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reloader := watcher.NewReloader(cfg.Templates.Dir, lib, opts, func(err error) {
		if err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "reload failed: %v\n", err)
			return
		}
		if err := renderOnce(out, lib, deps, ref, model, popts, renderLegend); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "render failed: %v\n", err)
		}
	})
	_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "watching", cfg.Templates.Dir, "(ctrl-c to stop)")
	reloader.Run(ctx, changes)
	return contextErr(ctx)
}

// contextErr hides the cancellation caused by the user stopping a watch.
func contextErr(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return nil
	}
	return ctx.Err()
}
