package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjrosen/slotmenu/internal/item"
	"github.com/zjrosen/slotmenu/internal/mask"
	"github.com/zjrosen/slotmenu/internal/template"
	"github.com/zjrosen/slotmenu/internal/templates"
)

// errInvalidTemplates is returned when validate found problems. Details
// have already been printed.
var errInvalidTemplates = errors.New("template validation failed")

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Validate a template directory",
	Long: `Check every <group>/<id>.yaml under dir against the template schema,
then check row counts, item keys and material names.

Without dir the configured template directory is used, and without that
the built-in pools.

Examples:
  slotmenu validate ./templates
  slotmenu validate`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	var fsys fs.FS
	switch {
	case len(args) == 1:
		fsys = os.DirFS(args[0])
	case cfg.Templates.Dir != "":
		fsys = os.DirFS(cfg.Templates.Dir)
	default:
		fsys = templates.PoolsFS()
	}

	pools, err := template.LoadFS(fsys, ".", template.LoadOptions{Validate: true})
	if err != nil {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
		return errInvalidTemplates
	}

	out := cmd.OutOrStdout()
	problems := 0
	materials := item.DefaultMaterials()
	for _, pool := range pools {
		for _, id := range pool.IDs() {
			ref := template.Ref{Group: pool.Group(), ID: id}
			tmpl, _ := pool.Get(id)
			issues := checkTemplate(tmpl, materials)
			if len(issues) == 0 {
				_, _ = fmt.Fprintf(out, "ok    %s\n", ref)
				continue
			}
			problems += len(issues)
			for _, issue := range issues {
				_, _ = fmt.Fprintf(out, "FAIL  %s: %s\n", ref, issue)
			}
		}
	}
	if problems > 0 {
		return fmt.Errorf("%w: %d problem(s)", errInvalidTemplates, problems)
	}
	return nil
}

// checkTemplate reports problems the loader does not catch: unknown
// materials and item keys that appear nowhere in the pattern.
func checkTemplate(t *template.InventoryTemplate, materials *item.Materials) []string {
	m, err := mask.Resolve(t)
	if err != nil {
		return []string{err.Error()}
	}
	var issues []string
	for _, key := range t.Keys() {
		d, _ := t.Item(key)
		if _, err := materials.Lookup(d.Material); err != nil {
			issues = append(issues, fmt.Sprintf("item %q: %v", key, err))
		}
		if !m.Has(key) {
			issues = append(issues, fmt.Sprintf("item %q is not used by the pattern", key))
		}
	}
	return issues
}
