package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/slotmenu/internal/item"
	"github.com/zjrosen/slotmenu/internal/template"
)

// execute runs the root command with args and returns everything written
// to stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestParseRef(t *testing.T) {
	ref, err := parseRef("shop/main")
	require.NoError(t, err)
	require.Equal(t, template.Ref{Group: "shop", ID: "main"}, ref)

	for _, bad := range []string{"shop", "/main", "shop/", ""} {
		_, err := parseRef(bad)
		require.Error(t, err, bad)
	}
}

func TestParseSet(t *testing.T) {
	model, err := parseSet([]string{"player=steve", "price=10", "empty="})
	require.NoError(t, err)
	require.Equal(t, map[string]any{"player": "steve", "price": "10", "empty": ""}, model)

	_, err = parseSet([]string{"novalue"})
	require.Error(t, err)
	_, err = parseSet([]string{"=x"})
	require.Error(t, err)
}

func TestCheckTemplate(t *testing.T) {
	materials := item.DefaultMaterials()

	good, err := template.New("ok", 1, []string{"AAAA_BBBB"}, map[rune]template.ItemDescriptor{
		'A': {Material: "STONE"},
		'B': {Material: "minecraft:diamond"},
	})
	require.NoError(t, err)
	require.Empty(t, checkTemplate(good, materials))

	bad, err := template.New("bad", 1, []string{"AAAA"}, map[rune]template.ItemDescriptor{
		'A': {Material: "UNOBTAINIUM"},
		'Z': {Material: "STONE"},
	})
	require.NoError(t, err)
	issues := checkTemplate(bad, materials)
	require.Len(t, issues, 2)
	require.Contains(t, issues[0], "unknown material")
	require.Contains(t, issues[1], "not used by the pattern")
}

func TestValidate_BuiltinPools(t *testing.T) {
	out, err := execute(t, "", "validate")
	require.NoError(t, err)
	require.Contains(t, out, "ok    shop/main")
	require.Contains(t, out, "ok    bank/vault")
	require.NotContains(t, out, "FAIL")
}

func TestValidate_ReportsProblems(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "shop"), 0o750))
	doc := "rows: 1\npattern: [\"AAAA\"]\nitems:\n  A:\n    material: UNOBTAINIUM\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shop", "main.yaml"), []byte(doc), 0o600))

	out, err := execute(t, "", "validate", dir)
	require.ErrorIs(t, err, errInvalidTemplates)
	require.Contains(t, out, "FAIL  shop/main")
}

func TestValidate_SchemaError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "shop"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shop", "main.yaml"), []byte("rows: 9\npattern: [\"A\"]\n"), 0o600))

	out, err := execute(t, "", "validate", dir)
	require.ErrorIs(t, err, errInvalidTemplates)
	require.Contains(t, out, "schema")
}

func TestTemplatesList_JSON(t *testing.T) {
	out, err := execute(t, "", "templates:list", "--json")
	templatesJSON = false
	require.NoError(t, err)

	var pools []poolDTO
	require.NoError(t, json.Unmarshal([]byte(out), &pools))
	require.Equal(t, []poolDTO{
		{Group: "bank", Templates: []string{"vault"}},
		{Group: "form", Templates: []string{"text"}},
		{Group: "shop", Templates: []string{"confirm", "main"}},
	}, pools)
}

func TestRender_BuiltinShop(t *testing.T) {
	out, err := execute(t, "", "render", "shop/main", "--set", "player=steve", "--legend")
	renderLegend = false
	require.NoError(t, err)
	require.Contains(t, out, "Shop - steve")
	require.Contains(t, out, "GRAY_STAINED_GLASS_PANE")
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, err := execute(t, "", "render", "shop/nope")
	require.ErrorIs(t, err, template.ErrTemplateNotFound)
}

func TestPlay_BuysFromShop(t *testing.T) {
	script := strings.Join([]string{
		"open shop",
		"click 11",
		"click 0",
		"quit",
	}, "\n")
	out, err := execute(t, script, "play")
	require.NoError(t, err)
	require.NotContains(t, out, "error:")
	require.Contains(t, out, "Shop - steve")
	require.Contains(t, out, "[to steve] Bought Diamond for 100")
}

func TestPlay_ReportsBadCommands(t *testing.T) {
	script := "open nowhere\nclick 3\nfly\n"
	out, err := execute(t, script, "play")
	require.NoError(t, err)
	require.Contains(t, out, `unknown menu "nowhere"`)
	require.Contains(t, out, "no open menu")
	require.Contains(t, out, `unknown command "fly"`)
}

func TestInit_WritesConfigOnce(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := execute(t, "", "init")
	require.NoError(t, err)
	require.Contains(t, out, "wrote "+localConfigPath)
	_, err = os.Stat(localConfigPath)
	require.NoError(t, err)

	_, err = execute(t, "", "init")
	require.Error(t, err)
	require.Contains(t, err.Error(), "already exists")
}
