package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func readYAML(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, yaml.Unmarshal(data, &out))
	return out
}

func TestSaveFlags_NewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, SaveFlags(path, map[string]bool{"strict-placeholders": true, "schema-validation": false}))

	got := readYAML(t, path)
	require.Equal(t, map[string]any{"strict-placeholders": true, "schema-validation": false}, got["flags"])
}

func TestSaveFlags_PreservesOtherSectionsAndComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	require.NoError(t, SaveFlags(path, map[string]bool{"strict-placeholders": true}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "# Namespace for attribute keys")

	got := readYAML(t, path)
	require.Equal(t, "slotmenu", got["namespace"])
	require.Equal(t, map[string]any{"strict-placeholders": true}, got["flags"])
}

func TestSaveFlags_ReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("flags:\n  old: true\nnamespace: x\n"), 0o600))

	require.NoError(t, SaveFlags(path, map[string]bool{"new": true}))

	got := readYAML(t, path)
	require.Equal(t, map[string]any{"new": true}, got["flags"])
	require.Equal(t, "x", got["namespace"])
}

func TestSaveTemplatesDir_KeepsSiblings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("templates:\n  watch: true\n"), 0o600))

	require.NoError(t, SaveTemplatesDir(path, "./menus"))

	got := readYAML(t, path)
	require.Equal(t, map[string]any{"watch": true, "dir": "./menus"}, got["templates"])
}

func TestSave_RejectsNonMapping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- a\n- b\n"), 0o600))

	require.ErrorContains(t, SaveFlags(path, nil), "top level is not a mapping")
}
