package sqlite

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/slotmenu/internal/attribute"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "attributes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func key(name string) attribute.Key { return attribute.Key{Namespace: "slotmenu", Name: name} }

// TestNewDB_CreatesDirectory verifies that NewDB creates the parent directory if missing.
func TestNewDB_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "nested", "test.db")

	db, err := NewDB(dbPath)
	require.NoError(t, err)
	defer db.Close()

	info, err := os.Stat(filepath.Dir(dbPath))
	require.NoError(t, err)
	require.True(t, info.IsDir())
	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), info.Mode().Perm())
	}
	require.Equal(t, dbPath, db.Path())
}

func TestNewDB_WALMode(t *testing.T) {
	db := newTestDB(t)

	var journalMode string
	require.NoError(t, db.conn.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	require.Equal(t, "wal", journalMode)
}

func TestNewDB_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attributes.db")
	db1, err := NewDB(path)
	require.NoError(t, err)
	require.NoError(t, db1.Container("item-1").Set(key("value"), attribute.String("hello")))
	require.NoError(t, db1.Close())

	db2, err := NewDB(path)
	require.NoError(t, err)
	defer db2.Close()
	v, ok, err := db2.Container("item-1").Get(key("value"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "hello", v.String())
}

func TestContainer_GetMissing(t *testing.T) {
	db := newTestDB(t)
	_, ok, err := db.Container("item-1").Get(key("absent"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestContainer_SetOverwritesAndChangesKind(t *testing.T) {
	db := newTestDB(t)
	c := db.Container("item-1")
	require.NoError(t, c.Set(key("price"), attribute.Int(5)))
	require.NoError(t, c.Set(key("price"), attribute.Double(7.5)))

	v, ok, err := c.Get(key("price"))
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, v.Equal(attribute.Double(7.5)))
}

func TestContainer_IsolatedPerItem(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Container("a").Set(key("value"), attribute.Bool(true)))

	_, ok, err := db.Container("b").Get(key("value"))
	require.NoError(t, err)
	require.False(t, ok)

	ids, err := db.Items()
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, ids)
}

func TestContainer_RemoveAndKeys(t *testing.T) {
	db := newTestDB(t)
	c := db.Container("item-1")
	require.NoError(t, c.Set(key("b"), attribute.String("x")))
	require.NoError(t, c.Set(key("a"), attribute.String("y")))
	require.NoError(t, c.Set(attribute.Key{Namespace: "other", Name: "z"}, attribute.Long(1)))

	keys, err := c.Keys()
	require.NoError(t, err)
	require.Equal(t, []attribute.Key{{Namespace: "other", Name: "z"}, key("a"), key("b")}, keys)

	require.NoError(t, c.Remove(key("a")))
	require.NoError(t, c.Remove(key("a")))
	keys, err = c.Keys()
	require.NoError(t, err)
	require.Len(t, keys, 2)
}

func TestContainer_RejectsInvalid(t *testing.T) {
	db := newTestDB(t)
	c := db.Container("item-1")
	require.ErrorIs(t, c.Set(attribute.Key{Namespace: "Bad Space", Name: "x"}, attribute.Int(1)), attribute.ErrInvalidKey)
	require.ErrorIs(t, c.Set(key("x"), attribute.Value{}), attribute.ErrInvalidKind)
	_, _, err := c.Get(attribute.Key{})
	require.ErrorIs(t, err, attribute.ErrInvalidKey)
}

func TestDeleteItem(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Container("item-1").Set(key("value"), attribute.String("x")))
	require.NoError(t, db.DeleteItem("item-1"))

	keys, err := db.Container("item-1").Keys()
	require.NoError(t, err)
	require.Empty(t, keys)
}

func TestProvider_CloneRoundTrip(t *testing.T) {
	db := newTestDB(t)
	c := db.Provider()("item-1")
	require.NoError(t, c.Set(key("value"), attribute.Bytes([]byte{1, 2, 3})))

	m, err := attribute.Clone(c)
	require.NoError(t, err)
	v, ok, err := m.Get(key("value"))
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, v.Equal(attribute.Bytes([]byte{1, 2, 3})))
}

func genValue() *rapid.Generator[attribute.Value] {
	return rapid.OneOf(
		rapid.Map(rapid.StringMatching(`[a-zA-Z0-9 &:_-]*`), attribute.String),
		rapid.Map(rapid.Bool(), attribute.Bool),
		rapid.Map(rapid.Int8(), attribute.Byte),
		rapid.Map(rapid.Int16(), attribute.Short),
		rapid.Map(rapid.Int32(), attribute.Int),
		rapid.Map(rapid.Int64(), attribute.Long),
		rapid.Map(rapid.Float32Range(-1e6, 1e6), attribute.Float),
		rapid.Map(rapid.Float64Range(-1e12, 1e12), attribute.Double),
		rapid.Map(rapid.SliceOf(rapid.Byte()), attribute.Bytes),
	)
}

func TestContainer_StoredValuesReadBackEqual(t *testing.T) {
	db := newTestDB(t)
	rapid.Check(t, func(t *rapid.T) {
		v := genValue().Draw(t, "value")
		c := db.Container("prop")
		if err := c.Set(key("v"), v); err != nil {
			t.Fatalf("set: %v", err)
		}
		got, ok, err := c.Get(key("v"))
		if err != nil || !ok {
			t.Fatalf("get: ok=%v err=%v", ok, err)
		}
		if !got.Equal(v) {
			t.Fatalf("got %v (%s), want %v (%s)", got, got.Kind(), v, v.Kind())
		}
	})
}
