package attribute

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func mustKey(t *testing.T, name string) Key {
	t.Helper()
	k, err := NewKey("slotmenu", name)
	require.NoError(t, err)
	return k
}

func TestNewKey_Validation(t *testing.T) {
	tests := []struct {
		name      string
		namespace string
		key       string
		wantErr   bool
	}{
		{"valid", "slotmenu", "price", false},
		{"path name", "slotmenu", "shop/price.v2", false},
		{"upper namespace", "SlotMenu", "price", true},
		{"empty name", "slotmenu", "", true},
		{"space in name", "slotmenu", "my price", true},
		{"slash in namespace", "slot/menu", "price", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewKey(tt.namespace, tt.key)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidKey)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestMap_SetGet(t *testing.T) {
	m := NewMap()
	k := mustKey(t, "value")

	_, ok, err := m.Get(k)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, m.Set(k, String("hello")))
	v, ok, err := m.Get(k)
	require.NoError(t, err)
	require.True(t, ok)
	s, isString := v.AsString()
	require.True(t, isString)
	require.Equal(t, "hello", s)
}

func TestMap_SetRejectsZeroValue(t *testing.T) {
	err := NewMap().Set(mustKey(t, "x"), Value{})
	require.ErrorIs(t, err, ErrInvalidKind)
}

func TestMap_SetRejectsInvalidKey(t *testing.T) {
	err := NewMap().Set(Key{Namespace: "ok", Name: "NOPE"}, Int(1))
	require.ErrorIs(t, err, ErrInvalidKey)
}

func TestGetKind_Mismatch(t *testing.T) {
	m := NewMap()
	k := mustKey(t, "count")
	require.NoError(t, m.Set(k, Int(3)))

	_, _, err := GetKind(m, k, KindString)
	require.True(t, errors.Is(err, ErrKindMismatch))

	v, ok, err := GetKind(m, k, KindInt)
	require.NoError(t, err)
	require.True(t, ok)
	n, _ := v.AsInt64()
	require.Equal(t, int64(3), n)
}

func TestClone_IsIndependent(t *testing.T) {
	m := NewMap()
	k := mustKey(t, "a")
	require.NoError(t, m.Set(k, Bool(true)))

	c, err := Clone(m)
	require.NoError(t, err)
	require.NoError(t, m.Set(k, Bool(false)))

	v, ok, err := c.Get(k)
	require.NoError(t, err)
	require.True(t, ok)
	b, _ := v.AsBool()
	require.True(t, b)
}

func TestKeys_Sorted(t *testing.T) {
	m := NewMap()
	require.NoError(t, m.Set(mustKey(t, "b"), Int(1)))
	require.NoError(t, m.Set(mustKey(t, "a"), Int(2)))
	keys, err := m.Keys()
	require.NoError(t, err)
	require.Equal(t, []Key{mustKey(t, "a"), mustKey(t, "b")}, keys)
}

func TestOf_Unsupported(t *testing.T) {
	_, err := Of(struct{}{})
	require.ErrorIs(t, err, ErrInvalidKind)
}

func TestParseKind_RoundTripsNames(t *testing.T) {
	for k := KindString; k <= KindBytes; k++ {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		require.Equal(t, k, got)
	}
	_, err := ParseKind("uuid")
	require.ErrorIs(t, err, ErrInvalidKind)
}

func TestValue_OfInterfaceProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var x any
		switch rapid.IntRange(0, 5).Draw(t, "kind") {
		case 0:
			x = rapid.String().Draw(t, "s")
		case 1:
			x = rapid.Bool().Draw(t, "b")
		case 2:
			x = rapid.Int32().Draw(t, "i")
		case 3:
			x = rapid.Int64().Draw(t, "l")
		case 4:
			x = rapid.Float64().Filter(func(f float64) bool { return f == f }).Draw(t, "d")
		case 5:
			x = rapid.Int8().Draw(t, "y")
		}
		v, err := Of(x)
		if err != nil {
			t.Fatalf("Of(%v): %v", x, err)
		}
		if v.Interface() != x {
			t.Fatalf("Interface() = %v, want %v", v.Interface(), x)
		}
		back, err := Of(v.Interface())
		if err != nil || !back.Equal(v) {
			t.Fatalf("value did not survive conversion: %v vs %v", back, v)
		}
	})
}
