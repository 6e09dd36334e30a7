package item

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/slotmenu/internal/attribute"
)

func TestMaterials_Lookup(t *testing.T) {
	m := NewMaterials("diamond")

	got, err := m.Lookup("minecraft:diamond")
	require.NoError(t, err)
	require.Equal(t, Material("DIAMOND"), got)

	got, err = m.Lookup("air")
	require.NoError(t, err)
	require.Equal(t, Air, got)

	_, err = m.Lookup("UNOBTAINIUM")
	require.ErrorIs(t, err, ErrUnknownMaterial)
}

func TestService_BuildFullItem(t *testing.T) {
	svc := NewService()
	st, err := svc.Build("DIAMOND").
		Amount(3).
		Display("§bGem").
		Lore([]string{"line 1", "line 2"}).
		Enchant(Unbreaking, 1).
		Item()
	require.NoError(t, err)

	require.Equal(t, Material("DIAMOND"), st.Material)
	require.Equal(t, 3, st.Amount)
	require.Equal(t, "§bGem", st.Display())
	require.Equal(t, []string{"line 1", "line 2"}, st.Lore())
	require.True(t, st.Glowing())
	require.True(t, st.HasMeta())
	require.NotEmpty(t, st.Meta.ID)
}

func TestService_UnknownMaterialSurfacesAtItem(t *testing.T) {
	_, err := NewService().Build("NOT_A_THING").Amount(2).Display("x").Item()
	require.ErrorIs(t, err, ErrUnknownMaterial)
}

func TestService_InvalidAmount(t *testing.T) {
	_, err := NewService().Build("STONE").Amount(0).Item()
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestService_AirHasNoMeta(t *testing.T) {
	st, err := NewService().Build("AIR").Item()
	require.NoError(t, err)
	require.True(t, st.IsEmpty())
	require.False(t, st.HasMeta())
}

func TestService_UsesAttributeProvider(t *testing.T) {
	var ids []string
	svc := NewService(WithAttributeProvider(func(id string) attribute.Container {
		ids = append(ids, id)
		return attribute.NewMap()
	}))
	a, err := svc.Build("PAPER").Item()
	require.NoError(t, err)
	b, err := svc.Build("PAPER").Item()
	require.NoError(t, err)

	require.Equal(t, []string{a.Meta.ID, b.Meta.ID}, ids)
	require.NotEqual(t, a.Meta.ID, b.Meta.ID)
}

func TestStack_IsEmpty(t *testing.T) {
	var nilStack *Stack
	require.True(t, nilStack.IsEmpty())
	require.True(t, AirStack().IsEmpty())
	require.True(t, (&Stack{Material: "STONE", Amount: 0}).IsEmpty())
	require.False(t, (&Stack{Material: "STONE", Amount: 1}).IsEmpty())
}

func TestStack_CloneIsIndependent(t *testing.T) {
	st, err := NewService().Build("BOOK").Display("Guide").Lore([]string{"a"}).Item()
	require.NoError(t, err)
	key := attribute.Key{Namespace: "slotmenu", Name: "page"}
	require.NoError(t, st.Meta.Attributes.Set(key, attribute.Int(1)))

	cp, err := st.Clone(nil)
	require.NoError(t, err)
	require.True(t, Same(st, cp))
	require.NotEqual(t, st.Meta.ID, cp.Meta.ID)

	cp.Meta.Lore[0] = "changed"
	require.NoError(t, cp.Meta.Attributes.Set(key, attribute.Int(2)))

	require.Equal(t, []string{"a"}, st.Lore())
	v, ok, err := st.Meta.Attributes.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	n, _ := v.AsInt64()
	require.Equal(t, int64(1), n)
}

// brokenContainer fails every listing.
type brokenContainer struct{ *attribute.Map }

func (brokenContainer) Keys() ([]attribute.Key, error) { return nil, errors.New("store offline") }

func TestService_CloneUsesProvider(t *testing.T) {
	containers := map[string]attribute.Container{}
	svc := NewService(WithAttributeProvider(func(id string) attribute.Container {
		c := attribute.NewMap()
		containers[id] = c
		return c
	}))
	st, err := svc.Build("PAPER").Item()
	require.NoError(t, err)
	key := attribute.Key{Namespace: "slotmenu", Name: "note"}
	require.NoError(t, st.Meta.Attributes.Set(key, attribute.String("hi")))

	cp, err := svc.Clone(st)
	require.NoError(t, err)
	require.Same(t, containers[cp.Meta.ID], cp.Meta.Attributes)
	v, ok, err := cp.Meta.Attributes.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, v.Equal(attribute.String("hi")))
}

func TestStack_CloneReportsAttributeErrors(t *testing.T) {
	st, err := NewService().Build("PAPER").Item()
	require.NoError(t, err)
	st.Meta.Attributes = brokenContainer{attribute.NewMap()}

	_, err = st.Clone(nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "store offline")
}

func TestSame(t *testing.T) {
	svc := NewService()
	a, _ := svc.Build("STONE").Amount(2).Item()
	b, _ := svc.Build("STONE").Amount(2).Item()
	c, _ := svc.Build("STONE").Amount(3).Item()

	require.True(t, Same(a, b))
	require.False(t, Same(a, c))
	require.True(t, Same(nil, AirStack()))
	require.False(t, Same(a, nil))
}

func TestColorize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"&aShop", "§aShop"},
		{"&LBold &rreset", "§lBold §rreset"},
		{"Tom & Jerry", "Tom & Jerry"},
		{"trailing &", "trailing &"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, Colorize(tt.in))
		})
	}
}

func TestStripColor(t *testing.T) {
	require.Equal(t, "Shop 5", StripColor("§aShop §l5"))
	require.Equal(t, "no codes", StripColor("no codes"))
	require.Equal(t, "end§", StripColor("end§"))
}
