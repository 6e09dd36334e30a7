package preview

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/slotmenu/internal/host"
	"github.com/zjrosen/slotmenu/internal/mask"
	"github.com/zjrosen/slotmenu/internal/template"
	"github.com/zjrosen/slotmenu/internal/view"
)

type emptyLayout struct{}

func (emptyLayout) RenderView(any, *view.Context) error { return nil }

func shopTemplate(t *testing.T) *template.InventoryTemplate {
	t.Helper()
	tmpl, err := template.New("&aShop", 2, []string{"AAAAAAAAA", "B___C____"}, map[rune]template.ItemDescriptor{
		'A': {Material: "GRAY_STAINED_GLASS_PANE", CancelMove: true},
		'B': {Material: "DIAMOND", Name: "&bBuy", Glowing: true},
	})
	require.NoError(t, err)
	return tmpl
}

func TestFit(t *testing.T) {
	require.Equal(t, "A   ", fit("A", 4))
	require.Equal(t, 4, runewidth.StringWidth(fit("DIAMOND", 4)))
	require.True(t, strings.HasSuffix(fit("DIAMOND", 4), ellipsis))
	require.Equal(t, 4, runewidth.StringWidth(fit("木", 4)))
}

func TestCellWidth_HasFloor(t *testing.T) {
	require.Equal(t, minCellWide, cellWidth(Options{}))
	require.Equal(t, 6, cellWidth(Options{CellWidth: 6}))
}

func TestGrid_WrapsAtNineColumns(t *testing.T) {
	cells := make([]string, 18)
	for i := range cells {
		cells[i] = "x"
	}
	rows := strings.Split(grid(cells), "\n")
	require.Len(t, rows, 2)
	require.Equal(t, strings.Repeat("x ", 8)+"x", rows[0])
}

func TestContainer_ShowsTitleAndPattern(t *testing.T) {
	tmpl := shopTemplate(t)
	v, err := view.New(view.Definition{
		Name:       "shop",
		Descriptor: func() (*template.InventoryTemplate, error) { return tmpl, nil },
		New:        func() view.Layout { return emptyLayout{} },
	}, nil, view.Deps{Containers: host.InventoryFactory})
	require.NoError(t, err)

	out := Container(v.Container(), v.Mask(), DefaultOptions())
	lines := strings.Split(out, "\n")
	require.Equal(t, "Shop", strings.TrimSpace(lines[0]))
	// title, top border, two rows, bottom border
	require.Len(t, lines, 5)
	require.Contains(t, out, "A   ")
	require.Contains(t, out, "B   ")
	require.NotContains(t, out, "C   ")
	require.Contains(t, out, emptyCell)
}

func TestContainer_MaterialsWithoutMask(t *testing.T) {
	inv := host.NewInventory(9, "Plain")
	out := Container(inv, nil, Options{CellWidth: 8, Materials: true})
	require.Contains(t, out, "Plain")
	require.Contains(t, out, emptyCell)
}

func TestMask_RendersRunes(t *testing.T) {
	m, err := mask.FromRows(1, []string{"AB_C"})
	require.NoError(t, err)
	out := Mask(m, DefaultOptions())
	require.Contains(t, out, "A   ")
	require.Contains(t, out, "C   ")
	require.Len(t, strings.Split(out, "\n"), 3)
}

func TestLegend(t *testing.T) {
	out := Legend(shopTemplate(t))
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[0], "A  GRAY_STAINED_GLASS_PANE x1"))
	require.Contains(t, lines[0], "cancel-move")
	require.Contains(t, lines[1], `"Buy"`)
	require.Contains(t, lines[1], "glowing")
}
