package host

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/slotmenu/internal/item"
)

func TestInventory_SetItemAndClear(t *testing.T) {
	inv := NewInventory(18, "Shop")
	st := &item.Stack{Material: "STONE", Amount: 1}

	inv.SetItem(4, st)
	inv.SetItem(-1, st)
	inv.SetItem(18, st)

	require.Same(t, st, inv.Item(4))
	require.Nil(t, inv.Item(18))
	require.Equal(t, []int{4}, inv.Occupied())

	inv.Clear()
	require.Empty(t, inv.Occupied())
	require.Equal(t, 18, inv.Size())
	require.Equal(t, "Shop", inv.Title())
}

func TestInventory_Viewers(t *testing.T) {
	inv := NewInventory(9, "")
	inv.AddViewer("alice")
	inv.AddViewer("alice")
	inv.AddViewer("bob")
	require.Equal(t, []PlayerID{"alice", "bob"}, inv.Viewers())

	inv.RemoveViewer("alice")
	require.Equal(t, []PlayerID{"bob"}, inv.Viewers())
}

func TestClickEvent_SnapshotsViewers(t *testing.T) {
	inv := NewInventory(9, "")
	inv.AddViewer("alice")

	ev := NewClickEvent("alice", inv, 3, ClickLeft)
	inv.AddViewer("bob")

	require.Equal(t, []PlayerID{"alice"}, ev.Viewers())
	require.Equal(t, PlayerID("alice"), ev.Actor())
	require.Equal(t, Container(inv), ev.Container())
	require.False(t, ev.Cancelled())
	ev.SetCancelled(true)
	require.True(t, ev.Cancelled())
}

func TestMessageLog(t *testing.T) {
	m := NewMessageLog()
	m.SendMessage("alice", "hi")
	m.SendMessage("alice", "again")
	require.Equal(t, []string{"hi", "again"}, m.Messages["alice"])
}
