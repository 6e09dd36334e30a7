// Package preview draws a container or mask as a terminal grid.
package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/zjrosen/slotmenu/internal/host"
	"github.com/zjrosen/slotmenu/internal/item"
	"github.com/zjrosen/slotmenu/internal/mask"
	"github.com/zjrosen/slotmenu/internal/template"
)

const (
	emptyCell   = "·"
	ellipsis    = "…"
	minCellWide = 3
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	gridStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	emptyStyle  = lipgloss.NewStyle().Faint(true)
	glowStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C084FC"))
	legendStyle = lipgloss.NewStyle().Faint(true)
)

// Options controls the preview layout.
type Options struct {
	// CellWidth is the width of one slot in terminal cells.
	CellWidth int
	// Materials shows material names instead of pattern characters.
	Materials bool
}

// DefaultOptions returns pattern-character cells four columns wide.
func DefaultOptions() Options {
	return Options{CellWidth: 4}
}

// Container renders the container's title and slots. m may be nil, in
// which case cells always show materials.
func Container(c host.Container, m *mask.Mask, opts Options) string {
	width := cellWidth(opts)
	cells := make([]string, c.Size())
	for slot := range cells {
		st := c.Item(slot)
		if st.IsEmpty() {
			cells[slot] = emptyStyle.Render(fit(emptyCell, width))
			continue
		}
		label := string(st.Material)
		if ch, ok := m.PatternAt(slot); ok && !opts.Materials {
			label = string(ch)
		}
		text := fit(label, width)
		if st.Glowing() {
			text = glowStyle.Render(text)
		}
		cells[slot] = text
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(item.StripColor(c.Title())))
	b.WriteByte('\n')
	b.WriteString(gridStyle.Render(grid(cells)))
	return b.String()
}

// Mask renders only the resolved pattern characters.
func Mask(m *mask.Mask, opts Options) string {
	width := cellWidth(opts)
	cells := make([]string, m.Len())
	for slot := range cells {
		ch, ok := m.PatternAt(slot)
		if !ok || ch == mask.Empty {
			cells[slot] = emptyStyle.Render(fit(emptyCell, width))
			continue
		}
		cells[slot] = fit(string(ch), width)
	}
	return gridStyle.Render(grid(cells))
}

// Legend lists each pattern character with its item descriptor, in
// sorted key order.
func Legend(t *template.InventoryTemplate) string {
	var lines []string
	for _, ch := range t.Keys() {
		d, _ := t.Item(ch)
		line := fmt.Sprintf("%s  %s x%d", string(ch), d.Material, d.Amount)
		if d.Name != "" {
			line += fmt.Sprintf(" %q", item.StripColor(item.Colorize(d.Name)))
		}
		var tags []string
		if d.Glowing {
			tags = append(tags, "glowing")
		}
		if d.CancelMove {
			tags = append(tags, "cancel-move")
		}
		if len(tags) > 0 {
			line += " " + legendStyle.Render("["+strings.Join(tags, ", ")+"]")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func grid(cells []string) string {
	rows := make([]string, 0, (len(cells)+host.Columns-1)/host.Columns)
	for start := 0; start < len(cells); start += host.Columns {
		end := min(start+host.Columns, len(cells))
		rows = append(rows, strings.Join(cells[start:end], " "))
	}
	return strings.Join(rows, "\n")
}

func cellWidth(opts Options) int {
	if opts.CellWidth < minCellWide {
		return minCellWide
	}
	return opts.CellWidth
}

// fit truncates or pads s to exactly width terminal cells.
func fit(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, ellipsis)
	}
	return runewidth.FillRight(s, width)
}
