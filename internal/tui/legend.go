package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"routemap/internal/mapview"
)

const (
	legendWidth          = 34
	collapsedLegendWidth = 12
	legendHeaderLines    = 3
)

func (m Model) legendRows() []*mapview.LegendRow {
	if m.mp == nil {
		return nil
	}
	return m.mp.Legend.VisibleRows()
}

func (m *Model) clampCursor() {
	n := len(m.legendRows())
	m.cursor = max(0, min(m.cursor, n-1))
}

// cursorRoute is the route of the legend row under the cursor.
func (m Model) cursorRoute() (string, bool) {
	rows := m.legendRows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return "", false
	}
	return rows[m.cursor].Route, true
}

func (m Model) legendCollapsed() bool {
	return m.mp != nil && m.mp.Legend.Collapsed
}

func (m Model) renderLegend(w, h int) string {
	icon := mapview.CollapseIcon
	if m.mp != nil {
		icon = m.mp.Legend.Icon()
	}
	if m.legendCollapsed() {
		return lipgloss.NewStyle().Width(w).Render(titleStyle.Render("Routes ") + icon)
	}

	title := titleStyle.Render("Routes")
	header := title + strings.Repeat(" ", max(1, w-lipgloss.Width(title)-lipgloss.Width(icon))) + icon

	filter := m.filter.View()
	if !m.filtering && m.filter.Value() == "" {
		filter = dimStyle.Render("/ filter")
	}
	lines := []string{header, filter, dimStyle.Render("A all  N none  t table")}

	if m.mp == nil {
		lines = append(lines, dimStyle.Render("loading…"))
		return lipgloss.NewStyle().Width(w).Render(joinLines(lines))
	}

	rows := m.legendRows()
	if len(rows) == 0 {
		lines = append(lines, dimStyle.Render("no routes match"))
	}
	avail := max(1, h-legendHeaderLines)
	start := 0
	if m.cursor >= avail {
		start = m.cursor - avail + 1
	}
	for i := start; i < len(rows) && i < start+avail; i++ {
		lines = append(lines, m.renderLegendRow(rows[i], i == m.cursor, w))
	}
	return lipgloss.NewStyle().Width(w).Render(joinLines(lines))
}

func (m Model) renderLegendRow(r *mapview.LegendRow, atCursor bool, w int) string {
	box := "[ ]"
	if r.Checked {
		box = "[x]"
	}
	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(terminalColor(r.Color))).Render("■")
	label := truncate(r.Label, w-8)
	prefix := " "
	if atCursor {
		prefix = cursorStyle.Render("›")
		label = cursorStyle.Render(label)
	}
	return fmt.Sprintf("%s%s %s %s", prefix, box, swatch, label)
}
