package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	l := m.layout()

	// Header
	header := titleStyle.Render(" routemap ─ route map viewer ")
	header = lipgloss.NewStyle().Width(l.contentW).Padding(0).Render(header)

	sidebar := m.renderLegend(l.sidebarW, l.mapH)

	var mapView string
	switch {
	case m.alert != "":
		box := alertStyle.MaxWidth(min(l.mapW, 60)).Render("Error\n" + m.alert + "\n\n" + dimStyle.Render("r retry  esc dismiss"))
		mapView = lipgloss.Place(l.mapW, l.mapH, lipgloss.Center, lipgloss.Center, box)
	case m.showTable:
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		maxW := min(l.mapW, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(l.mapH-4, 20))
		box := boxStyle.Width(maxW).Render(titleStyle.Render(m.tblRoute) + "\n" + m.tbl.View())
		mapView = lipgloss.Place(l.mapW, l.mapH, lipgloss.Center, lipgloss.Center, box)
	case m.popup != "":
		box := boxStyle.MaxWidth(min(l.mapW, 72)).Render(m.popup)
		mapView = lipgloss.Place(l.mapW, l.mapH, lipgloss.Center, lipgloss.Center, box)
	default:
		mapView = lipgloss.NewStyle().Width(l.mapW).Height(l.mapH).Render(m.renderMap(l.mapW, l.mapH))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, lipgloss.NewStyle().Height(l.mapH).Render(sidebar), " ", mapView)

	// Footer: hover label, then status, help and pointer coordinates.
	tip := ""
	switch {
	case m.hoverMarker != nil:
		tip = m.hoverMarker.Info.TooltipText()
	case m.hoverLine != nil:
		tip = m.hoverLine.TooltipText
	}
	tip = truncate(strings.ReplaceAll(tip, "\n", " · "), l.contentW-2)
	tipLine := lipgloss.NewStyle().Width(l.contentW).Render(" " + tip)

	status := m.status
	if m.loading {
		status = "loading…"
	}
	help := m.renderHelp()
	coords := ""
	if m.hoverHasGeo {
		coords = dimStyle.Render(fmt.Sprintf("  lat=%.5f lon=%.5f  ", m.hoverAt.Lat, m.hoverAt.Lon))
	}
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, dimStyle.Render(" "+status+" "), help)
	spacerW := max(0, l.contentW-lipgloss.Width(left)-lipgloss.Width(coords))
	right := lipgloss.Place(spacerW+lipgloss.Width(coords), 1, lipgloss.Right, lipgloss.Center, coords)
	footer := lipgloss.NewStyle().Width(l.contentW).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, left, right))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, tipLine, footer)
	return appStyle.Width(l.contentW).Height(m.height).Render(ui)
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"↑↓ select",
		"space toggle",
		"←→ ⇧↑⇧↓ pan",
		"+/- zoom",
		"f fit",
		"Tab legend",
		"/ filter",
		"r reload",
		"h help",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
