package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Styles
var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	borderCol = lipgloss.Color("#243141")
	alertCol  = lipgloss.Color("#DC2626")

	appStyle    = lipgloss.NewStyle().Foreground(baseFg)
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
	alertStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(alertCol).Foreground(alertCol).Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(baseDimFg)
	cursorStyle = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
)

// Map glyphs and colors that do not come from route data. Boundary outlines
// are configured black for light tiles; on a terminal they are drawn gray.
const (
	markerGlyph    = '●'
	hoverGlyph     = '◯'
	hoverColor     = "#FFA500"
	boundaryColor  = "#6B7280"
	darkRouteColor = "#9CA3AF"
)

// minRouteLightness is the Lab lightness below which a route color cannot be
// told apart from a dark terminal background.
const minRouteLightness = 0.2

// terminalColor swaps route colors too dark for the terminal, such as the
// black fallback of geometry-only routes, for a light gray.
func terminalColor(c string) string {
	col, err := colorful.Hex(c)
	if err != nil {
		return c
	}
	if l, _, _ := col.Lab(); l < minRouteLightness {
		return darkRouteColor
	}
	return c
}
