package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

const (
	headerHeight = 1
	footerHeight = 2
	hoverReach   = 1
	panStep      = 0.1
)

type layout struct {
	sidebarW int
	mapX     int
	mapY     int
	mapW     int
	mapH     int
	contentW int
}

// layout must match what View draws.
func (m Model) layout() layout {
	sidebarW := legendWidth
	if m.legendCollapsed() {
		sidebarW = collapsedLegendWidth
	}
	contentH := max(4, m.height-headerHeight-footerHeight)
	contentW := max(10, m.width)
	return layout{
		sidebarW: sidebarW,
		mapX:     sidebarW + 1,
		mapY:     headerHeight,
		mapW:     max(10, contentW-sidebarW-1),
		mapH:     contentH,
		contentW: contentW,
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case builtMsg:
		return m.applyBuild(msg), nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg), nil
	}
	if m.filtering {
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) applyBuild(msg builtMsg) Model {
	m.loading = false
	if msg.err != nil {
		m.log.Error("build failed", zap.Error(msg.err))
		m.alert = msg.err.Error()
		m.status = "build failed, press r to retry"
		return m
	}

	next := msg.res.Map
	if m.mp != nil {
		for _, g := range m.mp.VisibleGroups() {
			next.SetVisible(g.Name, true)
		}
		next.Legend.Collapsed = m.mp.Legend.Collapsed
	}
	m.res, m.mp = msg.res, next
	m.alert = ""
	m.popup = ""
	m.hoverMarker, m.hoverLine = nil, nil
	m.showTable = false
	m.applyFilter()

	m.status = fmt.Sprintf("%d routes loaded", len(next.Groups))
	if len(msg.res.Warnings) > 0 {
		m.status = "warning: " + msg.res.Warnings[0]
	}
	m.log.Info("map ready", zap.Int("routes", len(next.Groups)), zap.Strings("warnings", msg.res.Warnings))
	return m
}

func (m *Model) applyFilter() {
	if m.mp == nil {
		return
	}
	m.mp.Legend.Filter(m.filter.Value())
	m.clampCursor()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	if m.filtering {
		switch key {
		case "esc", "enter":
			m.filtering = false
			m.filter.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.applyFilter()
		return m, cmd
	}

	if m.showTable {
		switch key {
		case "esc", "t", "q":
			m.showTable = false
			return m, nil
		}
		var cmd tea.Cmd
		m.tbl, cmd = m.tbl.Update(msg)
		return m, cmd
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "esc":
		m.popup = ""
		m.alert = ""
	case "h":
		m.helpVisible = !m.helpVisible
	case "r":
		if !m.loading && m.build != nil {
			m.loading = true
			m.status = "rebuilding…"
			return m, m.buildCmd()
		}
	case "+", "=":
		if m.vp.zoomBy(1) {
			m.status = fmt.Sprintf("zoom: %d", m.vp.zoom)
		}
	case "-", "_":
		if m.vp.zoomBy(-1) {
			m.status = fmt.Sprintf("zoom: %d", m.vp.zoom)
		}
	case "left":
		m.vp.pan(0, -panStep)
	case "right":
		m.vp.pan(0, panStep)
	case "shift+up":
		m.vp.pan(panStep, 0)
	case "shift+down":
		m.vp.pan(-panStep, 0)
	}

	if m.mp == nil {
		return m, nil
	}

	switch key {
	case "tab":
		icon := m.mp.Legend.ToggleCollapsed()
		m.status = "legend " + icon
	case "up", "k":
		if m.mp.Legend.Collapsed {
			m.vp.pan(panStep, 0)
		} else if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.mp.Legend.Collapsed {
			m.vp.pan(-panStep, 0)
		} else if m.cursor < len(m.legendRows())-1 {
			m.cursor++
		}
	case " ", "space", "enter":
		if route, ok := m.cursorRoute(); ok && !m.mp.Legend.Collapsed {
			on := m.mp.Toggle(route)
			m.hoverMarker, m.hoverLine = nil, nil
			m.status = fmt.Sprintf("%s: %s", route, onOff(on))
			m.log.Debug("route toggled", zap.String("route", route), zap.Bool("visible", on))
		}
	case "A":
		m.mp.SetAll(true)
		m.status = "all routes shown"
	case "N":
		m.mp.SetAll(false)
		m.hoverMarker, m.hoverLine = nil, nil
		m.status = "all routes hidden"
	case "/":
		if m.mp.Legend.Collapsed {
			m.mp.Legend.ToggleCollapsed()
		}
		m.filtering = true
		cmd := m.filter.Focus()
		return m, cmd
	case "t":
		if route, ok := m.cursorRoute(); ok {
			m.openStationTable(route)
		}
	case "f":
		if b, ok := m.mp.Bounds(); ok {
			m.vp.fit(b)
			m.status = fmt.Sprintf("zoom: %d", m.vp.zoom)
		}
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) Model {
	l := m.layout()
	press := msg.Action == tea.MouseActionPress

	if press && msg.Button == tea.MouseButtonLeft && msg.X < l.sidebarW && m.mp != nil && !m.mp.Legend.Collapsed {
		rows := m.legendRows()
		avail := max(1, l.mapH-legendHeaderLines)
		start := 0
		if m.cursor >= avail {
			start = m.cursor - avail + 1
		}
		if i := start + msg.Y - l.mapY - legendHeaderLines; msg.Y-l.mapY >= legendHeaderLines && i < len(rows) {
			m.cursor = i
			m.mp.Toggle(rows[i].Route)
			m.hoverMarker, m.hoverLine = nil, nil
		}
		return m
	}

	cx, cy := msg.X-l.mapX, msg.Y-l.mapY
	if m.showTable || cx < 0 || cx >= l.mapW || cy < 0 || cy >= l.mapH {
		m.hovering, m.hoverHasGeo = false, false
		m.hoverMarker, m.hoverLine = nil, nil
		return m
	}

	m.hovering = true
	m.hoverAt = m.vp.fromCell(cx, cy, l.mapW, l.mapH)
	m.hoverHasGeo = true
	m.hoverMarker = m.nearestMarker(cx, cy, l.mapW, l.mapH, hoverReach)
	m.hoverLine = nil
	if m.hoverMarker == nil {
		m.hoverLine = m.nearestLine(cx, cy, l.mapW, l.mapH, hoverReach)
	}

	if press {
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.popup = ""
			if m.hoverMarker != nil {
				m.popup = m.hoverMarker.Info.PopupText()
			}
		case tea.MouseButtonWheelUp:
			m.vp.zoomBy(1)
		case tea.MouseButtonWheelDown:
			m.vp.zoomBy(-1)
		}
	}
	return m
}

func onOff(on bool) string {
	if on {
		return "shown"
	}
	return "hidden"
}
