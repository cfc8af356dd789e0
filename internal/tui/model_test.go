package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"routemap/internal/app"
	"routemap/internal/config"
	"routemap/internal/geom"
	"routemap/internal/mapview"
	"routemap/internal/routes"
)

var testMapConfig = config.MapConfig{
	CenterLat: 9.5, CenterLon: 39,
	Zoom: 6, MinZoom: 6, MaxZoom: 8,
	BoundsSWLat: 8, BoundsSWLon: 37,
	BoundsNELat: 11, BoundsNELon: 41,
}

func testResult(t *testing.T) *app.Result {
	t.Helper()
	rows, err := geom.ParseStationsCSV(strings.NewReader(`Route,lat,lon,Station,Elevation_m,Route Distance (KM)
A,9.0,38.0,X,2000,10
A,9.1,38.1,Y,2100,25
`))
	require.NoError(t, err)
	recs := routes.Records(rows)

	fc := geojson.NewFeatureCollection()
	f := geojson.NewFeature(orb.MultiLineString{{{39, 10}, {40, 10.5}}})
	f.Properties["name"] = "B"
	fc.Append(f)

	agg := routes.Join(recs, fc, nil, "")
	return &app.Result{Map: mapview.Build(agg, recs, mapview.DefaultStyle), Aggregate: agg, Records: recs}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

// loaded runs the initial build and sizes the window.
func loaded(t *testing.T, build BuildFunc) Model {
	t.Helper()
	m := New(Options{Build: build, Map: testMapConfig})
	assert.True(t, m.loading)
	cmd := m.Init()
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func okBuild(t *testing.T) BuildFunc {
	res := testResult(t)
	return func(context.Context) (*app.Result, error) { return res, nil }
}

func group(t *testing.T, m Model, name string) *mapview.RouteGroup {
	t.Helper()
	g, ok := m.mp.Group(name)
	require.True(t, ok)
	return g
}

func TestInitialBuild(t *testing.T) {
	m := loaded(t, okBuild(t))
	assert.False(t, m.loading)
	assert.Equal(t, "2 routes loaded", m.status)
	assert.Empty(t, m.mp.VisibleGroups(), "routes start hidden")
	assert.Len(t, m.legendRows(), 2)

	view := m.View()
	assert.Contains(t, view, "A (2 stations)")
	assert.Contains(t, view, "B (0 stations)")
}

func TestToggleRoutes(t *testing.T) {
	m := loaded(t, okBuild(t))

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.True(t, group(t, m, "A").Visible)
	assert.False(t, group(t, m, "B").Visible)
	assert.True(t, m.mp.Legend.Rows[0].Checked)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, group(t, m, "B").Visible)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, group(t, m, "B").Visible)
	assert.True(t, group(t, m, "A").Visible)
}

func TestCheckAndUncheckAll(t *testing.T) {
	m := loaded(t, okBuild(t))

	m, _ = update(t, m, runes("A"))
	assert.Len(t, m.mp.VisibleGroups(), 2)

	m, _ = update(t, m, runes("N"))
	assert.Empty(t, m.mp.VisibleGroups())
	for _, r := range m.mp.Legend.Rows {
		assert.False(t, r.Checked)
	}
}

func TestCollapseKeepsVisibility(t *testing.T) {
	m := loaded(t, okBuild(t))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.True(t, m.mp.Legend.Collapsed)
	assert.Equal(t, "legend "+mapview.ExpandIcon, m.status)
	assert.Equal(t, collapsedLegendWidth, m.layout().sidebarW)
	assert.True(t, group(t, m, "A").Visible)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.False(t, m.mp.Legend.Collapsed)
	assert.True(t, group(t, m, "A").Visible)
}

func TestFilter(t *testing.T) {
	m := loaded(t, okBuild(t))

	m, _ = update(t, m, runes("/"))
	require.True(t, m.filtering)
	m, _ = update(t, m, runes("b"))
	rows := m.legendRows()
	require.Len(t, rows, 1)
	assert.Equal(t, "B", rows[0].Route)

	m, _ = update(t, m, runes("A"))
	assert.Empty(t, m.legendRows())
	assert.Empty(t, m.mp.VisibleGroups(), "typing in the filter does not trigger check all")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.filtering)

	m, _ = update(t, m, runes("/"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Len(t, m.legendRows(), 2)
}

func TestZoomClamped(t *testing.T) {
	m := loaded(t, okBuild(t))
	assert.Equal(t, 6, m.vp.zoom)

	m, _ = update(t, m, runes("-"))
	assert.Equal(t, 6, m.vp.zoom)

	for i := 0; i < 5; i++ {
		m, _ = update(t, m, runes("+"))
	}
	assert.Equal(t, 8, m.vp.zoom)
}

func TestPanClamped(t *testing.T) {
	m := loaded(t, okBuild(t))
	before := m.vp.center
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, before, m.vp.center, "whole bounds visible at min zoom")

	m, _ = update(t, m, runes("+"))
	for i := 0; i < 20; i++ {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	}
	b := m.vp.box()
	assert.InDelta(t, 41.0, b.MaxLon, 1e-9)
	assert.True(t, m.vp.bounds.Contains(m.vp.center))
}

func TestHoverAndClick(t *testing.T) {
	m := loaded(t, okBuild(t))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})

	l := m.layout()
	a := group(t, m, "A")
	cx, cy := m.vp.toCell(a.Markers[0].At, l.mapW, l.mapH)
	x, y := cx+l.mapX, cy+l.mapY

	m, _ = update(t, m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion})
	require.NotNil(t, m.hoverMarker)
	assert.Equal(t, "X", m.hoverMarker.Info.Station)
	assert.Contains(t, m.View(), "Town: Unknown")

	m, _ = update(t, m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Contains(t, m.popup, "Station: X")
	assert.Contains(t, m.popup, "Route Distance (KM): 10")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, m.popup)

	m, _ = update(t, m, tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionMotion})
	assert.Nil(t, m.hoverMarker)
}

func TestHiddenRoutesAreNotHovered(t *testing.T) {
	m := loaded(t, okBuild(t))
	l := m.layout()
	a := group(t, m, "A")
	cx, cy := m.vp.toCell(a.Markers[0].At, l.mapW, l.mapH)

	m, _ = update(t, m, tea.MouseMsg{X: cx + l.mapX, Y: cy + l.mapY, Action: tea.MouseActionMotion})
	assert.Nil(t, m.hoverMarker)
}

func TestLegendClickToggles(t *testing.T) {
	m := loaded(t, okBuild(t))
	l := m.layout()

	m, _ = update(t, m, tea.MouseMsg{X: 2, Y: l.mapY + legendHeaderLines + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.True(t, group(t, m, "B").Visible)
	assert.Equal(t, 1, m.cursor)
}

func TestStationTable(t *testing.T) {
	m := loaded(t, okBuild(t))

	m, _ = update(t, m, runes("t"))
	require.True(t, m.showTable)
	assert.Len(t, m.tbl.Rows(), 2)
	assert.Equal(t, "X", m.tbl.Rows()[0][1])

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.showTable)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, runes("t"))
	assert.False(t, m.showTable, "B has no stations")
}

func TestBuildErrorAndRetry(t *testing.T) {
	calls := 0
	res := testResult(t)
	build := func(context.Context) (*app.Result, error) {
		calls++
		if calls == 1 {
			return nil, errors.Join(app.ErrStationsUnavailable, errors.New("open stations.csv: no such file"))
		}
		return res, nil
	}

	m := loaded(t, build)
	assert.Contains(t, m.alert, "could not load station data")
	assert.Nil(t, m.mp)
	assert.Contains(t, m.View(), "Error")

	m, cmd := update(t, m, runes("r"))
	require.NotNil(t, cmd)
	assert.True(t, m.loading)

	m, _ = update(t, m, cmd())
	assert.Empty(t, m.alert)
	require.NotNil(t, m.mp)
	assert.Equal(t, 2, calls)
}

func TestRebuildKeepsVisibleRoutes(t *testing.T) {
	m := loaded(t, func(context.Context) (*app.Result, error) { return testResult(t), nil })
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})

	m, cmd := update(t, m, runes("r"))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.True(t, group(t, m, "A").Visible)
	assert.False(t, group(t, m, "B").Visible)
}

func TestFit(t *testing.T) {
	m := loaded(t, okBuild(t))
	m, _ = update(t, m, runes("f"))
	b := m.vp.box()
	assert.True(t, b.Contains(geom.LatLon{Lat: 9.0, Lon: 38.0}))
	assert.True(t, b.Contains(geom.LatLon{Lat: 10.5, Lon: 40}))
}

func TestTerminalColor(t *testing.T) {
	assert.Equal(t, darkRouteColor, terminalColor(routes.DefaultFallbackColor))
	assert.Equal(t, darkRouteColor, terminalColor("#111"))
	assert.Equal(t, "#d32f2f", terminalColor("#d32f2f"))
	assert.Equal(t, "#FFA500", terminalColor("#FFA500"))
	assert.Equal(t, "not-a-color", terminalColor("not-a-color"))
}
