package mapview

import (
	"fmt"

	"routemap/internal/geom"
	"routemap/internal/routes"
)

// Style holds the drawing constants for lines and station markers.
type Style struct {
	LineWeight        float64 `json:"lineWeight"`
	LineOpacity       float64 `json:"lineOpacity"`
	MarkerRadius      float64 `json:"markerRadius"`
	MarkerStroke      string  `json:"markerStroke"`
	MarkerWeight      float64 `json:"markerWeight"`
	MarkerFillOpacity float64 `json:"markerFillOpacity"`
}

var DefaultStyle = Style{
	LineWeight:        5,
	LineOpacity:       0.9,
	MarkerRadius:      7,
	MarkerStroke:      "#000",
	MarkerWeight:      1,
	MarkerFillOpacity: 0.95,
}

type Polyline struct {
	Points      routes.Segment `json:"points"`
	TooltipHTML string         `json:"tooltip"`
	TooltipText string         `json:"-"`
}

type Marker struct {
	At          geom.LatLon `json:"at"`
	Info        StationInfo `json:"-"`
	TooltipHTML string      `json:"tooltip"`
	PopupHTML   string      `json:"popup"`
}

// RouteGroup is every line and marker drawn for one route. Groups start hidden.
type RouteGroup struct {
	Name    string       `json:"name"`
	Color   string       `json:"color"`
	Stats   routes.Stats `json:"stats"`
	Visible bool         `json:"-"`
	Lines   []Polyline   `json:"lines"`
	Markers []Marker     `json:"markers"`
}

// Label is the legend text of the group.
func (g *RouteGroup) Label() string {
	return fmt.Sprintf("%s (%d stations)", g.Name, g.Stats.Stations)
}

// Map is the built scene: route groups in legend order plus the legend state.
type Map struct {
	Style  Style         `json:"style"`
	Groups []*RouteGroup `json:"groups"`
	Legend *Legend       `json:"-"`

	index map[string]*RouteGroup
}

// Build turns the joined sources into route groups and a legend. Records
// without coordinates get no marker.
func Build(agg *routes.Aggregate, records []routes.StationRecord, style Style) *Map {
	m := &Map{
		Style: style,
		index: make(map[string]*RouteGroup),
	}
	names := agg.AllNames()
	for _, name := range names {
		g := &RouteGroup{
			Name:  name,
			Color: agg.Color(name),
			Stats: agg.RouteStats(name),
		}
		for _, seg := range agg.Geometry[name] {
			g.Lines = append(g.Lines, Polyline{
				Points:      seg,
				TooltipHTML: routeTooltipHTML(name, g.Stats),
				TooltipText: routeTooltipText(name, g.Stats),
			})
		}
		m.Groups = append(m.Groups, g)
		m.index[name] = g
	}

	for _, rec := range records {
		if !rec.HasCoords {
			continue
		}
		g, ok := m.index[rec.Route]
		if !ok {
			continue
		}
		info := newStationInfo(rec)
		g.Markers = append(g.Markers, Marker{
			At:          geom.LatLon{Lat: rec.Lat, Lon: rec.Lon},
			Info:        info,
			TooltipHTML: info.TooltipHTML(),
			PopupHTML:   info.PopupHTML(),
		})
	}

	m.Legend = newLegend(m.Groups)
	return m
}

// Group looks a route group up by name.
func (m *Map) Group(name string) (*RouteGroup, bool) {
	g, ok := m.index[name]
	return g, ok
}

// VisibleGroups returns the groups currently on the map, in legend order.
func (m *Map) VisibleGroups() []*RouteGroup {
	var out []*RouteGroup
	for _, g := range m.Groups {
		if g.Visible {
			out = append(out, g)
		}
	}
	return out
}

// SetVisible shows or hides one route and keeps its checkbox in step.
// Unknown names are ignored.
func (m *Map) SetVisible(route string, on bool) {
	g, ok := m.index[route]
	if !ok {
		return
	}
	g.Visible = on
	if row := m.Legend.row(route); row != nil {
		row.Checked = on
	}
}

// Toggle flips one route and returns its new visibility.
func (m *Map) Toggle(route string) bool {
	g, ok := m.index[route]
	if !ok {
		return false
	}
	m.SetVisible(route, !g.Visible)
	return g.Visible
}

// SetAll shows or hides every route, including rows hidden by the filter.
func (m *Map) SetAll(on bool) {
	for _, g := range m.Groups {
		m.SetVisible(g.Name, on)
	}
}

// Bounds is the box around every line and marker.
func (m *Map) Bounds() (geom.BBox, bool) {
	var b geom.BBox
	found := false
	add := func(p geom.LatLon) {
		if !found {
			b = geom.BBox{MinLat: p.Lat, MinLon: p.Lon, MaxLat: p.Lat, MaxLon: p.Lon}
			found = true
			return
		}
		b.MinLat = min(b.MinLat, p.Lat)
		b.MaxLat = max(b.MaxLat, p.Lat)
		b.MinLon = min(b.MinLon, p.Lon)
		b.MaxLon = max(b.MaxLon, p.Lon)
	}
	for _, g := range m.Groups {
		for _, l := range g.Lines {
			for _, p := range l.Points {
				add(p)
			}
		}
		for _, mk := range g.Markers {
			add(mk.At)
		}
	}
	return b, found
}
