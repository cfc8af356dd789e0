package tui

import (
	"math"
	"strings"

	"routemap/internal/config"
	"routemap/internal/geom"
	"routemap/internal/mapview"
)

// viewport is the visible window: a center and a zoom level kept inside the
// max bounds. At the minimum zoom the whole bounds box is visible; each
// level halves the span.
type viewport struct {
	center  geom.LatLon
	zoom    int
	minZoom int
	maxZoom int
	bounds  geom.BBox
}

func newViewport(c config.MapConfig) viewport {
	v := viewport{
		center:  geom.LatLon{Lat: c.CenterLat, Lon: c.CenterLon},
		zoom:    c.Zoom,
		minZoom: c.MinZoom,
		maxZoom: c.MaxZoom,
		bounds:  geom.BBox{MinLat: c.BoundsSWLat, MinLon: c.BoundsSWLon, MaxLat: c.BoundsNELat, MaxLon: c.BoundsNELon},
	}
	if !v.bounds.Valid() {
		v.bounds = geom.BBox{MinLat: -85, MinLon: -180, MaxLat: 85, MaxLon: 180}
	}
	if v.maxZoom < v.minZoom {
		v.maxZoom = v.minZoom
	}
	v.clamp()
	return v
}

func (v viewport) span() (lat, lon float64) {
	f := math.Pow(2, float64(v.zoom-v.minZoom))
	return (v.bounds.MaxLat - v.bounds.MinLat) / f, (v.bounds.MaxLon - v.bounds.MinLon) / f
}

func (v viewport) box() geom.BBox {
	latSpan, lonSpan := v.span()
	return geom.BBox{
		MinLat: v.center.Lat - latSpan/2,
		MaxLat: v.center.Lat + latSpan/2,
		MinLon: v.center.Lon - lonSpan/2,
		MaxLon: v.center.Lon + lonSpan/2,
	}
}

// clamp keeps the zoom in range and the visible box inside the bounds.
func (v *viewport) clamp() {
	v.zoom = max(v.minZoom, min(v.maxZoom, v.zoom))
	latSpan, lonSpan := v.span()
	v.center.Lat = clampf(v.center.Lat, v.bounds.MinLat+latSpan/2, v.bounds.MaxLat-latSpan/2)
	v.center.Lon = clampf(v.center.Lon, v.bounds.MinLon+lonSpan/2, v.bounds.MaxLon-lonSpan/2)
}

func (v *viewport) zoomBy(d int) bool {
	before := v.zoom
	v.zoom += d
	v.clamp()
	return v.zoom != before
}

// pan moves the center by fractions of the visible span.
func (v *viewport) pan(fLat, fLon float64) {
	latSpan, lonSpan := v.span()
	v.center.Lat += fLat * latSpan
	v.center.Lon += fLon * lonSpan
	v.clamp()
}

// fit centers on b at the deepest zoom whose span still contains it.
func (v *viewport) fit(b geom.BBox) {
	v.center = geom.LatLon{Lat: (b.MinLat + b.MaxLat) / 2, Lon: (b.MinLon + b.MaxLon) / 2}
	v.zoom = v.minZoom
	for v.zoom < v.maxZoom {
		v.zoom++
		latSpan, lonSpan := v.span()
		if latSpan < b.MaxLat-b.MinLat || lonSpan < b.MaxLon-b.MinLon {
			v.zoom--
			break
		}
	}
	v.clamp()
}

// toMicro maps a coordinate onto the 2x4 braille microgrid of a w x h cell canvas.
func (v viewport) toMicro(p geom.LatLon, w, h int) (int, int) {
	b := v.box()
	nx := (p.Lon - b.MinLon) / (b.MaxLon - b.MinLon)
	ny := (p.Lat - b.MinLat) / (b.MaxLat - b.MinLat)
	return int(math.Round(nx * float64(w*2-1))), int(math.Round((1 - ny) * float64(h*4-1)))
}

func (v viewport) toCell(p geom.LatLon, w, h int) (int, int) {
	mx, my := v.toMicro(p, w, h)
	return floorDiv(mx, 2), floorDiv(my, 4)
}

// fromCell converts a canvas cell back to the coordinate at its center.
func (v viewport) fromCell(cx, cy, w, h int) geom.LatLon {
	b := v.box()
	nx := (float64(cx) + 0.5) / float64(w)
	ny := 1 - (float64(cy)+0.5)/float64(h)
	return geom.LatLon{
		Lat: b.MinLat + ny*(b.MaxLat-b.MinLat),
		Lon: b.MinLon + nx*(b.MaxLon-b.MinLon),
	}
}

func (m Model) renderMap(w, h int) string {
	cv := newCanvas(w, h)
	if m.mp == nil {
		return cv.String()
	}

	if m.res != nil && m.res.Boundary != nil {
		for _, ring := range m.res.Boundary.Rings {
			m.drawPath(cv, ring, boundaryColor, w, h)
		}
	}

	groups := m.mp.VisibleGroups()
	for _, g := range groups {
		col := terminalColor(g.Color)
		for _, l := range g.Lines {
			m.drawPath(cv, l.Points, col, w, h)
		}
	}
	for _, g := range groups {
		col := terminalColor(g.Color)
		for _, mk := range g.Markers {
			cx, cy := m.vp.toCell(mk.At, w, h)
			cv.setGlyph(cx, cy, markerGlyph, col)
		}
	}

	if m.hoverMarker != nil {
		cx, cy := m.vp.toCell(m.hoverMarker.At, w, h)
		cv.setGlyph(cx, cy, hoverGlyph, hoverColor)
	}
	return cv.String()
}

func (m Model) drawPath(cv *canvas, pts []geom.LatLon, color string, w, h int) {
	var prev *[2]int
	for _, p := range pts {
		mx, my := m.vp.toMicro(p, w, h)
		if prev != nil {
			cv.drawLineMicro(prev[0], prev[1], mx, my, color)
		} else {
			cv.setPixel(mx, my, color)
		}
		prev = &[2]int{mx, my}
	}
}

// nearestMarker returns the visible station closest to a canvas cell, if
// one is drawn within reach cells of it.
func (m Model) nearestMarker(cx, cy, w, h, reach int) *mapview.Marker {
	if m.mp == nil {
		return nil
	}
	var best *mapview.Marker
	bestD := reach*reach + 1
	for _, g := range m.mp.VisibleGroups() {
		for i := range g.Markers {
			mk := &g.Markers[i]
			x, y := m.vp.toCell(mk.At, w, h)
			dx, dy := x-cx, y-cy
			if d := dx*dx + dy*dy; d < bestD {
				bestD = d
				best = mk
			}
		}
	}
	return best
}

// nearestLine returns the visible route line with a vertex within reach
// cells of a canvas cell.
func (m Model) nearestLine(cx, cy, w, h, reach int) *mapview.Polyline {
	if m.mp == nil {
		return nil
	}
	var best *mapview.Polyline
	bestD := reach*reach + 1
	for _, g := range m.mp.VisibleGroups() {
		for i := range g.Lines {
			l := &g.Lines[i]
			for _, p := range l.Points {
				x, y := m.vp.toCell(p, w, h)
				dx, dy := x-cx, y-cy
				if d := dx*dx + dy*dy; d < bestD {
					bestD = d
					best = l
				}
			}
		}
	}
	return best
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
