package routes

import (
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"routemap/internal/geom"
)

// DefaultPalette is cycled in first-seen order of route names.
var DefaultPalette = []string{
	"#d32f2f", "#1976d2", "#2e7d32", "#6a1b9a", "#ef6c00",
	"#b71c1c", "#0d47a1", "#1b5e20", "#f57c00", "#263238",
	"#6d4c41", "#0b5394", "#00897b", "#7b1fa2", "#c2185b",
}

// DefaultFallbackColor is used for routes that only appear in the geometry source.
const DefaultFallbackColor = "#000000"

// NameProperties are the feature properties tried, in order, for a route name.
var NameProperties = []string{"name", "Name", "title"}

// Segment is one contiguous line in (lat, lon) order.
type Segment []geom.LatLon

// Stats holds per-route totals. TotalKM is the largest route distance seen
// on any of the route's rows, not a sum.
type Stats struct {
	Stations int     `json:"stations"`
	TotalKM  float64 `json:"total"`
}

// Aggregate is the joined view of both sources.
type Aggregate struct {
	Colors   map[string]string
	Stats    map[string]Stats
	Geometry map[string][]Segment
	// Names lists distinct tabular route names in first-seen order.
	Names []string
	// GeometryOnly lists geometry route names missing from the tabular source, in source order.
	GeometryOnly []string

	fallback string
}

// Color returns the route color, or the fallback for unknown routes.
func (a *Aggregate) Color(route string) string {
	if c, ok := a.Colors[route]; ok {
		return c
	}
	return a.fallback
}

// RouteStats returns the stats of a route; routes without rows get zero stats.
func (a *Aggregate) RouteStats(route string) Stats {
	return a.Stats[route]
}

// AllNames returns tabular names followed by geometry-only names.
func (a *Aggregate) AllNames() []string {
	out := make([]string, 0, len(a.Names)+len(a.GeometryOnly))
	out = append(out, a.Names...)
	return append(out, a.GeometryOnly...)
}

// Join groups station records and geometry features by route name.
// fc may be nil when the geometry source failed.
func Join(records []StationRecord, fc *geojson.FeatureCollection, palette []string, fallback string) *Aggregate {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	if fallback == "" {
		fallback = DefaultFallbackColor
	}
	a := &Aggregate{
		Colors:   make(map[string]string),
		Stats:    make(map[string]Stats),
		Geometry: make(map[string][]Segment),
		fallback: fallback,
	}

	for _, rec := range records {
		if _, seen := a.Colors[rec.Route]; !seen {
			a.Colors[rec.Route] = palette[len(a.Names)%len(palette)]
			a.Names = append(a.Names, rec.Route)
		}
		st := a.Stats[rec.Route]
		st.Stations++
		if rec.DistanceKM > st.TotalKM {
			st.TotalKM = rec.DistanceKM
		}
		a.Stats[rec.Route] = st
	}

	if fc == nil {
		return a
	}
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		segs := lineSegments(f.Geometry, nil)
		if len(segs) == 0 {
			continue
		}
		name := FeatureName(f)
		if _, known := a.Geometry[name]; !known {
			if _, tabular := a.Colors[name]; !tabular {
				a.GeometryOnly = append(a.GeometryOnly, name)
			}
		}
		a.Geometry[name] = append(a.Geometry[name], segs...)
	}
	return a
}

// FeatureName resolves a feature's route name from NameProperties, "Unknown" otherwise.
func FeatureName(f *geojson.Feature) string {
	for _, key := range NameProperties {
		if s, ok := f.Properties[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return UnknownRoute
}

// lineSegments flattens lines, multi-lines and (nested) collections into
// (lat, lon) segments. Points, polygons and empty lines contribute nothing.
func lineSegments(g orb.Geometry, out []Segment) []Segment {
	switch g := g.(type) {
	case orb.LineString:
		if len(g) > 0 {
			out = append(out, toSegment(g))
		}
	case orb.MultiLineString:
		for _, ls := range g {
			if len(ls) > 0 {
				out = append(out, toSegment(ls))
			}
		}
	case orb.Collection:
		for _, sub := range g {
			out = lineSegments(sub, out)
		}
	}
	return out
}

func toSegment(ls orb.LineString) Segment {
	seg := make(Segment, len(ls))
	for i, p := range ls {
		seg[i] = geom.LatLon{Lat: p.Lat(), Lon: p.Lon()}
	}
	return seg
}
