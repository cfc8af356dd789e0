package routes

import (
	"math"
	"strings"

	"routemap/internal/geom"
)

// UnknownRoute names rows and features that carry no route name.
const UnknownRoute = "Unknown"

// Candidate column names, tried in order.
var (
	RouteColumns         = []string{"Route"}
	LatitudeColumns      = []string{"Latitude", "lat", "Lat"}
	LongitudeColumns     = []string{"Longitude", "lon", "Lon"}
	StationColumns       = []string{"Station", "Station Name"}
	TownColumns          = []string{"Town Name", "Town", "TownName"}
	ElevationColumns     = []string{"Elevation_m", "Elevation (m)"}
	RouteDistanceColumns = []string{"Route Distance (KM)", "RouteDistanceKM", "Route_Distance_KM"}
	NextDistColumns      = []string{"NextDist_km", "NextDist"}
	PrevDistColumns      = []string{"PrevDist_km", "PrevDist"}
	SeqColumns           = []string{"StationSeq", "Seq"}
	LogoColumns          = []string{"Logo_URL", "logo"}
)

// StationRecord is one tabular row resolved against the candidate columns.
// Text fields keep the cell text as it appeared; empty means absent.
type StationRecord struct {
	Route string
	Lat   float64
	Lon   float64
	// HasCoords is false when either coordinate is missing or not finite.
	HasCoords bool

	Station       string
	Town          string
	Elevation     string
	Seq           string
	RouteDistance string
	NextDist      string
	PrevDist      string
	LogoURL       string

	// DistanceKM is the route distance parsed as a float, 0 when unparsable.
	DistanceKM float64
}

// RouteName resolves the route name of a row, "Unknown" when absent or empty.
func RouteName(row geom.Row) string {
	if v, ok := row.First(RouteColumns...); ok {
		if s := strings.TrimSpace(v.String()); s != "" {
			return s
		}
	}
	return UnknownRoute
}

// Records resolves every row; rows without usable coordinates are kept
// (they still count toward route stats) but flagged.
func Records(rows []geom.Row) []StationRecord {
	out := make([]StationRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, NewRecord(row))
	}
	return out
}

// NewRecord resolves one row against the candidate column lists.
func NewRecord(row geom.Row) StationRecord {
	rec := StationRecord{
		Route:         RouteName(row),
		Station:       text(row, StationColumns),
		Town:          text(row, TownColumns),
		Elevation:     text(row, ElevationColumns),
		Seq:           text(row, SeqColumns),
		RouteDistance: text(row, RouteDistanceColumns),
		NextDist:      text(row, NextDistColumns),
		PrevDist:      text(row, PrevDistColumns),
		LogoURL:       text(row, LogoColumns),
	}
	lat, latOK := float(row, LatitudeColumns)
	lon, lonOK := float(row, LongitudeColumns)
	if latOK && lonOK {
		rec.Lat, rec.Lon, rec.HasCoords = lat, lon, true
	}
	if d, ok := float(row, RouteDistanceColumns); ok {
		rec.DistanceKM = d
	}
	return rec
}

func text(row geom.Row, columns []string) string {
	if v, ok := row.First(columns...); ok {
		return v.String()
	}
	return ""
}

func float(row geom.Row, columns []string) (float64, bool) {
	v, ok := row.First(columns...)
	if !ok {
		return 0, false
	}
	f, ok := v.Float()
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
