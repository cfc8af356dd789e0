package mapview

import (
	"fmt"
	"strconv"
	"strings"

	"routemap/internal/routes"
)

const notAvailable = "N/A"

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"<", "&lt;",
	">", "&gt;",
)

// EscapeHTML encodes &, <, > and " so data text can be placed in markup or attributes.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// OSMLink points OpenStreetMap at a station.
func OSMLink(lat, lon float64) string {
	la, lo := formatCoord(lat), formatCoord(lon)
	return fmt.Sprintf("https://www.openstreetmap.org/?mlat=%s&mlon=%s#map=15/%s/%s", la, lo, la, lo)
}

// GoogleLink points Google Maps at a station.
func GoogleLink(lat, lon float64) string {
	return fmt.Sprintf("https://www.google.com/maps?q=%s,%s", formatCoord(lat), formatCoord(lon))
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// StationInfo is what a marker shows on hover and on click.
type StationInfo struct {
	Route         string
	Station       string
	Town          string
	Elevation     string
	Seq           string
	RouteDistance string
	PrevDist      string
	NextDist      string
	LogoURL       string
	Lat, Lon      float64
}

func newStationInfo(rec routes.StationRecord) StationInfo {
	return StationInfo{
		Route:         rec.Route,
		Station:       rec.Station,
		Town:          rec.Town,
		Elevation:     rec.Elevation,
		Seq:           rec.Seq,
		RouteDistance: rec.RouteDistance,
		PrevDist:      rec.PrevDist,
		NextDist:      rec.NextDist,
		LogoURL:       rec.LogoURL,
		Lat:           rec.Lat,
		Lon:           rec.Lon,
	}
}

func (s StationInfo) town() string      { return orDefault(s.Town, "Unknown") }
func (s StationInfo) elevation() string { return orDefault(s.Elevation, notAvailable) }
func (s StationInfo) nextDist() string  { return orDefault(s.NextDist, notAvailable) }

func (s StationInfo) seqSuffix() string {
	if s.Seq == "" {
		return ""
	}
	return " (#" + s.Seq + ")"
}

// TooltipHTML is the hover label markup.
func (s StationInfo) TooltipHTML() string {
	var b strings.Builder
	b.WriteString(`<div style="font-size:14px;">`)
	fmt.Fprintf(&b, "<b>%s</b><br>", EscapeHTML(s.Station))
	fmt.Fprintf(&b, "Town: %s<br>", EscapeHTML(s.town()))
	fmt.Fprintf(&b, "Elevation: %s m<br>", EscapeHTML(s.elevation()))
	fmt.Fprintf(&b, "Next: %s km", EscapeHTML(s.nextDist()))
	b.WriteString("</div>")
	return b.String()
}

// PopupHTML is the click detail panel markup.
func (s StationInfo) PopupHTML() string {
	var b strings.Builder
	b.WriteString(`<div style="font-size:14px;">`)
	if s.LogoURL != "" {
		fmt.Fprintf(&b, `<div style="margin-bottom:6px;"><img src="%s" alt="logo" style="height:38px; object-fit:contain;"></div>`, EscapeHTML(s.LogoURL))
	}
	seq := ""
	if s.Seq != "" {
		seq = " (#" + EscapeHTML(s.Seq) + ")"
	}
	fmt.Fprintf(&b, "<b>Station:</b> %s%s<br>", EscapeHTML(s.Station), seq)
	fmt.Fprintf(&b, "<b>Route:</b> %s<br>", EscapeHTML(s.Route))
	fmt.Fprintf(&b, "<b>Town:</b> %s<br>", EscapeHTML(s.town()))
	fmt.Fprintf(&b, "<b>Elevation:</b> %s m<br>", EscapeHTML(s.elevation()))
	fmt.Fprintf(&b, "<b>Route Distance (KM):</b> %s<br>", EscapeHTML(orDefault(s.RouteDistance, notAvailable)))
	fmt.Fprintf(&b, "<b>PrevDist (km):</b> %s<br>", EscapeHTML(orDefault(s.PrevDist, notAvailable)))
	fmt.Fprintf(&b, "<b>NextDist (km):</b> %s<br>", EscapeHTML(s.nextDist()))
	fmt.Fprintf(&b, `<a href="%s" target="_blank">OpenStreetMap</a> | <a href="%s" target="_blank">Google Maps</a>`,
		EscapeHTML(OSMLink(s.Lat, s.Lon)), EscapeHTML(GoogleLink(s.Lat, s.Lon)))
	b.WriteString("</div>")
	return b.String()
}

// TooltipText is the hover label for plain-text surfaces.
func (s StationInfo) TooltipText() string {
	return strings.Join([]string{
		s.Station,
		"Town: " + s.town(),
		"Elevation: " + s.elevation() + " m",
		"Next: " + s.nextDist() + " km",
	}, "\n")
}

// PopupText is the detail panel for plain-text surfaces.
func (s StationInfo) PopupText() string {
	lines := []string{
		"Station: " + s.Station + s.seqSuffix(),
		"Route: " + s.Route,
		"Town: " + s.town(),
		"Elevation: " + s.elevation() + " m",
		"Route Distance (KM): " + orDefault(s.RouteDistance, notAvailable),
		"PrevDist (km): " + orDefault(s.PrevDist, notAvailable),
		"NextDist (km): " + s.nextDist(),
		"OpenStreetMap: " + OSMLink(s.Lat, s.Lon),
		"Google Maps: " + GoogleLink(s.Lat, s.Lon),
	}
	if s.LogoURL != "" {
		lines = append(lines, "Logo: "+s.LogoURL)
	}
	return strings.Join(lines, "\n")
}

// routeTooltipHTML labels a route line on hover.
func routeTooltipHTML(name string, st routes.Stats) string {
	return fmt.Sprintf(`<div style="font-size:14px; font-weight:500;"><b>Route:</b> %s<br><b>Total Distance:</b> %s km<br><b>Stations:</b> %d</div>`,
		EscapeHTML(name), formatCoord(st.TotalKM), st.Stations)
}

func routeTooltipText(name string, st routes.Stats) string {
	return fmt.Sprintf("Route: %s\nTotal Distance: %s km\nStations: %d", name, formatCoord(st.TotalKM), st.Stations)
}
