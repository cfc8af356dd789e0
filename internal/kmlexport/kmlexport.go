package kmlexport

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/twpayne/go-kml"

	"routemap/internal/mapview"
)

const (
	lineWidth   = 4
	markerScale = 0.8
)

func styleID(i int) string {
	return fmt.Sprintf("route-%d", i)
}

// parseColor accepts #rgb, #rgba, #rrggbb and #rrggbbaa.
func parseColor(s string) (colorful.Color, uint8, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 || len(hex) == 4 {
		var b strings.Builder
		for _, r := range hex {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		hex = b.String()
	}
	if len(hex) != 6 && len(hex) != 8 {
		return colorful.Color{}, 0, fmt.Errorf("color: %q is not a hex color", s)
	}
	if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
		return colorful.Color{}, 0, fmt.Errorf("color: %q is not a hex color", s)
	}
	alpha := uint8(0xff)
	if len(hex) == 8 {
		a, _ := strconv.ParseUint(hex[6:], 16, 8)
		alpha, hex = uint8(a), hex[:6]
	}
	c, err := colorful.Hex("#" + hex)
	return c, alpha, err
}

// colorElement writes c as aabbggrr with straight, not premultiplied, alpha.
func colorElement(c colorful.Color, alpha uint8) *kml.SimpleElement {
	el := kml.Color(c)
	if alpha != 0xff {
		r, g, b := c.RGB255()
		el.SetString(fmt.Sprintf("%02x%02x%02x%02x", alpha, b, g, r))
	}
	return el
}

// Write encodes every route group as a folder with one shared style per
// route, its lines as a MultiGeometry placemark and one placemark per station.
func Write(w io.Writer, m *mapview.Map) error {
	doc := kml.Document(kml.Name("Routes"))

	for i, g := range m.Groups {
		col, alpha, err := parseColor(g.Color)
		if err != nil {
			return fmt.Errorf("route %q: bad color %q: %w", g.Name, g.Color, err)
		}
		doc.Add(kml.SharedStyle(styleID(i),
			kml.LineStyle(kml.Width(lineWidth), colorElement(col, alpha)),
			kml.IconStyle(colorElement(col, alpha), kml.Scale(markerScale)),
		))
	}

	for i, g := range m.Groups {
		folder := kml.Folder(kml.Name(g.Label()))
		styleURL := "#" + styleID(i)

		if len(g.Lines) > 0 {
			lines := make([]kml.Element, 0, len(g.Lines))
			for _, l := range g.Lines {
				coords := make([]kml.Coordinate, 0, len(l.Points))
				for _, p := range l.Points {
					coords = append(coords, kml.Coordinate{Lon: p.Lon, Lat: p.Lat})
				}
				lines = append(lines, kml.LineString(kml.Coordinates(coords...)))
			}
			folder.Add(kml.Placemark(
				kml.Name(g.Name),
				kml.Description(fmt.Sprintf("Total Distance: %g km, Stations: %d", g.Stats.TotalKM, g.Stats.Stations)),
				kml.StyleURL(styleURL),
				kml.MultiGeometry(lines...),
			))
		}

		for _, mk := range g.Markers {
			folder.Add(kml.Placemark(
				kml.Name(mk.Info.Station),
				kml.Description(mk.PopupHTML),
				kml.StyleURL(styleURL),
				kml.Point(kml.Coordinates(kml.Coordinate{Lon: mk.At.Lon, Lat: mk.At.Lat})),
			))
		}
		doc.Add(folder)
	}

	return kml.KML(doc).WriteIndent(w, "", "  ")
}
