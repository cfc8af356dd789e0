package geom

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

type kmlCoords struct {
	Coordinates string `xml:"coordinates"`
}

type kmlPolygon struct {
	Outer  string   `xml:"outerBoundaryIs>LinearRing>coordinates"`
	Inners []string `xml:"innerBoundaryIs>LinearRing>coordinates"`
}

// kmlGeometry is shared by Placemark and MultiGeometry, which nests.
type kmlGeometry struct {
	Points      []kmlCoords   `xml:"Point"`
	LineStrings []kmlCoords   `xml:"LineString"`
	Polygons    []kmlPolygon  `xml:"Polygon"`
	Multi       []kmlGeometry `xml:"MultiGeometry"`
}

type kmlData struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value"`
}

type kmlSimpleData struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

type kmlPlacemark struct {
	Name        string          `xml:"name"`
	Description string          `xml:"description"`
	Data        []kmlData       `xml:"ExtendedData>Data"`
	SimpleData  []kmlSimpleData `xml:"ExtendedData>SchemaData>SimpleData"`
	kmlGeometry
}

// ParseKML converts every Placemark in a KML document, wherever it is nested,
// into a GeoJSON feature. Coordinates stay in the KML (lon, lat) order.
// A MultiGeometry made only of lines becomes a MultiLineString; any other
// MultiGeometry becomes a GeometryCollection, nesting preserved.
func ParseKML(r io.Reader) (*geojson.FeatureCollection, error) {
	dec := xml.NewDecoder(r)
	fc := geojson.NewFeatureCollection()
	sawRoot := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("kml: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if !sawRoot {
			sawRoot = true
			if se.Name.Local != "kml" && se.Name.Local != "Document" {
				return nil, fmt.Errorf("kml: unexpected root element <%s>", se.Name.Local)
			}
		}
		if se.Name.Local != "Placemark" {
			continue
		}
		var pm kmlPlacemark
		if err := dec.DecodeElement(&pm, &se); err != nil {
			return nil, fmt.Errorf("kml placemark: %w", err)
		}
		fc.Append(pm.feature())
	}
	if !sawRoot {
		return nil, errors.New("kml: empty document")
	}
	return fc, nil
}

func (pm kmlPlacemark) feature() *geojson.Feature {
	f := geojson.NewFeature(pm.geometry())
	if name := strings.TrimSpace(pm.Name); name != "" {
		f.Properties["name"] = name
	}
	if desc := strings.TrimSpace(pm.Description); desc != "" {
		f.Properties["description"] = desc
	}
	for _, d := range pm.Data {
		if d.Name != "" {
			f.Properties[d.Name] = strings.TrimSpace(d.Value)
		}
	}
	for _, d := range pm.SimpleData {
		if d.Name != "" {
			f.Properties[d.Name] = strings.TrimSpace(d.Value)
		}
	}
	return f
}

func (pm kmlPlacemark) geometry() orb.Geometry {
	parts := pm.kmlGeometry.parts()
	switch len(parts) {
	case 0:
		return nil
	case 1:
		return parts[0]
	}
	return orb.Collection(parts)
}

// parts returns the geometries directly under g; a nested MultiGeometry is one part.
func (g kmlGeometry) parts() []orb.Geometry {
	var out []orb.Geometry
	for _, p := range g.Points {
		if ls := parseCoordinates(p.Coordinates); len(ls) > 0 {
			out = append(out, ls[0])
		}
	}
	for _, l := range g.LineStrings {
		out = append(out, parseCoordinates(l.Coordinates))
	}
	for _, p := range g.Polygons {
		poly := orb.Polygon{orb.Ring(parseCoordinates(p.Outer))}
		for _, in := range p.Inners {
			poly = append(poly, orb.Ring(parseCoordinates(in)))
		}
		out = append(out, poly)
	}
	for _, m := range g.Multi {
		sub := m.parts()
		if len(sub) == 0 {
			continue
		}
		if mls, ok := onlyLines(sub); ok {
			out = append(out, mls)
			continue
		}
		out = append(out, orb.Collection(sub))
	}
	return out
}

func onlyLines(gs []orb.Geometry) (orb.MultiLineString, bool) {
	mls := make(orb.MultiLineString, 0, len(gs))
	for _, g := range gs {
		ls, ok := g.(orb.LineString)
		if !ok {
			return nil, false
		}
		mls = append(mls, ls)
	}
	return mls, true
}

// parseCoordinates reads "lon,lat[,alt]" tuples separated by whitespace; altitude is dropped.
func parseCoordinates(s string) orb.LineString {
	var ls orb.LineString
	for _, tuple := range strings.Fields(s) {
		vals := strings.Split(tuple, ",")
		if len(vals) < 2 {
			continue
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		ls = append(ls, orb.Point{lon, lat})
	}
	return ls
}
