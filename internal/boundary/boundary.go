package boundary

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"

	"routemap/internal/geom"
	"routemap/internal/routes"
)

// Style is how country outlines are drawn.
type Style struct {
	Color       string  `json:"color"`
	Weight      float64 `json:"weight"`
	Opacity     float64 `json:"opacity"`
	FillOpacity float64 `json:"fillOpacity"`
}

var DefaultStyle = Style{Color: "#000000", Weight: 2.5, Opacity: 0.95, FillOpacity: 0}

// NameProperties are the feature properties matched against the country list.
var NameProperties = []string{"ADMIN", "NAME"}

// Overlay is the set of selected country outlines.
type Overlay struct {
	Style    Style                      `json:"style"`
	Features *geojson.FeatureCollection `json:"features"`
	// Rings are the outline rings in (lat, lon) order.
	Rings []routes.Segment `json:"-"`
}

// Fetcher downloads country outlines and keeps the configured countries.
type Fetcher struct {
	client    *http.Client
	url       string
	countries map[string]struct{}
	log       *zap.Logger
}

// NewFetcher builds a Fetcher. Country names match case-insensitively.
func NewFetcher(client *http.Client, url string, countries []string, log *zap.Logger) *Fetcher {
	set := make(map[string]struct{}, len(countries))
	for _, c := range countries {
		set[strings.ToLower(strings.TrimSpace(c))] = struct{}{}
	}
	return &Fetcher{client: client, url: url, countries: set, log: log}
}

// Fetch downloads the countries collection and keeps the configured ones.
func (f *Fetcher) Fetch(ctx context.Context) (*Overlay, error) {
	f.log.Debug("fetching boundaries", zap.String("url", f.url))

	rc, err := geom.Open(ctx, f.client, f.url)
	if err != nil {
		return nil, fmt.Errorf("boundary: %w", err)
	}
	defer rc.Close()

	all, err := geom.ParseGeoJSON(rc)
	if err != nil {
		return nil, fmt.Errorf("boundary: %w", err)
	}

	ov := &Overlay{Style: DefaultStyle, Features: geojson.NewFeatureCollection()}
	for _, feat := range all.Features {
		if !f.match(feat) {
			continue
		}
		ov.Features.Append(feat)
		ov.Rings = appendRings(ov.Rings, feat.Geometry)
	}
	f.log.Info("boundaries loaded", zap.Int("features", len(ov.Features.Features)))
	return ov, nil
}

func (f *Fetcher) match(feat *geojson.Feature) bool {
	if feat == nil {
		return false
	}
	for _, key := range NameProperties {
		if s, ok := feat.Properties[key].(string); ok {
			if _, want := f.countries[strings.ToLower(s)]; want {
				return true
			}
		}
	}
	return false
}

func appendRings(out []routes.Segment, g orb.Geometry) []routes.Segment {
	switch g := g.(type) {
	case orb.Polygon:
		for _, r := range g {
			out = append(out, ringSegment(r))
		}
	case orb.MultiPolygon:
		for _, p := range g {
			out = appendRings(out, p)
		}
	case orb.Collection:
		for _, sub := range g {
			out = appendRings(out, sub)
		}
	}
	return out
}

func ringSegment(r orb.Ring) routes.Segment {
	seg := make(routes.Segment, len(r))
	for i, p := range r {
		seg[i] = geom.LatLon{Lat: p.Lat(), Lon: p.Lon()}
	}
	return seg
}
