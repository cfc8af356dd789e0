package geom

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb/geojson"
)

// IsRemote reports whether src is an http(s) URL rather than a file path.
func IsRemote(src string) bool {
	u, err := url.Parse(src)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Open returns a reader over a local file or the body of an http(s) GET.
func Open(ctx context.Context, client *http.Client, src string) (io.ReadCloser, error) {
	if !IsRemote(src) {
		return os.Open(src)
	}
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", src, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: status %d", src, resp.StatusCode)
	}
	return resp.Body, nil
}

// ext returns the lower-cased extension of a path or of a URL's path.
func ext(src string) string {
	if IsRemote(src) {
		if u, err := url.Parse(src); err == nil {
			return strings.ToLower(path.Ext(u.Path))
		}
	}
	return strings.ToLower(filepath.Ext(src))
}

// LoadStations fetches and parses the tabular station source.
func LoadStations(ctx context.Context, client *http.Client, src string) ([]Row, error) {
	rc, err := Open(ctx, client, src)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return ParseStationsCSV(rc)
}

// LoadGeometry fetches the geometry source and parses it as KML or GeoJSON,
// chosen by extension. Unknown extensions are read as KML.
func LoadGeometry(ctx context.Context, client *http.Client, src string) (*geojson.FeatureCollection, error) {
	rc, err := Open(ctx, client, src)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	switch ext(src) {
	case ".geojson", ".json":
		return ParseGeoJSON(rc)
	default:
		return ParseKML(rc)
	}
}
