package loader

import (
	"context"
	"net/http"
	"sync"

	"github.com/paulmach/orb/geojson"

	"routemap/internal/geom"
)

// Sources names where each input comes from: a local path or an http(s) URL.
// An empty Geometry source loads no geometry.
type Sources struct {
	Stations string
	Geometry string
	Client   *http.Client
}

// Result holds both outcomes; each side is either a value or its failure.
type Result struct {
	Stations    []geom.Row
	StationsErr error
	Geometry    *geojson.FeatureCollection
	GeometryErr error
}

// Load fetches and parses both sources concurrently and waits until both
// have settled. One failing never cancels the other.
func Load(ctx context.Context, src Sources) Result {
	var (
		res Result
		wg  sync.WaitGroup
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		res.Stations, res.StationsErr = geom.LoadStations(ctx, src.Client, src.Stations)
	}()

	if src.Geometry != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res.Geometry, res.GeometryErr = geom.LoadGeometry(ctx, src.Client, src.Geometry)
		}()
	}

	wg.Wait()
	return res
}
