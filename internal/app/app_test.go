package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"routemap/internal/config"
	"routemap/internal/mapview"
	"routemap/internal/routes"
)

const stationsCSV = `Route,lat,lon,Station,Elevation_m,Route Distance (KM)
A,9.0,38.0,X,2000,10
A,9.1,38.1,Y,2100,25
`

const routesKML = `<kml><Document>
<Placemark><name>B</name><MultiGeometry>
<LineString><coordinates>40,10 41,11</coordinates></LineString>
<LineString><coordinates>42,12 43,13</coordinates></LineString>
</MultiGeometry></Placemark>
</Document></kml>`

func testConfig(t *testing.T, stations, geometry string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Boundary.Enabled = false
	cfg.Stations = filepath.Join(dir, "stations.csv")
	cfg.Geometry = filepath.Join(dir, "routes.kml")
	if stations != "" {
		require.NoError(t, os.WriteFile(cfg.Stations, []byte(stations), 0644))
	}
	if geometry != "" {
		require.NoError(t, os.WriteFile(cfg.Geometry, []byte(geometry), 0644))
	}
	return cfg
}

func TestBuild(t *testing.T) {
	cfg := testConfig(t, stationsCSV, routesKML)
	res, err := Build(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	assert.Empty(t, res.Warnings)
	assert.Nil(t, res.Boundary)
	require.Len(t, res.Map.Groups, 2)

	a, _ := res.Map.Group("A")
	assert.Equal(t, routes.Stats{Stations: 2, TotalKM: 25}, a.Stats)
	assert.Len(t, a.Markers, 2)

	b, _ := res.Map.Group("B")
	assert.Len(t, b.Lines, 2)
	assert.Equal(t, "#000000", b.Color)
	assert.False(t, b.Visible)
}

func TestBuild_GeometryFailureIsWarning(t *testing.T) {
	cfg := testConfig(t, stationsCSV, "")
	res, err := Build(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "route geometry unavailable")
	assert.Len(t, res.Map.Groups, 1)
}

func TestBuild_StationsFailureIsFatal(t *testing.T) {
	cfg := testConfig(t, "", routesKML)
	_, err := Build(context.Background(), cfg, zap.NewNop())
	assert.ErrorIs(t, err, ErrStationsUnavailable)
}

func TestBuild_RecoversPanic(t *testing.T) {
	orig := buildMap
	buildMap = func(*routes.Aggregate, []routes.StationRecord, mapview.Style) *mapview.Map {
		var m map[string]int
		m["boom"]++
		return nil
	}
	defer func() { buildMap = orig }()

	cfg := testConfig(t, stationsCSV, routesKML)
	res, err := Build(context.Background(), cfg, zap.NewNop())
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrBuildFailed)
}
