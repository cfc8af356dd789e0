package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const kml = `<kml><Document><Placemark><name>A</name><LineString><coordinates>38,9 38.1,9.1</coordinates></LineString></Placemark></Document></kml>`

func TestLoad_Both(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "stations.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Route,Latitude,Longitude\nA,9,38\n"), 0644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(kml))
	}))
	defer srv.Close()

	res := Load(context.Background(), Sources{Stations: csvPath, Geometry: srv.URL + "/routes.kml", Client: srv.Client()})
	require.NoError(t, res.StationsErr)
	require.NoError(t, res.GeometryErr)
	assert.Len(t, res.Stations, 1)
	assert.Len(t, res.Geometry.Features, 1)
}

func TestLoad_IndependentFailures(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "stations.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Route\nA\n"), 0644))

	res := Load(context.Background(), Sources{Stations: csvPath, Geometry: filepath.Join(dir, "missing.kml")})
	assert.NoError(t, res.StationsErr)
	assert.Len(t, res.Stations, 1)
	assert.Error(t, res.GeometryErr)
	assert.Nil(t, res.Geometry)

	kmlPath := filepath.Join(dir, "routes.kml")
	require.NoError(t, os.WriteFile(kmlPath, []byte(kml), 0644))
	res = Load(context.Background(), Sources{Stations: filepath.Join(dir, "missing.csv"), Geometry: kmlPath})
	assert.Error(t, res.StationsErr)
	assert.NoError(t, res.GeometryErr)
	assert.NotNil(t, res.Geometry)
}

func TestLoad_NoGeometrySource(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "stations.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Route\nA\n"), 0644))

	res := Load(context.Background(), Sources{Stations: csvPath})
	assert.NoError(t, res.StationsErr)
	assert.NoError(t, res.GeometryErr)
	assert.Nil(t, res.Geometry)
}
