package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "routes_with_elevations.csv", cfg.Stations)
	assert.Equal(t, "routes.kml", cfg.Geometry)
	assert.Empty(t, cfg.Palette)
	assert.Equal(t, "#000000", cfg.FallbackColor)
	assert.Equal(t, 9.65, cfg.Map.CenterLat)
	assert.Equal(t, 6, cfg.Map.MinZoom)
	assert.Equal(t, 12, cfg.Map.MaxZoom)
	assert.Equal(t, 48.5, cfg.Map.BoundsNELon)
	assert.True(t, cfg.Boundary.Enabled)
	assert.Equal(t, []string{"ethiopia", "djibouti"}, cfg.Boundary.Countries)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "routemap.log", cfg.Log.File)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routemap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
stations: data/stations.csv
palette: ["#ff0000", "#00ff00"]
map:
  zoom: 8
boundary:
  countries: [kenya]
http_timeout: 5s
`), 0644))
	t.Setenv("ROUTEMAP_GEOMETRY", "https://example.com/routes.kml")
	t.Setenv("ROUTEMAP_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "data/stations.csv", cfg.Stations)
	assert.Equal(t, "https://example.com/routes.kml", cfg.Geometry)
	assert.Equal(t, []string{"#ff0000", "#00ff00"}, cfg.Palette)
	assert.Equal(t, 8, cfg.Map.Zoom)
	assert.Equal(t, []string{"kenya"}, cfg.Boundary.Countries)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func(t *testing.T) *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"bad palette entry", func(c *Config) { c.Palette = []string{"#ff0000", "red"} }},
		{"no stations", func(c *Config) { c.Stations = "" }},
		{"zoom below min", func(c *Config) { c.Map.Zoom = 3 }},
		{"max below min", func(c *Config) { c.Map.MaxZoom = 4 }},
		{"inverted bounds", func(c *Config) { c.Map.BoundsNELat = 1 }},
		{"bad fallback", func(c *Config) { c.FallbackColor = "black" }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base(t)
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"#fff", "#000", "#123456"}, splitList([]string{"#fff, #000", " #123456 ", ""}))
}
