package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Stations      string         `mapstructure:"stations" validate:"required"`
	Geometry      string         `mapstructure:"geometry"`
	Palette       []string       `mapstructure:"palette" validate:"omitempty,dive,hexcolor"`
	FallbackColor string         `mapstructure:"fallback_color" validate:"hexcolor"`
	Map           MapConfig      `mapstructure:"map"`
	Boundary      BoundaryConfig `mapstructure:"boundary"`
	HTTPTimeout   time.Duration  `mapstructure:"http_timeout" validate:"gte=0"`
	Log           LogConfig      `mapstructure:"log"`
}

type MapConfig struct {
	CenterLat   float64 `mapstructure:"center_lat" validate:"gte=-90,lte=90"`
	CenterLon   float64 `mapstructure:"center_lon" validate:"gte=-180,lte=180"`
	Zoom        int     `mapstructure:"zoom" validate:"gtefield=MinZoom,ltefield=MaxZoom"`
	MinZoom     int     `mapstructure:"min_zoom" validate:"gte=0"`
	MaxZoom     int     `mapstructure:"max_zoom" validate:"gtefield=MinZoom,lte=22"`
	BoundsSWLat float64 `mapstructure:"bounds_sw_lat" validate:"gte=-90,lte=90"`
	BoundsSWLon float64 `mapstructure:"bounds_sw_lon" validate:"gte=-180,lte=180"`
	BoundsNELat float64 `mapstructure:"bounds_ne_lat" validate:"gtfield=BoundsSWLat,lte=90"`
	BoundsNELon float64 `mapstructure:"bounds_ne_lon" validate:"gtfield=BoundsSWLon,lte=180"`
	TileURL     string  `mapstructure:"tile_url" validate:"required"`
	Attribution string  `mapstructure:"attribution"`
}

type BoundaryConfig struct {
	Enabled   bool     `mapstructure:"enabled"`
	URL       string   `mapstructure:"url" validate:"required_if=Enabled true,omitempty,url"`
	Countries []string `mapstructure:"countries"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	File  string `mapstructure:"file"`
}

const EnvPrefix = "ROUTEMAP"

var ErrInvalid = errors.New("invalid config")

func setDefaults(v *viper.Viper) {
	v.SetDefault("stations", "routes_with_elevations.csv")
	v.SetDefault("geometry", "routes.kml")
	v.SetDefault("palette", []string{})
	v.SetDefault("fallback_color", "#000000")

	v.SetDefault("map.center_lat", 9.65)
	v.SetDefault("map.center_lon", 39.01)
	v.SetDefault("map.zoom", 6)
	v.SetDefault("map.min_zoom", 6)
	v.SetDefault("map.max_zoom", 12)
	v.SetDefault("map.bounds_sw_lat", 2.0)
	v.SetDefault("map.bounds_sw_lon", 32.0)
	v.SetDefault("map.bounds_ne_lat", 15.5)
	v.SetDefault("map.bounds_ne_lon", 48.5)
	v.SetDefault("map.tile_url", "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png")
	v.SetDefault("map.attribution", "&copy; OpenStreetMap contributors")

	v.SetDefault("boundary.enabled", true)
	v.SetDefault("boundary.url", "https://raw.githubusercontent.com/datasets/geo-countries/master/data/countries.geojson")
	v.SetDefault("boundary.countries", []string{"ethiopia", "djibouti"})

	v.SetDefault("http_timeout", 30*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "routemap.log")
}

// Load reads defaults, an optional .env file, an optional config file and
// ROUTEMAP_* environment variables, in increasing order of precedence.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Palette = splitList(cfg.Palette)
	cfg.Boundary.Countries = splitList(cfg.Boundary.Countries)
	return cfg, nil
}

// Validate checks field constraints after flags have been applied.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// splitList accepts both list values and a single comma-separated string,
// which is what environment variables provide.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		for _, p := range strings.Split(s, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}
