package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"

	"routemap/internal/app"
	"routemap/internal/boundary"
	"routemap/internal/config"
	"routemap/internal/mapview"
)

//go:embed templates/index.html.tmpl
var templates embed.FS

var page = template.Must(template.ParseFS(templates, "templates/index.html.tmpl"))

// MapOptions is the Leaflet view setup the page script reads.
type MapOptions struct {
	Center      [2]float64    `json:"center"`
	Zoom        int           `json:"zoom"`
	MinZoom     int           `json:"minZoom"`
	MaxZoom     int           `json:"maxZoom"`
	MaxBounds   [2][2]float64 `json:"maxBounds"`
	TileURL     string        `json:"tileUrl"`
	Attribution string        `json:"attribution"`
	Style       mapview.Style `json:"style"`
}

// Data is serialized into the page script.
type Data struct {
	Options  MapOptions            `json:"options"`
	Groups   []*mapview.RouteGroup `json:"groups"`
	Boundary *boundary.Overlay     `json:"boundary,omitempty"`
}

// Page is everything the template renders.
type Page struct {
	Title    string
	Warnings []string
	Data     Data
}

// NewPage fills the page from a build result and the map settings.
func NewPage(res *app.Result, cfg config.MapConfig) Page {
	return Page{
		Title:    "Route Map",
		Warnings: res.Warnings,
		Data: Data{
			Options: MapOptions{
				Center:      [2]float64{cfg.CenterLat, cfg.CenterLon},
				Zoom:        cfg.Zoom,
				MinZoom:     cfg.MinZoom,
				MaxZoom:     cfg.MaxZoom,
				MaxBounds:   [2][2]float64{{cfg.BoundsSWLat, cfg.BoundsSWLon}, {cfg.BoundsNELat, cfg.BoundsNELon}},
				TileURL:     cfg.TileURL,
				Attribution: cfg.Attribution,
				Style:       res.Map.Style,
			},
			Groups:   res.Map.Groups,
			Boundary: res.Boundary,
		},
	}
}

// Render writes the self-contained Leaflet page.
func Render(w io.Writer, p Page) error {
	if err := page.Execute(w, p); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

// WriteFile renders the page to path, replacing any existing file.
func WriteFile(path string, p Page) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Render(f, p); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
