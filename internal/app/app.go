package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"routemap/internal/boundary"
	"routemap/internal/config"
	"routemap/internal/loader"
	"routemap/internal/mapview"
	"routemap/internal/routes"
)

var (
	ErrStationsUnavailable = errors.New("could not load station data")
	ErrBuildFailed         = errors.New("unexpected error while building the map")
)

// buildMap is swapped in tests.
var buildMap = mapview.Build

// Result is everything the front-ends draw from.
type Result struct {
	Map       *mapview.Map
	Aggregate *routes.Aggregate
	Records   []routes.StationRecord
	// Boundary is nil when disabled or when the fetch failed.
	Boundary *boundary.Overlay
	Warnings []string
}

// Build loads both sources and the boundary overlay concurrently, joins them
// and builds the map. Only a station source failure is fatal.
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("build panicked", zap.Any("panic", r), zap.Stack("stack"))
			res, err = nil, ErrBuildFailed
		}
	}()

	client := &http.Client{Timeout: cfg.HTTPTimeout}

	var (
		overlay    *boundary.Overlay
		overlayErr error
		wg         sync.WaitGroup
	)
	if cfg.Boundary.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f := boundary.NewFetcher(client, cfg.Boundary.URL, cfg.Boundary.Countries, log)
			overlay, overlayErr = f.Fetch(ctx)
		}()
	}

	loaded := loader.Load(ctx, loader.Sources{
		Stations: cfg.Stations,
		Geometry: cfg.Geometry,
		Client:   client,
	})
	wg.Wait()

	if loaded.StationsErr != nil {
		log.Error("stations failed", zap.String("source", cfg.Stations), zap.Error(loaded.StationsErr))
		return nil, fmt.Errorf("%w: %w", ErrStationsUnavailable, loaded.StationsErr)
	}

	res = &Result{}
	if loaded.GeometryErr != nil {
		log.Warn("geometry failed, continuing without route lines",
			zap.String("source", cfg.Geometry), zap.Error(loaded.GeometryErr))
		res.Warnings = append(res.Warnings, fmt.Sprintf("route geometry unavailable: %v", loaded.GeometryErr))
	}
	if overlayErr != nil {
		log.Warn("boundary overlay failed", zap.Error(overlayErr))
		res.Warnings = append(res.Warnings, fmt.Sprintf("country outlines unavailable: %v", overlayErr))
	}
	res.Boundary = overlay

	res.Records = routes.Records(loaded.Stations)
	res.Aggregate = routes.Join(res.Records, loaded.Geometry, cfg.Palette, cfg.FallbackColor)
	res.Map = buildMap(res.Aggregate, res.Records, mapview.DefaultStyle)

	log.Info("map built",
		zap.Int("rows", len(res.Records)),
		zap.Int("routes", len(res.Map.Groups)),
		zap.Int("geometry_only", len(res.Aggregate.GeometryOnly)),
		zap.Int("warnings", len(res.Warnings)))
	return res, nil
}
