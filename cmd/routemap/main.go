package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/peterbourgon/ff/v3/ffcli"
	"go.uber.org/zap"

	"routemap/internal/app"
	"routemap/internal/config"
	"routemap/internal/kmlexport"
	"routemap/internal/pkg/logger"
	"routemap/internal/tui"
	"routemap/internal/web"
)

type runFunc func(ctx context.Context, cfg *config.Config, log *zap.Logger, args []string) error

func main() {
	var (
		rootFlagSet = flag.NewFlagSet("routemap", flag.ExitOnError)
		configFile  = rootFlagSet.String("config", "", "config file (yaml, json or toml)")
		stations    = rootFlagSet.String("stations", "", "station CSV path or URL")
		geometry    = rootFlagSet.String("geometry", "", "route KML or GeoJSON path or URL")
		logLevel    = rootFlagSet.String("log-level", "", "log level (debug, info, warn, error)")

		htmlFlagSet = flag.NewFlagSet("routemap html", flag.ExitOnError)
		htmlOut     = htmlFlagSet.String("out", "index.html", "output HTML file")

		kmlFlagSet = flag.NewFlagSet("routemap kml", flag.ExitOnError)
		kmlOut     = kmlFlagSet.String("out", "routes_styled.kml", "output KML file")
	)

	// withConfig loads config, applies flag overrides and sets up logging.
	// The terminal UI logs to a file so the screen stays clean.
	withConfig := func(logToFile bool, inner runFunc) func(context.Context, []string) error {
		return func(ctx context.Context, args []string) error {
			cfg, err := config.Load(*configFile)
			if err != nil {
				return err
			}
			if *stations != "" {
				cfg.Stations = *stations
			}
			if *geometry != "" {
				cfg.Geometry = *geometry
			}
			if *logLevel != "" {
				cfg.Log.Level = *logLevel
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			output := "stderr"
			if logToFile {
				output = cfg.Log.File
			}
			log, err := logger.New(cfg.Log.Level, output)
			if err != nil {
				return fmt.Errorf("failed to init logger: %w", err)
			}
			defer log.Sync()

			return inner(ctx, cfg, log, args)
		}
	}

	cmdView := &ffcli.Command{
		Name:       "view",
		ShortUsage: "routemap [flags] view",
		ShortHelp:  "browse routes in the terminal",
		Exec:       withConfig(true, view),
	}

	cmdHTML := &ffcli.Command{
		Name:       "html",
		ShortUsage: "routemap [flags] html [-out index.html]",
		ShortHelp:  "write a self-contained Leaflet page",
		FlagSet:    htmlFlagSet,
		Exec: withConfig(false, func(ctx context.Context, cfg *config.Config, log *zap.Logger, _ []string) error {
			res, err := app.Build(ctx, cfg, log)
			if err != nil {
				return err
			}
			if err := web.WriteFile(*htmlOut, web.NewPage(res, cfg.Map)); err != nil {
				return err
			}
			log.Info("page written", zap.String("path", *htmlOut))
			return nil
		}),
	}

	cmdKML := &ffcli.Command{
		Name:       "kml",
		ShortUsage: "routemap [flags] kml [-out routes_styled.kml]",
		ShortHelp:  "export routes as styled KML",
		FlagSet:    kmlFlagSet,
		Exec: withConfig(false, func(ctx context.Context, cfg *config.Config, log *zap.Logger, _ []string) error {
			res, err := app.Build(ctx, cfg, log)
			if err != nil {
				return err
			}
			f, err := os.Create(*kmlOut)
			if err != nil {
				return err
			}
			if err := kmlexport.Write(f, res.Map); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			log.Info("kml written", zap.String("path", *kmlOut))
			return nil
		}),
	}

	cmdStats := &ffcli.Command{
		Name:       "stats",
		ShortUsage: "routemap [flags] stats",
		ShortHelp:  "print per-route statistics",
		Exec:       withConfig(false, stats),
	}

	root := &ffcli.Command{
		ShortUsage:  "routemap [flags] <subcommand>",
		FlagSet:     rootFlagSet,
		Subcommands: []*ffcli.Command{cmdView, cmdHTML, cmdKML, cmdStats},
		Exec: func(context.Context, []string) error {
			return flag.ErrHelp
		},
	}

	if err := root.ParseAndRun(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func view(_ context.Context, cfg *config.Config, log *zap.Logger, _ []string) error {
	m := tui.New(tui.Options{
		Build: func(ctx context.Context) (*app.Result, error) { return app.Build(ctx, cfg, log) },
		Map:   cfg.Map,
		Log:   log,
	})
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}

func stats(ctx context.Context, cfg *config.Config, log *zap.Logger, _ []string) error {
	res, err := app.Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	t := table.New().Headers("Route", "Stations", "Total km", "Color", "Segments")
	for _, g := range res.Map.Groups {
		t.Row(g.Name,
			strconv.Itoa(g.Stats.Stations),
			strconv.FormatFloat(g.Stats.TotalKM, 'f', -1, 64),
			g.Color,
			strconv.Itoa(len(g.Lines)))
	}
	fmt.Println(t)
	for _, w := range res.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
	return nil
}
