package tui

import (
	"context"

	table "github.com/charmbracelet/bubbles/table"
	textinput "github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"routemap/internal/app"
	"routemap/internal/config"
	"routemap/internal/geom"
	"routemap/internal/mapview"
)

// BuildFunc runs one build pass. The model calls it from a tea.Cmd.
type BuildFunc func(ctx context.Context) (*app.Result, error)

type Options struct {
	Build BuildFunc
	Map   config.MapConfig
	Log   *zap.Logger
}

type builtMsg struct {
	res *app.Result
	err error
}

type Model struct {
	width  int
	height int

	helpVisible bool
	status      string

	build BuildFunc
	log   *zap.Logger

	loading bool
	alert   string

	// Data
	res *app.Result
	mp  *mapview.Map

	vp viewport

	// legend
	cursor    int
	filter    textinput.Model
	filtering bool

	// hover state
	hovering    bool
	hoverHasGeo bool
	hoverAt     geom.LatLon
	hoverMarker *mapview.Marker
	hoverLine   *mapview.Polyline

	// click popup
	popup string

	// station table
	showTable bool
	tbl       table.Model
	tblRoute  string
}

func New(opts Options) Model {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	m := Model{
		helpVisible: true,
		status:      "routemap ready",
		build:       opts.Build,
		log:         log,
		loading:     opts.Build != nil,
		vp:          newViewport(opts.Map),
	}
	m.filter = textinput.New()
	m.filter.Placeholder = "filter routes"
	m.filter.Prompt = "/ "
	m.filter.CharLimit = 64

	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	return m
}

func (m Model) Init() tea.Cmd {
	return m.buildCmd()
}

func (m Model) buildCmd() tea.Cmd {
	if m.build == nil {
		return nil
	}
	build := m.build
	return func() tea.Msg {
		res, err := build(context.Background())
		return builtMsg{res: res, err: err}
	}
}
